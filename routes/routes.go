package routes

import (
	"time"

	"pbl-review/constants"
	authController "pbl-review/controllers/auth"
	dashboardController "pbl-review/controllers/dashboard"
	evaluationController "pbl-review/controllers/evaluation"
	externalController "pbl-review/controllers/external"
	groupController "pbl-review/controllers/group"
	mentorController "pbl-review/controllers/mentor"
	postController "pbl-review/controllers/post"
	studentController "pbl-review/controllers/student"
	"pbl-review/controllers/user"
	"pbl-review/logger"
	"pbl-review/middleware"
	"pbl-review/services/mail"
	otpService "pbl-review/services/otp"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)

	otpSvc := otpService.NewOTPService(db, mail.FromEnv())

	authCtrl := authController.NewAuthController(db, asyncLogger)
	studentCtrl := studentController.NewStudentController(db, asyncLogger)
	groupCtrl := groupController.NewGroupController(db, asyncLogger)
	mentorCtrl := mentorController.NewMentorController(db, asyncLogger)
	externalCtrl := externalController.NewExternalController(db, otpSvc, asyncLogger)
	evaluationCtrl := evaluationController.NewEvaluationController(db, asyncLogger)
	dashboardCtrl := dashboardController.NewDashboardController(db, asyncLogger)
	postCtrl := postController.NewPostController(db, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Expired OTP sessions are purged in the background.
	otpSvc.StartCleanup(5 * time.Minute)

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "pbl-review",
			"status":  "ok",
		})
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Post("/login", authCtrl.Login)
	api.Post("/register", authCtrl.Register)

	/*=============================================================================
	| Protected Routes
	===============================================================================*/
	auth := api.Group("/auth").Use(middleware.RequireAnyPermission())
	auth.Post("/register", authCtrl.Register)
	auth.Get("/profile", user.GetUserInfo)
	auth.Post("/logout", authCtrl.LogOut)

	/*=============================================================================
	| Student Routes
	===============================================================================*/
	students := api.Group("/students")
	students.Post("/", middleware.RequirePermissions(constants.StaffPermissions...), studentCtrl.Store)
	students.Get("/", middleware.RequireAnyPermission(), studentCtrl.Index)
	students.Get("/:enrollmentNo", middleware.RequireAnyPermission(), studentCtrl.Show)
	students.Put("/:enrollmentNo", middleware.RequirePermissions(constants.StaffPermissions...), studentCtrl.Update)
	students.Delete("/:enrollmentNo", middleware.RequirePermissions(constants.PermAdminFull), studentCtrl.Destroy)

	/*=============================================================================
	| Group Routes
	===============================================================================*/
	groups := api.Group("/groups")
	groups.Post("/", middleware.RequirePermissions(constants.StaffPermissions...), groupCtrl.Store)
	groups.Get("/", middleware.RequireAnyPermission(), groupCtrl.Index)
	groups.Get("/:groupID", middleware.RequireAnyPermission(), groupCtrl.Show)
	groups.Put("/:groupID", middleware.RequirePermissions(constants.StaffPermissions...), groupCtrl.Update)
	groups.Delete("/:groupID", middleware.RequirePermissions(constants.PermAdminFull), groupCtrl.Destroy)

	// Join-request workflow
	groups.Post("/join-request", middleware.RequirePermissions(constants.PermStudentFull), groupCtrl.RequestJoin)
	groups.Get("/join-requests/list", middleware.RequirePermissions(constants.StaffPermissions...), groupCtrl.ListJoinRequests)
	groups.Post("/join-requests/decide", middleware.RequirePermissions(constants.StaffPermissions...), groupCtrl.DecideJoinRequest)

	/*=============================================================================
	| Mentor Routes
	===============================================================================*/
	mentors := api.Group("/mentors")
	mentors.Post("/", middleware.RequirePermissions(constants.PermAdminFull), mentorCtrl.Store)
	mentors.Get("/", middleware.RequireAnyPermission(), mentorCtrl.Index)
	mentors.Get("/:id", middleware.RequireAnyPermission(), mentorCtrl.Show)
	mentors.Put("/:id", middleware.RequirePermissions(constants.PermAdminFull), mentorCtrl.Update)
	mentors.Delete("/:id", middleware.RequirePermissions(constants.PermAdminFull), mentorCtrl.Destroy)

	/*=============================================================================
	| External Evaluator Routes
	===============================================================================*/
	externals := api.Group("/externals")
	externals.Post("/", middleware.RequirePermissions(constants.PermAdminFull), externalCtrl.Store)
	externals.Get("/", middleware.RequirePermissions(constants.StaffPermissions...), externalCtrl.Index)
	externals.Get("/:externalID", middleware.RequirePermissions(constants.StaffPermissions...), externalCtrl.Show)
	externals.Delete("/:externalID", middleware.RequirePermissions(constants.PermAdminFull), externalCtrl.Destroy)

	// OTP-gated onboarding
	pbl3 := api.Group("/pbl3")
	pbl3.Post("/send-external-otp", middleware.RequirePermissions(constants.StaffPermissions...), externalCtrl.SendOTP)
	pbl3.Post("/verify-external-otp", middleware.RequirePermissions(constants.StaffPermissions...), externalCtrl.VerifyOTP)
	pbl3.Post("/resend-external-otp", middleware.RequirePermissions(constants.StaffPermissions...), externalCtrl.ResendOTP)

	/*=============================================================================
	| Evaluation Routes
	===============================================================================*/
	evaluations := api.Group("/evaluation")
	evaluations.Post("/save", middleware.RequirePermissions(constants.EvaluatorPermissions...), evaluationCtrl.Save)
	evaluations.Get("/export", middleware.RequirePermissions(constants.StaffPermissions...), evaluationCtrl.Export)
	evaluations.Get("/list", middleware.RequirePermissions(constants.StaffPermissions...), evaluationCtrl.Index)
	evaluations.Post("/parse-sheet", middleware.RequirePermissions(constants.EvaluatorPermissions...), evaluationCtrl.ParseMarksSheet)
	evaluations.Get("/:groupID", middleware.RequireAnyPermission(), evaluationCtrl.ShowByGroup)

	// Legacy path kept for existing clients
	api.Post("/save-evaluation", middleware.RequirePermissions(constants.EvaluatorPermissions...), evaluationCtrl.Save)

	/*=============================================================================
	| Dashboard Routes
	===============================================================================*/
	api.Get("/dashboard", middleware.RequirePermissions(constants.StaffPermissions...), dashboardCtrl.Summary)

	/*=============================================================================
	| Post & Announcement Routes
	===============================================================================*/
	posts := api.Group("/posts")
	posts.Post("/", middleware.RequireAnyPermission(), postCtrl.Store)
	posts.Get("/", middleware.RequireAuthentication(), postCtrl.Index)
	posts.Get("/:id", middleware.RequireAuthentication(), postCtrl.Show)
	posts.Delete("/:id", middleware.RequireAnyPermission(), postCtrl.Destroy)

	announcements := api.Group("/announcements")
	announcements.Post("/", middleware.RequirePermissions(constants.StaffPermissions...), postCtrl.StoreAnnouncement)
	announcements.Get("/", middleware.RequireAuthentication(), postCtrl.IndexAnnouncements)
	announcements.Delete("/:id", middleware.RequirePermissions(constants.PermAdminFull), postCtrl.DestroyAnnouncement)
}
