package logger

import (
	"testing"
	"time"

	log_model "pbl-review/models/log"
	"pbl-review/types"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestAsyncLoggerPersistsEntries(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&log_model.Log{}))

	asyncLogger := NewAsyncLogger(db)
	go asyncLogger.ProcessLog()

	asyncLogger.Log(types.LogEntry{
		Method:     "POST",
		URL:        "/api/students",
		StatusCode: 201,
		CreatedAt:  time.Now(),
	})

	var stored log_model.Log
	require.Eventually(t, func() bool {
		return db.First(&stored).Error == nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "POST", stored.Method)
	assert.Equal(t, "/api/students", stored.URL)
	assert.Equal(t, 201, stored.StatusCode)
}
