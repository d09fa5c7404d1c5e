package config

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go.uber.org/zap"
)

// DB متغیر برای دسترسی به دیتابیس
var DB *gorm.DB

// InitDB اتصال به دیتابیس MySQL را راه‌اندازی می‌کند
func InitDB(dsn string) {
	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		Logger.Fatal("Error connecting to the database", zap.Error(err))
	}
	Logger.Info("✅ Database connected")
}
