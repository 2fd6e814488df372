// file: database/connect.go
package database

import (
	"time"

	"NovaCTF/config"
	"NovaCTF/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Connect 建立 MySQL 连接并配置连接池，句柄由调用方持有并注入各服务
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SetConnMaxLifetime 设为 1 小时，避免 MySQL wait_timeout 导致的失效连接
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate 同步表结构。提交表上的 (user_id, challenge_id) 唯一索引是
// 计分幂等性的底线约束，必须随建表一起创建
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Challenge{},
		&models.Submission{},
		&models.SubmissionLog{},
		&models.UserBadge{},
	)
}
