package database

import (
	"fmt"

	"github.com/thisisniagahub/quran-agent/internal/config"
	"github.com/thisisniagahub/quran-agent/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the snapshot database and migrates its single table.
// Only the learner-store persistence hook touches this connection; the
// evaluation core itself never performs I/O.
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&model.LearnerSnapshot{}); err != nil {
		return nil, err
	}

	return db, nil
}
