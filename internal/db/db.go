package db

import (
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"axiom/internal/config"
	"axiom/internal/model"
)

// InitDB opens the database connection and migrates the schema.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	charset := cfg.Database.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		charset,
	)

	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := gdb.AutoMigrate(
		&model.Experiment{},
		&model.ExperimentRun{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	log.Println("database initialized")
	return gdb, nil
}
