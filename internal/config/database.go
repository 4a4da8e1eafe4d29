package config

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/cold-mail-generator/internal/models"
)

// InitDatabase opens the Postgres connection pool and migrates the job and
// portfolio tables.
func InitDatabase(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.Server.Env)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s@%s:%s: %w",
			cfg.Database.DBName, cfg.Database.Host, cfg.Database.Port, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Printf("✅ Database %s connected on %s:%s\n", cfg.Database.DBName, cfg.Database.Host, cfg.Database.Port)

	if err := db.AutoMigrate(migratedModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate jobs and portfolio_items: %w", err)
	}

	log.Println("✅ Database migration completed")

	return db, nil
}

func migratedModels() []interface{} {
	return []interface{}{
		&models.Job{},
		&models.PortfolioItem{},
	}
}

// gormLogLevel logs every query in development only.
func gormLogLevel(env string) logger.LogLevel {
	if env == "development" {
		return logger.Info
	}
	return logger.Silent
}
