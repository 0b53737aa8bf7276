package config

import (
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance
var DB *gorm.DB

// ConnectDatabase establishes connection to MySQL database. The search
// query relies on window functions, so MySQL 8 or newer is required.
func ConnectDatabase(cfg *Config, zl *zap.Logger) (*gorm.DB, error) {
	dsn := buildDSN(cfg.Database, cfg.Search.Location)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:                 newGormLogger(cfg, zl),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set global DB instance
	DB = db

	zl.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("port", cfg.Database.Port),
		zap.String("db", cfg.Database.DBName),
	)

	return db, nil
}

// newGormLogger routes gorm's SQL log through zap; dev logs every
// statement, prod only errors
func newGormLogger(cfg *Config, zl *zap.Logger) logger.Interface {
	level := logger.Error
	if cfg.IsDev() {
		level = logger.Info
	}
	return logger.New(
		zap.NewStdLog(zl.Named("gorm")),
		logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// buildDSN returns the database connection string. DATETIME values are
// read and written in loc, the zone date filters truncate in.
func buildDSN(d DatabaseConfig, loc *time.Location) string {
	zone := "Local"
	if loc != nil {
		zone = loc.String()
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=%s",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.DBName,
		url.QueryEscape(zone),
	)
}

// CloseDatabase closes the database connection
func CloseDatabase() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// HealthCheck checks if database is healthy
func HealthCheck() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}
