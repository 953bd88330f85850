package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects the backing store. The default is a single local SQLite file.
type Options struct {
	Driver      string
	Path        string // SQLite file
	DatabaseURL string // Postgres DSN
	LogLevel    string // silent, error, warn, info
}

// ConnectDB opens the configured database and exits the process on failure.
func ConnectDB(opts Options) *gorm.DB {
	db, err := Open(opts)
	if err != nil {
		log.Fatal("Failed to connect to database. \n", err)
	}
	log.Printf("Database connection established (%s)", opts.Driver)
	return db
}

// Open returns a gorm handle for the configured driver.
func Open(opts Options) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         newLogger(opts.LogLevel),
		TranslateError: true, // unique / FK violations surface as gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated
	}

	switch opts.Driver {
	case DriverPostgres:
		return openPostgres(opts.DatabaseURL, cfg)
	case DriverSQLite, "":
		return openSQLite(opts.Path, cfg)
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", opts.Driver)
}

// SQLiteDSN builds the file DSN used for the local store. Writers take the
// lock at BEGIN so a conditional stock update never upgrades a read lock
// mid-transaction.
func SQLiteDSN(path string) string {
	if path == "" {
		path = "inventory.db"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
}

func openSQLite(path string, cfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(SQLiteDSN(path)), cfg)
	if err != nil {
		return nil, err
	}

	// One process, one file: a single connection keeps every unit of work serialized.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	return db, nil
}

func openPostgres(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	cfg.PrepareStmt = false
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

func newLogger(level string) logger.Interface {
	lvl := logger.Warn
	switch strings.ToLower(level) {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  lvl,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}
