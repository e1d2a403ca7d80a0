package testutil

import (
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/rao305/boilerai-transcript/internal/data/db"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
)

var (
	dbOnce sync.Once
	conn   *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a migrated store shared by the test binary. It uses an in-memory
// sqlite database unless TEST_POSTGRES_DSN is set.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		silent := &gorm.Config{Logger: gormLogger.Default.LogMode(gormLogger.Silent)}

		if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
			conn, dbErr = gorm.Open(postgres.Open(dsn), silent)
		} else {
			conn, dbErr = gorm.Open(sqlite.Open("file::memory:?cache=shared"), silent)
		}
		if dbErr != nil {
			return
		}
		dbErr = db.AutoMigrate(conn)
	})

	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return conn
}

// Tx wraps the test in a transaction that is rolled back on cleanup, so tests
// never leak rows into the shared database.
func Tx(tb testing.TB, conn *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := conn.Begin()
	if tx.Error != nil {
		tb.Fatalf("failed to begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback()
	})
	return tx
}
