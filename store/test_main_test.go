package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/saracristina-sh3/auth-suite-sub000/migrate"
)

// TestMain runs DB migrations for store tests when a test database is reachable.
func TestMain(m *testing.M) {
	dsn := getTestDSN()
	if strings.TrimSpace(dsn) == "" {
		log.Printf("no test DSN available, skipping store tests")
		return
	}

	var ready bool
	for i := 0; i < 20; i++ {
		if db, err := sql.Open("postgres", dsn); err == nil {
			if err = db.Ping(); err == nil {
				ready = true
				_ = db.Close()
				break
			}
			_ = db.Close()
		}
		time.Sleep(1 * time.Second)
	}
	if !ready {
		log.Printf("postgres is not ready, skipping store tests: dsn=%s", dsn)
		return
	}

	if err := migrate.Run(migrate.Options{
		Driver:  "postgres",
		DSN:     dsn,
		Command: "up",
		Logger:  log.New(os.Stdout, "[store-migrate] ", log.LstdFlags),
	}); err != nil {
		panic(fmt.Sprintf("store test migration failed: %v", err))
	}

	os.Exit(m.Run())
}

func getTestDSN() string {
	dsn := os.Getenv("AUTH_DB_DSN")
	if dsn == "" {
		dsn = os.Getenv("MIGRATE_DSN")
	}
	return dsn
}

// getTestGormDB opens a gorm connection against the test DSN.
func getTestGormDB() (*gorm.DB, error) {
	dsn := getTestDSN()
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("no test DSN configured")
	}
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}
