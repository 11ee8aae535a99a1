// Package seed loads the fixed module catalog via goose, kept in a separate
// version table from the schema migrations.
package seed

import (
	"database/sql"
	"embed"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed sql/*.sql
var seedFS embed.FS

// Options defines how to run seed migrations.
type Options struct {
	Driver  string
	DSN     string
	Command string // up, down, status, reset
	Logger  *log.Logger
}

// Run executes the seed migrations. If Driver or DSN are empty, it is a no-op.
func Run(opts Options) error {
	if strings.TrimSpace(opts.Driver) == "" || strings.TrimSpace(opts.DSN) == "" {
		return nil
	}
	if opts.Logger != nil {
		goose.SetLogger(opts.Logger)
	}
	goose.SetBaseFS(seedFS)
	goose.SetTableName("seed_migrations")

	db, err := sql.Open(opts.Driver, opts.DSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	dir := "sql"
	switch strings.ToLower(strings.TrimSpace(opts.Command)) {
	case "", "up":
		return goose.Up(db, dir)
	case "down":
		return goose.Down(db, dir)
	case "status":
		return goose.Status(db, dir)
	case "reset":
		return goose.Reset(db, dir)
	default:
		return fmt.Errorf("unknown seed command: %s", opts.Command)
	}
}

// RunFromEnv runs seeds when SEED_ON_START is truthy. SEED_DRIVER/SEED_DSN
// fall back to MIGRATE_DRIVER/MIGRATE_DSN.
func RunFromEnv() error {
	enabled := strings.TrimSpace(strings.ToLower(os.Getenv("SEED_ON_START")))
	if enabled != "1" && enabled != "true" && enabled != "yes" && enabled != "y" {
		return nil
	}
	driver := strings.TrimSpace(os.Getenv("SEED_DRIVER"))
	if driver == "" {
		driver = strings.TrimSpace(os.Getenv("MIGRATE_DRIVER"))
	}
	dsn := strings.TrimSpace(os.Getenv("SEED_DSN"))
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("MIGRATE_DSN"))
	}
	return Run(Options{
		Driver:  driver,
		DSN:     dsn,
		Command: strings.TrimSpace(os.Getenv("SEED_CMD")),
		Logger:  log.New(os.Stdout, "[seed] ", log.LstdFlags),
	})
}
