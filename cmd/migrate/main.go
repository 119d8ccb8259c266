// Команда migrate управляет схемой базы салона: применяет, откатывает и
// показывает состояние миграций.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/showroom/internal/storage/postgres"
)

const migrateTimeout = 30 * time.Second

func main() {
	var (
		direction string
		steps     int
		dsn       string
	)

	flag.StringVar(&direction, "direction", "up", "migration direction: up|down|status")
	flag.IntVar(&steps, "steps", 0, "number of migrations to apply/rollback (0=all for up, 1 for down)")
	flag.StringVar(&dsn, "dsn", "", "PostgreSQL DSN (fallback: SHOWROOM_POSTGRES_DSN)")
	flag.Parse()

	if strings.TrimSpace(dsn) == "" {
		dsn = strings.TrimSpace(os.Getenv("SHOWROOM_POSTGRES_DSN"))
	}
	if dsn == "" {
		fail("SHOWROOM_POSTGRES_DSN (or -dsn) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		fail("open postgres store: %v", err)
	}
	defer store.Close()

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "up":
		runUp(ctx, store, steps)
	case "down":
		runDown(ctx, store, steps)
	case "status":
		printStatus(ctx, store, "migration status")
	default:
		fail("unsupported direction: %s (use up|down|status)", direction)
	}
}

func runUp(ctx context.Context, store *postgres.Store, steps int) {
	if err := store.MigrateUp(ctx, steps); err != nil {
		fail("migrate up failed: %v", err)
	}
	printStatus(ctx, store, "migrate up ok")
}

func runDown(ctx context.Context, store *postgres.Store, steps int) {
	if steps <= 0 {
		steps = 1
	}
	if err := store.MigrateDown(ctx, steps); err != nil {
		fail("migrate down failed: %v", err)
	}
	printStatus(ctx, store, "migrate down ok")
}

func printStatus(ctx context.Context, store *postgres.Store, prefix string) {
	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		fail("migration status failed: %v", err)
	}
	fmt.Printf("%s: version=%d applied=%d\n", prefix, version, count)
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
