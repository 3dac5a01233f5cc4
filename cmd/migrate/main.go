package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"

	"github.com/pageza/recipe-share/backend/config"
	"github.com/pageza/recipe-share/backend/internal/database"
)

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS migrations (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	status := flag.Bool("status", false, "List migrations and whether they are applied")
	dir := flag.String("dir", "migrations", "Directory holding the *.sql migrations")
	flag.Parse()

	db, err := sql.Open("postgres", dsn())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(createMigrationsTable); err != nil {
		log.Fatalf("failed to create migrations table: %v", err)
	}

	switch {
	case *status:
		err = printStatus(db, *dir)
	case *rollback:
		err = rollbackLast(db, *dir)
	default:
		err = applyAll(db, *dir)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// dsn prefers DATABASE_URL and falls back to the DB_* settings.
func dsn() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("DATABASE_URL is not set and configuration failed to load: %v", err)
	}
	return cfg.PostgresDSN()
}

func applied(db *sql.DB, name string) (bool, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations WHERE name = $1", name).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return n > 0, nil
}

func applyAll(db *sql.DB, dir string) error {
	files, err := database.MigrationFiles(dir)
	if err != nil {
		return err
	}

	for _, file := range files {
		done, err := applied(db, file)
		if err != nil {
			return err
		}
		if done {
			fmt.Printf("Migration already applied: %s\n", file)
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		fmt.Printf("Applying migration: %s\n", file)
		if err := inTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(string(content)); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", file, err)
			}
			if _, err := tx.Exec("INSERT INTO migrations (name) VALUES ($1)", file); err != nil {
				return fmt.Errorf("failed to record migration: %w", err)
			}
			return nil
		}); err != nil {
			return err
		}
	}

	fmt.Println("All migrations applied successfully.")
	return nil
}

func rollbackLast(db *sql.DB, dir string) error {
	var last string
	err := db.QueryRow("SELECT name FROM migrations ORDER BY applied_at DESC, id DESC LIMIT 1").Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("no migrations to rollback")
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	path := filepath.Join(dir, database.RollbackFile(last))
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read rollback file %s: %w", path, err)
	}

	if err := inTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute rollback: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM migrations WHERE name = $1", last); err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}

	fmt.Printf("Successfully rolled back migration: %s\n", last)
	return nil
}

func printStatus(db *sql.DB, dir string) error {
	files, err := database.MigrationFiles(dir)
	if err != nil {
		return err
	}
	for _, file := range files {
		done, err := applied(db, file)
		if err != nil {
			return err
		}
		state := "pending"
		if done {
			state = "applied"
		}
		fmt.Printf("%-8s %s\n", state, file)
	}
	return nil
}

func inTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
