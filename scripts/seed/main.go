// Seed creates a demo user owning 10,000 todos. Run from project root: go run ./scripts/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"todo-service/internal/config"
	"todo-service/internal/database"
	"todo-service/internal/repository"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Config failed:", err)
		os.Exit(1)
	}
	db, err := database.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "DB connection failed:", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db, cfg.DatabaseURL); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	store := repository.New(db)
	owner, err := store.CreateUser(ctx, "seed@example.com", "seedpassword")
	if errors.Is(err, repository.ErrDuplicateEmail) {
		owner, _, err = store.GetUserByEmail(ctx, "seed@example.com", false)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Seed user failed:", err)
		os.Exit(1)
	}

	const total = 10_000
	const batchSize = 500
	start := time.Now()

	for batch := 0; batch < total/batchSize; batch++ {
		args := make([]interface{}, 0, batchSize*3)
		placeholders := make([]string, 0, batchSize)
		for i := 0; i < batchSize; i++ {
			n := batch*batchSize + i + 1
			placeholders = append(placeholders, fmt.Sprintf("($%d,$%d,FALSE,$%d)",
				3*i+1, 3*i+2, 3*i+3))
			args = append(args,
				fmt.Sprintf("Todo %d", n),
				fmt.Sprintf("Description for todo %d", n),
				owner.ID,
			)
		}
		q := `INSERT INTO todos (title, description, is_done, owner_id) VALUES ` +
			strings.Join(placeholders, ",")
		if _, err := db.ExecContext(ctx, q, args...); err != nil {
			fmt.Fprintln(os.Stderr, "Insert failed:", err)
			os.Exit(1)
		}
		fmt.Printf("\rInserted %d / %d", (batch+1)*batchSize, total)
	}

	fmt.Printf("\nDone: %d todos for user %d in %v\n", total, owner.ID, time.Since(start))
}
