// Command seed inserts a confirmed demo account with its profile record,
// useful for bringing a fresh environment up without the email confirmation
// round-trip.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// CLI flags
var (
	dsn      = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	email    = flag.String("email", "demo@sirtec.com.br", "Demo account email")
	password = flag.String("password", "mudar123", "Demo account password")
	name     = flag.String("name", "Colaborador Demo", "Profile name")
	unit     = flag.String("unit", "Feira de Santana", "Profile unit")
	position = flag.String("position", "Eletricista", "Profile position")
	dryRun   = flag.Bool("dry-run", false, "Validate only; no DB writes")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}
	if len(*password) < 6 {
		fatalf("password must have at least 6 characters")
	}

	if *dryRun {
		fmt.Printf("dry-run: would create %s (%s, %s)\n", *email, *name, *unit)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("open database: %v", err)
	}
	defer conn.Close()

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fatalf("hash password: %v", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM portal_auth.accounts WHERE email = $1)`, *email).Scan(&exists)
	if err != nil {
		fatalf("check existing account: %v", err)
	}
	if exists {
		fmt.Printf("account %s already exists; nothing to do\n", *email)
		return
	}

	userID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO portal_auth.accounts (user_id, email, hashed_password, confirmed, confirmation_token)
		 VALUES ($1, $2, $3, TRUE, '')`,
		userID, *email, string(hashed))
	if err != nil {
		fatalf("insert account: %v", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO portal.profiles (user_id, name, email, birth_date, registration, position, unit)
		 VALUES ($1, $2, $3, '', '0000', $4, $5)`,
		userID, *name, *email, *position, *unit)
	if err != nil {
		fatalf("insert profile: %v", err)
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}

	fmt.Printf("created demo account %s (user_id=%s)\n", *email, userID)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
