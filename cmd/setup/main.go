// Command setup creates the reward database when missing and applies the
// embedded migrations. With -reset the database is dropped first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/osse101/RewardEngine_Go/internal/config"
	"github.com/osse101/RewardEngine_Go/internal/database"
)

func main() {
	reset := flag.Bool("reset", false, "drop the database before creating it")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	dbname := getEnv("DB_NAME", config.DefaultDBName)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// 1. Connect to the maintenance database to manage the target one
	serverConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable", user, password, host, port)
	conn, err := pgx.Connect(ctx, serverConnString)
	if err != nil {
		log.Fatalf("Unable to connect to postgres database: %v", err)
	}

	ident := pgx.Identifier{dbname}.Sanitize()

	// 2. Optionally drop it, terminating open connections first
	if *reset {
		log.Printf("Terminating existing connections to database %s...", dbname)
		if _, err := conn.Exec(ctx, `
			SELECT pg_terminate_backend(pid)
			FROM pg_stat_activity
			WHERE datname = $1 AND pid <> pg_backend_pid()`, dbname); err != nil {
			log.Printf("Warning: failed to terminate connections: %v", err)
		}
		if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+ident); err != nil {
			log.Fatalf("Failed to drop database: %v", err)
		}
		log.Printf("Database %s dropped.", dbname)
	}

	// 3. Create it when missing
	var exists bool
	if err := conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbname).Scan(&exists); err != nil {
		log.Fatalf("Failed to check if database exists: %v", err)
	}
	if !exists {
		log.Printf("Creating database %s...", dbname)
		if _, err := conn.Exec(ctx, "CREATE DATABASE "+ident); err != nil {
			log.Fatalf("Failed to create database: %v", err)
		}
	} else {
		log.Printf("Database %s already exists.", dbname)
	}
	conn.Close(ctx)

	// 4. Apply migrations
	targetConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)
	pool, err := database.NewPool(ctx, targetConnString, config.DefaultDBMaxConns,
		database.DefaultMaxConnIdleTime, database.DefaultMaxConnLifetime)
	if err != nil {
		log.Fatalf("Unable to connect to %s database: %v", dbname, err)
	}
	defer pool.Close()

	log.Println("Running migrations...")
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully.")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
