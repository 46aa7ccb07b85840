package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/dkralj/fircik/domain"
	"github.com/dkralj/fircik/game"
	"github.com/dkralj/fircik/server"
	"github.com/dkralj/fircik/store"
	"github.com/joho/godotenv"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("warning: no .env file loaded (this is fine in production): %v", err)
		}
	}

	fmt.Println("Starting Fircik Game Backend...")

	var sessions store.SessionStore
	var profiles store.ProfileStore

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pg, err := store.NewPostgresStore(dsn)
		if err != nil {
			log.Fatalf("Database connection failed: %v", err)
		}
		sessions = pg
		profiles = pg.Profiles()
		log.Println("Using postgres-backed stores")
	} else {
		sessions = store.NewMemorySessionStore()
		profiles = store.NewMemoryProfileStore()
		log.Println("DATABASE_URL not set, using in-memory stores")
	}

	engine := game.NewEngine(sessions, profiles)
	if v := os.Getenv("ENTRY_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("Invalid ENTRY_COST %q: %v", v, err)
		}
		engine.EntryCost = cost
	}
	engine.EnforceSuitFollowing = os.Getenv("SUIT_FOLLOWING") == "true"

	port := os.Getenv("PORT")
	if port == "" {
		port = "7777"
	}

	s := server.NewServer(engine, domain.NewLobby(), profiles)
	if err := s.Start(port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
