package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"biograph-match-engine/internal/config"
	"biograph-match-engine/internal/jobqueue"
	"biograph-match-engine/internal/store"
)

func main() {
	var hashKey string
	var enqueueFile string
	flag.StringVar(&hashKey, "hash-key", "", "print the bcrypt hash for an admin API key (set ADMIN_API_KEY_HASH to the result)")
	flag.StringVar(&enqueueFile, "enqueue", "", "path to a CSV file of local_record/external_record pairs to enqueue for batch scoring")
	flag.Parse()

	switch {
	case hashKey != "":
		runHashKey(hashKey)
	case enqueueFile != "":
		runEnqueue(enqueueFile)
	default:
		log.Fatal("one of -hash-key or -enqueue is required")
	}
}

func runHashKey(key string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash key: %v", err)
	}
	fmt.Println(string(hash))
}

func runEnqueue(csvFile string) {
	if _, err := os.Stat(csvFile); err != nil {
		log.Fatalf("cannot read %s: %v", csvFile, err)
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := store.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	logger := zap.NewNop()
	st := store.New(db, logger)
	queue := jobqueue.New(db, st, logger, cfg.JobPollInterval, cfg.StaleThreshold, cfg.MaxJobAttempts, cfg.BatchProgressEvery)
	if err := queue.EnsureSchema(); err != nil {
		log.Fatalf("failed to ensure batch job schema: %v", err)
	}

	id, err := queue.Enqueue(csvFile)
	if err != nil {
		log.Fatalf("failed to enqueue job: %v", err)
	}
	fmt.Printf("enqueued batch job %s for %s\n", id, csvFile)
}
