package store

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect opens the match-report database connection, tuned for
// serverless/pooled Postgres providers (Neon and similar): prepared
// statements are disabled via prefer_simple_protocol since poolers
// route each query to a different backend connection, and pool
// lifetimes are kept short so idle connections get recycled before
// the pooler drops them server-side.
func Connect(dbURL string) (*sqlx.DB, error) {
	dbURL = withPoolerCompatParams(dbURL)

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Second)
	db.SetConnMaxIdleTime(10 * time.Second)

	return db, nil
}

func withPoolerCompatParams(dbURL string) string {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		separator := "?"
		if strings.Contains(dbURL, "?") {
			separator = "&"
		}
		if !strings.Contains(dbURL, "prefer_simple_protocol") {
			dbURL += separator + "prefer_simple_protocol=1"
			separator = "&"
		}
		if !strings.Contains(dbURL, "binary_parameters") {
			dbURL += separator + "binary_parameters=yes"
		}
		return dbURL
	}

	query := parsed.Query()
	query.Set("prefer_simple_protocol", "1")
	query.Set("binary_parameters", "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
