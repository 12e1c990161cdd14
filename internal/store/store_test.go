// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/pressly/goose/v3"

	"seobuilder/internal/database"
	"seobuilder/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "seobuilder")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "seobuilder")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser creates a user for the test and deletes it on cleanup.
// Projects, pages, and exports hanging off it cascade away with it.
func testUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()

	email := fmt.Sprintf("store-test-%d@example.com", time.Now().UnixNano())
	u, err := NewUserStore(db).Create(context.Background(), email, "secret", "Store Test", models.RoleOwner)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// testProject creates a project owned by a fresh test user.
func testProject(t *testing.T, db *sql.DB) *models.Project {
	t.Helper()

	u := testUser(t, db)
	p, err := NewProjectStore(db).Create(context.Background(), &models.Project{
		UserID:         u.ID,
		Name:           "Store Test Project",
		TargetKeywords: models.StringList{"seo", "builder"},
	})
	if err != nil {
		t.Fatalf("create test project: %v", err)
	}
	return p
}
