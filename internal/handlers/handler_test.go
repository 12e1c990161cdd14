// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable;
// Valkey is replaced by an in-memory miniredis.
//
// These tests live in handlers_test (not handlers) because they build
// the full application through seobuilder/internal/router, which itself
// imports handlers; an in-package test would form an import cycle.
package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"seobuilder/internal/archetype"
	"seobuilder/internal/auth"
	"seobuilder/internal/builder"
	"seobuilder/internal/cache"
	"seobuilder/internal/database"
	"seobuilder/internal/export"
	"seobuilder/internal/handlers"
	"seobuilder/internal/models"
	"seobuilder/internal/router"
	"seobuilder/internal/storage"
	"seobuilder/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "seobuilder")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "seobuilder")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB            *sql.DB
	Tokens        *auth.TokenStore
	UserStore     *store.UserStore
	ProjectStore  *store.ProjectStore
	PageStore     *store.PageStore
	ExportStore   *store.ExportStore
	ExportService *export.Service
	Router        http.Handler
}

// newTestEnv creates a complete test environment over the full router.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	tokens := auth.NewTokenStore(client)
	idempotency := cache.NewIdempotency(client)

	userStore := store.NewUserStore(db)
	projectStore := store.NewProjectStore(db)
	pageStore := store.NewPageStore(db)
	exportStore := store.NewExportStore(db)

	disk, err := storage.NewLocalDisk(t.TempDir())
	if err != nil {
		t.Fatalf("local disk: %v", err)
	}

	catalog := archetype.NewCatalog()
	creator := builder.NewCreator(pageStore)
	applier := archetype.NewApplier(catalog, creator, idempotency)
	packager := export.NewPackager(disk)
	exportService := export.NewService(exportStore, pageStore, packager, disk)

	authH := handlers.NewAuth(userStore, tokens)
	projectsH := handlers.NewProjects(projectStore, catalog, applier)
	pagesH := handlers.NewPages(projectsH, pageStore, creator)
	exportsH := handlers.NewExports(projectsH, exportStore, exportService)

	return &testEnv{
		DB:            db,
		Tokens:        tokens,
		UserStore:     userStore,
		ProjectStore:  projectStore,
		PageStore:     pageStore,
		ExportStore:   exportStore,
		ExportService: exportService,
		Router:        router.New(tokens, authH, projectsH, pagesH, exportsH),
	}
}

// signup creates a user directly in the database, issues a token for it,
// and registers cleanup. Deleting the user cascades to projects, pages,
// and exports.
func (env *testEnv) signup(t *testing.T, role models.Role) (*models.User, string) {
	t.Helper()

	email := fmt.Sprintf("handler-%d@test.local", time.Now().UnixNano())
	user, err := env.UserStore.Create(context.Background(), email, "test-password-123", "Handler Test", role)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})

	token, err := env.Tokens.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return user, token
}

// do performs a JSON request against the router and returns the recorder.
func (env *testEnv) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a recorded JSON response body into dst.
func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}
