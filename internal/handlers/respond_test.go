package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"seobuilder/internal/apperr"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "validation maps to 422",
			err:        apperr.Validation("slug", "is invalid"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION",
		},
		{
			name:       "not found maps to 404",
			err:        apperr.NotFound("project"),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "conflict maps to 409",
			err:        apperr.New(apperr.CodeConflict, "duplicate request"),
			wantStatus: http.StatusConflict,
			wantCode:   "CONFLICT",
		},
		{
			name:       "forbidden maps to 403",
			err:        apperr.New(apperr.CodeForbidden, "forbidden"),
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "storage maps to 500",
			err:        apperr.New(apperr.CodeStorage, "write artifact: disk full"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "STORAGE",
		},
		{
			name:       "plain error maps to opaque 500",
			err:        errors.New("pq: connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", w.Code, tt.wantStatus)
			}

			var body errorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code: got %q, want %q", body.Code, tt.wantCode)
			}
			if body.Error == "" {
				t.Error("error message should not be empty")
			}
		})
	}

	t.Run("plain errors never leak details", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeError(w, errors.New("password=hunter2 dsn=secret"))
		if strings.Contains(w.Body.String(), "hunter2") {
			t.Error("internal error details leaked to client")
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"ok"}`))
		var p payload
		if err := decodeJSON(r, &p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Name != "ok" {
			t.Errorf("name: got %q", p.Name)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"ok","bogus":1}`))
		var p payload
		err := decodeJSON(r, &p)
		if !apperr.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
		var p payload
		if err := decodeJSON(r, &p); !apperr.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}
