package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2/memstore"

	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/database"
	"github.com/mrlokans/readinglog/internal/entities"
)

func setupSessionManager(t *testing.T) *SessionManager {
	t.Helper()
	sm, err := NewSessionManager(nil, config.Auth{SessionLifetime: 24 * time.Hour})
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func TestNewSessionManager(t *testing.T) {
	sm := setupSessionManager(t)

	if _, ok := sm.Store.(*memstore.MemStore); !ok {
		t.Errorf("Expected memstore without a database, got %T", sm.Store)
	}
	if sm.Cookie.Name != "session" {
		t.Errorf("Expected cookie name 'session', got '%s'", sm.Cookie.Name)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("Cookie should be HttpOnly")
	}
	if sm.Cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("Expected SameSiteStrictMode, got %v", sm.Cookie.SameSite)
	}
	if sm.Lifetime != 24*time.Hour || sm.IdleTimeout != 12*time.Hour {
		t.Errorf("Unexpected lifetime %v / idle %v", sm.Lifetime, sm.IdleTimeout)
	}
}

func TestNewSessionManager_SQLiteStore(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	sqlDB, err := db.SQLDB()
	if err != nil {
		t.Fatalf("failed to get SQL DB: %v", err)
	}

	sm, err := NewSessionManager(sqlDB, config.Auth{SessionLifetime: time.Hour, SecureCookies: true})
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	if _, ok := sm.Store.(*memstore.MemStore); ok {
		t.Error("Expected SQLite store when a database is given")
	}
	if !sm.Cookie.Secure {
		t.Error("Cookie should be Secure")
	}

	var count int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count); err != nil {
		t.Errorf("sessions table should exist: %v", err)
	}
}

func TestSessionManager_CreateAndRetrieveSession(t *testing.T) {
	sm := setupSessionManager(t)
	user := &entities.User{Username: "alice"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sm.IsAuthenticated(r) {
			t.Error("Fresh session should be anonymous")
		}
		if sm.GetSessionData(r) != nil {
			t.Error("Anonymous session should have no data")
		}

		if err := sm.CreateSession(r, user); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if got := sm.GetUsername(r); got != "alice" {
			t.Errorf("Expected username 'alice', got '%s'", got)
		}
		data := sm.GetSessionData(r)
		if data == nil || data.LoginAt.IsZero() {
			t.Errorf("Expected session data with login time, got %+v", data)
		}

		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(rr, req)

	if len(rr.Result().Cookies()) == 0 {
		t.Error("Expected a session cookie")
	}
}

func TestSessionManager_DestroySession(t *testing.T) {
	sm := setupSessionManager(t)

	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := sm.CreateSession(r, &entities.User{Username: "alice"}); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
		if err := sm.DestroySession(r); err != nil {
			t.Fatalf("failed to destroy session: %v", err)
		}
		if sm.IsAuthenticated(r) {
			t.Error("Destroyed session should be anonymous")
		}
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
