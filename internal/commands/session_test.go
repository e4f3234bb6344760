package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"finbook/internal/config"
	"finbook/internal/session"
)

func newUsersServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/users" && r.URL.Query().Get("email") == "test@example.com":
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": "u1", "name": "Test", "email": "test@example.com"},
			})
		case r.URL.Path == "/users":
			json.NewEncoder(w).Encode([]map[string]any{})
		case r.URL.Path == "/users/u1":
			json.NewEncoder(w).Encode(map[string]any{
				"id": "u1", "name": "Test", "email": "test@example.com",
			})
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// setTestEnv points the commands at a scratch data dir and a fake store.
func setTestEnv(t *testing.T, apiURL string) string {
	t.Helper()
	dir := t.TempDir()
	sessionPath := filepath.Join(dir, "session.json")
	t.Setenv("API_BASE_URL", apiURL)
	t.Setenv("SESSION_PATH", sessionPath)
	t.Setenv("MIRROR_DB_PATH", filepath.Join(dir, "mirror.db"))
	return sessionPath
}

func TestLoginByEmail(t *testing.T) {
	srv := newUsersServer(t)
	sessionPath := setTestEnv(t, srv.URL)

	cmd := newLoginCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--email", "test@example.com"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("login: %v", err)
	}

	sess, ok, err := session.NewStore(sessionPath).Load()
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if sess.UserID != "u1" || !sess.LoggedIn {
		t.Fatalf("session = %+v", sess)
	}
	if sess.User.Email != "test@example.com" {
		t.Fatalf("user snapshot = %+v", sess.User)
	}
}

func TestLoginByID(t *testing.T) {
	srv := newUsersServer(t)
	sessionPath := setTestEnv(t, srv.URL)

	cmd := newLoginCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--user", "u1", "--remember"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("login: %v", err)
	}

	sess, ok, _ := session.NewStore(sessionPath).Load()
	if !ok || !sess.RememberMe {
		t.Fatalf("session = %+v, ok=%v", sess, ok)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	srv := newUsersServer(t)
	setTestEnv(t, srv.URL)

	cmd := newLoginCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--email", "nobody@example.com"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown email")
	}
}

func TestLoginRequiresIdentity(t *testing.T) {
	cmd := newLoginCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error without --email or --user")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	srv := newUsersServer(t)
	sessionPath := setTestEnv(t, srv.URL)

	login := newLoginCommand()
	login.SetOut(&bytes.Buffer{})
	login.SetArgs([]string{"--email", "test@example.com"})
	if err := login.Execute(); err != nil {
		t.Fatalf("login: %v", err)
	}

	logout := newLogoutCommand()
	logout.SetOut(&bytes.Buffer{})
	if err := logout.Execute(); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, ok, _ := session.NewStore(sessionPath).Load(); ok {
		t.Fatal("session survived logout")
	}
}

func TestWhoami(t *testing.T) {
	srv := newUsersServer(t)
	setTestEnv(t, srv.URL)

	var out bytes.Buffer
	whoami := newWhoamiCommand()
	whoami.SetOut(&out)
	if err := whoami.Execute(); err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out.String(), "Not signed in") {
		t.Fatalf("output = %q", out.String())
	}

	login := newLoginCommand()
	login.SetOut(&bytes.Buffer{})
	login.SetArgs([]string{"--email", "test@example.com"})
	if err := login.Execute(); err != nil {
		t.Fatalf("login: %v", err)
	}

	out.Reset()
	whoami = newWhoamiCommand()
	whoami.SetOut(&out)
	if err := whoami.Execute(); err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out.String(), "Test (u1)") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestResolveUserID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	if err := session.NewStore(path).Save(session.Session{UserID: "u1", LoggedIn: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	cfg := &config.Config{SessionPath: path}

	// explicit flag wins over the session
	got, err := resolveUserID(cfg, "other")
	if err != nil || got != "other" {
		t.Fatalf("got %q, err %v", got, err)
	}

	// absent flag falls back to the session
	got, err = resolveUserID(cfg, "")
	if err != nil || got != "u1" {
		t.Fatalf("got %q, err %v", got, err)
	}

	// no session and no flag is an error
	noSession := &config.Config{SessionPath: filepath.Join(dir, "absent.json")}
	if _, err := resolveUserID(noSession, ""); err == nil {
		t.Fatal("expected error without flag or session")
	}
}
