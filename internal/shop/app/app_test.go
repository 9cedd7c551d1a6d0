package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()

	return Config{
		AppName:              "FluffyFriend",
		DatabaseFile:         filepath.Join(dir, "shop.db"),
		PepperFile:           filepath.Join(dir, "pepper"),
		SessionKeyFile:       filepath.Join(dir, "session.key"),
		SessionTTL:           time.Hour,
		PendingAuthTTL:       5 * time.Minute,
		EnrollmentTTL:        10 * time.Minute,
		AdminEmail:           "root@example.com",
		AdminUsername:        "root",
		AdminPassword:        "hunter2hunter2",
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	}
}

func TestNewWiresApplication(t *testing.T) {
	cfg := testConfig(t)

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	// Session key is generated on first start.
	_, err = os.Stat(cfg.SessionKeyFile)
	require.NoError(t, err)

	admins, err := app.db.Accounts().CountByRole(t.Context(), domain.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, 1, admins)

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/products")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewRestartKeepsAdminSingle(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, first.db.Close())

	second, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.db.Close() })

	admins, err := second.db.Accounts().CountByRole(t.Context(), domain.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, 1, admins)
}

func TestNewRejectsHalfConfiguredAdmin(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdminPassword = ""

	_, err := New(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bootstrap admin")
}

func TestNewRejectsShortSessionSecretFile(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.SessionKeyFile, []byte("c2hvcnQ"), 0600))

	_, err := New(cfg)
	require.Error(t, err)
}
