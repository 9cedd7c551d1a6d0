package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SHOP_CONFIG_FILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "FluffyFriend", cfg.AppName)
	require.Equal(t, "shop.db", cfg.DatabaseFile)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 5*time.Minute, cfg.PendingAuthTTL)
	require.Equal(t, 10*time.Minute, cfg.EnrollmentTTL)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
	require.False(t, cfg.SecureCookies)
	require.False(t, cfg.TrustProxy)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SHOP_CONFIG_FILE", "")
	t.Setenv("PORT", "9090")
	t.Setenv("SHOP_SECURE_COOKIES", "true")
	t.Setenv("SHOP_TRUST_PROXY", "true")
	t.Setenv("SHOP_ADMIN_EMAIL", "root@example.com")
	t.Setenv("SHOP_PENDING_AUTH_TTL", "90s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.True(t, cfg.SecureCookies)
	require.True(t, cfg.TrustProxy)
	require.Equal(t, "root@example.com", cfg.AdminEmail)
	require.Equal(t, 90*time.Second, cfg.PendingAuthTTL)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	file := filepath.Join(dir, "shop.yml")
	require.NoError(t, os.WriteFile(file, []byte("app_name: PawShop\nport: 7070\ndatabase_file: /data/shop.db\n"), 0600))
	t.Setenv("SHOP_CONFIG_FILE", file)
	t.Setenv("PORT", "7171")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "PawShop", cfg.AppName)
	require.Equal(t, "/data/shop.db", cfg.DatabaseFile)
	// Environment wins over the file.
	require.Equal(t, 7171, cfg.Port)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SHOP_CONFIG_FILE", "")
	t.Setenv("SHOP_ENV_FILE", "")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SHOP_APP_NAME=DotEnvShop\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("SHOP_APP_NAME") })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "DotEnvShop", cfg.AppName)
}

func TestDSN(t *testing.T) {
	cfg := Config{DatabaseFile: "/data/shop.db"}
	require.Equal(t,
		"file:/data/shop.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		cfg.DSN(),
	)
}

func TestUsageListsVariables(t *testing.T) {
	usage := Usage()
	require.Contains(t, usage, "SHOP_SESSION_KEY")
	require.Contains(t, usage, "SHOP_DATABASE_FILE")
}
