package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	require.Equal(t, uint64(domain.DefaultUnitPrice), cfg.InitialPrice)
	require.Equal(t, 10*time.Minute, cfg.BlockInterval)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Contains(t, cfg.DatabaseDSN, "dbname=savings_ledger_db")
	require.Contains(t, cfg.DatabaseDSN, "sslmode=disable")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "POSTGRES")
	t.Setenv("INITIAL_PRICE", "2000000")
	t.Setenv("BLOCK_INTERVAL", "1s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	require.Equal(t, uint64(2_000_000), cfg.InitialPrice)
	require.Equal(t, time.Second, cfg.BlockInterval)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadRejectsPriceOutsideBounds(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("INITIAL_PRICE", "5000")

	_, err := Load()
	require.Error(t, err)
}

func TestNormalizeConnectionString(t *testing.T) {
	got := normalizeConnectionString("Host=db;Port=5433;Database=x;Username=u;Password=p;CommandTimeout=30")
	require.Equal(t, "host=db port=5433 dbname=x user=u password=p statement_timeout=30s sslmode=disable", got)

	url := "postgres://u:p@db:5432/x?sslmode=require"
	require.Equal(t, url, normalizeConnectionString(url))
}
