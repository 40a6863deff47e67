package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

const (
	ConfigName = "savings"
	ConfigType = "yaml"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=savings_ledger_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultChannelID = "SavingsApp"
const defaultChannelKey = "SavingsKey001"
const defaultPriceAuthority = "SP000000000000000000002Q6VF78"
const defaultGenesisTime = "2026-01-01T00:00:00Z"

type Config struct {
	StoreDriver    string
	DatabaseDSN    string
	MigrationsDir  string
	HTTPAddr       string
	MetricsAddr    string
	ChannelID      string
	ChannelKey     string
	ChannelKeyHash string
	PriceAuthority domain.AccountID
	InitialPrice   uint64
	BlockInterval  time.Duration
	GenesisTime    time.Time
	LogLevel       string
	CORSOrigins    []string
	CacheSize      int
}

// Load reads defaults, an optional savings.yaml in the working directory,
// then environment variables, in increasing precedence.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName(ConfigName)
	v.SetConfigType(ConfigType)
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join("src", "config"))
	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store_driver", StoreDriverMemory)
	v.SetDefault("database_dsn", defaultConnectionString)
	v.SetDefault("migrations_dir", filepath.Join("src", "migrations"))
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("channel_id", defaultChannelID)
	v.SetDefault("channel_key", defaultChannelKey)
	v.SetDefault("channel_key_hash", "")
	v.SetDefault("price_authority", defaultPriceAuthority)
	v.SetDefault("initial_price", domain.DefaultUnitPrice)
	v.SetDefault("block_interval", 10*time.Minute)
	v.SetDefault("genesis_time", defaultGenesisTime)
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("cache_size", 1024)
}

func fromViper(v *viper.Viper) (Config, error) {
	driver := strings.ToLower(strings.TrimSpace(v.GetString("store_driver")))
	if driver != StoreDriverMemory && driver != StoreDriverPostgres {
		return Config{}, fmt.Errorf("store_driver must be %q or %q", StoreDriverMemory, StoreDriverPostgres)
	}

	initialPrice := v.GetUint64("initial_price")
	if !domain.ValidUnitPrice(initialPrice) {
		return Config{}, fmt.Errorf("initial_price must be between %d and %d", domain.MinUnitPrice, domain.MaxUnitPrice)
	}

	authority := domain.NewAccountID(v.GetString("price_authority"))
	if !authority.Valid() {
		return Config{}, fmt.Errorf("price_authority is required")
	}

	genesis, err := time.Parse(time.RFC3339, strings.TrimSpace(v.GetString("genesis_time")))
	if err != nil {
		return Config{}, fmt.Errorf("genesis_time must be RFC3339: %w", err)
	}

	interval := v.GetDuration("block_interval")
	if interval <= 0 {
		return Config{}, fmt.Errorf("block_interval must be positive")
	}

	cacheSize := v.GetInt("cache_size")
	if cacheSize <= 0 {
		cacheSize = 1024
	}

	return Config{
		StoreDriver:    driver,
		DatabaseDSN:    normalizeConnectionString(strings.TrimSpace(v.GetString("database_dsn"))),
		MigrationsDir:  strings.TrimSpace(v.GetString("migrations_dir")),
		HTTPAddr:       strings.TrimSpace(v.GetString("http_addr")),
		MetricsAddr:    strings.TrimSpace(v.GetString("metrics_addr")),
		ChannelID:      strings.TrimSpace(v.GetString("channel_id")),
		ChannelKey:     strings.TrimSpace(v.GetString("channel_key")),
		ChannelKeyHash: strings.TrimSpace(v.GetString("channel_key_hash")),
		PriceAuthority: authority,
		InitialPrice:   initialPrice,
		BlockInterval:  interval,
		GenesisTime:    genesis,
		LogLevel:       strings.TrimSpace(v.GetString("log_level")),
		CORSOrigins:    splitList(v.GetString("cors_origins")),
		CacheSize:      cacheSize,
	}, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeConnectionString(raw string) string {
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
