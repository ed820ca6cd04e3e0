package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port             string  `yaml:"port"`
	DBDriver         string  `yaml:"db_driver"` // sqlite | mysql | postgres
	DBDSN            string  `yaml:"db_dsn"`
	DBConnectRetries int     `yaml:"db_connect_retries"`
	WebDir           string  `yaml:"web_dir"`
	LogFile          string  `yaml:"log_file"`
	TaxRate          float64 `yaml:"tax_rate"`
	AdminUser        string  `yaml:"admin_user"`
	AdminPassword    string  `yaml:"admin_password"`
	SeedDemo         bool    `yaml:"seed_demo"`
}

// Defaults mirrors the demo setup: sqlite file in the working directory,
// 8% sales tax, one hard-coded operator.
func Defaults() Config {
	return Config{
		Port:             "8000",
		DBDriver:         "sqlite",
		DBDSN:            "rms.db",
		DBConnectRetries: 5,
		WebDir:           "./web",
		LogFile:          "./rms.log",
		TaxRate:          0.08,
		AdminUser:        "admin",
		AdminPassword:    "admin123",
		SeedDemo:         true,
	}
}

// LoadFile overlays a YAML file on top of cfg. Keys missing from the file
// keep their current value.
func LoadFile(path string, cfg Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Load builds the runtime config: defaults, then CONFIG_FILE (if set), then
// individual environment variables.
func Load() Config {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fromFile, err := LoadFile(path, cfg)
		if err != nil {
			log.Printf("[warn] could not read config file %s: %v", path, err)
		} else {
			cfg = fromFile
		}
	}
	cfg = applyEnv(cfg, os.Getenv)

	log.Printf("[config] PORT=%s DB_DRIVER=%s DB_DSN=%s WEB_DIR=%s LOG_FILE=%s TAX_RATE=%.4f",
		cfg.Port, cfg.DBDriver, cfg.DBDSN, cfg.WebDir, cfg.LogFile, cfg.TaxRate)
	return cfg
}

func applyEnv(cfg Config, getenv func(string) string) Config {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("PORT", &cfg.Port)
	str("DB_DRIVER", &cfg.DBDriver)
	str("DB_DSN", &cfg.DBDSN)
	str("WEB_DIR", &cfg.WebDir)
	str("LOG_FILE", &cfg.LogFile)
	str("ADMIN_USER", &cfg.AdminUser)
	str("ADMIN_PASSWORD", &cfg.AdminPassword)

	if v := getenv("TAX_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate >= 0 {
			cfg.TaxRate = rate
		} else {
			log.Printf("[warn] ignoring invalid TAX_RATE=%q", v)
		}
	}
	if v := getenv("SEED_DEMO"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SeedDemo = b
		} else {
			log.Printf("[warn] ignoring invalid SEED_DEMO=%q", v)
		}
	}
	if v := getenv("DB_CONNECT_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DBConnectRetries = n
		} else {
			log.Printf("[warn] ignoring invalid DB_CONNECT_RETRIES=%q", v)
		}
	}
	return cfg
}
