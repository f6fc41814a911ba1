package main

import (
	"errors"
	"os"
	"strconv"

	"github.com/brightfeed/brightfeed/internal/generator"
)

type AppConfig struct {
	DatabaseURL      string
	DBMaxConns       int32
	CategorySeedPath string

	GeneratorEnabled bool
	GeneratorConfig  *generator.Config
}

func LoadAppConfig() (*AppConfig, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL environment variable not set")
	}

	cfg := &AppConfig{
		DatabaseURL:      dbURL,
		CategorySeedPath: os.Getenv("CATEGORY_SEED_PATH"),
	}

	if maxConns := os.Getenv("DB_MAX_CONNS"); maxConns != "" {
		n, err := strconv.Atoi(maxConns)
		if err != nil || n < 1 {
			return nil, errors.New("DB_MAX_CONNS must be a positive number")
		}
		cfg.DBMaxConns = int32(n)
	}

	if os.Getenv("GENERATOR_ENABLED") == "true" {
		genCfg, err := generator.LoadConfigFromEnv()
		if err != nil {
			return nil, err
		}
		cfg.GeneratorEnabled = true
		cfg.GeneratorConfig = genCfg
	}

	return cfg, nil
}
