package generator

import (
	"errors"
	"os"
)

type Config struct {
	BaseURL string
	Query   string
}

const defaultQuery = "uplifting positive news"

func LoadConfigFromEnv() (*Config, error) {
	baseURL := os.Getenv("GENERATOR_BASE_URL")
	if baseURL == "" {
		return nil, errors.New("GENERATOR_BASE_URL environment variable not set")
	}

	query := os.Getenv("GENERATOR_QUERY")
	if query == "" {
		query = defaultQuery
	}

	return &Config{
		BaseURL: baseURL,
		Query:   query,
	}, nil
}
