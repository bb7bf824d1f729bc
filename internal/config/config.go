package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server struct {
		Port         string        `default:"8080" envconfig:"PORT"`
		ReadTimeout  time.Duration `default:"30s" envconfig:"READ_TIMEOUT"`
		WriteTimeout time.Duration `default:"30s" envconfig:"WRITE_TIMEOUT"`
	}

	Database struct {
		URL      string `required:"true" envconfig:"DATABASE_URL"`
		MaxConns int    `default:"10" envconfig:"DB_MAX_CONNS"`
	}

	OpenAI struct {
		APIKey string `required:"true" envconfig:"OPENAI_API_KEY"`
		Model  string `default:"gpt-4o-mini" envconfig:"OPENAI_MODEL"`
	}

	Filter struct {
		BatchSize         int     `default:"20" envconfig:"FILTER_AI_BATCH_SIZE"`
		RequestsPerSecond float64 `default:"2" envconfig:"FILTER_AI_RPS"`
		Burst             int     `default:"4" envconfig:"FILTER_AI_BURST"`
	}

	Menu struct {
		CacheTTL time.Duration `default:"10m" envconfig:"MENU_CACHE_TTL"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	return &cfg, nil
}
