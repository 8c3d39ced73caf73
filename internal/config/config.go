package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Directory holding backing ontology files (<domain>.ttl), consulted when
	// an ontology is not in the store.
	OntologyDir string `envconfig:"ONTOLOGY_DIR" default:"ontologies"`

	// Domain ids whose union forms the core ontology for duplicate detection.
	CoreOntologies []string `envconfig:"CORE_ONTOLOGIES" default:"intermediate,engineering-ethics"`

	// IntermediateDomain names the shared ontology that declares the category
	// classes domain ontologies type against.
	IntermediateDomain string `envconfig:"INTERMEDIATE_DOMAIN" default:"intermediate"`

	CacheTTL         time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	RebuildInterval  time.Duration `envconfig:"REBUILD_INTERVAL" default:"10m"`
	CleanupBatchSize int           `envconfig:"CLEANUP_BATCH_SIZE" default:"100"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"ethograph-ontologies"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("ETHOGRAPH", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	for i, d := range cfg.CoreOntologies {
		cfg.CoreOntologies[i] = strings.TrimSpace(d)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
