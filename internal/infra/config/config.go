package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	LLM        LLMConfig        `yaml:"llm"`
	Assistant  AssistantConfig  `yaml:"assistant"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Knowledge  KnowledgeConfig  `yaml:"knowledge"`
	Cache      CacheConfig      `yaml:"cache"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Storefront StorefrontConfig `yaml:"storefront"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey              string        `yaml:"apiKey"`
	BaseURL             string        `yaml:"baseUrl"`
	Model               string        `yaml:"model"`
	EmbeddingModel      string        `yaml:"embeddingModel"`
	EmbeddingDimensions int           `yaml:"embeddingDimensions"`
	Temperature         float32       `yaml:"temperature"`
	RequestTimeout      time.Duration `yaml:"requestTimeout"`
}

// AssistantConfig controls retrieval and answer behavior.
type AssistantConfig struct {
	StoreName          string        `yaml:"storeName"`
	SearchLimit        int           `yaml:"searchLimit"`
	SimilarityFloor    float64       `yaml:"similarityFloor"`
	MaxContextTokens   int           `yaml:"maxContextTokens"`
	CacheTTL           time.Duration `yaml:"cacheTtl"`
	TopRecommendations int           `yaml:"topRecommendations"`
}

// IngestConfig controls FAQ file loading and page refresh behavior.
type IngestConfig struct {
	FAQPath        string        `yaml:"faqPath"`
	SourceURL      string        `yaml:"sourceUrl"`
	SectionMarkers []string      `yaml:"sectionMarkers"`
	FetchTimeout   time.Duration `yaml:"fetchTimeout"`
}

// KnowledgeConfig contains DSN and pooling settings for the vector store.
type KnowledgeConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// CacheConfig contains connection information for the answer cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// ArchiveConfig contains credentials for the ingestion object archive.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// StorefrontConfig contains the read-only shop database settings.
type StorefrontConfig struct {
	DSN          string        `yaml:"dsn"`
	BaseURL      string        `yaml:"baseUrl"`
	QueryTimeout time.Duration `yaml:"queryTimeout"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		cfg.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_EMBEDDING_DIMENSIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.EmbeddingDimensions = parsed
		}
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_REQUEST_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.RequestTimeout = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_STORE_NAME"); v != "" {
		cfg.Assistant.StoreName = v
	}
	if v := os.Getenv("ASSISTANT_SEARCH_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Assistant.SearchLimit = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_SIMILARITY_FLOOR"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Assistant.SimilarityFloor = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_MAX_CONTEXT_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Assistant.MaxContextTokens = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Assistant.CacheTTL = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_RECOMMENDATIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Assistant.TopRecommendations = parsed
		}
	}
	if v := os.Getenv("INGEST_FAQ_PATH"); v != "" {
		cfg.Ingest.FAQPath = v
	}
	if v := os.Getenv("INGEST_SOURCE_URL"); v != "" {
		cfg.Ingest.SourceURL = v
	}
	if v := os.Getenv("INGEST_SECTION_MARKERS"); v != "" {
		markers := strings.Split(v, ",")
		for i := range markers {
			markers[i] = strings.TrimSpace(markers[i])
		}
		cfg.Ingest.SectionMarkers = markers
	}
	if v := os.Getenv("INGEST_FETCH_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Ingest.FetchTimeout = parsed
		}
	}
	if v := os.Getenv("KNOWLEDGE_DSN"); v != "" {
		cfg.Knowledge.DSN = v
	}
	if v := os.Getenv("KNOWLEDGE_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Knowledge.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("KNOWLEDGE_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Knowledge.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = isTruthy(v)
	}
	if v := os.Getenv("CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("ARCHIVE_ENABLED"); v != "" {
		cfg.Archive.Enabled = isTruthy(v)
	}
	if v := os.Getenv("ARCHIVE_ENDPOINT"); v != "" {
		cfg.Archive.Endpoint = v
	}
	if v := os.Getenv("ARCHIVE_ACCESS_KEY"); v != "" {
		cfg.Archive.AccessKey = v
	}
	if v := os.Getenv("ARCHIVE_SECRET_KEY"); v != "" {
		cfg.Archive.SecretKey = v
	}
	if v := os.Getenv("ARCHIVE_BUCKET"); v != "" {
		cfg.Archive.Bucket = v
	}
	if v := os.Getenv("ARCHIVE_REGION"); v != "" {
		cfg.Archive.Region = v
	}
	if v := os.Getenv("STOREFRONT_DSN"); v != "" {
		cfg.Storefront.DSN = v
	}
	if v := os.Getenv("STOREFRONT_BASE_URL"); v != "" {
		cfg.Storefront.BaseURL = v
	}
	if v := os.Getenv("STOREFRONT_QUERY_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Storefront.QueryTimeout = parsed
		}
	}
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			Model:               "gpt-4o-mini",
			EmbeddingModel:      "text-embedding-3-small",
			EmbeddingDimensions: 1536,
			Temperature:         0.2,
			RequestTimeout:      60 * time.Second,
		},
		Assistant: AssistantConfig{
			StoreName:          "our store",
			SearchLimit:        3,
			SimilarityFloor:    0.7,
			MaxContextTokens:   2048,
			CacheTTL:           6 * time.Hour,
			TopRecommendations: 10,
		},
		Ingest: IngestConfig{
			FAQPath:        "data/faq.tsv",
			SectionMarkers: []string{"faq", "help"},
			FetchTimeout:   30 * time.Second,
		},
		Knowledge: KnowledgeConfig{
			DSN:      "",
			MaxConns: 4,
			MinConns: 0,
		},
		Cache: CacheConfig{
			Enabled: false,
			Addr:    "",
		},
		Storefront: StorefrontConfig{
			QueryTimeout: 5 * time.Second,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.LLM.EmbeddingModel) == "" {
		return errors.New("llm.embeddingModel cannot be empty")
	}
	if c.LLM.EmbeddingDimensions <= 0 {
		return errors.New("llm.embeddingDimensions must be positive")
	}
	if c.Assistant.SearchLimit <= 0 {
		return errors.New("assistant.searchLimit must be positive")
	}
	if c.Assistant.SimilarityFloor < 0 || c.Assistant.SimilarityFloor > 1 {
		return errors.New("assistant.similarityFloor must be within [0, 1]")
	}
	if c.Assistant.MaxContextTokens <= 0 {
		return errors.New("assistant.maxContextTokens must be positive")
	}
	if c.Assistant.CacheTTL < 0 {
		return errors.New("assistant.cacheTtl cannot be negative")
	}
	if c.Assistant.TopRecommendations < 0 {
		return errors.New("assistant.topRecommendations cannot be negative")
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Addr) == "" {
		return errors.New("cache.addr cannot be empty when the answer cache is enabled")
	}
	if c.Archive.Enabled {
		if strings.TrimSpace(c.Archive.Endpoint) == "" {
			return errors.New("archive.endpoint cannot be empty when the archive is enabled")
		}
		if strings.TrimSpace(c.Archive.Bucket) == "" {
			return errors.New("archive.bucket cannot be empty when the archive is enabled")
		}
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
