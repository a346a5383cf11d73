package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/silkmart/support-assistant/internal/domain/assistant"
	"github.com/silkmart/support-assistant/internal/domain/ingest"
	"github.com/silkmart/support-assistant/internal/domain/storefront"
	"github.com/silkmart/support-assistant/internal/infra/answercache"
	"github.com/silkmart/support-assistant/internal/infra/archive"
	"github.com/silkmart/support-assistant/internal/infra/config"
	"github.com/silkmart/support-assistant/internal/infra/embedder"
	"github.com/silkmart/support-assistant/internal/infra/knowledgerepo"
	"github.com/silkmart/support-assistant/internal/infra/llm"
	"github.com/silkmart/support-assistant/internal/infra/llm/chatgpt"
	"github.com/silkmart/support-assistant/internal/infra/scraper"
	"github.com/silkmart/support-assistant/internal/infra/storefrontrepo"
)

func provideAssistantConfig(cfg *config.Config) assistant.Config {
	return assistant.Config{
		StoreName:          cfg.Assistant.StoreName,
		SearchLimit:        cfg.Assistant.SearchLimit,
		SimilarityFloor:    cfg.Assistant.SimilarityFloor,
		MaxContextTokens:   cfg.Assistant.MaxContextTokens,
		CacheTTL:           cfg.Assistant.CacheTTL,
		TopRecommendations: cfg.Assistant.TopRecommendations,
	}
}

// provideChatGPTClient returns nil when no API key is configured; the
// embedder and generator providers then select their offline backends.
func provideChatGPTClient(cfg *config.Config, logger *slog.Logger) (*chatgpt.Client, error) {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Info("llm api key not set, running with offline backends")
		return nil, nil
	}
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.RequestTimeout)
}

func provideEmbedder(cfg *config.Config, client *chatgpt.Client, logger *slog.Logger) assistant.EmbeddingProvider {
	if client == nil {
		return embedder.NewDeterministicEmbedder(cfg.LLM.EmbeddingDimensions)
	}
	primary := embedder.NewChatGPTEmbedder(client, cfg.LLM.EmbeddingModel, cfg.LLM.EmbeddingDimensions)
	return embedder.NewResilient(primary, logger)
}

func provideToolRegistry(storefrontSvc *storefront.Service, logger *slog.Logger) (*assistant.ToolRegistry, error) {
	registry := assistant.NewToolRegistry()
	for _, tool := range storefront.Tools(storefrontSvc) {
		if err := registry.Register(tool); err != nil {
			return nil, fmt.Errorf("register tool %s: %w", tool.Name, err)
		}
	}
	logger.Info("tool registry ready", "tools", len(registry.List()))
	return registry, nil
}

func provideGenerator(cfg *config.Config, client *chatgpt.Client, registry *assistant.ToolRegistry, logger *slog.Logger) assistant.Generator {
	if client == nil {
		return llm.StaticGenerator{}
	}
	return llm.NewChatGPTGenerator(llm.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		StoreName:   cfg.Assistant.StoreName,
	}, client, registry, logger)
}

// provideKnowledgeRepository uses the in-memory store when no DSN is set. A
// configured but unreachable database is a startup failure, not a silent
// downgrade: serving support answers from an empty store would be worse
// than refusing to start.
func provideKnowledgeRepository(cfg *config.Config, logger *slog.Logger) (assistant.KnowledgeRepository, error) {
	dsn := strings.TrimSpace(cfg.Knowledge.DSN)
	if dsn == "" {
		logger.Info("knowledge dsn not set, using memory repository")
		return knowledgerepo.NewMemoryRepository(), nil
	}
	pool, err := openPool(dsn, cfg.Knowledge.MaxConns, cfg.Knowledge.MinConns)
	if err != nil {
		return nil, fmt.Errorf("knowledge database: %w", err)
	}
	repo := knowledgerepo.NewPostgresRepository(pool, cfg.LLM.EmbeddingDimensions)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("knowledge postgres repository enabled")
	return repo, nil
}

func provideAnswerStore(cfg *config.Config, logger *slog.Logger) assistant.AnswerStore {
	if cfg.Cache.Enabled {
		opt, err := buildValkeyOptions(cfg.Cache.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return answercache.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return answercache.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey answer cache enabled", "addr", cfg.Cache.Addr)
			return answercache.NewValkeyStore(client, "assistant")
		}
	}
	return answercache.NewMemoryStore()
}

func provideIngestConfig(cfg *config.Config) ingest.Config {
	return ingest.Config{
		FAQPath:   cfg.Ingest.FAQPath,
		SourceURL: cfg.Ingest.SourceURL,
	}
}

func providePageFetcher(cfg *config.Config) ingest.PageFetcher {
	return scraper.NewHTTPFetcher(cfg.Ingest.FetchTimeout, cfg.Ingest.SectionMarkers)
}

func provideArchive(cfg *config.Config, logger *slog.Logger) ingest.Archive {
	if !cfg.Archive.Enabled {
		return archive.NewMemoryArchive()
	}
	store, err := archive.NewObjectArchive(cfg.Archive.Endpoint, cfg.Archive.AccessKey, cfg.Archive.SecretKey, cfg.Archive.Bucket, cfg.Archive.Region, logger)
	if err != nil {
		logger.Error("archive init failed, falling back to memory archive", "error", err)
		return archive.NewMemoryArchive()
	}
	logger.Info("ingestion archive enabled", "bucket", cfg.Archive.Bucket)
	return store
}

func provideStorefrontConfig(cfg *config.Config) storefront.Config {
	return storefront.Config{BaseURL: cfg.Storefront.BaseURL}
}

// provideStorefrontRepository mirrors the knowledge repository policy: no
// DSN means memory, a bad DSN fails startup.
func provideStorefrontRepository(cfg *config.Config, logger *slog.Logger) (storefront.Repository, error) {
	dsn := strings.TrimSpace(cfg.Storefront.DSN)
	if dsn == "" {
		logger.Info("storefront dsn not set, using memory repository")
		return storefrontrepo.NewMemoryRepository(), nil
	}
	pool, err := openPool(dsn, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("storefront database: %w", err)
	}
	logger.Info("storefront postgres repository enabled")
	return storefrontrepo.NewPostgresRepository(pool), nil
}

func openPool(dsn string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}
	if minConns > 0 {
		poolConfig.MinConns = minConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("initialize pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(addr, "://") {
		opt, err = valkey.ParseURL(addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
