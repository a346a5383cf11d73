//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/silkmart/support-assistant/internal/bootstrap"
	"github.com/silkmart/support-assistant/internal/domain/assistant"
	"github.com/silkmart/support-assistant/internal/domain/ingest"
	"github.com/silkmart/support-assistant/internal/domain/storefront"
	"github.com/silkmart/support-assistant/internal/infra/config"
	httpiface "github.com/silkmart/support-assistant/internal/interface/http"
	"github.com/silkmart/support-assistant/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAssistantConfig,
		provideChatGPTClient,
		provideEmbedder,
		provideToolRegistry,
		provideGenerator,
		provideKnowledgeRepository,
		provideAnswerStore,
		provideIngestConfig,
		providePageFetcher,
		provideArchive,
		provideStorefrontConfig,
		provideStorefrontRepository,
		assistant.NewService,
		ingest.NewService,
		storefront.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
