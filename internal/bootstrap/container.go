package bootstrap

import (
	"context"
	"log"
	"time"

	"document-bot-be/internal/config"
	"document-bot-be/internal/controller"
	"document-bot-be/internal/pkg/logger"
	"document-bot-be/internal/repository/implementation"
	"document-bot-be/internal/repository/memory"
	"document-bot-be/internal/repository/redisstore"
	"document-bot-be/internal/service"
	"document-bot-be/pkg/analytics"
	"document-bot-be/pkg/assistant"
	"document-bot-be/pkg/embedding"
	"document-bot-be/pkg/extractor"
	"document-bot-be/pkg/llm/factory"
	"document-bot-be/pkg/llm/openai"
	"document-bot-be/pkg/uploader"
	"document-bot-be/pkg/validation"

	pktNats "document-bot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider, err := embedding.NewEmbeddingProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// 5. Analytics (isolated log file + in-process bus, forwarded to NATS)
	analyticsLogger := logger.NewIsolatedLogger(cfg.Analytics.EventLogPath)
	emitter := analytics.NewBus(cfg.Analytics.Enabled, analyticsLogger, pubSub)

	consumerService := service.NewConsumerService(pubSub, natsPub)

	// 6. Flagged-state tracker (per-user cooldown after a rejected question)
	flaggedTTL := time.Duration(cfg.Validation.FlaggedTTLMinutes) * time.Minute
	var tracker assistant.FlaggedTracker
	if cfg.Validation.FlaggedStore == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		tracker = redisstore.NewFlaggedTracker(rdb, flaggedTTL, sysLogger)
		log.Printf("[INFO] Using Flagged Tracker: REDIS")
	} else {
		tracker = memory.NewFlaggedTracker(flaggedTTL)
		log.Printf("[INFO] Using Flagged Tracker: MEMORY")
	}

	// 7. Validation chain
	validators := []validation.QuestionValidator{
		validation.NewMaxLengthValidator(cfg.Validation.MaxQuestionLength),
	}
	if cfg.Ai.OpenAIAPIKey != "" {
		moderator := openai.NewModerationClient(cfg.Ai.OpenAIAPIKey, cfg.Ai.ModerationModel)
		validators = append(validators, validation.NewModerationValidator(moderator, emitter))
	} else {
		log.Printf("[WARN] No OpenAI API key, content moderation disabled")
	}
	chain := validation.NewChain(emitter, validators...)

	// 8. Retrieval + upload
	documentIndex := implementation.NewDocumentIndex(db, embeddingProvider)
	metaExtractor := extractor.NewLLMExtractor(llmProvider)
	up := uploader.NewUploader(cfg.App.LocalStoragePath, metaExtractor, embeddingProvider, documentIndex)

	// 9. Pipeline
	asst := assistant.New(documentIndex, chain, llmProvider, tracker, emitter)

	messageRepo := implementation.NewChatMessageRepository(db)
	assistantService := service.NewAssistantService(asst, up, messageRepo, sysLogger)

	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		ConsumerService:     consumerService,
		Logger:              sysLogger,
	}
}
