package bootstrap

import (
	"context"
	"log"
	"os"

	"timecapsule-be/internal/config"
	"timecapsule-be/internal/constant"
	"timecapsule-be/internal/controller"
	"timecapsule-be/internal/pkg/logger"
	"timecapsule-be/internal/repository/memory"
	"timecapsule-be/internal/repository/unitofwork"
	"timecapsule-be/internal/service"
	"timecapsule-be/pkg/llm"
	"timecapsule-be/pkg/llm/deepseek"
	pktNats "timecapsule-be/pkg/nats"
	"timecapsule-be/pkg/persona/history"
	"timecapsule-be/pkg/ratelimit"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	UserController    controller.IUserController
	DiaryController   controller.IDiaryController
	ContactController controller.IContactController

	// Request throttling, applied app-wide by the server
	RateLimiter ratelimit.Limiter

	// Shared structured logger, also used by the server middleware
	Logger logger.ILogger

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Conversation Infrastructure
	sessionCache := memory.NewSessionCache(cfg.Cache.SessionCapacity, cfg.Cache.SessionTTL)
	historyLoader := history.NewLoader(uowFactory, sessionCache, cfg.Cache.HistoryWindow)

	// LLM provider; nil keeps the chat pipeline on the built-in mock.
	var llmProvider llm.Provider
	if cfg.Ai.UseMock {
		log.Println("[INFO] LLM provider disabled, serving mock responses")
	} else {
		llmProvider = deepseek.NewProvider(
			cfg.Ai.DeepseekAPIKey,
			cfg.Ai.DeepseekBaseURL,
			cfg.Ai.Model,
			cfg.Ai.Timeout,
			cfg.Ai.MaxRetries,
			log.New(os.Stderr, "[deepseek] ", log.LstdFlags),
		)
		log.Printf("[INFO] Using LLM Provider: DeepSeek (%s)", cfg.Ai.Model)
	}

	// NATS (optional; chat still works without the activity feed)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Rate limiter: Redis-backed when configured, in-memory otherwise.
	limiterCfg := ratelimit.Config{
		Limits: map[string]int{
			constant.RouteClassAuth:  cfg.RateLimit.AuthPerMinute,
			constant.RouteClassAdmin: cfg.RateLimit.AdminPerMinute,
		},
		DefaultLimit: cfg.RateLimit.DefaultPerMinute,
		Whitelist:    cfg.RateLimit.Whitelist,
	}
	var limiter ratelimit.Limiter
	if cfg.App.RedisURL != "" {
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
		limiter = ratelimit.NewRedisLimiter(rdb, limiterCfg)
	} else {
		limiter = ratelimit.NewMemoryLimiter(limiterCfg)
	}

	// 4. Services
	publisherService := service.NewPublisherService(constant.SessionTitleTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.SessionTitleTopic,
		uowFactory,
		sysLogger,
	)

	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		historyLoader,
		cfg.Cache.HistoryWindow,
		publisherService,
		natsPub,
		sysLogger,
	)
	userService := service.NewUserService(uowFactory, historyLoader, natsPub, sysLogger)
	diaryService := service.NewDiaryService(uowFactory)
	contactService := service.NewContactService(uowFactory)

	// 5. Controllers
	return &Container{
		ChatController:    controller.NewChatController(chatService),
		UserController:    controller.NewUserController(userService),
		DiaryController:   controller.NewDiaryController(diaryService),
		ContactController: controller.NewContactController(contactService),

		RateLimiter: limiter,
		Logger:      sysLogger,

		ConsumerService: consumerService,
	}
}
