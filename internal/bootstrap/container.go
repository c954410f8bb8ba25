package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-planner-be/internal/config"
	"ai-planner-be/internal/constant"
	"ai-planner-be/internal/controller"
	"ai-planner-be/internal/pkg/logger"
	"ai-planner-be/internal/repository/memory"
	"ai-planner-be/internal/repository/unitofwork"
	"ai-planner-be/internal/service"
	"ai-planner-be/pkg/design"
	"ai-planner-be/pkg/llm/factory"
	"ai-planner-be/pkg/orchestrator"
	"ai-planner-be/pkg/planning"
	"ai-planner-be/pkg/progress"
	"ai-planner-be/pkg/userflow"

	pktNats "ai-planner-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PlannerController      controller.PlannerController
	OrchestratorController controller.OrchestratorController

	// Background Services (Exposed for main.go to run)
	AnalyticsService service.IAnalyticsService
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

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// LLM traffic goes to its own file to keep prompt dumps out of the
	// application log.
	llmLogger := logger.NewIsolatedLogger("logs/llm_planner.log")
	llmProvider = newTracedProvider(llmProvider, llmLogger)

	// Initialize In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	var progressCache *progress.Cache
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Progress served from the design service directly", err)
	} else {
		progressCache = progress.NewCache(rdb, progress.DefaultTTL)
	}

	// 3. Conversation Graphs
	planGraph, err := planning.NewGraph(planning.Config{
		Provider: llmProvider,
		Recorder: service.NewSessionRecorder(uowFactory, pubSub, sysLogger, constant.DocumentKindPRD),
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to build planning graph: %v", err)
	}
	flowGraph, err := userflow.NewGraph(userflow.Config{
		Provider: llmProvider,
		Recorder: service.NewSessionRecorder(uowFactory, pubSub, sysLogger, constant.DocumentKindUserflow),
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to build user flow graph: %v", err)
	}

	designClient := design.NewClient(cfg.Design.AgentURL)
	orchGraph, err := orchestrator.NewGraph(orchestrator.Config{
		Design: designClient,
		Store:  service.NewOrchestratorStore(uowFactory),
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to build orchestrator graph: %v", err)
	}

	// 4. Services
	analyticsService := service.NewAnalyticsService(pubSub, constant.TopicAnalyticsEvents, uowFactory)

	plannerService := service.NewPlannerService(
		uowFactory,
		planGraph,
		flowGraph,
		sessionRepo,
		natsPub,
		sysLogger,
	)
	orchestratorService := service.NewOrchestratorService(
		uowFactory,
		orchGraph,
		designClient,
		progressCache,
		natsPub,
		sysLogger,
		time.Duration(cfg.Design.PollIntervalSeconds)*time.Second,
	)

	// 5. Controllers
	return &Container{
		PlannerController:      controller.NewPlannerController(plannerService),
		OrchestratorController: controller.NewOrchestratorController(orchestratorService),

		AnalyticsService: analyticsService,
	}
}
