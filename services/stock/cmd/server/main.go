package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/grayson061030/stockapi/pkg/cache"
	"github.com/grayson061030/stockapi/pkg/logger"
	"github.com/grayson061030/stockapi/pkg/messaging"
	httpHandler "github.com/grayson061030/stockapi/services/stock/internal/adapter/handler/http"
	"github.com/grayson061030/stockapi/services/stock/internal/adapter/repository"
	"github.com/grayson061030/stockapi/services/stock/internal/config"
	domainerrors "github.com/grayson061030/stockapi/services/stock/internal/domain/errors"
	"github.com/grayson061030/stockapi/services/stock/internal/infrastructure/database"
	grpcServer "github.com/grayson061030/stockapi/services/stock/internal/infrastructure/grpc"
	httpServer "github.com/grayson061030/stockapi/services/stock/internal/infrastructure/http"
	"github.com/grayson061030/stockapi/services/stock/internal/infrastructure/metrics"
	"github.com/grayson061030/stockapi/services/stock/internal/infrastructure/random"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase"
)

func main() {
	// 1. 설정 로드
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("설정 로드 실패: %v", err))
	}

	// 2. 로거 가져오기
	log := cfg.Logger
	defer func() { _ = log.Sync() }()
	log.Info("STOCK 서비스 시작",
		zap.String("environment", cfg.Service.Environment),
		zap.String("version", cfg.Service.Version),
	)

	// 3. 데이터베이스 연결 및 마이그레이션
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("데이터베이스 연결 실패", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("데이터베이스 종료 실패", zap.Error(err))
		}
	}()

	if err := database.Migrate(db, log); err != nil {
		log.Fatal("마이그레이션 실패", zap.Error(err))
	}

	// 4. 리포지토리 초기화
	stockRepo := repository.NewStockRepository(db, log)
	queryRepo := repository.NewStockQueryRepository(db)
	tagRepo := repository.NewTagRepository(db)

	generator := random.NewGenerator(0)

	// 5. 샘플 데이터 생성
	if cfg.Seed.Enabled {
		seeder := usecase.NewSeedUseCase(log, stockRepo, generator)
		if _, err := seeder.Seed(context.Background(), cfg.Seed.StockCount, cfg.Seed.HistoryDays); err != nil {
			log.Fatal("샘플 데이터 생성 실패", zap.Error(err))
		}
	}

	// 6. 캐시 저장소와 메트릭 초기화
	store := cache.NewMemoryStore(cache.Config{
		DefaultTTL:    cfg.Cache.DefaultTTL,
		SweepInterval: cfg.Cache.SweepInterval,
	}, cache.WithLogger(log))
	defer store.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cacheMetrics, err := metrics.NewCacheMetrics(registry, store)
	if err != nil {
		log.Fatal("캐시 메트릭 등록 실패", zap.Error(err))
	}

	stockCache := usecase.NewStockCache(log, store, usecase.CacheOptions{
		ListTTL:   cfg.Cache.ListTTL,
		DetailTTL: cfg.Cache.DetailTTL,
		Coalesce:  cfg.Cache.CoalesceMisses,
		Recorder:  cacheMetrics,
		Evictions: cacheMetrics,
	})

	// 7. 이벤트 발행기 초기화 (Redis 비활성화 시 발행하지 않음)
	instanceID := uuid.NewString()
	listenCtx, stopListening := context.WithCancel(context.Background())
	defer stopListening()

	var publisher messaging.Publisher = messaging.NopPublisher{}
	eventChannel := ""
	if cfg.Redis.Enabled {
		redisClient, err := messaging.NewRedisClient(context.Background(), messaging.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Redis 연결 실패", zap.Error(err))
		}
		defer redisClient.Close()
		publisher = redisClient
		eventChannel = cfg.Redis.Channel

		// 다른 인스턴스의 데이터 변경 이벤트로 로컬 캐시를 비웁니다
		listener := usecase.NewInvalidationListener(log, redisClient, eventChannel, instanceID, stockCache)
		go func() {
			if err := listener.Run(listenCtx); err != nil {
				log.Error("캐시 무효화 리스너 에러", zap.Error(err))
			}
		}()
	}

	// 8. 유스케이스 초기화
	stockUseCase := usecase.NewStockUseCase(log, stockRepo, queryRepo, tagRepo, stockCache)
	simulationUseCase := usecase.NewSimulationUseCase(log, usecase.SimulationConfig{
		EventChannel: eventChannel,
		InstanceID:   instanceID,
	}, stockRepo, generator, stockCache, publisher)

	// 9. HTTP 서버 초기화 및 라우트 등록
	httpSrv := httpServer.NewServer(
		httpServer.WithAddr(cfg.Server.HTTP.Addr()),
		httpServer.WithLogger(log),
		httpServer.WithRegistry(registry),
		httpServer.WithErrorConfig(logger.ErrorHandlerConfig{
			InternalCode:    domainerrors.CodeInternal,
			InternalMessage: domainerrors.ErrInternal.Message(),
		}),
	)
	httpSrv.RegisterRoutes(httpHandler.NewStockHandler(stockUseCase).RegisterRoutes)
	httpSrv.RegisterRoutes(httpHandler.NewCacheHandler(stockCache).RegisterRoutes)
	if cfg.Service.EnableTestEndpoints {
		httpSrv.RegisterRoutes(httpHandler.NewSimulationHandler(simulationUseCase).RegisterRoutes)
	}
	httpSrv.RegisterRoutes(func(e *echo.Echo) {
		e.GET("/version", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]string{
				"name":    cfg.Service.Name,
				"version": cfg.Service.Version,
			})
		})
	})

	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP 서버 에러", zap.Error(err))
		}
	}()

	// 10. gRPC 서버 초기화 및 시작
	var grpcSrv *grpcServer.Server
	if cfg.Server.GRPC.Enabled {
		grpcSrv = grpcServer.NewServer(
			grpcServer.WithAddr(cfg.Server.GRPC.Addr()),
			grpcServer.WithLogger(log),
		)
		grpcSrv.SetServingStatus(cfg.Service.Name, true)

		go func() {
			if err := grpcSrv.Start(); err != nil {
				log.Error("gRPC 서버 에러", zap.Error(err))
			}
		}()
	}

	log.Info("서버 실행 중...",
		zap.String("http_addr", cfg.Server.HTTP.Addr()),
		zap.Bool("grpc_enabled", cfg.Server.GRPC.Enabled),
	)

	// 11. 종료 시그널 처리
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("서버 종료 중...")
	stopListening()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.HTTP.ShutdownTimeout)
	defer cancel()

	// 12. HTTP 서버 종료
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error("HTTP 서버 종료 실패", zap.Error(err))
	}

	// 13. gRPC 서버 종료
	if grpcSrv != nil {
		if err := grpcSrv.Shutdown(ctx); err != nil {
			log.Error("gRPC 서버 종료 실패", zap.Error(err))
		}
	}

	// 남은 defer가 캐시 저장소, Redis, 데이터베이스 순으로 정리합니다
	log.Info("서버 정상 종료")
}
