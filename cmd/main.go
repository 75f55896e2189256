package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/learnpath-auth/config"
	"github.com/oksasatya/learnpath-auth/internal/application"
	"github.com/oksasatya/learnpath-auth/internal/container"
	"github.com/oksasatya/learnpath-auth/internal/infrastructure/search"
	"github.com/oksasatya/learnpath-auth/internal/infrastructure/store"
	"github.com/oksasatya/learnpath-auth/internal/interface/middleware"
	"github.com/oksasatya/learnpath-auth/internal/router"
	"github.com/oksasatya/learnpath-auth/pkg/helpers"
	"github.com/oksasatya/learnpath-auth/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to open credential store")
	}
	defer st.Close()

	// Redis backs the rate limiters; an unreachable redis only disables them.
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if cfg.RateLimitEnabled {
		if err := helpers.PingRedis(ctx, rdb, 2*time.Second); err != nil {
			logger.WithError(err).Warn("redis unreachable; rate limits fail open")
		}
	}

	// Welcome email jobs
	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; welcome emails disabled")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	// User directory
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Fatal("failed to init elasticsearch client")
		}
		if err := search.NewUserDirectory(es, cfg.ESUsersIndex).EnsureIndex(ctx); err != nil {
			logger.WithError(err).Warn("elasticsearch index check failed")
		}
		container.SetES(es)
	}

	bg := application.NewBackground(logger, cfg.LoginRecordTimeout)

	// Provide singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetUserRepo(st.Users)
	container.SetRedis(rdb)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL))
	container.SetHasher(helpers.NewPasswordHasher(cfg.BcryptCost, cfg.HashConcurrency))
	container.SetBackground(bg)

	// Gin engine and global middleware
	r := gin.New()
	if err := middleware.TrustProxies(r, cfg.TrustedProxyList()); err != nil {
		logger.WithError(err).Fatal("invalid TRUSTED_PROXIES")
	}
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}
	r.Use(middleware.Recovery(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:    cfg.CORSOrigins(),
		AllowAllOrigins: len(cfg.CORSOrigins()) == 0,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:   []string{"Content-Length", middleware.RequestIDHeader, "Retry-After"},
		MaxAge:          12 * time.Hour,
	}))

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	// let pending login records and jobs finish
	if err := bg.Wait(ctxShutdown); err != nil {
		logger.WithError(err).Warn("background jobs still running at exit")
	}
	logger.Info("server exited properly")
}
