package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/listenline/session-booking/internal/cache"
	"github.com/listenline/session-booking/internal/config"
	dbpkg "github.com/listenline/session-booking/internal/db"
	"github.com/listenline/session-booking/internal/middleware"
	"github.com/listenline/session-booking/internal/routes"
)

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = os.Stderr
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if cfg.LogPretty {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out})
	}
	return logger
}

func newCacheStore(cfg *config.Config, log zerolog.Logger) cache.Store {
	if cfg.CacheBackend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		return cache.NewRedisStore(client, log)
	}
	return cache.NewMemoryStore()
}

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	log := newLogger(cfg)

	db := dbpkg.NewDB(cfg, log)

	cacheSvc := cache.NewService(newCacheStore(cfg, log), cfg.CacheTTL, log)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, cacheSvc, log)

	log.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
