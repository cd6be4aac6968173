package main

import (
	"log"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"devfolio/articles"
	"devfolio/cache"
	"devfolio/common"
	"devfolio/config"
	"devfolio/database"
	"devfolio/logger"
	"devfolio/projects"
	"devfolio/security"
	"devfolio/site"
	"devfolio/timeline"
	"devfolio/upload"
)

const fragmentMaxAge = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	appLog := logger.New(cfg.LogLevel, cfg.Env)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := common.ConnectDb(cfg.DBFile)
	if err != nil {
		appLog.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.RunMigrations(db); err != nil {
		appLog.Fatal().Err(err).Msg("failed to run migrations")
	}

	if err := database.EnsureAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		appLog.Fatal().Err(err).Msg("failed to bootstrap admin account")
	}

	router := gin.New()
	router.Use(logger.RequestLogger(appLog))
	router.Use(logger.Recovery(appLog))
	router.Use(security.Headers())
	router.Use(security.CSRF(cfg.Domain))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
	})
	router.Use(sessions.Sessions("devfolio_session", store))

	limiter := security.NewLimiter()
	router.Use(limiter.Middleware())

	fragments := cache.NewStore(cfg.CacheDir, fragmentMaxAge)

	auth := security.NewAuthModule(db)
	auth.RegisterRoutes(router)

	articles.NewArticlesModule(db, fragments, auth, appLog).RegisterRoutes(router)
	timeline.NewTimelineModule(db, auth, appLog).RegisterRoutes(router)
	projects.NewProjectsModule(db, auth, appLog).RegisterRoutes(router)
	upload.NewUploadModule(cfg.UploadDir, cfg.FallbackUploadDir, cfg.MaxUploadSize, auth, appLog).
		RegisterRoutes(router)
	site.NewSiteModule(db, cfg.Domain).RegisterRoutes(router)
	database.RegisterSeedRoute(router, db, auth, fragments, appLog)

	appLog.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
	if err := router.Run(":" + cfg.Port); err != nil {
		appLog.Fatal().Err(err).Msg("server exited")
	}
}
