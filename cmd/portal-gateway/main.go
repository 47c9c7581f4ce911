package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/orgportal-gateway/api/swagger"
	"github.com/noah-isme/orgportal-gateway/internal/acadyear"
	"github.com/noah-isme/orgportal-gateway/internal/dispatch"
	"github.com/noah-isme/orgportal-gateway/internal/handler"
	"github.com/noah-isme/orgportal-gateway/internal/middleware"
	"github.com/noah-isme/orgportal-gateway/internal/panel"
	"github.com/noah-isme/orgportal-gateway/internal/repository"
	"github.com/noah-isme/orgportal-gateway/internal/service"
	"github.com/noah-isme/orgportal-gateway/internal/upstream"
	"github.com/noah-isme/orgportal-gateway/pkg/cache"
	"github.com/noah-isme/orgportal-gateway/pkg/config"
	"github.com/noah-isme/orgportal-gateway/pkg/database"
	"github.com/noah-isme/orgportal-gateway/pkg/logger"
	corsmiddleware "github.com/noah-isme/orgportal-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/orgportal-gateway/pkg/middleware/requestid"
)

// @title Org Portal Gateway
// @version 0.1.0
// @description Rendering gateway over the legacy organization portal
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := upstream.NewClient(cfg.Upstream, logr)

	// The profile store degrades gracefully: without Redis the login
	// relay still works, only /session/profile goes dark.
	var profiles *repository.ProfileRepository
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, profile store disabled", zap.Error(err))
	} else {
		defer redisClient.Close() //nolint:errcheck
		profiles = repository.NewProfileRepository(redisClient, cfg.Session.ProfileTTL, logr)
	}

	var sessions *service.SessionService
	if profiles != nil {
		sessions, err = service.NewSessionService(client, profiles, nil, logr, cfg.Session)
	} else {
		sessions, err = service.NewSessionService(client, nil, nil, logr, cfg.Session)
	}
	if err != nil {
		logr.Sugar().Fatalw("failed to init session service", "error", err)
	}

	metrics := service.NewMetricsService()

	var audits *service.AuditService
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Warn("postgres unavailable, audit trail disabled", zap.Error(err))
		} else {
			defer db.Close() //nolint:errcheck
			audits = service.NewAuditService(repository.NewAuditRepository(db), cfg.Audit, logr)
			audits.Start(rootCtx)
			defer audits.Stop()
		}
	}

	notifications := panel.NewNotifications(client, cfg.Panels.NotificationInterval, metrics)

	var recorder dispatch.Recorder
	if audits != nil {
		recorder = audits
	}
	dispatcher := dispatch.NewPortal(client, notifications, recorder, metrics, logr)

	resolver := acadyear.NewResolver(client, logr)
	if err := resolver.Load(rootCtx); err != nil {
		// The portal still comes up; panels render once the first
		// successful reload lands.
		logr.Warn("initial academic-year load failed", zap.Error(err))
	}

	host := panel.NewHost(metrics, logr)
	host.Register(panel.NewAcademicYears(client, cfg.Panels.AcademicYearInterval, cfg.Panels.PerPage, metrics))
	host.Register(panel.NewAccreditation(client, resolver, cfg.Panels.AccreditationInterval, cfg.Panels.PerPage, metrics))
	host.Register(panel.NewEvents(client, resolver, cfg.Panels.EventsInterval, cfg.Panels.PerPage, metrics))
	host.Register(panel.NewFees(client, resolver, cfg.Panels.FeesInterval, cfg.Panels.PerPage, metrics))
	host.Register(notifications)
	host.Register(panel.NewAnnouncements(client, cfg.Panels.AnnouncementInterval, cfg.Panels.PerPage, metrics))
	host.Start(rootCtx)
	defer host.Shutdown()

	panelHandler := handler.NewPanelHandler(host, dispatcher)
	sessionHandler := handler.NewSessionHandler(sessions)
	acadyearHandler := handler.NewAcadYearHandler(resolver, host, "accreditation", "events", "fees")
	metricsHandler := handler.NewMetricsHandler(metrics)
	auditHandler := handler.NewAuditHandler(audits)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	r.POST("/session/login", sessionHandler.Login)
	r.POST("/session/register", sessionHandler.Register)
	r.GET("/session/remembered", sessionHandler.Remembered)

	authed := r.Group("/", middleware.Session(sessions))
	{
		authed.GET("/session/profile", sessionHandler.Profile)
		authed.POST("/session/logout", sessionHandler.Logout)

		authed.POST("/panels/:name/mount", panelHandler.Mount)
		authed.DELETE("/panels/:name/mount", panelHandler.Unmount)
		authed.GET("/panels/:name/fragment", panelHandler.Fragment)
		authed.GET("/panels/:name/state", panelHandler.State)
		authed.POST("/panels/:name/actions", panelHandler.Dispatch)
		authed.POST("/panels/:name/files/:id", panelHandler.Replace)

		authed.GET("/acadyear/context", acadyearHandler.Context)
		authed.GET("/acadyear/years", acadyearHandler.Years)
		authed.POST("/acadyear/reload", acadyearHandler.Reload)
		authed.POST("/acadyear/range", acadyearHandler.SelectRange)
		authed.POST("/acadyear/semester", acadyearHandler.SelectSemester)

		authed.GET("/audits", middleware.RequireRole("admin"), auditHandler.List)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
