package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/naturetrail/naturetrail/internal/achievement"
	achievementdomain "github.com/naturetrail/naturetrail/internal/achievement/domain"
	"github.com/naturetrail/naturetrail/internal/activity"
	"github.com/naturetrail/naturetrail/internal/config"
	"github.com/naturetrail/naturetrail/internal/identity"
	identitydomain "github.com/naturetrail/naturetrail/internal/identity/domain"
	"github.com/naturetrail/naturetrail/internal/identity/session"
	"github.com/naturetrail/naturetrail/internal/observability"
	obsmiddleware "github.com/naturetrail/naturetrail/internal/observability/logger"
	obsmetrics "github.com/naturetrail/naturetrail/internal/observability/metrics"
	obstracing "github.com/naturetrail/naturetrail/internal/observability/tracing"
	paymentprovider "github.com/naturetrail/naturetrail/internal/providers/payment"
	"github.com/naturetrail/naturetrail/internal/sighting"
	sightingdomain "github.com/naturetrail/naturetrail/internal/sighting/domain"
	"github.com/naturetrail/naturetrail/internal/subscription"
	subscriptiondomain "github.com/naturetrail/naturetrail/internal/subscription/domain"
	"github.com/naturetrail/naturetrail/internal/trail"
	traildomain "github.com/naturetrail/naturetrail/internal/trail/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	identity.Module,
	trail.Module,
	sighting.Module,
	achievement.Module,
	paymentprovider.Module,
	subscription.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	identitySvc     identitydomain.Service
	sessions        *session.Manager
	sessionStore    *session.Store
	trailSvc        traildomain.Service
	sightingSvc     sightingdomain.Service
	achievementSvc  achievementdomain.Service
	subscriptionSvc subscriptiondomain.Service
	activityRepo    activity.Repository
	obsMetrics      *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	IdentitySvc     identitydomain.Service
	Sessions        *session.Manager
	SessionStore    *session.Store
	TrailSvc        traildomain.Service
	SightingSvc     sightingdomain.Service
	AchievementSvc  achievementdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	ActivityRepo    activity.Repository
	ObsMetrics      *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		identitySvc:     p.IdentitySvc,
		sessions:        p.Sessions,
		sessionStore:    p.SessionStore,
		trailSvc:        p.TrailSvc,
		sightingSvc:     p.SightingSvc,
		achievementSvc:  p.AchievementSvc,
		subscriptionSvc: p.SubscriptionSvc,
		activityRepo:    p.ActivityRepo,
		obsMetrics:      p.ObsMetrics,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.Register)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Plans --------
	// The plan catalog is public so the paywall page can render it.
	api.GET("/plans", s.ListPlans)

	api.Use(s.AuthRequired())

	// -------- Trails --------
	api.GET("/trails", s.RequirePermission(identitydomain.PermViewTrails), s.ListTrails)
	api.POST("/trails", s.RequirePermission(identitydomain.PermViewTrails), s.CreateTrail)
	api.GET("/trails/:id", s.RequirePermission(identitydomain.PermViewTrails), s.GetTrailByID)
	api.PATCH("/trails/:id", s.RequirePermission(identitydomain.PermViewTrails), s.UpdateTrail)
	api.DELETE("/trails/:id", s.RequirePermission(identitydomain.PermViewTrails), s.DeleteTrail)
	api.POST("/trails/:id/complete", s.RequirePermission(identitydomain.PermViewTrails), s.CompleteTrail)
	api.GET("/completions", s.RequirePermission(identitydomain.PermViewOwnHistory), s.ListMyCompletions)

	// -------- Sightings --------
	api.POST("/sightings", s.RequirePermission(identitydomain.PermLogSightings), s.LogSighting)
	api.GET("/sightings", s.RequirePermission(identitydomain.PermViewOwnHistory), s.ListMySightings)

	// -------- Badges --------
	api.GET("/badges", s.ListBadges)
	api.GET("/badges/mine", s.RequirePermission(identitydomain.PermViewOwnHistory), s.ListMyBadges)
	api.POST("/badges/evaluate", s.EvaluateBadges)

	// -------- Subscriptions --------
	api.POST("/subscriptions/checkout", s.CreateCheckoutSession)
	api.POST("/subscriptions/confirm", s.ConfirmSubscription)
	api.GET("/subscriptions/:id", s.GetSubscriptionStatus)
	api.POST("/subscriptions/:id/cancel", s.CancelSubscription)

	// -------- Analytics --------
	api.GET("/analytics/summary", s.RequirePermission(identitydomain.PermAdvancedAnalytics), s.GetActivitySummary)
}
