package handler

import (
	"paywave/internal/adapter/http/middleware"
	redisStore "paywave/internal/adapter/storage/redis"
	"paywave/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	RateSvc        ports.RateService
	TradeSvc       ports.TradeService
	WithdrawalSvc  ports.WithdrawalService
	SettlementSvc  ports.SettlementService
	UserRepo       ports.UserRepository
	TradeRepo      ports.TradeRepository
	WithdrawalRepo ports.WithdrawalRepository
	ProofStore     ports.ProofStore
	TokenSvc       ports.TokenService
	Denylist       ports.SessionDenylist
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	MaxUploadBytes int64
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	maxUpload := deps.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 8 << 20
	}

	// Global middleware. The body limit leaves headroom above the proof
	// file cap for the rest of the multipart payload.
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxUpload + 1<<20))

	// Health check (deep: verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Denylist, deps.Logger)
	adminOnly := middleware.AdminOnly()

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
		auth.POST("/logout", jwtAuth, authHandler.Logout)
	}

	rateHandler := NewRateHandler(deps.RateSvc)
	v1.GET("/rates/:method", rl("rates"), rateHandler.GetRate)

	// --- Authenticated routes ---
	dashboardHandler := NewDashboardHandler(deps.UserRepo, deps.RateSvc, deps.TradeSvc, deps.WithdrawalSvc)
	v1.GET("/dashboard", jwtAuth, rl("dashboard"), dashboardHandler.GetDashboard)

	tradeHandler := NewTradeHandler(deps.TradeSvc)
	trades := v1.Group("/trades", jwtAuth)
	{
		trades.POST("", rl("trades"), tradeHandler.Submit)
		trades.GET("", rl("dashboard"), tradeHandler.List)
	}

	withdrawalHandler := NewWithdrawalHandler(deps.WithdrawalSvc)
	withdrawals := v1.Group("/withdrawals", jwtAuth)
	{
		withdrawals.POST("", rl("withdrawals"), withdrawalHandler.Submit)
		withdrawals.GET("", rl("dashboard"), withdrawalHandler.List)
	}

	// --- Admin routes (role-checked) ---
	adminHandler := NewAdminHandler(
		deps.SettlementSvc,
		deps.RateSvc,
		deps.UserRepo,
		deps.TradeRepo,
		deps.WithdrawalRepo,
		deps.ProofStore,
	)
	admin := v1.Group("/admin", jwtAuth, adminOnly)
	{
		admin.GET("/overview", rl("admin"), adminHandler.Overview)
		admin.PUT("/rates", rl("admin"), adminHandler.UpdateRates)
		admin.POST("/trades/:id/approve", rl("admin"), adminHandler.ApproveTrade)
		admin.POST("/trades/:id/reject", rl("admin"), adminHandler.RejectTrade)
		admin.POST("/withdrawals/:id/approve", rl("admin"), adminHandler.ApproveWithdrawal)
		admin.POST("/withdrawals/:id/reject", rl("admin"), adminHandler.RejectWithdrawal)
	}

	// Proof files are visible to reviewers only.
	r.GET("/uploads/:name", jwtAuth, adminOnly, adminHandler.DownloadProof)

	return r
}
