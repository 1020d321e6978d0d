package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"promptmint.backend/internal/domain/entities"
	"promptmint.backend/internal/interfaces/http/handlers"
	"promptmint.backend/internal/interfaces/http/middleware"
	"promptmint.backend/pkg/jwt"
)

type routeDeps struct {
	creatorHandler    *handlers.CreatorHandler
	templateHandler   *handlers.TemplateHandler
	withdrawalHandler *handlers.WithdrawalHandler
	moderationHandler *handlers.ModerationHandler
	ledgerHandler     *handlers.LedgerHandler
	statsHandler      *handlers.StatsHandler
	callbackHandler   *handlers.PayoutCallbackHandler
	jwtService        *jwt.JWTService
	registry          *prometheus.Registry
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{})))

	auth := middleware.AuthMiddleware(d.jwtService)
	idem := middleware.IdempotencyMiddleware()

	manageContent := middleware.RequirePermission(string(entities.PermManageContent))
	manageFinance := middleware.RequirePermission(string(entities.PermManageFinance))
	manageUsers := middleware.RequirePermission(string(entities.PermManageUsers))
	manageModeration := middleware.RequirePermission(string(entities.PermManageModeration))

	v1 := r.Group("/api/v1")
	{
		// Payout provider callback (secret-authenticated, not JWT)
		v1.POST("/callbacks/payout", d.callbackHandler.Handle)

		// Creator accounts
		creators := v1.Group("/creators")
		creators.Use(auth)
		{
			creators.POST("", manageUsers, d.creatorHandler.Register)
			creators.GET("", d.creatorHandler.List)
			creators.GET("/:id", d.creatorHandler.Get)
			creators.POST("/:id/verify", manageUsers, idem, d.creatorHandler.SetVerified)
			creators.POST("/:id/wallet-freeze", manageFinance, idem, d.creatorHandler.SetWalletFrozen)
			creators.POST("/:id/suspend", manageUsers, idem, d.creatorHandler.Suspend)
			creators.POST("/:id/unsuspend", manageUsers, idem, d.creatorHandler.Unsuspend)
			creators.POST("/:id/ban", manageUsers, idem, d.creatorHandler.Ban)
			creators.POST("/:id/unban", manageUsers, idem, d.creatorHandler.Unban)

			creators.GET("/:id/balance", d.ledgerHandler.GetBalance)
			creators.GET("/:id/ledger", d.ledgerHandler.ListEntries)
			creators.GET("/:id/strikes", d.moderationHandler.ListStrikes)
		}

		// Template approval
		templates := v1.Group("/templates")
		templates.Use(auth)
		{
			templates.POST("", manageContent, d.templateHandler.Submit)
			templates.GET("", d.templateHandler.List)
			templates.GET("/:id", d.templateHandler.Get)
			templates.POST("/:id/approve", manageContent, idem, d.templateHandler.Approve)
			templates.POST("/:id/reject", manageContent, idem, d.templateHandler.Reject)
			templates.POST("/:id/pause", manageContent, idem, d.templateHandler.SetPaused)
			templates.POST("/:id/feature", manageContent, idem, d.templateHandler.SetFeatured)
			templates.POST("/:id/resubmit", manageContent, idem, d.templateHandler.Resubmit)
		}

		// Usage accrual (internal pipeline, still admin-authenticated)
		v1.POST("/usage-events", auth, manageFinance, d.ledgerHandler.AccrueUsage)

		// Withdrawal processing
		withdrawals := v1.Group("/withdrawals")
		withdrawals.Use(auth, manageFinance)
		{
			withdrawals.POST("", idem, d.withdrawalHandler.Request)
			withdrawals.GET("", d.withdrawalHandler.List)
			withdrawals.GET("/:id", d.withdrawalHandler.Get)
			withdrawals.POST("/:id/approve", idem, d.withdrawalHandler.Approve)
			withdrawals.POST("/:id/complete", idem, d.withdrawalHandler.Complete)
			withdrawals.POST("/:id/reject", idem, d.withdrawalHandler.Reject)
			withdrawals.POST("/:id/reverse", idem, d.withdrawalHandler.Reverse)
		}

		// Moderation
		moderation := v1.Group("/moderation")
		moderation.Use(auth, manageModeration)
		{
			moderation.POST("/evaluate", d.moderationHandler.Evaluate)
			moderation.GET("/cases", d.moderationHandler.ListCases)
			moderation.GET("/cases/:id", d.moderationHandler.GetCase)
			moderation.POST("/cases/:id/review", idem, d.moderationHandler.Review)
			moderation.POST("/strikes", idem, d.moderationHandler.IssueStrike)
			moderation.GET("/keywords", d.moderationHandler.ListKeywords)
			moderation.POST("/keywords", idem, d.moderationHandler.AddKeyword)
		}

		// Dashboard
		v1.GET("/stats/queues", auth, d.statsHandler.GetQueueStats)
	}
}
