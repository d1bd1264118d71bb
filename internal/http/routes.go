package http

import (
	"time"

	"astrader_backend/internal/config"
	"astrader_backend/internal/http/handlers"
	"astrader_backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the user and admin API groups. The routing layer is
// deliberately thin; every balance-changing operation lives in the service
// layer behind it.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler, cfg *config.Config) {
	// Health checks (no rate limiting)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)

	api := r.Group("/api/v1")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, time.Duration(cfg.APIRateWindowSeconds)*time.Second))

	user := api.Group("/user")
	{
		user.POST("/signup", h.Signup)

		authed := user.Group("")
		authed.Use(middleware.JWT())
		{
			authed.GET("/dashboard", h.Dashboard)
			authed.GET("/packages", h.ListPackages)
			authed.POST("/purchases", h.BuyPackage)
			authed.GET("/purchases", h.ListPurchases)
			authed.POST("/withdrawals", h.Withdraw)
			authed.GET("/withdrawals", h.ListWithdrawals)
			authed.POST("/tickets", h.CreateTicket)
			authed.GET("/tickets", h.ListTickets)
			authed.GET("/partners", h.PartnerList)
			authed.GET("/referral-link", h.ReferralLink)
			authed.GET("/transactions", h.UserTransactions)
			authed.POST("/transfers", h.Transfer)
		}
	}

	admin := api.Group("/admin")
	{
		admin.POST("/signup", h.AdminSignup)
		admin.POST("/login", h.AdminLogin)

		authed := admin.Group("")
		authed.Use(middleware.JWT(), middleware.AdminOnly())
		{
			authed.POST("/purchases/activate", h.ActivatePurchase)
			authed.GET("/purchases", h.ListPurchasesByStatus)
			authed.GET("/withdrawals", h.ListPendingWithdrawals)
			authed.PATCH("/withdrawals/:id/:status", h.UpdateWithdrawalStatus)
			authed.POST("/packages", h.CreatePackage)
			authed.GET("/packages", h.ListPackages)
			authed.GET("/packages/:packageId", h.GetPackage)
			authed.PUT("/packages/:packageId", h.UpdatePackage)
			authed.DELETE("/packages/:packageId", h.DeletePackage)
			authed.GET("/tickets", h.ListTicketsAdmin)
			authed.PATCH("/tickets/:ticketId/:status", h.UpdateTicketStatus)
			authed.GET("/users", h.ListUsers)
			authed.GET("/users/search", h.SearchUser)
			authed.POST("/roi/run", h.RunAccrual)
		}
	}
}
