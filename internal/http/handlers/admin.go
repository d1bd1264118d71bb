package handlers

import (
	"net/http"
	"time"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type adminSignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// AdminSignup registers an admin account.
func (h *Handler) AdminSignup(c *gin.Context) {
	var req adminSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.UserService.AdminSignup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	token, err := service.GenerateJWT(u.UserID, string(u.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin verifies admin credentials and issues a token.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.UserService.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	token, err := service.GenerateJWT(u.UserID, string(u.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

type activatePurchaseRequest struct {
	PurchaseID string `json:"purchaseId" binding:"required"`
}

// ActivatePurchase flips a pending purchase to active and stamps its start
// date.
func (h *Handler) ActivatePurchase(c *gin.Context) {
	var req activatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing purchase ID"})
		return
	}

	err := h.PurchaseService.Activate(c.Request.Context(), req.PurchaseID, time.Now())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "purchase activated"})
}

// ListPurchasesByStatus returns purchases in the requested state (default
// pending) for admin review.
func (h *Handler) ListPurchasesByStatus(c *gin.Context) {
	status := domain.PurchaseStatus(c.DefaultQuery("status", string(domain.PurchaseStatusPending)))
	purchases, err := h.Purchases.GetByStatus(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load purchases"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

// ListPendingWithdrawals returns withdrawals awaiting review.
func (h *Handler) ListPendingWithdrawals(c *gin.Context) {
	withdrawals, err := h.Withdrawals.GetPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load withdrawals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

// UpdateWithdrawalStatus applies an admin decision to a withdrawal.
func (h *Handler) UpdateWithdrawalStatus(c *gin.Context) {
	id := c.Param("id")
	status := domain.WithdrawalStatus(c.Param("status"))

	err := h.WithdrawalService.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "withdrawal " + string(status)})
}

type packageRequest struct {
	Name         string  `json:"name" binding:"required"`
	Amount       float64 `json:"amount" binding:"required"`
	DailyIncome  float64 `json:"dailyIncome" binding:"required"`
	Duration     int     `json:"duration" binding:"required"`
	TotalRevenue float64 `json:"totalRevenue" binding:"required"`
}

// CreatePackage adds a catalog entry.
func (h *Handler) CreatePackage(c *gin.Context) {
	var req packageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	p := &domain.Package{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Amount:       req.Amount,
		DailyIncome:  req.DailyIncome,
		Duration:     req.Duration,
		TotalRevenue: req.TotalRevenue,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Packages.Save(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create package"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"package": p})
}

// UpdatePackage replaces a catalog entry's terms.
func (h *Handler) UpdatePackage(c *gin.Context) {
	var req packageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	id := c.Param("packageId")
	existing, err := h.Packages.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load package"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "package not found"})
		return
	}

	existing.Name = req.Name
	existing.Amount = req.Amount
	existing.DailyIncome = req.DailyIncome
	existing.Duration = req.Duration
	existing.TotalRevenue = req.TotalRevenue
	if err := h.Packages.Save(c.Request.Context(), existing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update package"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"package": existing})
}

// DeletePackage removes a catalog entry.
func (h *Handler) DeletePackage(c *gin.Context) {
	if err := h.Packages.Delete(c.Request.Context(), c.Param("packageId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete package"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "package deleted"})
}

// GetPackage returns one catalog entry.
func (h *Handler) GetPackage(c *gin.Context) {
	p, err := h.Packages.GetByID(c.Request.Context(), c.Param("packageId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load package"})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "package not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"package": p})
}

// ListPackages returns the whole catalog.
func (h *Handler) ListPackages(c *gin.Context) {
	packages, err := h.Packages.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load packages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages})
}

// ListTicketsAdmin returns every support ticket.
func (h *Handler) ListTicketsAdmin(c *gin.Context) {
	tickets, err := h.Tickets.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tickets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// UpdateTicketStatus transitions a ticket.
func (h *Handler) UpdateTicketStatus(c *gin.Context) {
	id := c.Param("ticketId")
	status := domain.TicketStatus(c.Param("status"))
	if status != domain.TicketStatusOpen && status != domain.TicketStatusClosed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	if err := h.Tickets.UpdateStatus(c.Request.Context(), id, status); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ticket " + string(status)})
}

// ListUsers returns all non-admin users.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.ListByRole(c.Request.Context(), domain.RoleUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// SearchUser finds users by email.
func (h *Handler) SearchUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing email"})
		return
	}
	users, err := h.Users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type runAccrualRequest struct {
	Date string `json:"date"`
}

// RunAccrual manually triggers the daily ROI job, optionally for a given
// date. Used for operational recovery; the tick itself is idempotent per day.
func (h *Handler) RunAccrual(c *gin.Context) {
	var req runAccrualRequest
	_ = c.ShouldBindJSON(&req)

	day := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		day = parsed
	}

	report, err := h.Engine.TickAllActivePurchases(c.Request.Context(), day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}
