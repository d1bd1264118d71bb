package handlers

import (
	"net/http"
	"time"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/http/middleware"
	"astrader_backend/internal/logger"
	"astrader_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type signupRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	SponsorCode string `json:"sponsorCode"`
}

// Signup creates a user under an optional referral sponsor and returns a
// token.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.UserService.Signup(c.Request.Context(), req.Name, req.Email, req.SponsorCode)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	token, err := service.GenerateJWT(u.UserID, string(u.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": u, "token": token})
}

// Dashboard returns the caller's dashboard with downline counts recomputed
// from the referral graph.
func (h *Handler) Dashboard(c *gin.Context) {
	userID := middleware.UserID(c)

	u, err := h.Users.GetByID(c.Request.Context(), userID)
	if err != nil || u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	d, err := h.Dashboards.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "dashboard not found"})
		return
	}

	direct, total, err := h.Referral.Downline(c.Request.Context(), u.AsTraderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute downline"})
		return
	}
	d.DirectMembers = direct
	d.TotalDownline = total

	c.JSON(http.StatusOK, d)
}

type buyPackageRequest struct {
	PackageName  string  `json:"packageName" binding:"required"`
	Amount       float64 `json:"amount" binding:"required"`
	DailyIncome  float64 `json:"dailyIncome" binding:"required"`
	Duration     int     `json:"duration" binding:"required"`
	TotalRevenue float64 `json:"totalRevenue" binding:"required"`
}

// BuyPackage creates a pending purchase and distributes the purchase-time
// referral bonuses.
func (h *Handler) BuyPackage(c *gin.Context) {
	var req buyPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	userID := middleware.UserID(c)
	p, err := h.PurchaseService.Buy(c.Request.Context(), userID, service.PurchaseTerms{
		PackageName:  req.PackageName,
		Amount:       req.Amount,
		DailyIncome:  req.DailyIncome,
		Duration:     req.Duration,
		TotalRevenue: req.TotalRevenue,
	})
	if err != nil {
		if p == nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		// Purchase exists but the bonus distribution rolled back.
		logger.Error("bonus distribution failed", "purchase", p.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    "purchase created but bonus distribution failed",
			"purchase": p,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "package purchase request created", "purchase": p})
}

// ListPurchases returns the caller's purchases.
func (h *Handler) ListPurchases(c *gin.Context) {
	purchases, err := h.Purchases.GetByUserID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load purchases"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

type withdrawRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// Withdraw creates a pending withdrawal request.
func (h *Handler) Withdraw(c *gin.Context) {
	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	w, err := h.WithdrawalService.Request(c.Request.Context(), middleware.UserID(c), req.Amount)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "withdrawal request created", "withdrawal": w})
}

// ListWithdrawals returns the caller's withdrawals.
func (h *Handler) ListWithdrawals(c *gin.Context) {
	withdrawals, err := h.Withdrawals.GetByUserID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load withdrawals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

type createTicketRequest struct {
	Topic    string `json:"topic" binding:"required"`
	TicketNo string `json:"ticketNo" binding:"required"`
}

// CreateTicket opens a support ticket.
func (h *Handler) CreateTicket(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	t := &domain.Ticket{
		ID:        uuid.NewString(),
		UserID:    middleware.UserID(c),
		TicketNo:  req.TicketNo,
		Topic:     req.Topic,
		Status:    domain.TicketStatusOpen,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Tickets.Create(c.Request.Context(), t); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create ticket"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "ticket created", "ticket": t})
}

// ListTickets returns the caller's tickets.
func (h *Handler) ListTickets(c *gin.Context) {
	tickets, err := h.Tickets.GetByUserID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tickets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// PartnerList returns the caller's direct referrals.
func (h *Handler) PartnerList(c *gin.Context) {
	u, err := h.Users.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil || u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	partners, err := h.Users.FindByReferredBy(c.Request.Context(), u.AsTraderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load partners"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"partners": partners})
}

// ReferralLink builds the caller's shareable referral link.
func (h *Handler) ReferralLink(c *gin.Context) {
	u, err := h.Users.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil || u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code": u.AsTraderID,
		"link": h.ReferralBaseURL + "?ref=" + u.AsTraderID,
	})
}

// Transactions returns the caller's ledger history, optionally filtered by
// type and creation date.
func (h *Handler) UserTransactions(c *gin.Context) {
	txs, err := h.Transactions.GetByUserID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}

	txType := c.Query("type")
	dateFrom, errFrom := parseDate(c.Query("dateFrom"))
	dateTo, errTo := parseDate(c.Query("dateTo"))
	if errFrom != nil || errTo != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date filter"})
		return
	}

	filtered := make([]domain.Transaction, 0, len(txs))
	for _, t := range txs {
		if txType != "" && t.Type != txType {
			continue
		}
		if !dateFrom.IsZero() && t.CreatedAt.Before(dateFrom) {
			continue
		}
		if !dateTo.IsZero() && t.CreatedAt.After(dateTo.AddDate(0, 0, 1)) {
			continue
		}
		filtered = append(filtered, t)
	}
	c.JSON(http.StatusOK, gin.H{"transactions": filtered})
}

type transferRequest struct {
	ToTraderID string  `json:"toTraderId" binding:"required"`
	Amount     float64 `json:"amount" binding:"required"`
}

// Transfer moves wallet balance to another user identified by trader code.
func (h *Handler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.WalletService.Transfer(c.Request.Context(), middleware.UserID(c), req.ToTraderID, req.Amount)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transfer completed"})
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
