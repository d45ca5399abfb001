package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "centavo/internal/errors"
	"centavo/internal/services"
)

// SummaryHandler serves aggregate views over the ledger and the balance.
type SummaryHandler struct {
	transactionService services.TransactionServicer
	balanceService     services.BalanceServicer
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(transactionService services.TransactionServicer, balanceService services.BalanceServicer) *SummaryHandler {
	return &SummaryHandler{transactionService: transactionService, balanceService: balanceService}
}

// GetBalance handles retrieving the user's current balance breakdown.
// @Summary     Get balance
// @Description Get the user's income, expense, saved and available totals
// @Tags        summary
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Balance "Balance breakdown"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /balance [get]
func (h *SummaryHandler) GetBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	balance, err := h.balanceService.GetBalance(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// GetMonthlySummary handles retrieving a monthly ledger summary.
// @Summary     Get monthly summary
// @Description Get income, expense and net totals for a month
// @Tags        summary
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year  query int true "Year"
// @Param       month query int true "Month (1-12)"
// @Success     200 {object} services.MonthSummary "Monthly summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary/monthly [get]
func (h *SummaryHandler) GetMonthlySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseIntQuery(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, err := parseIntQuery(c, "month")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.transactionService.GetMonthlySummary(userID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetYearlySummary handles retrieving a yearly ledger summary.
// @Summary     Get yearly summary
// @Description Get income, expense and net totals for a year with a per-month breakdown
// @Tags        summary
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year query int true "Year"
// @Success     200 {object} services.YearSummary "Yearly summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary/yearly [get]
func (h *SummaryHandler) GetYearlySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseIntQuery(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.transactionService.GetYearlySummary(userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func parseIntQuery(c *gin.Context, param string) (int, error) {
	v := c.Query(param)
	if v == "" {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, param+" is required")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, param+" must be a number")
	}
	return n, nil
}
