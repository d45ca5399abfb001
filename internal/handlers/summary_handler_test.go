package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"centavo/internal/services"
)

func newSummaryRouter(userID string, txService *mockTransactionService, balService *mockBalanceService) *gin.Engine {
	router := gin.New()
	handler := NewSummaryHandler(txService, balService)
	group := router.Group("/api/v1", injectUserID(userID))
	group.GET("/balance", handler.GetBalance)
	group.GET("/summary/monthly", handler.GetMonthlySummary)
	group.GET("/summary/yearly", handler.GetYearlySummary)
	return router
}

func TestGetBalanceHandler(t *testing.T) {
	user := testUser()

	router := newSummaryRouter(user.ID, &mockTransactionService{}, &mockBalanceService{
		getBalanceFn: func(userID string) (*services.Balance, error) {
			return &services.Balance{
				TotalIncome:  100000,
				TotalExpense: 40000,
				TotalSaved:   10000,
				Available:    50000,
			}, nil
		},
	})

	w := doRequest(t, router, http.MethodGet, "/api/v1/balance", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	body := parseJSON(t, w)
	balance, ok := body["balance"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected balance object in response, got %q", w.Body.String())
	}
	if balance["available"] != float64(500) {
		t.Errorf("expected available 500.00, got %v", balance["available"])
	}
}

func TestGetMonthlySummaryHandler(t *testing.T) {
	user := testUser()

	t.Run("returns the summary", func(t *testing.T) {
		router := newSummaryRouter(user.ID, &mockTransactionService{
			monthlySummaryFn: func(userID string, year, month int) (*services.MonthSummary, error) {
				if year != 2026 || month != 3 {
					t.Errorf("expected 2026-03, got %d-%d", year, month)
				}
				return &services.MonthSummary{Year: year, Month: month, Income: 100000, Expense: 40000, Net: 60000, Transactions: 2}, nil
			},
		}, &mockBalanceService{})

		w := doRequest(t, router, http.MethodGet, "/api/v1/summary/monthly?year=2026&month=3", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("requires year and month", func(t *testing.T) {
		router := newSummaryRouter(user.ID, &mockTransactionService{}, &mockBalanceService{})

		w := doRequest(t, router, http.MethodGet, "/api/v1/summary/monthly?year=2026", nil)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("rejects non-numeric parameters", func(t *testing.T) {
		router := newSummaryRouter(user.ID, &mockTransactionService{}, &mockBalanceService{})

		w := doRequest(t, router, http.MethodGet, "/api/v1/summary/monthly?year=abc&month=3", nil)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})
}

func TestGetYearlySummaryHandler(t *testing.T) {
	user := testUser()

	t.Run("returns the summary", func(t *testing.T) {
		router := newSummaryRouter(user.ID, &mockTransactionService{
			yearlySummaryFn: func(userID string, year int) (*services.YearSummary, error) {
				return &services.YearSummary{Year: year, Months: make([]services.MonthSummary, 12)}, nil
			},
		}, &mockBalanceService{})

		w := doRequest(t, router, http.MethodGet, "/api/v1/summary/yearly?year=2026", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("requires a year", func(t *testing.T) {
		router := newSummaryRouter(user.ID, &mockTransactionService{}, &mockBalanceService{})

		w := doRequest(t, router, http.MethodGet, "/api/v1/summary/yearly", nil)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})
}
