package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/middleware"
	"centavo/internal/models"
	"centavo/internal/money"
	"centavo/internal/pagination"
	"centavo/internal/services"
	"centavo/internal/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Register()
	os.Exit(m.Run())
}

// injectUserID simulates an authenticated request.
func injectUserID(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("email", "test@example.com")
		c.Next()
	}
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body %q: %v", w.Body.String(), err)
	}
	return result
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	body := parseJSON(t, w)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got %q", w.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// mockUserService implements services.UserServicer with overridable functions.
type mockUserService struct {
	createUserFn            func(name, email, password string) (*models.User, error)
	getUserByEmailFn        func(email string) (*models.User, error)
	getUserByIDFn           func(id string) (*models.User, error)
	attemptLoginFn          func(email, password string) (*models.User, error)
	storeRefreshTokenHashFn func(userID, tokenHash string) error
	getRefreshTokenHashFn   func(userID string) (string, error)
}

func (m *mockUserService) CreateUser(name, email, password string) (*models.User, error) {
	return m.createUserFn(name, email, password)
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	return m.getUserByEmailFn(email)
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	return m.getUserByIDFn(id)
}

func (m *mockUserService) AttemptLogin(email, password string) (*models.User, error) {
	return m.attemptLoginFn(email, password)
}

func (m *mockUserService) StoreRefreshTokenHash(userID, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(userID string) (string, error) {
	return m.getRefreshTokenHashFn(userID)
}

// mockAuditService implements services.AuditServicer and records calls.
type mockAuditService struct {
	actions []string
}

func (m *mockAuditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	m.actions = append(m.actions, action)
}

// mockTransactionService implements services.TransactionServicer.
type mockTransactionService struct {
	createFn         func(userID string, date time.Time, amount money.Cents, kind models.TransactionKind, comment string) (*models.Transaction, error)
	listFn           func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getByIDFn        func(userID, transactionID string) (*models.Transaction, error)
	updateFn         func(userID, transactionID string, fields services.TransactionUpdateFields) (*models.Transaction, error)
	deleteFn         func(userID, transactionID string) error
	monthlySummaryFn func(userID string, year, month int) (*services.MonthSummary, error)
	yearlySummaryFn  func(userID string, year int) (*services.YearSummary, error)
}

func (m *mockTransactionService) CreateTransaction(userID string, date time.Time, amount money.Cents, kind models.TransactionKind, comment string) (*models.Transaction, error) {
	return m.createFn(userID, date, amount, kind, comment)
}

func (m *mockTransactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	return m.listFn(userID, page, filter)
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	return m.getByIDFn(userID, transactionID)
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID string, fields services.TransactionUpdateFields) (*models.Transaction, error) {
	return m.updateFn(userID, transactionID, fields)
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID string) error {
	return m.deleteFn(userID, transactionID)
}

func (m *mockTransactionService) GetMonthlySummary(userID string, year, month int) (*services.MonthSummary, error) {
	return m.monthlySummaryFn(userID, year, month)
}

func (m *mockTransactionService) GetYearlySummary(userID string, year int) (*services.YearSummary, error) {
	return m.yearlySummaryFn(userID, year)
}

// mockSavingsService implements services.SavingsServicer.
type mockSavingsService struct {
	createGoalFn   func(userID, name string, goalAmount money.Cents) (*models.SavingsGoal, error)
	getUserGoalsFn func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsGoal], error)
	getGoalByIDFn  func(userID, goalID string) (*models.SavingsGoal, error)
	addAmountFn    func(ctx context.Context, userID, goalID string, amount money.Cents) (*models.SavingsGoal, error)
	removeAmountFn func(ctx context.Context, userID, goalID string, amount money.Cents) (*models.SavingsGoal, error)
	deleteGoalFn   func(userID, goalID string) error
}

func (m *mockSavingsService) CreateGoal(userID, name string, goalAmount money.Cents) (*models.SavingsGoal, error) {
	return m.createGoalFn(userID, name, goalAmount)
}

func (m *mockSavingsService) GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsGoal], error) {
	return m.getUserGoalsFn(userID, page)
}

func (m *mockSavingsService) GetGoalByID(userID, goalID string) (*models.SavingsGoal, error) {
	return m.getGoalByIDFn(userID, goalID)
}

func (m *mockSavingsService) AddAmount(ctx context.Context, userID, goalID string, amount money.Cents) (*models.SavingsGoal, error) {
	return m.addAmountFn(ctx, userID, goalID, amount)
}

func (m *mockSavingsService) RemoveAmount(ctx context.Context, userID, goalID string, amount money.Cents) (*models.SavingsGoal, error) {
	return m.removeAmountFn(ctx, userID, goalID, amount)
}

func (m *mockSavingsService) DeleteGoal(userID, goalID string) error {
	return m.deleteGoalFn(userID, goalID)
}

// mockBalanceService implements services.BalanceServicer.
type mockBalanceService struct {
	getBalanceFn func(userID string) (*services.Balance, error)
}

func (m *mockBalanceService) ComputeBalance(_ *gorm.DB, userID string) (*services.Balance, error) {
	return m.getBalanceFn(userID)
}

func (m *mockBalanceService) GetBalance(userID string) (*services.Balance, error) {
	return m.getBalanceFn(userID)
}

func testUser() *models.User {
	user := &models.User{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "hashed",
		IsActive: true,
	}
	user.ID = "0191e0a0-0000-7000-8000-000000000001"
	return user
}

func newAuthRouter(userService services.UserServicer, audit *mockAuditService) *gin.Engine {
	router := gin.New()
	handler := NewAuthHandler(userService, audit)
	router.POST("/api/v1/auth/register", handler.Register)
	router.POST("/api/v1/auth/login", handler.Login)
	router.POST("/api/v1/auth/refresh", handler.Refresh)
	return router
}

func TestRegister(t *testing.T) {
	t.Run("registers user and returns tokens", func(t *testing.T) {
		audit := &mockAuditService{}
		router := newAuthRouter(&mockUserService{
			createUserFn: func(name, email, password string) (*models.User, error) {
				return testUser(), nil
			},
		}, audit)

		w := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
			"name":     "Test User",
			"email":    "test@example.com",
			"password": "secret123",
		})

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
		}

		body := parseJSON(t, w)
		if body["token"] == "" || body["token"] == nil {
			t.Error("expected access token in response")
		}
		if body["refresh_token"] == "" || body["refresh_token"] == nil {
			t.Error("expected refresh token in response")
		}
		if len(audit.actions) != 1 || audit.actions[0] != "REGISTER" {
			t.Errorf("expected REGISTER audit entry, got %v", audit.actions)
		}
	})

	t.Run("rejects short password", func(t *testing.T) {
		router := newAuthRouter(&mockUserService{}, &mockAuditService{})

		w := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
			"name":     "Test User",
			"email":    "test@example.com",
			"password": "short",
		})

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		router := newAuthRouter(&mockUserService{}, &mockAuditService{})

		w := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
			"name":     "Test User",
			"email":    "not-an-email",
			"password": "secret123",
		})

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("reports duplicate email", func(t *testing.T) {
		router := newAuthRouter(&mockUserService{
			createUserFn: func(name, email, password string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}, &mockAuditService{})

		w := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
			"name":     "Test User",
			"email":    "test@example.com",
			"password": "secret123",
		})

		if w.Code != http.StatusConflict {
			t.Errorf("expected status 409, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "DUPLICATE_EMAIL" {
			t.Errorf("expected code DUPLICATE_EMAIL, got %q", code)
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("returns tokens for valid credentials", func(t *testing.T) {
		router := newAuthRouter(&mockUserService{
			attemptLoginFn: func(email, password string) (*models.User, error) {
				return testUser(), nil
			},
		}, &mockAuditService{})

		w := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
			"email":    "test@example.com",
			"password": "secret123",
		})

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		body := parseJSON(t, w)
		if body["token"] == nil {
			t.Error("expected access token in response")
		}
	})

	t.Run("reports invalid credentials", func(t *testing.T) {
		router := newAuthRouter(&mockUserService{
			attemptLoginFn: func(email, password string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}, &mockAuditService{})

		w := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
			"email":    "test@example.com",
			"password": "wrong",
		})

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "INVALID_CREDENTIALS" {
			t.Errorf("expected code INVALID_CREDENTIALS, got %q", code)
		}
	})

	t.Run("reports locked account", func(t *testing.T) {
		router := newAuthRouter(&mockUserService{
			attemptLoginFn: func(email, password string) (*models.User, error) {
				return nil, apperrors.ErrAccountLocked
			},
		}, &mockAuditService{})

		w := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
			"email":    "test@example.com",
			"password": "secret123",
		})

		if w.Code != http.StatusLocked {
			t.Errorf("expected status 423, got %d", w.Code)
		}
	})
}

func TestRefresh(t *testing.T) {
	user := testUser()

	refreshToken, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}

	t.Run("rotates a valid refresh token", func(t *testing.T) {
		router := newAuthRouter(&mockUserService{
			getRefreshTokenHashFn: func(userID string) (string, error) {
				return middleware.HashToken(refreshToken), nil
			},
			getUserByIDFn: func(id string) (*models.User, error) {
				return user, nil
			},
		}, &mockAuditService{})

		w := doRequest(t, router, http.MethodPost, "/api/v1/auth/refresh", gin.H{
			"refresh_token": refreshToken,
		})

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		body := parseJSON(t, w)
		if body["token"] == nil || body["refresh_token"] == nil {
			t.Error("expected a new token pair in response")
		}
	})

	t.Run("rejects a superseded refresh token", func(t *testing.T) {
		router := newAuthRouter(&mockUserService{
			getRefreshTokenHashFn: func(userID string) (string, error) {
				return "hash-of-a-newer-token", nil
			},
		}, &mockAuditService{})

		w := doRequest(t, router, http.MethodPost, "/api/v1/auth/refresh", gin.H{
			"refresh_token": refreshToken,
		})

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("rejects an access token", func(t *testing.T) {
		accessToken, err := middleware.GenerateAccessToken(user)
		if err != nil {
			t.Fatalf("failed to generate access token: %v", err)
		}

		router := newAuthRouter(&mockUserService{}, &mockAuditService{})

		w := doRequest(t, router, http.MethodPost, "/api/v1/auth/refresh", gin.H{
			"refresh_token": accessToken,
		})

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		router := newAuthRouter(&mockUserService{}, &mockAuditService{})

		w := doRequest(t, router, http.MethodPost, "/api/v1/auth/refresh", gin.H{
			"refresh_token": "not-a-jwt",
		})

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})
}

func TestGetProfile(t *testing.T) {
	user := testUser()

	t.Run("returns the authenticated user", func(t *testing.T) {
		router := gin.New()
		handler := NewAuthHandler(&mockUserService{
			getUserByIDFn: func(id string) (*models.User, error) {
				if id != user.ID {
					t.Errorf("expected lookup for %s, got %s", user.ID, id)
				}
				return user, nil
			},
		}, &mockAuditService{})
		router.GET("/api/v1/profile", injectUserID(user.ID), handler.GetProfile)

		w := doRequest(t, router, http.MethodGet, "/api/v1/profile", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects unauthenticated requests", func(t *testing.T) {
		router := gin.New()
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{})
		router.GET("/api/v1/profile", handler.GetProfile)

		w := doRequest(t, router, http.MethodGet, "/api/v1/profile", nil)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})
}
