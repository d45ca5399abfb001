package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"centavo/internal/models"
	"centavo/internal/money"
	"centavo/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Month *int
	Year  *int
	Kind  *models.TransactionKind
}

// TransactionUpdateFields holds the optional fields of a transaction update.
// Nil fields are left unchanged.
type TransactionUpdateFields struct {
	Date    *time.Time
	Amount  *money.Cents
	Kind    *models.TransactionKind
	Comment *string
}

// MonthSummary aggregates a user's ledger for a single month.
type MonthSummary struct {
	Year         int         `json:"year"`
	Month        int         `json:"month"`
	Income       money.Cents `json:"income"`
	Expense      money.Cents `json:"expense"`
	Net          money.Cents `json:"net"`
	Transactions int         `json:"transactions"`
}

// YearSummary aggregates a user's ledger for a full year, with a per-month
// breakdown.
type YearSummary struct {
	Year    int            `json:"year"`
	Income  money.Cents    `json:"income"`
	Expense money.Cents    `json:"expense"`
	Net     money.Cents    `json:"net"`
	Months  []MonthSummary `json:"months"`
}

// TransactionServicer defines the contract for ledger-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, date time.Time, amount money.Cents, kind models.TransactionKind, comment string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	GetMonthlySummary(userID string, year, month int) (*MonthSummary, error)
	GetYearlySummary(userID string, year int) (*YearSummary, error)
}

// Balance holds the derived monetary position of a user. Available is
// income minus expense minus the sum reserved across savings goals.
type Balance struct {
	TotalIncome  money.Cents `json:"total_income"`
	TotalExpense money.Cents `json:"total_expense"`
	TotalSaved   money.Cents `json:"total_saved"`
	Available    money.Cents `json:"available"`
}

// BalanceServicer defines the contract for the balance calculator.
type BalanceServicer interface {
	// ComputeBalance derives the user's balance from the current persisted
	// state using the given database handle, so callers can evaluate it
	// inside their own transaction. It never caches.
	ComputeBalance(tx *gorm.DB, userID string) (*Balance, error)
	// GetBalance derives the user's balance outside any transaction, for
	// display purposes.
	GetBalance(userID string) (*Balance, error)
}

// SavingsServicer defines the contract for the savings goal engine. It is
// the only component that mutates a goal's current amount.
type SavingsServicer interface {
	CreateGoal(userID, name string, goalAmount money.Cents) (*models.SavingsGoal, error)
	GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsGoal], error)
	GetGoalByID(userID, goalID string) (*models.SavingsGoal, error)
	AddAmount(ctx context.Context, userID, goalID string, amount money.Cents) (*models.SavingsGoal, error)
	RemoveAmount(ctx context.Context, userID, goalID string, amount money.Cents) (*models.SavingsGoal, error)
	DeleteGoal(userID, goalID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
