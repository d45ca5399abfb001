package services

import (
	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/money"
)

// balanceService derives a user's balance from the ledger and savings
// tables. It holds no state and never caches: a stale balance would let a
// deposit pass validation against money that is already reserved.
type balanceService struct {
	db *gorm.DB
}

// NewBalanceService creates a new BalanceServicer.
func NewBalanceService(db *gorm.DB) BalanceServicer {
	return &balanceService{db: db}
}

// ComputeBalance derives the user's balance using the given database handle.
// Passing the handle of an open transaction makes the read part of that
// transaction's atomic scope.
func (s *balanceService) ComputeBalance(tx *gorm.DB, userID string) (*Balance, error) {
	if tx == nil {
		tx = s.db
	}

	income, err := sumTransactions(tx, userID, models.TransactionKindIncome)
	if err != nil {
		return nil, err
	}
	expense, err := sumTransactions(tx, userID, models.TransactionKindExpense)
	if err != nil {
		return nil, err
	}

	var saved int64
	if err := tx.Model(&models.SavingsGoal{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(current_amount), 0)").
		Scan(&saved).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &Balance{
		TotalIncome:  income,
		TotalExpense: expense,
		TotalSaved:   money.Cents(saved),
		Available:    income - expense - money.Cents(saved),
	}, nil
}

// GetBalance derives the user's balance for display. The result may be
// momentarily stale with respect to concurrent writes.
func (s *balanceService) GetBalance(userID string) (*Balance, error) {
	return s.ComputeBalance(s.db, userID)
}

func sumTransactions(tx *gorm.DB, userID string, kind models.TransactionKind) (money.Cents, error) {
	var total int64
	if err := tx.Model(&models.Transaction{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return money.Cents(total), nil
}
