package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/money"
	"centavo/internal/pagination"
)

// savingsService is the savings goal engine. Every change to a goal's
// current amount flows through AddAmount or RemoveAmount, which hold the
// owning user's lock across the read-validate-write cycle so the balance
// check always sees the state it is about to mutate.
type savingsService struct {
	db      *gorm.DB
	balance BalanceServicer
	locks   *userLocks
}

// NewSavingsService creates a new SavingsServicer.
func NewSavingsService(db *gorm.DB, balanceService BalanceServicer) SavingsServicer {
	return &savingsService{
		db:      db,
		balance: balanceService,
		locks:   newUserLocks(),
	}
}

// CreateGoal creates a new savings goal with a zero current amount. No
// balance check is needed since no money moves.
func (s *savingsService) CreateGoal(userID, name string, goalAmount money.Cents) (*models.SavingsGoal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if len(name) > 100 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name cannot exceed 100 characters")
	}
	if goalAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal amount cannot be negative")
	}

	goal := &models.SavingsGoal{
		UserID:        userID,
		Name:          name,
		GoalAmount:    goalAmount,
		CurrentAmount: 0,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals retrieves a paginated list of the user's savings goals,
// newest first.
func (s *savingsService) GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsGoal], error) {
	page.Defaults()

	base := s.db.Model(&models.SavingsGoal{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.SavingsGoal
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID retrieves a goal owned by the user. Goals owned by other
// users report not found.
func (s *savingsService) GetGoalByID(userID, goalID string) (*models.SavingsGoal, error) {
	return getGoalWithDB(s.db, userID, goalID)
}

func getGoalWithDB(tx *gorm.DB, userID, goalID string) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	if err := tx.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// AddAmount moves money into a goal. The deposit must not exceed the user's
// available balance (income minus expense minus everything already saved),
// computed from current state inside the same critical section as the write.
// An equal amount is allowed and drives the balance to exactly zero.
func (s *savingsService) AddAmount(ctx context.Context, userID, goalID string, amount money.Cents) (*models.SavingsGoal, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	if err := s.locks.acquire(ctx, userID); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer s.locks.release(userID)

	var goal *models.SavingsGoal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := getGoalWithDB(tx, userID, goalID)
		if err != nil {
			return err
		}

		// Balance reflects the state before this deposit.
		bal, err := s.balance.ComputeBalance(tx, userID)
		if err != nil {
			return err
		}
		if amount > bal.Available {
			return apperrors.WithMessage(apperrors.ErrInsufficientBalance,
				fmt.Sprintf("Insufficient balance. Available: %s", bal.Available.FormatEUR()))
		}

		g.CurrentAmount += amount
		if err := tx.Model(g).Update("current_amount", g.CurrentAmount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		goal = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// RemoveAmount moves money out of a goal. The withdrawal must not exceed
// the goal's current amount; an equal amount draws the goal to exactly zero.
func (s *savingsService) RemoveAmount(ctx context.Context, userID, goalID string, amount money.Cents) (*models.SavingsGoal, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	if err := s.locks.acquire(ctx, userID); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer s.locks.release(userID)

	var goal *models.SavingsGoal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := getGoalWithDB(tx, userID, goalID)
		if err != nil {
			return err
		}

		if amount > g.CurrentAmount {
			return apperrors.ErrInvalidWithdrawal
		}

		g.CurrentAmount -= amount
		if err := tx.Model(g).Update("current_amount", g.CurrentAmount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		goal = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal removes a goal owned by the user. The goal's reserved amount
// stops counting toward totalSaved, so the available balance grows by the
// goal's current amount.
func (s *savingsService) DeleteGoal(userID, goalID string) error {
	result := s.db.Where("id = ? AND user_id = ?", goalID, userID).Delete(&models.SavingsGoal{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrGoalNotFound
	}
	return nil
}
