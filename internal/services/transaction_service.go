package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/money"
	"centavo/internal/pagination"
)

// transactionService handles ledger-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction records a new income or expense entry for a user.
func (s *transactionService) CreateTransaction(userID string, date time.Time, amount money.Cents, kind models.TransactionKind, comment string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if kind != models.TransactionKindIncome && kind != models.TransactionKindExpense {
		return nil, apperrors.ErrInvalidKind
	}
	if date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if len(comment) > 500 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "comment cannot exceed 500 characters")
	}

	transaction := &models.Transaction{
		UserID:  userID,
		Date:    date,
		Amount:  amount,
		Kind:    kind,
		Comment: comment,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of a user's transactions.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base, err := applyTransactionFilters(base, filter)
	if err != nil {
		return nil, err
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) (*gorm.DB, error) {
	if (f.Month == nil) != (f.Year == nil) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month and year must be provided together")
	}
	if f.Month != nil {
		if *f.Month < 1 || *f.Month > 12 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
		}
		start := time.Date(*f.Year, time.Month(*f.Month), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)
		q = q.Where("date >= ? AND date < ?", start, end)
	}
	if f.Kind != nil {
		q = q.Where("kind = ?", *f.Kind)
	}
	return q, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies the given field changes to a user's transaction.
func (s *transactionService) UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Date != nil && !fields.Date.IsZero() {
		updates["date"] = *fields.Date
	}
	if fields.Amount != nil {
		if *fields.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *fields.Amount
	}
	if fields.Kind != nil {
		if *fields.Kind != models.TransactionKindIncome && *fields.Kind != models.TransactionKindExpense {
			return nil, apperrors.ErrInvalidKind
		}
		updates["kind"] = *fields.Kind
	}
	if fields.Comment != nil {
		if len(*fields.Comment) > 500 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "comment cannot exceed 500 characters")
		}
		updates["comment"] = *fields.Comment
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", transaction.ID).First(transaction).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return transaction, nil
}

// DeleteTransaction removes a transaction owned by the user.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	result := s.db.Where("id = ? AND user_id = ?", transactionID, userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// GetMonthlySummary aggregates income, expense and net for a single month.
func (s *transactionService) GetMonthlySummary(userID string, year, month int) (*MonthSummary, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	transactions, err := s.transactionsInRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	summary := &MonthSummary{Year: year, Month: month}
	for _, t := range transactions {
		summary.Transactions++
		switch t.Kind {
		case models.TransactionKindIncome:
			summary.Income += t.Amount
		case models.TransactionKindExpense:
			summary.Expense += t.Amount
		}
	}
	summary.Net = summary.Income - summary.Expense
	return summary, nil
}

// GetYearlySummary aggregates a full year with a per-month breakdown.
func (s *transactionService) GetYearlySummary(userID string, year int) (*YearSummary, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	transactions, err := s.transactionsInRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	summary := &YearSummary{Year: year, Months: make([]MonthSummary, 12)}
	for i := range summary.Months {
		summary.Months[i] = MonthSummary{Year: year, Month: i + 1}
	}

	for _, t := range transactions {
		m := &summary.Months[int(t.Date.UTC().Month())-1]
		m.Transactions++
		switch t.Kind {
		case models.TransactionKindIncome:
			m.Income += t.Amount
			summary.Income += t.Amount
		case models.TransactionKindExpense:
			m.Expense += t.Amount
			summary.Expense += t.Amount
		}
	}
	for i := range summary.Months {
		summary.Months[i].Net = summary.Months[i].Income - summary.Months[i].Expense
	}
	summary.Net = summary.Income - summary.Expense
	return summary, nil
}

func (s *transactionService) transactionsInRange(userID string, start, end time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}
