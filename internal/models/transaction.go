package models

import (
	"time"

	"centavo/internal/money"
)

// TransactionKind represents the direction of a transaction.
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
)

// Transaction represents a single income or expense entry in a user's ledger.
// Amounts are stored in euro cents.
type Transaction struct {
	Base
	UserID  string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Date    time.Time       `gorm:"not null" json:"date"`
	Amount  money.Cents     `gorm:"type:bigint;not null" json:"amount"`
	Kind    TransactionKind `gorm:"not null" json:"kind"`
	Comment string          `gorm:"size:500" json:"comment"`
}
