package models

import "centavo/internal/money"

// SavingsGoal represents a named savings target for a user.
//
// GoalAmount is a target, not a cap: CurrentAmount may exceed it as long as
// the user's available balance covers the deposits. CurrentAmount is only
// mutated by the savings service, which guards every change with the
// available-balance and withdrawal invariants.
type SavingsGoal struct {
	Base
	UserID        string      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string      `gorm:"size:100;not null" json:"name"`
	GoalAmount    money.Cents `gorm:"type:bigint;not null" json:"goal_amount"`
	CurrentAmount money.Cents `gorm:"type:bigint;not null;default:0" json:"current_amount"`
}
