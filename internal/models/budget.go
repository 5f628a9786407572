package models

import (
	"encoding/json"
	"errors"

	"github.com/expense-tracker/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyBudget is the spending ceiling of one user for one month.
//
// Remaining and CategoryRemaining are kept consistent with the expenses and
// category allocations recorded against the budget by the ledger package.
// They are never recomputed from scratch, every mutation applies its delta.
type MonthlyBudget struct {
	DefaultModel
	UserID            uuid.UUID       `gorm:"uniqueIndex:monthly_budget_user_month"`
	User              User            `json:"-"`
	Month             types.Month     `gorm:"uniqueIndex:monthly_budget_user_month"`
	Total             decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // The total spending ceiling for the month
	Remaining         decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Total minus the sum of all expense amounts
	CategoryRemaining decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Total minus the sum of all category allocations
	Version           uint            `json:"-"`                  // Guards concurrent updates of the remaining values
}

var ErrBudgetExists = errors.New("a monthly budget already exists for this month")

// Spent returns the amount already spent against the budget.
func (b MonthlyBudget) Spent() decimal.Decimal {
	return b.Total.Sub(b.Remaining)
}

// lowBalanceThreshold is the fraction of the total under which the
// remaining value triggers an advisory warning.
var lowBalanceThreshold = decimal.NewFromFloat(0.1)

// LowBalance reports whether the remaining amount has dropped under 10% of
// the total. Overspending is allowed, the warning is purely advisory.
func (b MonthlyBudget) LowBalance() bool {
	return b.Remaining.LessThan(b.Total.Mul(lowBalanceThreshold))
}

// Export returns all monthly budgets of the user for export.
func (MonthlyBudget) Export(userID uuid.UUID) (json.RawMessage, error) {
	var budgets []MonthlyBudget
	err := DB.Where(&MonthlyBudget{UserID: userID}).Find(&budgets).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&budgets)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
