package models

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryAllocation assigns a part of a monthly budget to one category.
//
// Remaining is Amount minus the sum of all expenses recorded against the
// (category, monthly budget) pair. The ledger package keeps it consistent.
type CategoryAllocation struct {
	DefaultModel
	UserID          uuid.UUID
	User            User            `json:"-"`
	CategoryID      uuid.UUID       `gorm:"uniqueIndex:allocation_budget_category"`
	Category        Category        `json:"-"`
	MonthlyBudgetID uuid.UUID       `gorm:"uniqueIndex:allocation_budget_category"`
	MonthlyBudget   MonthlyBudget   `json:"-"`
	Amount          decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // The sub-ceiling assigned to the category
	Remaining       decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Amount minus the sum of matching expenses
	Version         uint            `json:"-"`                  // Guards concurrent updates of Remaining
}

var ErrAllocationExists = errors.New("this category already has an allocation for this monthly budget")

// Spent returns the amount already spent against the allocation.
func (a CategoryAllocation) Spent() decimal.Decimal {
	return a.Amount.Sub(a.Remaining)
}

// LowBalance reports whether the remaining amount has dropped under 10% of
// the allocated amount.
func (a CategoryAllocation) LowBalance() bool {
	return a.Remaining.LessThan(a.Amount.Mul(lowBalanceThreshold))
}

// Export returns all category allocations of the user for export.
func (CategoryAllocation) Export(userID uuid.UUID) (json.RawMessage, error) {
	var allocations []CategoryAllocation
	err := DB.Where(&CategoryAllocation{UserID: userID}).Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&allocations)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
