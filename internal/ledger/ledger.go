// Package ledger implements the budget arithmetic of the backend.
//
// A monthly budget carries two derived values: the remaining amount for the
// month and the part of the total that is not yet allocated to a category.
// Every category allocation carries the remaining amount for its category.
// All mutations of budgets, allocations and expenses go through this package
// so that those values are updated in lockstep with the underlying records.
//
// Every operation runs in a single database transaction. Writes to the
// derived values are guarded by a version column and the whole transaction
// is retried when the guard misses, so concurrent mutations of the same
// budget or allocation never lose an update.
package ledger

import (
	"errors"
	"time"

	"github.com/expense-tracker/backend/internal/models"
	"github.com/expense-tracker/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrAllocationExceedsPool is returned when a category allocation would
	// use more than the unallocated part of the monthly budget.
	ErrAllocationExceedsPool = errors.New("the category allocation exceeds the unallocated monthly budget")

	// ErrHasDependents is returned when a resource cannot be deleted because
	// other resources still reference it.
	ErrHasDependents = errors.New("this resource is still referenced by other resources, delete those first")

	// ErrConflict is returned when an operation was retried because of
	// concurrent modifications until the retry limit was reached.
	ErrConflict = errors.New("the resource was modified concurrently, please retry")
)

// errRetry aborts a transaction so that it is run again with fresh data.
var errRetry = errors.New("stale version, retrying transaction")

// maxRetries bounds the number of attempts for one operation. The guard can
// only miss while another transaction commits in between, so a handful of
// attempts is plenty.
const maxRetries = 5

// inTransaction runs fn in a transaction, retrying when a version guard
// missed.
func inTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	for range maxRetries {
		err := db.Transaction(fn)
		if errors.Is(err, errRetry) {
			continue
		}

		return err
	}

	return ErrConflict
}

// saveBudget writes the mutable fields of a monthly budget, guarded by the
// version the budget was read with.
func saveBudget(tx *gorm.DB, budget *models.MonthlyBudget) error {
	result := tx.Model(&models.MonthlyBudget{}).
		Where("id = ? AND version = ?", budget.ID, budget.Version).
		Updates(map[string]any{
			"month":              budget.Month,
			"total":              budget.Total,
			"remaining":          budget.Remaining,
			"category_remaining": budget.CategoryRemaining,
			"version":            budget.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errRetry
	}

	budget.Version++
	return nil
}

// saveAllocation writes the mutable fields of a category allocation, guarded
// by the version the allocation was read with.
func saveAllocation(tx *gorm.DB, allocation *models.CategoryAllocation) error {
	result := tx.Model(&models.CategoryAllocation{}).
		Where("id = ? AND version = ?", allocation.ID, allocation.Version).
		Updates(map[string]any{
			"amount":    allocation.Amount,
			"remaining": allocation.Remaining,
			"version":   allocation.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errRetry
	}

	allocation.Version++
	return nil
}

// budgetOf loads a monthly budget scoped to its owner.
func budgetOf(tx *gorm.DB, userID, id uuid.UUID) (models.MonthlyBudget, error) {
	var budget models.MonthlyBudget
	err := tx.Where(&models.MonthlyBudget{UserID: userID}).First(&budget, id).Error
	return budget, err
}

// allocationFor loads the allocation for a (category, monthly budget) pair
// scoped to its owner.
func allocationFor(tx *gorm.DB, userID, categoryID, budgetID uuid.UUID) (models.CategoryAllocation, error) {
	var allocation models.CategoryAllocation
	err := tx.Where(&models.CategoryAllocation{
		UserID:          userID,
		CategoryID:      categoryID,
		MonthlyBudgetID: budgetID,
	}).First(&allocation).Error
	return allocation, err
}

// CreateBudget creates a monthly budget. All derived values start at the
// total, nothing is spent or allocated yet.
//
// Only one budget can exist per user and month, violations return
// models.ErrBudgetExists.
func CreateBudget(db *gorm.DB, userID uuid.UUID, month types.Month, total decimal.Decimal) (models.MonthlyBudget, error) {
	budget := models.MonthlyBudget{
		UserID:            userID,
		Month:             month,
		Total:             total,
		Remaining:         total,
		CategoryRemaining: total,
	}

	err := db.Create(&budget).Error
	if err != nil {
		return models.MonthlyBudget{}, err
	}

	return budget, nil
}

// BudgetUpdate contains the fields of a monthly budget that can be changed.
// Nil fields are left untouched.
type BudgetUpdate struct {
	Month *types.Month
	Total *decimal.Decimal
}

// UpdateBudget updates a monthly budget. A changed total moves both
// remaining values by the same delta. The remaining values may become
// negative when the total shrinks under what is already allocated or spent,
// overspend is a legal state.
func UpdateBudget(db *gorm.DB, userID, id uuid.UUID, update BudgetUpdate) (models.MonthlyBudget, error) {
	var budget models.MonthlyBudget

	err := inTransaction(db, func(tx *gorm.DB) error {
		var err error
		budget, err = budgetOf(tx, userID, id)
		if err != nil {
			return err
		}

		if update.Month != nil {
			budget.Month = *update.Month
		}

		if update.Total != nil {
			delta := update.Total.Sub(budget.Total)
			budget.Total = *update.Total
			budget.Remaining = budget.Remaining.Add(delta)
			budget.CategoryRemaining = budget.CategoryRemaining.Add(delta)
		}

		return saveBudget(tx, &budget)
	})
	if err != nil {
		return models.MonthlyBudget{}, err
	}

	return budget, nil
}

// DeleteBudget deletes a monthly budget.
//
// Budgets that still have allocations or expenses cannot be deleted, the
// caller has to remove those first. This keeps the derived values of all
// remaining records trustworthy.
func DeleteBudget(db *gorm.DB, userID, id uuid.UUID) error {
	return inTransaction(db, func(tx *gorm.DB) error {
		budget, err := budgetOf(tx, userID, id)
		if err != nil {
			return err
		}

		var dependents int64
		err = tx.Model(&models.CategoryAllocation{}).
			Where(&models.CategoryAllocation{MonthlyBudgetID: budget.ID}).
			Count(&dependents).Error
		if err != nil {
			return err
		}

		if dependents == 0 {
			err = tx.Model(&models.Expense{}).
				Where(&models.Expense{MonthlyBudgetID: budget.ID}).
				Count(&dependents).Error
			if err != nil {
				return err
			}
		}

		if dependents > 0 {
			return ErrHasDependents
		}

		return tx.Unscoped().Delete(&budget).Error
	})
}

// DeleteCategory deletes a category. Like budgets, categories that are
// still referenced by allocations or expenses cannot be deleted.
func DeleteCategory(db *gorm.DB, userID, id uuid.UUID) error {
	return inTransaction(db, func(tx *gorm.DB) error {
		var category models.Category
		err := tx.Where(&models.Category{UserID: userID}).First(&category, id).Error
		if err != nil {
			return err
		}

		var dependents int64
		err = tx.Model(&models.CategoryAllocation{}).
			Where(&models.CategoryAllocation{CategoryID: category.ID}).
			Count(&dependents).Error
		if err != nil {
			return err
		}

		if dependents == 0 {
			err = tx.Model(&models.Expense{}).
				Where(&models.Expense{CategoryID: category.ID}).
				Count(&dependents).Error
			if err != nil {
				return err
			}
		}

		if dependents > 0 {
			return ErrHasDependents
		}

		return tx.Unscoped().Delete(&category).Error
	})
}

// CreateAllocation assigns a part of a monthly budget to a category.
//
// The amount is taken from the unallocated pool of the budget and must not
// exceed it.
func CreateAllocation(db *gorm.DB, userID, budgetID, categoryID uuid.UUID, amount decimal.Decimal) (models.CategoryAllocation, error) {
	var allocation models.CategoryAllocation

	err := inTransaction(db, func(tx *gorm.DB) error {
		budget, err := budgetOf(tx, userID, budgetID)
		if err != nil {
			return err
		}

		err = tx.Where(&models.Category{UserID: userID}).First(&models.Category{}, categoryID).Error
		if err != nil {
			return err
		}

		if amount.GreaterThan(budget.CategoryRemaining) {
			return ErrAllocationExceedsPool
		}

		allocation = models.CategoryAllocation{
			UserID:          userID,
			CategoryID:      categoryID,
			MonthlyBudgetID: budget.ID,
			Amount:          amount,
			Remaining:       amount,
		}

		err = tx.Create(&allocation).Error
		if err != nil {
			return err
		}

		budget.CategoryRemaining = budget.CategoryRemaining.Sub(amount)
		return saveBudget(tx, &budget)
	})
	if err != nil {
		return models.CategoryAllocation{}, err
	}

	return allocation, nil
}

// UpdateAllocation changes the amount assigned to a category. The delta is
// settled with the unallocated pool of the monthly budget and must not
// exceed it.
func UpdateAllocation(db *gorm.DB, userID, id uuid.UUID, newAmount decimal.Decimal) (models.CategoryAllocation, error) {
	var allocation models.CategoryAllocation

	err := inTransaction(db, func(tx *gorm.DB) error {
		err := tx.Where(&models.CategoryAllocation{UserID: userID}).First(&allocation, id).Error
		if err != nil {
			return err
		}

		budget, err := budgetOf(tx, userID, allocation.MonthlyBudgetID)
		if err != nil {
			return err
		}

		delta := newAmount.Sub(allocation.Amount)
		if delta.GreaterThan(budget.CategoryRemaining) {
			return ErrAllocationExceedsPool
		}

		allocation.Amount = newAmount
		allocation.Remaining = allocation.Remaining.Add(delta)
		err = saveAllocation(tx, &allocation)
		if err != nil {
			return err
		}

		budget.CategoryRemaining = budget.CategoryRemaining.Sub(delta)
		return saveBudget(tx, &budget)
	})
	if err != nil {
		return models.CategoryAllocation{}, err
	}

	return allocation, nil
}

// DeleteAllocation removes a category allocation and returns its full
// amount to the unallocated pool of the monthly budget.
//
// Allocations that still have expenses recorded against them cannot be
// deleted.
func DeleteAllocation(db *gorm.DB, userID, id uuid.UUID) error {
	return inTransaction(db, func(tx *gorm.DB) error {
		var allocation models.CategoryAllocation
		err := tx.Where(&models.CategoryAllocation{UserID: userID}).First(&allocation, id).Error
		if err != nil {
			return err
		}

		var dependents int64
		err = tx.Model(&models.Expense{}).
			Where(&models.Expense{
				CategoryID:      allocation.CategoryID,
				MonthlyBudgetID: allocation.MonthlyBudgetID,
			}).
			Count(&dependents).Error
		if err != nil {
			return err
		}

		if dependents > 0 {
			return ErrHasDependents
		}

		budget, err := budgetOf(tx, userID, allocation.MonthlyBudgetID)
		if err != nil {
			return err
		}

		budget.CategoryRemaining = budget.CategoryRemaining.Add(allocation.Amount)
		err = saveBudget(tx, &budget)
		if err != nil {
			return err
		}

		return tx.Unscoped().Delete(&allocation).Error
	})
}

// ExpenseCreate contains all values needed to record an expense.
type ExpenseCreate struct {
	Name            string
	Amount          decimal.Decimal
	CategoryID      uuid.UUID
	MonthlyBudgetID uuid.UUID
	Date            time.Time
}

// CreateExpense records an expense and debits its amount from both the
// monthly budget and the matching category allocation.
//
// Both remaining values are allowed to go negative, overspend is not an
// error.
func CreateExpense(db *gorm.DB, userID uuid.UUID, create ExpenseCreate) (models.Expense, error) {
	var expense models.Expense

	err := inTransaction(db, func(tx *gorm.DB) error {
		budget, err := budgetOf(tx, userID, create.MonthlyBudgetID)
		if err != nil {
			return err
		}

		allocation, err := allocationFor(tx, userID, create.CategoryID, budget.ID)
		if err != nil {
			return err
		}

		expense = models.Expense{
			UserID:          userID,
			CategoryID:      create.CategoryID,
			MonthlyBudgetID: budget.ID,
			Name:            create.Name,
			Amount:          create.Amount,
			Date:            create.Date,
		}

		err = tx.Create(&expense).Error
		if err != nil {
			return err
		}

		budget.Remaining = budget.Remaining.Sub(create.Amount)
		err = saveBudget(tx, &budget)
		if err != nil {
			return err
		}

		allocation.Remaining = allocation.Remaining.Sub(create.Amount)
		return saveAllocation(tx, &allocation)
	})
	if err != nil {
		return models.Expense{}, err
	}

	return expense, nil
}

// ExpenseUpdate contains the fields of an expense that can be changed.
// Nil fields are left untouched.
type ExpenseUpdate struct {
	Name            *string
	Amount          *decimal.Decimal
	CategoryID      *uuid.UUID
	MonthlyBudgetID *uuid.UUID
	Date            *time.Time
}

// UpdateExpense changes an expense. The previous amount is returned to the
// budget and allocation the expense was recorded against, the new amount is
// debited from the target pair. Category and monthly budget can be changed
// in the same call, the expense is then rebooked to the new pair, which
// must have an allocation.
func UpdateExpense(db *gorm.DB, userID, id uuid.UUID, update ExpenseUpdate) (models.Expense, error) {
	var expense models.Expense

	err := inTransaction(db, func(tx *gorm.DB) error {
		err := tx.Where(&models.Expense{UserID: userID}).First(&expense, id).Error
		if err != nil {
			return err
		}

		previousAmount := expense.Amount

		newBudgetID := expense.MonthlyBudgetID
		if update.MonthlyBudgetID != nil {
			newBudgetID = *update.MonthlyBudgetID
		}

		newCategoryID := expense.CategoryID
		if update.CategoryID != nil {
			newCategoryID = *update.CategoryID
		}

		newAmount := expense.Amount
		if update.Amount != nil {
			newAmount = *update.Amount
		}

		oldBudget, err := budgetOf(tx, userID, expense.MonthlyBudgetID)
		if err != nil {
			return err
		}

		oldAllocation, err := allocationFor(tx, userID, expense.CategoryID, expense.MonthlyBudgetID)
		if err != nil {
			return err
		}

		// When the budget or the (category, budget) pair stays the same,
		// the target aliases the loaded record so that the revert and the
		// debit below settle on the same struct and the row is written
		// exactly once.
		newBudget := &oldBudget
		if newBudgetID != oldBudget.ID {
			loaded, err := budgetOf(tx, userID, newBudgetID)
			if err != nil {
				return err
			}
			newBudget = &loaded
		}

		newAllocation := &oldAllocation
		if newCategoryID != oldAllocation.CategoryID || newBudgetID != oldAllocation.MonthlyBudgetID {
			loaded, err := allocationFor(tx, userID, newCategoryID, newBudgetID)
			if err != nil {
				return err
			}
			newAllocation = &loaded
		}

		// Return the previous amount to the old pair, debit the new amount
		// from the target pair.
		oldBudget.Remaining = oldBudget.Remaining.Add(previousAmount)
		oldAllocation.Remaining = oldAllocation.Remaining.Add(previousAmount)
		newBudget.Remaining = newBudget.Remaining.Sub(newAmount)
		newAllocation.Remaining = newAllocation.Remaining.Sub(newAmount)

		expense.MonthlyBudgetID = newBudgetID
		expense.CategoryID = newCategoryID
		expense.Amount = newAmount
		if update.Name != nil {
			expense.Name = *update.Name
		}
		if update.Date != nil {
			expense.Date = *update.Date
		}

		err = tx.Save(&expense).Error
		if err != nil {
			return err
		}

		err = saveBudget(tx, &oldBudget)
		if err != nil {
			return err
		}

		if newBudget != &oldBudget {
			err = saveBudget(tx, newBudget)
			if err != nil {
				return err
			}
		}

		err = saveAllocation(tx, &oldAllocation)
		if err != nil {
			return err
		}

		if newAllocation != &oldAllocation {
			err = saveAllocation(tx, newAllocation)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return models.Expense{}, err
	}

	return expense, nil
}

// DeleteExpense removes an expense and returns its amount to both the
// monthly budget and the category allocation.
func DeleteExpense(db *gorm.DB, userID, id uuid.UUID) error {
	return inTransaction(db, func(tx *gorm.DB) error {
		var expense models.Expense
		err := tx.Where(&models.Expense{UserID: userID}).First(&expense, id).Error
		if err != nil {
			return err
		}

		budget, err := budgetOf(tx, userID, expense.MonthlyBudgetID)
		if err != nil {
			return err
		}

		allocation, err := allocationFor(tx, userID, expense.CategoryID, expense.MonthlyBudgetID)
		if err != nil {
			return err
		}

		budget.Remaining = budget.Remaining.Add(expense.Amount)
		err = saveBudget(tx, &budget)
		if err != nil {
			return err
		}

		allocation.Remaining = allocation.Remaining.Add(expense.Amount)
		err = saveAllocation(tx, &allocation)
		if err != nil {
			return err
		}

		return tx.Unscoped().Delete(&expense).Error
	})
}
