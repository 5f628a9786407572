package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is a single spending record. It is debited against both its
// monthly budget and the allocation for its category.
type Expense struct {
	DefaultModel
	UserID          uuid.UUID
	User            User `json:"-"`
	CategoryID      uuid.UUID
	Category        Category `json:"-"`
	MonthlyBudgetID uuid.UUID
	MonthlyBudget   MonthlyBudget `json:"-"`
	Name            string
	Amount          decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date            time.Time       // Defaults to the creation time, can be backdated
}

// AfterFind enforces dates to be in UTC.
func (e *Expense) AfterFind(tx *gorm.DB) (err error) {
	err = e.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	e.Date = e.Date.In(time.UTC)
	return
}

// BeforeSave
//   - trims whitespace from the name
//   - sets the timezone for the date to UTC and defaults it to now
func (e *Expense) BeforeSave(_ *gorm.DB) error {
	e.Name = strings.TrimSpace(e.Name)

	if e.Date.IsZero() {
		e.Date = time.Now().In(time.UTC)
	} else {
		e.Date = e.Date.In(time.UTC)
	}

	return nil
}

// Export returns all expenses of the user for export.
func (Expense) Export(userID uuid.UUID) (json.RawMessage, error) {
	var expenses []Expense
	err := DB.Where(&Expense{UserID: userID}).Find(&expenses).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&expenses)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
