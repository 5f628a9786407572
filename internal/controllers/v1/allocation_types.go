package v1

import (
	"fmt"

	"github.com/expense-tracker/backend/internal/httputil"
	"github.com/expense-tracker/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationEditable represents all user configurable parameters of an
// allocation
type AllocationEditable struct {
	MonthlyBudgetID uuid.UUID       `json:"budgetId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`   // The budget the money comes from
	CategoryID      uuid.UUID       `json:"categoryId" example:"7e65bbec-9cb8-4b12-be41-7a0e0f92b9f2"` // The category the money is for
	Amount          decimal.Decimal `json:"amount" example:"150"`                                      // How much of the budget is set aside for the category
}

type AllocationLinks struct {
	Self     string `json:"self" example:"https://example.com/v1/allocations/af892b5g-dd15-4d62-a125-5b5a305cdcec"`
	Budget   string `json:"budget" example:"https://example.com/v1/budgets/3b1ea324-d438-4419-882a-2fc91d71772f"`
	Category string `json:"category" example:"https://example.com/v1/categories/7e65bbec-9cb8-4b12-be41-7a0e0f92b9f2"`
	Expenses string `json:"expenses" example:"https://example.com/v1/expenses?allocation=af892b5g-dd15-4d62-a125-5b5a305cdcec"`
}

type Allocation struct {
	models.DefaultModel
	AllocationEditable
	Links AllocationLinks `json:"links"`

	// These fields are computed
	Remaining         decimal.Decimal `json:"remaining"`         // Amount minus the expenses booked against the allocation
	Spent             decimal.Decimal `json:"spent"`             // The sum of expenses booked against the allocation
	LowBalanceWarning bool            `json:"lowBalanceWarning"` // True once less than 10% of the amount is remaining
}

func newAllocation(c *gin.Context, model models.CategoryAllocation) Allocation {
	url := httputil.RequestHost(c)

	return Allocation{
		DefaultModel: model.DefaultModel,
		AllocationEditable: AllocationEditable{
			MonthlyBudgetID: model.MonthlyBudgetID,
			CategoryID:      model.CategoryID,
			Amount:          model.Amount,
		},
		Links: AllocationLinks{
			Self:     fmt.Sprintf("%s/v1/allocations/%s", url, model.ID),
			Budget:   fmt.Sprintf("%s/v1/budgets/%s", url, model.MonthlyBudgetID),
			Category: fmt.Sprintf("%s/v1/categories/%s", url, model.CategoryID),
			Expenses: fmt.Sprintf("%s/v1/expenses?budget=%s&category=%s", url, model.MonthlyBudgetID, model.CategoryID),
		},
		Remaining:         model.Remaining,
		Spent:             model.Spent(),
		LowBalanceWarning: model.LowBalance(),
	}
}

type AllocationListResponse struct {
	Data  []Allocation `json:"data"`
	Error *string      `json:"error"`
}

type AllocationResponse struct {
	Data  *Allocation `json:"data"`
	Error *string     `json:"error"`
}

type AllocationQueryFilter struct {
	MonthlyBudgetID string `form:"budget"`   // By ID of the monthly budget
	CategoryID      string `form:"category"` // By ID of the category
}

func (f AllocationQueryFilter) model() (models.CategoryAllocation, error) {
	budgetID, err := httputil.UUIDFromString(f.MonthlyBudgetID)
	if err != nil {
		return models.CategoryAllocation{}, err
	}

	categoryID, err := httputil.UUIDFromString(f.CategoryID)
	if err != nil {
		return models.CategoryAllocation{}, err
	}

	return models.CategoryAllocation{
		MonthlyBudgetID: budgetID,
		CategoryID:      categoryID,
	}, nil
}
