package v1

import (
	"fmt"
	"time"

	"github.com/expense-tracker/backend/internal/httputil"
	"github.com/expense-tracker/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseEditable represents all user configurable parameters of an expense
type ExpenseEditable struct {
	Name            string          `json:"name" example:"Weekly groceries"`                           // What the money was spent on
	Amount          decimal.Decimal `json:"amount" example:"42.75"`                                    // How much was spent
	CategoryID      uuid.UUID       `json:"categoryId" example:"7e65bbec-9cb8-4b12-be41-7a0e0f92b9f2"` // The category the expense belongs to
	MonthlyBudgetID uuid.UUID       `json:"budgetId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`   // The monthly budget the expense is booked against
	Date            time.Time       `json:"date" example:"2024-03-09T00:00:00Z"`                       // When the money was spent. Defaults to the current time
}

type ExpenseLinks struct {
	Self     string `json:"self" example:"https://example.com/v1/expenses/d2525a4c-2582-4fa7-a85f-121a64e35f72"`
	Budget   string `json:"budget" example:"https://example.com/v1/budgets/3b1ea324-d438-4419-882a-2fc91d71772f"`
	Category string `json:"category" example:"https://example.com/v1/categories/7e65bbec-9cb8-4b12-be41-7a0e0f92b9f2"`
}

type Expense struct {
	models.DefaultModel
	ExpenseEditable
	Links ExpenseLinks `json:"links"`
}

func newExpense(c *gin.Context, model models.Expense) Expense {
	url := httputil.RequestHost(c)

	return Expense{
		DefaultModel: model.DefaultModel,
		ExpenseEditable: ExpenseEditable{
			Name:            model.Name,
			Amount:          model.Amount,
			CategoryID:      model.CategoryID,
			MonthlyBudgetID: model.MonthlyBudgetID,
			Date:            model.Date,
		},
		Links: ExpenseLinks{
			Self:     fmt.Sprintf("%s/v1/expenses/%s", url, model.ID),
			Budget:   fmt.Sprintf("%s/v1/budgets/%s", url, model.MonthlyBudgetID),
			Category: fmt.Sprintf("%s/v1/categories/%s", url, model.CategoryID),
		},
	}
}

type ExpenseListResponse struct {
	Data       []Expense   `json:"data"`
	Error      *string     `json:"error"`
	Pagination *Pagination `json:"pagination"`
}

type ExpenseResponse struct {
	Data  *Expense `json:"data"`
	Error *string  `json:"error"`
}

type ExpenseQueryFilter struct {
	Name            string `form:"name" filterField:"false"`   // By name, glob patterns are supported
	Search          string `form:"search" filterField:"false"` // Search for this text in the name
	MonthlyBudgetID string `form:"budget"`                     // By ID of the monthly budget
	CategoryID      string `form:"category"`                   // By ID of the category
	Offset          uint   `form:"offset" filterField:"false"` // The offset of the first expense returned. Defaults to 0
	Limit           int    `form:"limit" filterField:"false"`  // Maximum number of expenses to return. Defaults to 50
}

func (f ExpenseQueryFilter) model() (models.Expense, error) {
	budgetID, err := httputil.UUIDFromString(f.MonthlyBudgetID)
	if err != nil {
		return models.Expense{}, err
	}

	categoryID, err := httputil.UUIDFromString(f.CategoryID)
	if err != nil {
		return models.Expense{}, err
	}

	return models.Expense{
		MonthlyBudgetID: budgetID,
		CategoryID:      categoryID,
	}, nil
}
