package v1

import (
	"fmt"

	"github.com/expense-tracker/backend/internal/httputil"
	"github.com/expense-tracker/backend/internal/models"
	"github.com/expense-tracker/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BudgetEditable represents all user configurable parameters of a monthly
// budget
type BudgetEditable struct {
	Month types.Month     `json:"month" example:"2024-03"` // The month the budget is for
	Total decimal.Decimal `json:"total" example:"1000"`    // The total spending ceiling for the month
}

type BudgetLinks struct {
	Self        string `json:"self" example:"https://example.com/v1/budgets/3b1ea324-d438-4419-882a-2fc91d71772f"`
	Allocations string `json:"allocations" example:"https://example.com/v1/allocations?budget=3b1ea324-d438-4419-882a-2fc91d71772f"`
	Expenses    string `json:"expenses" example:"https://example.com/v1/expenses?budget=3b1ea324-d438-4419-882a-2fc91d71772f"`
	Summary     string `json:"summary" example:"https://example.com/v1/budgets/3b1ea324-d438-4419-882a-2fc91d71772f/summary"`
}

type Budget struct {
	models.DefaultModel
	BudgetEditable
	Links BudgetLinks `json:"links"`

	// These fields are computed
	Remaining         decimal.Decimal `json:"remaining"`         // Total minus all expenses for the month
	CategoryRemaining decimal.Decimal `json:"categoryRemaining"` // The part of the total not yet allocated to a category
	Spent             decimal.Decimal `json:"spent"`             // The sum of all expenses for the month
	LowBalanceWarning bool            `json:"lowBalanceWarning"` // True once less than 10% of the total is remaining
}

func newBudget(c *gin.Context, model models.MonthlyBudget) Budget {
	url := httputil.RequestHost(c)

	return Budget{
		DefaultModel: model.DefaultModel,
		BudgetEditable: BudgetEditable{
			Month: model.Month,
			Total: model.Total,
		},
		Links: BudgetLinks{
			Self:        fmt.Sprintf("%s/v1/budgets/%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/allocations?budget=%s", url, model.ID),
			Expenses:    fmt.Sprintf("%s/v1/expenses?budget=%s", url, model.ID),
			Summary:     fmt.Sprintf("%s/v1/budgets/%s/summary", url, model.ID),
		},
		Remaining:         model.Remaining,
		CategoryRemaining: model.CategoryRemaining,
		Spent:             model.Spent(),
		LowBalanceWarning: model.LowBalance(),
	}
}

type BudgetListResponse struct {
	Data  []Budget `json:"data"`
	Error *string  `json:"error"`
}

type BudgetResponse struct {
	Data  *Budget `json:"data"`
	Error *string `json:"error"`
}

type BudgetQueryFilter struct {
	Month types.Month `form:"month"` // By month in YYYY-MM format
}

// BudgetSummary aggregates one monthly budget by category.
type BudgetSummary struct {
	Budget     Budget            `json:"budget"`
	Categories []CategorySummary `json:"categories"`
}

type CategorySummary struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Allocated    decimal.Decimal `json:"allocated"`
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
}

type BudgetSummaryResponse struct {
	Data  *BudgetSummary `json:"data"`
	Error *string        `json:"error"`
}
