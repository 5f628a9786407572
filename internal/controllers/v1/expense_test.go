package v1_test

import (
	"fmt"
	"net/http"
	"time"

	v1 "github.com/expense-tracker/backend/internal/controllers/v1"
	"github.com/expense-tracker/backend/internal/types"
	"github.com/expense-tracker/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestExpenseCreate() {
	t := suite.T()
	headers := suite.registerTestUser("morre")

	budget := suite.createTestBudget(headers, v1.BudgetEditable{Total: decimal.NewFromInt(1000)})
	category := suite.createTestCategory(headers, v1.CategoryEditable{})
	_ = suite.createTestAllocation(headers, v1.AllocationEditable{
		MonthlyBudgetID: budget.Data.ID,
		CategoryID:      category.Data.ID,
		Amount:          decimal.NewFromInt(400),
	})

	expense := suite.createTestExpense(headers, v1.ExpenseEditable{
		Name:            "Supermarket",
		Amount:          decimal.NewFromInt(150),
		CategoryID:      category.Data.ID,
		MonthlyBudgetID: budget.Data.ID,
		Date:            time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
	})

	assert.Equal(t, "Supermarket", expense.Data.Name)
	assert.True(t, expense.Data.Amount.Equal(decimal.NewFromInt(150)))

	recorder := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/budgets/%s", budget.Data.ID), "", headers)
	var budgetResponse v1.BudgetResponse
	test.DecodeResponse(t, &recorder, &budgetResponse)
	assert.True(t, budgetResponse.Data.Spent.Equal(decimal.NewFromInt(150)))
}

func (suite *TestSuiteStandard) TestExpenseCreateWithoutAllocation() {
	t := suite.T()
	headers := suite.registerTestUser("morre")

	budget := suite.createTestBudget(headers, v1.BudgetEditable{})
	category := suite.createTestCategory(headers, v1.CategoryEditable{})

	recorder := test.Request(t, http.MethodPost, "/v1/expenses", v1.ExpenseEditable{
		Name:            "Supermarket",
		Amount:          decimal.NewFromInt(150),
		CategoryID:      category.Data.ID,
		MonthlyBudgetID: budget.Data.ID,
		Date:            time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
	}, headers)
	test.AssertHTTPStatus(t, &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestExpenseListPagination() {
	t := suite.T()
	headers := suite.registerTestUser("morre")

	budget := suite.createTestBudget(headers, v1.BudgetEditable{})
	category := suite.createTestCategory(headers, v1.CategoryEditable{})
	_ = suite.createTestAllocation(headers, v1.AllocationEditable{
		MonthlyBudgetID: budget.Data.ID,
		CategoryID:      category.Data.ID,
		Amount:          decimal.NewFromInt(400),
	})

	for i := 0; i < 5; i++ {
		_ = suite.createTestExpense(headers, v1.ExpenseEditable{
			Name:            fmt.Sprintf("Expense %d", i),
			Amount:          decimal.NewFromInt(10),
			CategoryID:      category.Data.ID,
			MonthlyBudgetID: budget.Data.ID,
			Date:            time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC),
		})
	}

	recorder := test.Request(t, http.MethodGet, "/v1/expenses", "", headers)
	test.AssertHTTPStatus(t, &recorder, http.StatusOK)

	var response v1.ExpenseListResponse
	test.DecodeResponse(t, &recorder, &response)

	require.NotNil(t, response.Pagination)
	assert.Equal(t, 5, response.Pagination.Count)
	assert.Equal(t, int64(5), response.Pagination.Total)
	assert.Equal(t, 50, response.Pagination.Limit)

	// Newest expenses come first
	assert.Equal(t, "Expense 4", response.Data[0].Name)

	recorder = test.Request(t, http.MethodGet, "/v1/expenses?offset=2&limit=2", "", headers)
	test.DecodeResponse(t, &recorder, &response)

	assert.Equal(t, 2, response.Pagination.Count)
	assert.Equal(t, uint(2), response.Pagination.Offset)
	assert.Equal(t, int64(5), response.Pagination.Total)
	assert.Equal(t, "Expense 2", response.Data[0].Name)
}

func (suite *TestSuiteStandard) TestExpenseListFilter() {
	t := suite.T()
	headers := suite.registerTestUser("morre")

	march := suite.createTestBudget(headers, v1.BudgetEditable{Month: types.NewMonth(2024, 3)})
	april := suite.createTestBudget(headers, v1.BudgetEditable{Month: types.NewMonth(2024, 4)})
	groceries := suite.createTestCategory(headers, v1.CategoryEditable{Name: "Groceries"})
	rent := suite.createTestCategory(headers, v1.CategoryEditable{Name: "Rent"})

	for _, pair := range []struct {
		budget   v1.BudgetResponse
		category v1.CategoryResponse
	}{
		{march, groceries}, {march, rent}, {april, groceries},
	} {
		_ = suite.createTestAllocation(headers, v1.AllocationEditable{
			MonthlyBudgetID: pair.budget.Data.ID,
			CategoryID:      pair.category.Data.ID,
			Amount:          decimal.NewFromInt(400),
		})
	}

	_ = suite.createTestExpense(headers, v1.ExpenseEditable{Name: "Supermarket", Amount: decimal.NewFromInt(50), CategoryID: groceries.Data.ID, MonthlyBudgetID: march.Data.ID, Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)})
	_ = suite.createTestExpense(headers, v1.ExpenseEditable{Name: "Rent March", Amount: decimal.NewFromInt(300), CategoryID: rent.Data.ID, MonthlyBudgetID: march.Data.ID, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
	_ = suite.createTestExpense(headers, v1.ExpenseEditable{Name: "Super glue", Amount: decimal.NewFromInt(5), CategoryID: groceries.Data.ID, MonthlyBudgetID: april.Data.ID, Date: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)})

	tests := []struct {
		query string
		count int
	}{
		{fmt.Sprintf("?budget=%s", march.Data.ID), 2},
		{fmt.Sprintf("?category=%s", groceries.Data.ID), 2},
		{"?name=Super*", 2},
		{"?name=Supermarket", 1},
		{"?search=march", 1},
	}

	for _, tt := range tests {
		recorder := test.Request(t, http.MethodGet, "/v1/expenses"+tt.query, "", headers)
		test.AssertHTTPStatus(t, &recorder, http.StatusOK)

		var response v1.ExpenseListResponse
		test.DecodeResponse(t, &recorder, &response)
		assert.Len(t, response.Data, tt.count, "wrong number of expenses for %q", tt.query)
	}
}

func (suite *TestSuiteStandard) TestExpenseUpdate() {
	t := suite.T()
	headers := suite.registerTestUser("morre")

	budget := suite.createTestBudget(headers, v1.BudgetEditable{Total: decimal.NewFromInt(1000)})
	category := suite.createTestCategory(headers, v1.CategoryEditable{})
	_ = suite.createTestAllocation(headers, v1.AllocationEditable{
		MonthlyBudgetID: budget.Data.ID,
		CategoryID:      category.Data.ID,
		Amount:          decimal.NewFromInt(400),
	})
	expense := suite.createTestExpense(headers, v1.ExpenseEditable{
		Name:            "Supermarket",
		Amount:          decimal.NewFromInt(150),
		CategoryID:      category.Data.ID,
		MonthlyBudgetID: budget.Data.ID,
		Date:            time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
	})

	recorder := test.Request(t, http.MethodPatch, fmt.Sprintf("/v1/expenses/%s", expense.Data.ID), map[string]any{
		"amount": "200",
	}, headers)
	test.AssertHTTPStatus(t, &recorder, http.StatusOK)

	var response v1.ExpenseResponse
	test.DecodeResponse(t, &recorder, &response)
	assert.True(t, response.Data.Amount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "Supermarket", response.Data.Name)

	recorder = test.Request(t, http.MethodGet, fmt.Sprintf("/v1/budgets/%s", budget.Data.ID), "", headers)
	var budgetResponse v1.BudgetResponse
	test.DecodeResponse(t, &recorder, &budgetResponse)
	assert.True(t, budgetResponse.Data.Spent.Equal(decimal.NewFromInt(200)))
}

func (suite *TestSuiteStandard) TestExpenseRebook() {
	t := suite.T()
	headers := suite.registerTestUser("morre")

	march := suite.createTestBudget(headers, v1.BudgetEditable{Month: types.NewMonth(2024, 3), Total: decimal.NewFromInt(1000)})
	april := suite.createTestBudget(headers, v1.BudgetEditable{Month: types.NewMonth(2024, 4), Total: decimal.NewFromInt(800)})
	category := suite.createTestCategory(headers, v1.CategoryEditable{})

	_ = suite.createTestAllocation(headers, v1.AllocationEditable{MonthlyBudgetID: march.Data.ID, CategoryID: category.Data.ID, Amount: decimal.NewFromInt(300)})
	_ = suite.createTestAllocation(headers, v1.AllocationEditable{MonthlyBudgetID: april.Data.ID, CategoryID: category.Data.ID, Amount: decimal.NewFromInt(250)})

	expense := suite.createTestExpense(headers, v1.ExpenseEditable{
		Name:            "Supermarket",
		Amount:          decimal.NewFromInt(100),
		CategoryID:      category.Data.ID,
		MonthlyBudgetID: march.Data.ID,
		Date:            time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
	})

	recorder := test.Request(t, http.MethodPatch, fmt.Sprintf("/v1/expenses/%s", expense.Data.ID), map[string]any{
		"budgetId": april.Data.ID,
	}, headers)
	test.AssertHTTPStatus(t, &recorder, http.StatusOK)

	var response v1.ExpenseResponse
	test.DecodeResponse(t, &recorder, &response)
	assert.Equal(t, april.Data.ID, response.Data.MonthlyBudgetID)

	// March got its money back, April was debited
	recorder = test.Request(t, http.MethodGet, fmt.Sprintf("/v1/budgets/%s", march.Data.ID), "", headers)
	var budgetResponse v1.BudgetResponse
	test.DecodeResponse(t, &recorder, &budgetResponse)
	assert.True(t, budgetResponse.Data.Spent.Equal(decimal.Zero))

	recorder = test.Request(t, http.MethodGet, fmt.Sprintf("/v1/budgets/%s", april.Data.ID), "", headers)
	test.DecodeResponse(t, &recorder, &budgetResponse)
	assert.True(t, budgetResponse.Data.Spent.Equal(decimal.NewFromInt(100)))
}

func (suite *TestSuiteStandard) TestExpenseDelete() {
	t := suite.T()
	headers := suite.registerTestUser("morre")

	budget := suite.createTestBudget(headers, v1.BudgetEditable{})
	category := suite.createTestCategory(headers, v1.CategoryEditable{})
	_ = suite.createTestAllocation(headers, v1.AllocationEditable{
		MonthlyBudgetID: budget.Data.ID,
		CategoryID:      category.Data.ID,
		Amount:          decimal.NewFromInt(400),
	})
	expense := suite.createTestExpense(headers, v1.ExpenseEditable{
		Name:            "Supermarket",
		Amount:          decimal.NewFromInt(150),
		CategoryID:      category.Data.ID,
		MonthlyBudgetID: budget.Data.ID,
		Date:            time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
	})

	recorder := test.Request(t, http.MethodDelete, fmt.Sprintf("/v1/expenses/%s", expense.Data.ID), "", headers)
	test.AssertHTTPStatus(t, &recorder, http.StatusNoContent)

	recorder = test.Request(t, http.MethodGet, fmt.Sprintf("/v1/budgets/%s", budget.Data.ID), "", headers)
	var budgetResponse v1.BudgetResponse
	test.DecodeResponse(t, &recorder, &budgetResponse)
	assert.True(t, budgetResponse.Data.Spent.Equal(decimal.Zero))
}
