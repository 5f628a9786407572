package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/expense-tracker/backend/internal/controllers/v1"
	"github.com/expense-tracker/backend/internal/types"
	"github.com/expense-tracker/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestBudgetCreate() {
	t := suite.T()
	headers := suite.registerTestUser("morre")

	budget := suite.createTestBudget(headers, v1.BudgetEditable{
		Month: types.NewMonth(2024, 3),
		Total: decimal.NewFromInt(1000),
	})

	assert.True(t, budget.Data.Remaining.Equal(decimal.NewFromInt(1000)))
	assert.True(t, budget.Data.CategoryRemaining.Equal(decimal.NewFromInt(1000)))
	assert.True(t, budget.Data.Spent.IsZero())
	assert.False(t, budget.Data.LowBalanceWarning)
	assert.Contains(t, budget.Data.Links.Self, fmt.Sprintf("/v1/budgets/%s", budget.Data.ID))
}

func (suite *TestSuiteStandard) TestBudgetCreateMonthRequired() {
	headers := suite.registerTestUser("morre")

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/budgets", v1.BudgetEditable{
		Total: decimal.NewFromInt(1000),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestBudgetCreateDuplicateMonth() {
	headers := suite.registerTestUser("morre")
	_ = suite.createTestBudget(headers, v1.BudgetEditable{Month: types.NewMonth(2024, 3)})

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/budgets", v1.BudgetEditable{
		Month: types.NewMonth(2024, 3),
		Total: decimal.NewFromInt(500),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	assert.Contains(suite.T(), recorder.Body.String(), "already exists")
}

func (suite *TestSuiteStandard) TestBudgetList() {
	t := suite.T()
	headers := suite.registerTestUser("morre")

	_ = suite.createTestBudget(headers, v1.BudgetEditable{Month: types.NewMonth(2024, 3)})
	_ = suite.createTestBudget(headers, v1.BudgetEditable{Month: types.NewMonth(2024, 4)})

	recorder := test.Request(t, http.MethodGet, "/v1/budgets", "", headers)
	test.AssertHTTPStatus(t, &recorder, http.StatusOK)

	var response v1.BudgetListResponse
	test.DecodeResponse(t, &recorder, &response)
	assert.Len(t, response.Data, 2)

	// Filter by month
	recorder = test.Request(t, http.MethodGet, "/v1/budgets?month=2024-04", "", headers)
	test.AssertHTTPStatus(t, &recorder, http.StatusOK)

	test.DecodeResponse(t, &recorder, &response)
	require.Len(t, response.Data, 1)
	assert.True(t, response.Data[0].Month.Equal(types.NewMonth(2024, 4)))
}

func (suite *TestSuiteStandard) TestBudgetGetOtherUser() {
	t := suite.T()
	headers := suite.registerTestUser("morre")
	otherHeaders := suite.registerTestUser("other")

	budget := suite.createTestBudget(headers, v1.BudgetEditable{})

	// Resources of other users do not exist from the caller's point of view
	recorder := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/budgets/%s", budget.Data.ID), "", otherHeaders)
	test.AssertHTTPStatus(t, &recorder, http.StatusNotFound)

	recorder = test.Request(t, http.MethodGet, fmt.Sprintf("/v1/budgets/%s", budget.Data.ID), "", headers)
	test.AssertHTTPStatus(t, &recorder, http.StatusOK)
}

func (suite *TestSuiteStandard) TestBudgetUpdateTotal() {
	t := suite.T()
	headers := suite.registerTestUser("morre")

	budget := suite.createTestBudget(headers, v1.BudgetEditable{})

	recorder := test.Request(t, http.MethodPatch, fmt.Sprintf("/v1/budgets/%s", budget.Data.ID), map[string]any{
		"total": "1200",
	}, headers)
	test.AssertHTTPStatus(t, &recorder, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(t, &recorder, &response)

	assert.True(t, response.Data.Total.Equal(decimal.NewFromInt(1200)))
	assert.True(t, response.Data.Remaining.Equal(decimal.NewFromInt(1200)))
	assert.True(t, response.Data.Month.Equal(budget.Data.Month), "month must be unchanged")
}

func (suite *TestSuiteStandard) TestBudgetDelete() {
	t := suite.T()
	headers := suite.registerTestUser("morre")

	budget := suite.createTestBudget(headers, v1.BudgetEditable{})

	recorder := test.Request(t, http.MethodDelete, fmt.Sprintf("/v1/budgets/%s", budget.Data.ID), "", headers)
	test.AssertHTTPStatus(t, &recorder, http.StatusNoContent)

	recorder = test.Request(t, http.MethodGet, fmt.Sprintf("/v1/budgets/%s", budget.Data.ID), "", headers)
	test.AssertHTTPStatus(t, &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBudgetDeleteWithAllocations() {
	t := suite.T()
	headers := suite.registerTestUser("morre")

	budget := suite.createTestBudget(headers, v1.BudgetEditable{})
	category := suite.createTestCategory(headers, v1.CategoryEditable{})
	_ = suite.createTestAllocation(headers, v1.AllocationEditable{
		MonthlyBudgetID: budget.Data.ID,
		CategoryID:      category.Data.ID,
		Amount:          decimal.NewFromInt(400),
	})

	recorder := test.Request(t, http.MethodDelete, fmt.Sprintf("/v1/budgets/%s", budget.Data.ID), "", headers)
	test.AssertHTTPStatus(t, &recorder, http.StatusConflict)
}

func (suite *TestSuiteStandard) TestBudgetSummary() {
	t := suite.T()
	headers := suite.registerTestUser("morre")

	budget := suite.createTestBudget(headers, v1.BudgetEditable{})
	groceries := suite.createTestCategory(headers, v1.CategoryEditable{Name: "Groceries"})
	_ = suite.createTestAllocation(headers, v1.AllocationEditable{
		MonthlyBudgetID: budget.Data.ID,
		CategoryID:      groceries.Data.ID,
		Amount:          decimal.NewFromInt(400),
	})
	_ = suite.createTestExpense(headers, v1.ExpenseEditable{
		Name:            "Weekly shopping",
		Amount:          decimal.NewFromInt(150),
		CategoryID:      groceries.Data.ID,
		MonthlyBudgetID: budget.Data.ID,
	})

	recorder := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/budgets/%s/summary", budget.Data.ID), "", headers)
	test.AssertHTTPStatus(t, &recorder, http.StatusOK)

	var response v1.BudgetSummaryResponse
	test.DecodeResponse(t, &recorder, &response)

	assert.True(t, response.Data.Budget.Spent.Equal(decimal.NewFromInt(150)))
	require.Len(t, response.Data.Categories, 1)
	assert.Equal(t, "Groceries", response.Data.Categories[0].CategoryName)
	assert.True(t, response.Data.Categories[0].Allocated.Equal(decimal.NewFromInt(400)))
	assert.True(t, response.Data.Categories[0].Spent.Equal(decimal.NewFromInt(150)))
	assert.True(t, response.Data.Categories[0].Remaining.Equal(decimal.NewFromInt(250)))
}
