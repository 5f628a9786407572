package v1

import (
	"errors"
	"net/http"

	"github.com/expense-tracker/backend/internal/httputil"
	"github.com/expense-tracker/backend/internal/ledger"
	"github.com/expense-tracker/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

var errBudgetMonthRequired = errors.New("the month for the budget must be set")

// RegisterBudgetRoutes registers the routes for monthly budgets with
// the RouterGroup that is passed.
func RegisterBudgetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgetList)
		r.GET("", GetBudgets)
		r.POST("", CreateBudget)
	}

	// Budget with ID
	{
		r.OPTIONS("/:id", OptionsBudgetDetail)
		r.GET("/:id", GetBudget)
		r.PATCH("/:id", UpdateBudget)
		r.DELETE("/:id", DeleteBudget)
		r.GET("/:id/summary", GetBudgetSummary)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets [options]
func OptionsBudgetList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [options]
func OptionsBudgetDetail(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err := models.DB.Where(&models.MonthlyBudget{UserID: userID(c)}).First(&models.MonthlyBudget{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create budget
// @Description	Creates a new monthly budget
// @Tags			Budgets
// @Produce		json
// @Success		201		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		500		{object}	BudgetResponse
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/budgets [post]
func CreateBudget(c *gin.Context) {
	var editable BudgetEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	if editable.Month.IsZero() {
		e := errBudgetMonthRequired.Error()
		c.JSON(http.StatusBadRequest, BudgetResponse{Error: &e})
		return
	}

	budget, err := ledger.CreateBudget(models.DB, userID(c), editable.Month, editable.Total)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	data := newBudget(c, budget)
	c.JSON(http.StatusCreated, BudgetResponse{Data: &data})
}

// @Summary		Get budgets
// @Description	Returns a list of monthly budgets
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetListResponse
// @Failure		400	{object}	BudgetListResponse
// @Failure		500	{object}	BudgetListResponse
// @Param			month	query	string	false	"Filter by month in YYYY-MM format"
// @Router			/v1/budgets [get]
func GetBudgets(c *gin.Context) {
	var filter BudgetQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BudgetListResponse{Error: &e})
		return
	}

	q := models.DB.
		Where(&models.MonthlyBudget{UserID: userID(c)}).
		Order("month DESC")

	if !filter.Month.IsZero() {
		q = q.Where(&models.MonthlyBudget{Month: filter.Month})
	}

	var budgets []models.MonthlyBudget
	if err := q.Find(&budgets).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetListResponse{Error: &e})
		return
	}

	data := make([]Budget, 0)
	for _, budget := range budgets {
		data = append(data, newBudget(c, budget))
	}

	c.JSON(http.StatusOK, BudgetListResponse{Data: data})
}

// @Summary		Get budget
// @Description	Returns a specific monthly budget
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetResponse
// @Failure		400	{object}	BudgetResponse
// @Failure		404	{object}	BudgetResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [get]
func GetBudget(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	var budget models.MonthlyBudget
	err := models.DB.Where(&models.MonthlyBudget{UserID: userID(c)}).First(&budget, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	data := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &data})
}

// @Summary		Update budget
// @Description	Updates an existing monthly budget. Only values to be updated need to be specified. A changed total moves the remaining values by the same amount.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		404		{object}	BudgetResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/budgets/{id} [patch]
func UpdateBudget(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	var editable BudgetEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	var update ledger.BudgetUpdate
	if slices.Contains(updateFields, any("Month")) {
		update.Month = &editable.Month
	}
	if slices.Contains(updateFields, any("Total")) {
		update.Total = &editable.Total
	}

	budget, err := ledger.UpdateBudget(models.DB, userID(c), uri.ID.UUID, update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	data := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &data})
}

// @Summary		Delete budget
// @Description	Deletes a monthly budget. Budgets that still have allocations or expenses cannot be deleted.
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		409	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [delete]
func DeleteBudget(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err := ledger.DeleteBudget(models.DB, userID(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Budget summary
// @Description	Returns the budget with its spending aggregated by category
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetSummaryResponse
// @Failure		400	{object}	BudgetSummaryResponse
// @Failure		404	{object}	BudgetSummaryResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/summary [get]
func GetBudgetSummary(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetSummaryResponse{Error: &e})
		return
	}

	var budget models.MonthlyBudget
	err := models.DB.Where(&models.MonthlyBudget{UserID: userID(c)}).First(&budget, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetSummaryResponse{Error: &e})
		return
	}

	var allocations []models.CategoryAllocation
	err = models.DB.
		Where(&models.CategoryAllocation{MonthlyBudgetID: budget.ID}).
		Find(&allocations).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetSummaryResponse{Error: &e})
		return
	}

	categoryIDs := make([]string, 0, len(allocations))
	for _, allocation := range allocations {
		categoryIDs = append(categoryIDs, allocation.CategoryID.String())
	}

	var categories []models.Category
	err = models.DB.Where("id IN ?", categoryIDs).Find(&categories).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetSummaryResponse{Error: &e})
		return
	}

	names := make(map[string]string, len(categories))
	for _, category := range categories {
		names[category.ID.String()] = category.Name
	}

	summaries := make([]CategorySummary, 0, len(allocations))
	for _, allocation := range allocations {
		summaries = append(summaries, CategorySummary{
			CategoryID:   allocation.CategoryID.String(),
			CategoryName: names[allocation.CategoryID.String()],
			Allocated:    allocation.Amount,
			Spent:        allocation.Spent(),
			Remaining:    allocation.Remaining,
		})
	}

	c.JSON(http.StatusOK, BudgetSummaryResponse{
		Data: &BudgetSummary{
			Budget:     newBudget(c, budget),
			Categories: summaries,
		},
	})
}
