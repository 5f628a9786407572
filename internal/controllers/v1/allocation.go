package v1

import (
	"net/http"

	"github.com/expense-tracker/backend/internal/httputil"
	"github.com/expense-tracker/backend/internal/ledger"
	"github.com/expense-tracker/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterAllocationRoutes registers the routes for allocations with
// the RouterGroup that is passed.
func RegisterAllocationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsAllocationList)
		r.GET("", GetAllocations)
		r.POST("", CreateAllocation)
	}

	// Allocation with ID
	{
		r.OPTIONS("/:id", OptionsAllocationDetail)
		r.GET("/:id", GetAllocation)
		r.PATCH("/:id", UpdateAllocation)
		r.DELETE("/:id", DeleteAllocation)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/allocations [options]
func OptionsAllocationList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id} [options]
func OptionsAllocationDetail(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err := models.DB.Where(&models.CategoryAllocation{UserID: userID(c)}).First(&models.CategoryAllocation{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create allocation
// @Description	Reserves a part of a monthly budget for a category. The amount is taken from the unallocated pool of the budget.
// @Tags			Allocations
// @Produce		json
// @Success		201			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		404			{object}	AllocationResponse
// @Failure		500			{object}	AllocationResponse
// @Param			allocation	body		AllocationEditable	true	"Allocation"
// @Router			/v1/allocations [post]
func CreateAllocation(c *gin.Context) {
	var editable AllocationEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	allocation, err := ledger.CreateAllocation(models.DB, userID(c), editable.MonthlyBudgetID, editable.CategoryID, editable.Amount)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	data := newAllocation(c, allocation)
	c.JSON(http.StatusCreated, AllocationResponse{Data: &data})
}

// @Summary		Get allocations
// @Description	Returns a list of allocations
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationListResponse
// @Failure		400	{object}	AllocationListResponse
// @Failure		500	{object}	AllocationListResponse
// @Param			budget		query	string	false	"Filter by monthly budget ID"
// @Param			category	query	string	false	"Filter by category ID"
// @Router			/v1/allocations [get]
func GetAllocations(c *gin.Context) {
	var filter AllocationQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields set in the filter
	queryFields, _ := httputil.GetURLFields(c.Request.URL, filter)

	model, err := filter.model()
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationListResponse{Error: &e})
		return
	}

	var allocations []models.CategoryAllocation
	err = models.DB.
		Where(&models.CategoryAllocation{UserID: userID(c)}).
		Where(&model, queryFields...).
		Order("created_at ASC").
		Find(&allocations).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationListResponse{Error: &e})
		return
	}

	data := make([]Allocation, 0, len(allocations))
	for _, allocation := range allocations {
		data = append(data, newAllocation(c, allocation))
	}

	c.JSON(http.StatusOK, AllocationListResponse{Data: data})
}

// @Summary		Get allocation
// @Description	Returns a specific allocation
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationResponse
// @Failure		400	{object}	AllocationResponse
// @Failure		404	{object}	AllocationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id} [get]
func GetAllocation(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	var allocation models.CategoryAllocation
	err := models.DB.Where(&models.CategoryAllocation{UserID: userID(c)}).First(&allocation, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	data := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}

// @Summary		Update allocation
// @Description	Updates the amount of an allocation. The difference moves between the allocation and the unallocated pool of its budget.
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		200			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		404			{object}	AllocationResponse
// @Failure		409			{object}	AllocationResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			allocation	body		AllocationEditable	true	"Allocation"
// @Router			/v1/allocations/{id} [patch]
func UpdateAllocation(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, AllocationEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	// The budget and category of an allocation are fixed, only the amount
	// can change. Moving money between categories is done with separate
	// allocations.
	for _, field := range updateFields {
		if field != any("Amount") {
			e := errAllocationOnlyAmount.Error()
			c.JSON(http.StatusBadRequest, AllocationResponse{Error: &e})
			return
		}
	}

	var editable AllocationEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	allocation, err := ledger.UpdateAllocation(models.DB, userID(c), uri.ID.UUID, editable.Amount)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	data := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}

// @Summary		Delete allocation
// @Description	Deletes an allocation and returns its amount to the unallocated pool of its budget. Allocations that still have expenses cannot be deleted.
// @Tags			Allocations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		409	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id} [delete]
func DeleteAllocation(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err := ledger.DeleteAllocation(models.DB, userID(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
