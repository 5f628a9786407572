package v1

import (
	"fmt"

	"github.com/expense-tracker/backend/internal/httputil"
	"github.com/expense-tracker/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// CategoryEditable represents all user configurable parameters of a
// category
type CategoryEditable struct {
	Name string `json:"name" example:"Groceries" default:""`                     // Name of the category, unique per user
	Note string `json:"note" example:"Everything bought at PicknPay" default:""` // Notes about the category
}

func (editable CategoryEditable) model() models.Category {
	return models.Category{
		Name: editable.Name,
		Note: editable.Note,
	}
}

type CategoryLinks struct {
	Self        string `json:"self" example:"https://example.com/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f"`
	Allocations string `json:"allocations" example:"https://example.com/v1/allocations?category=3b1ea324-d438-4419-882a-2fc91d71772f"`
	Expenses    string `json:"expenses" example:"https://example.com/v1/expenses?category=3b1ea324-d438-4419-882a-2fc91d71772f"`
}

type Category struct {
	models.DefaultModel
	CategoryEditable
	Links CategoryLinks `json:"links"`
}

func newCategory(c *gin.Context, model models.Category) Category {
	url := httputil.RequestHost(c)

	return Category{
		DefaultModel: model.DefaultModel,
		CategoryEditable: CategoryEditable{
			Name: model.Name,
			Note: model.Note,
		},
		Links: CategoryLinks{
			Self:        fmt.Sprintf("%s/v1/categories/%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/allocations?category=%s", url, model.ID),
			Expenses:    fmt.Sprintf("%s/v1/expenses?category=%s", url, model.ID),
		},
	}
}

type CategoryListResponse struct {
	Data  []Category `json:"data"`
	Error *string    `json:"error"`
}

type CategoryResponse struct {
	Data  *Category `json:"data"`
	Error *string   `json:"error"`
}

type CategoryQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // By name, glob patterns are supported
	Search string `form:"search" filterField:"false"` // By string in name or note
}
