package v1

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/expense-tracker/backend/internal/httputil"
	"github.com/expense-tracker/backend/internal/models"
	"github.com/gin-gonic/gin"
)

var backendVersion string

func RegisterExportRoutes(r *gin.RouterGroup, version string) {
	backendVersion = version

	{
		r.OPTIONS("", OptionsExport)
		r.GET("", GetExport)
	}
}

type ExportResponse struct {
	Version      string                     `json:"version"`      // The version of the backend the export was made with
	Data         map[string]json.RawMessage `json:"data"`         // The exported data
	CreationTime time.Time                  `json:"creationTime"` // Time the export was created
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Export
// @Success		204
// @Router			/v1/export [options]
func OptionsExport(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Export
// @Description	Exports all resources of the authenticated user. With format=csv, only the expenses are exported as a spreadsheet.
// @Tags			Export
// @Produce		json
// @Success		200		{object}	ExportResponse
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			format	query		string	false	"Export format, \"json\" or \"csv\". Defaults to json"
// @Router			/v1/export [get]
func GetExport(c *gin.Context) {
	switch c.DefaultQuery("format", "json") {
	case "json":
		exportJSON(c)
	case "csv":
		exportCSV(c)
	default:
		c.JSON(http.StatusBadRequest, httpError{Error: errExportFormatInvalid.Error()})
	}
}

func exportJSON(c *gin.Context) {
	resources := make(map[string]json.RawMessage)

	for _, model := range models.Registry {
		b, err := model.Export(userID(c))
		if err != nil {
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}

		resources[reflect.TypeOf(model).Name()] = b
	}

	c.JSON(http.StatusOK, ExportResponse{
		Version:      backendVersion,
		Data:         resources,
		CreationTime: time.Now(),
	})
}

func exportCSV(c *gin.Context) {
	var expenses []models.Expense
	err := models.DB.
		Where(&models.Expense{UserID: userID(c)}).
		Order("date ASC, created_at ASC").
		Find(&expenses).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	categoryNames, err := categoryNamesByID(userID(c))
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var out strings.Builder
	w := csv.NewWriter(&out)

	records := [][]string{{"Date", "Name", "Category", "Amount"}}
	for _, expense := range expenses {
		records = append(records, []string{
			expense.Date.Format("2006-01-02"),
			expense.Name,
			categoryNames[expense.CategoryID],
			expense.Amount.String(),
		})
	}

	if err := w.WriteAll(records); err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
		return
	}

	filename := fmt.Sprintf("expenses-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", []byte(out.String()))
}
