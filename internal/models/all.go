package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Exporter is implemented by all models whose records can be exported for a
// specific user.
type Exporter interface {
	Export(userID uuid.UUID) (json.RawMessage, error)
}

// Registry contains all exportable models.
var Registry = []Exporter{
	User{},
	MonthlyBudget{},
	Category{},
	CategoryAllocation{},
	Expense{},
}
