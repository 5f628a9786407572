package models

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a spending label. It carries no amounts itself, those live on
// the CategoryAllocation for a specific monthly budget.
type Category struct {
	DefaultModel
	UserID uuid.UUID `gorm:"uniqueIndex:category_user_name"`
	User   User      `json:"-"`
	Name   string    `gorm:"uniqueIndex:category_user_name"`
	Note   string
}

var ErrCategoryNameNotUnique = errors.New("you already have a category with this name")

func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	return nil
}

// Export returns all categories of the user for export.
func (Category) Export(userID uuid.UUID) (json.RawMessage, error) {
	var categories []Category
	err := DB.Where(&Category{UserID: userID}).Find(&categories).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&categories)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
