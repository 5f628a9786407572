package models_test

import (
	"errors"

	"github.com/expense-tracker/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestAllocationSpent() {
	allocation := models.CategoryAllocation{
		Amount:    decimal.NewFromInt(400),
		Remaining: decimal.NewFromInt(250),
	}

	assert.True(suite.T(), allocation.Spent().Equal(decimal.NewFromInt(150)))
}

func (suite *TestSuiteStandard) TestAllocationDuplicatePair() {
	user := suite.createTestUser(models.User{})
	budget := suite.createTestBudget(models.MonthlyBudget{UserID: user.ID})
	category := suite.createTestCategory(models.Category{UserID: user.ID})

	allocation := models.CategoryAllocation{
		UserID:          user.ID,
		MonthlyBudgetID: budget.ID,
		CategoryID:      category.ID,
		Amount:          decimal.NewFromInt(400),
		Remaining:       decimal.NewFromInt(400),
	}
	assert.Nil(suite.T(), models.DB.Create(&allocation).Error)

	duplicate := models.CategoryAllocation{
		UserID:          user.ID,
		MonthlyBudgetID: budget.ID,
		CategoryID:      category.ID,
		Amount:          decimal.NewFromInt(100),
		Remaining:       decimal.NewFromInt(100),
	}
	err := models.DB.Create(&duplicate).Error
	assert.True(suite.T(), errors.Is(err, models.ErrAllocationExists), "wrong error on duplicate allocation: %v", err)
}

func (suite *TestSuiteStandard) TestCategoryDuplicateName() {
	user := suite.createTestUser(models.User{})
	_ = suite.createTestCategory(models.Category{UserID: user.ID, Name: "Groceries"})

	category := models.Category{UserID: user.ID, Name: "Groceries"}
	err := models.DB.Create(&category).Error
	assert.True(suite.T(), errors.Is(err, models.ErrCategoryNameNotUnique), "wrong error on duplicate category name: %v", err)

	// The same name for another user is fine
	category.ID = uuid.Nil
	category.UserID = suite.createTestUser(models.User{}).ID
	assert.Nil(suite.T(), models.DB.Create(&category).Error)
}
