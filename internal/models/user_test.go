package models_test

import (
	"errors"

	"github.com/expense-tracker/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestUserPassword() {
	user := models.User{}
	require.Nil(suite.T(), user.SetPassword("hunter2"))

	assert.NotEqual(suite.T(), "hunter2", user.PasswordHash, "password must not be stored in cleartext")
	assert.True(suite.T(), user.CheckPassword("hunter2"))
	assert.False(suite.T(), user.CheckPassword("hunter3"))
}

func (suite *TestSuiteStandard) TestUserSecurityAnswer() {
	user := models.User{}
	require.Nil(suite.T(), user.SetSecurityAnswer("  Rex  "))

	assert.NotEqual(suite.T(), "Rex", user.SecurityAnswerHash, "answer must not be stored in cleartext")

	// Case and surrounding whitespace do not matter
	assert.True(suite.T(), user.CheckSecurityAnswer("rex"))
	assert.True(suite.T(), user.CheckSecurityAnswer("REX "))
	assert.False(suite.T(), user.CheckSecurityAnswer("bello"))
}

func (suite *TestSuiteStandard) TestUserTrimWhitespace() {
	user := suite.createTestUser(models.User{
		Name:             "  Morre ",
		Username:         " morre\t",
		SecurityQuestion: " First pet? ",
	})

	assert.Equal(suite.T(), "Morre", user.Name)
	assert.Equal(suite.T(), "morre", user.Username)
	assert.Equal(suite.T(), "First pet?", user.SecurityQuestion)
}

func (suite *TestSuiteStandard) TestUserDuplicateUsername() {
	_ = suite.createTestUser(models.User{Username: "morre"})

	user := models.User{Username: "morre"}
	require.Nil(suite.T(), user.SetPassword("hunter2"))

	err := models.DB.Create(&user).Error
	assert.True(suite.T(), errors.Is(err, models.ErrUsernameNotUnique), "wrong error on duplicate username: %v", err)
}
