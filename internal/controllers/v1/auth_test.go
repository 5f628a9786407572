package v1_test

import (
	"net/http"

	v1 "github.com/expense-tracker/backend/internal/controllers/v1"
	"github.com/expense-tracker/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestRegister() {
	t := suite.T()

	recorder := test.Request(t, http.MethodPost, "/v1/auth/register", v1.RegisterRequest{
		Name:             "Morre",
		Username:         "morre",
		Password:         "hunter2",
		SecurityQuestion: "First pet?",
		SecurityAnswer:   "Rex",
	})
	test.AssertHTTPStatus(t, &recorder, http.StatusCreated)

	var response v1.UserResponse
	test.DecodeResponse(t, &recorder, &response)

	assert.Equal(t, "morre", response.Data.Username)
	assert.NotContains(t, recorder.Body.String(), "hunter2", "the password must never appear in a response")
}

func (suite *TestSuiteStandard) TestRegisterMissingFields() {
	recorder := test.Request(suite.T(), http.MethodPost, "/v1/auth/register", v1.RegisterRequest{
		Username: "morre",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestRegisterDuplicateUsername() {
	_ = suite.registerTestUser("morre")

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/auth/register", v1.RegisterRequest{
		Name:             "Someone Else",
		Username:         "morre",
		Password:         "hunter3",
		SecurityQuestion: "First pet?",
		SecurityAnswer:   "Bello",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	assert.Contains(suite.T(), recorder.Body.String(), "already taken")
}

func (suite *TestSuiteStandard) TestLoginWrongCredentials() {
	t := suite.T()
	_ = suite.registerTestUser("morre")

	// Wrong password
	recorder := test.Request(t, http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Username: "morre",
		Password: "wrong",
	})
	test.AssertHTTPStatus(t, &recorder, http.StatusUnauthorized)
	wrongPassword := recorder.Body.String()

	// Unknown user, the response must be identical so that usernames
	// cannot be probed
	recorder = test.Request(t, http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Username: "nobody",
		Password: "wrong",
	})
	test.AssertHTTPStatus(t, &recorder, http.StatusUnauthorized)
	assert.Equal(t, wrongPassword, recorder.Body.String())
}

func (suite *TestSuiteStandard) TestRecoverPassword() {
	t := suite.T()
	_ = suite.registerTestUser("morre")

	// Wrong security answer
	recorder := test.Request(t, http.MethodPost, "/v1/auth/recover", v1.RecoverRequest{
		Username:       "morre",
		SecurityAnswer: "Bello",
		NewPassword:    "new-password",
	})
	test.AssertHTTPStatus(t, &recorder, http.StatusForbidden)

	// Same password as before
	recorder = test.Request(t, http.MethodPost, "/v1/auth/recover", v1.RecoverRequest{
		Username:       "morre",
		SecurityAnswer: "rex",
		NewPassword:    "hunter2",
	})
	test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)

	// The answer is case insensitive
	recorder = test.Request(t, http.MethodPost, "/v1/auth/recover", v1.RecoverRequest{
		Username:       "morre",
		SecurityAnswer: "REX",
		NewPassword:    "new-password",
	})
	test.AssertHTTPStatus(t, &recorder, http.StatusOK)

	// The old password does not work anymore
	recorder = test.Request(t, http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Username: "morre",
		Password: "hunter2",
	})
	test.AssertHTTPStatus(t, &recorder, http.StatusUnauthorized)

	recorder = test.Request(t, http.MethodPost, "/v1/auth/login", v1.LoginRequest{
		Username: "morre",
		Password: "new-password",
	})
	test.AssertHTTPStatus(t, &recorder, http.StatusOK)
}

func (suite *TestSuiteStandard) TestRecoverUnknownUser() {
	recorder := test.Request(suite.T(), http.MethodPost, "/v1/auth/recover", v1.RecoverRequest{
		Username:       "nobody",
		SecurityAnswer: "Rex",
		NewPassword:    "new-password",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAuthRequired() {
	t := suite.T()

	recorder := test.Request(t, http.MethodGet, "/v1/budgets", "")
	test.AssertHTTPStatus(t, &recorder, http.StatusUnauthorized)

	recorder = test.Request(t, http.MethodGet, "/v1/budgets", "", map[string]string{"Authorization": "Bearer not-a-token"})
	test.AssertHTTPStatus(t, &recorder, http.StatusUnauthorized)
}
