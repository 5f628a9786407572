package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/expense-tracker/backend/internal/httputil"
	"github.com/expense-tracker/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// contextUser is the context key the authenticated user's ID is stored
// under.
const contextUser = "expense-tracker-user"

// tokenLifetime is how long a session token stays valid after login.
const tokenLifetime = 5 * time.Hour

var jwtSecret []byte

// RegisterAuthRoutes registers the authentication routes with the
// RouterGroup that is passed. The secret signs all session tokens.
func RegisterAuthRoutes(r *gin.RouterGroup, secret []byte) {
	jwtSecret = secret

	r.OPTIONS("/register", OptionsAuth)
	r.POST("/register", Register)

	r.OPTIONS("/login", OptionsAuth)
	r.POST("/login", Login)

	r.OPTIONS("/recover", OptionsAuth)
	r.POST("/recover", RecoverPassword)
}

// RequireAuth only lets requests with a valid bearer token pass and stores
// the authenticated user's ID in the request context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpError{Error: errNoToken.Error()})
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errInvalidToken
			}

			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpError{Error: errInvalidToken.Error()})
			return
		}

		claims := token.Claims.(*jwt.RegisteredClaims)
		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpError{Error: errInvalidToken.Error()})
			return
		}

		c.Set(contextUser, id)
		c.Next()
	}
}

// userID returns the ID of the authenticated user.
//
// It must only be called from handlers behind RequireAuth.
func userID(c *gin.Context) uuid.UUID {
	return c.MustGet(contextUser).(uuid.UUID)
}

func signToken(user models.User) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

type RegisterRequest struct {
	Name             string `json:"name" binding:"required"`             // Display name of the user
	Username         string `json:"username" binding:"required"`         // Unique login name
	Password         string `json:"password" binding:"required"`         // Cleartext password, stored as bcrypt hash
	SecurityQuestion string `json:"securityQuestion" binding:"required"` // Question used for password recovery
	SecurityAnswer   string `json:"securityAnswer" binding:"required"`   // Answer to the question, stored as bcrypt hash
}

type UserData struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
}

type UserResponse struct {
	Data  *UserData `json:"data"`
	Error *string   `json:"error"`
}

type LoginResponse struct {
	Data  *LoginData `json:"data"`
	Error *string    `json:"error"`
}

type LoginData struct {
	Token string   `json:"token"` // Bearer token for the Authorization header
	User  UserData `json:"user"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Auth
// @Success		204
// @Router			/v1/auth/register [options]
func OptionsAuth(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Register
// @Description	Creates a new user account
// @Tags			Auth
// @Produce		json
// @Success		201		{object}	UserResponse
// @Failure		400		{object}	UserResponse
// @Failure		500		{object}	UserResponse
// @Param			user	body		RegisterRequest	true	"User"
// @Router			/v1/auth/register [post]
func Register(c *gin.Context) {
	var request RegisterRequest
	if err := httputil.BindData(c, &request); err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	user := models.User{
		Name:             request.Name,
		Username:         request.Username,
		SecurityQuestion: request.SecurityQuestion,
	}

	if err := user.SetPassword(request.Password); err != nil {
		e := models.ErrGeneral.Error()
		c.JSON(http.StatusInternalServerError, UserResponse{Error: &e})
		return
	}

	if err := user.SetSecurityAnswer(request.SecurityAnswer); err != nil {
		e := models.ErrGeneral.Error()
		c.JSON(http.StatusInternalServerError, UserResponse{Error: &e})
		return
	}

	if err := models.DB.Create(&user).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, UserResponse{
		Data: &UserData{ID: user.ID, Name: user.Name, Username: user.Username},
	})
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// @Summary		Login
// @Description	Verifies the credentials and returns a session token
// @Tags			Auth
// @Produce		json
// @Success		200		{object}	LoginResponse
// @Failure		400		{object}	LoginResponse
// @Failure		401		{object}	LoginResponse
// @Param			login	body		LoginRequest	true	"Credentials"
// @Router			/v1/auth/login [post]
func Login(c *gin.Context) {
	var request LoginRequest
	if err := httputil.BindData(c, &request); err != nil {
		e := err.Error()
		c.JSON(status(err), LoginResponse{Error: &e})
		return
	}

	if request.Username == "" || request.Password == "" {
		e := errMissingCredentials.Error()
		c.JSON(http.StatusBadRequest, LoginResponse{Error: &e})
		return
	}

	var user models.User
	err := models.DB.Where(&models.User{Username: request.Username}).First(&user).Error

	// A missing user and a wrong password are indistinguishable to the
	// caller so that usernames cannot be probed
	if err != nil || !user.CheckPassword(request.Password) {
		e := errInvalidCredentials.Error()
		c.JSON(http.StatusUnauthorized, LoginResponse{Error: &e})
		return
	}

	token, err := signToken(user)
	if err != nil {
		e := models.ErrGeneral.Error()
		c.JSON(http.StatusInternalServerError, LoginResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Data: &LoginData{
			Token: token,
			User:  UserData{ID: user.ID, Name: user.Name, Username: user.Username},
		},
	})
}

type RecoverRequest struct {
	Username       string `json:"username" binding:"required"`
	SecurityAnswer string `json:"securityAnswer" binding:"required"`
	NewPassword    string `json:"newPassword" binding:"required"`
}

// @Summary		Recover password
// @Description	Resets the password after verifying the security answer
// @Tags			Auth
// @Produce		json
// @Success		200		{object}	UserResponse
// @Failure		400		{object}	UserResponse
// @Failure		403		{object}	UserResponse
// @Failure		404		{object}	UserResponse
// @Param			recover	body		RecoverRequest	true	"Recovery data"
// @Router			/v1/auth/recover [post]
func RecoverPassword(c *gin.Context) {
	var request RecoverRequest
	if err := httputil.BindData(c, &request); err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	var user models.User
	err := models.DB.Where(&models.User{Username: request.Username}).First(&user).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	if !user.CheckSecurityAnswer(request.SecurityAnswer) {
		e := errWrongSecurityAnswer.Error()
		c.JSON(http.StatusForbidden, UserResponse{Error: &e})
		return
	}

	if user.CheckPassword(request.NewPassword) {
		e := errSamePassword.Error()
		c.JSON(http.StatusBadRequest, UserResponse{Error: &e})
		return
	}

	if err := user.SetPassword(request.NewPassword); err != nil {
		e := models.ErrGeneral.Error()
		c.JSON(http.StatusInternalServerError, UserResponse{Error: &e})
		return
	}

	if err := models.DB.Model(&user).Update("password_hash", user.PasswordHash).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		Data: &UserData{ID: user.ID, Name: user.Name, Username: user.Username},
	})
}
