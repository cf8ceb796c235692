package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/internal/dto"
	userhandler "github.com/saitejads/loanbook/internal/handler/user"
	"github.com/saitejads/loanbook/middleware"
	"github.com/saitejads/loanbook/pkg/common"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	noop_trace "go.opentelemetry.io/otel/trace/noop"

	"go.uber.org/zap"
)

type UserHandlerTestSuite struct {
	suite.Suite
	app             *fiber.App
	handler         *userhandler.UserHandler
	mockUserService *MockUserService

	jwtSecret string
}

func (suite *UserHandlerTestSuite) SetupTest() {
	suite.mockUserService = &MockUserService{}
	suite.jwtSecret = "test-user-secret-key"

	tracer := noop_trace.NewTracerProvider().Tracer("test-user-handler-tracer")
	suite.handler = userhandler.NewUserHandler(suite.mockUserService, tracer, zap.NewNop())

	suite.app = suite.setupUserApp()
}

func (suite *UserHandlerTestSuite) setupUserApp() *fiber.App {
	app := fiber.New()

	jwtAuth := middleware.NewJWTAuthMiddleware(suite.jwtSecret)
	requireAdmin := middleware.RequireRole(domain.AdminRole)

	authGroup := app.Group("/auth")
	{
		authGroup.Post("/register", suite.handler.Register)
		authGroup.Post("/login", suite.handler.Login)
		authGroup.Put("/update-password", suite.handler.UpdatePassword)
		authGroup.Post("/send-otp", suite.handler.SendOTP)
		authGroup.Post("/validate-otp", suite.handler.ValidateOTP)
	}

	userGroup := app.Group("/users", jwtAuth, requireAdmin)
	{
		userGroup.Get("/", suite.handler.List)
		userGroup.Get("/:userId", suite.handler.Get)
		userGroup.Put("/:userId", suite.handler.Update)
		userGroup.Delete("/:userId", suite.handler.Delete)
		userGroup.Post("/areas", suite.handler.AddArea)
	}

	return app
}

func (suite *UserHandlerTestSuite) bearerToken(role domain.Role) string {
	claims := &domain.JwtCustomClaims{
		UserID:   "user-1",
		Username: "admin",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	assert.NoError(suite.T(), err)
	return "Bearer " + signed
}

func (suite *UserHandlerTestSuite) TestLogin_Success() {
	suite.mockUserService.MockLogin = &dto.LoginResponse{
		Token: "signed-token",
		User:  &domain.User{ID: "user-2", Username: "collector1"},
	}

	body := `{"username": "collector1", "password": "secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool              `json:"success"`
		Data    dto.LoginResponse `json:"data"`
	}
	json.NewDecoder(resp.Body).Decode(&envelope)
	assert.True(suite.T(), envelope.Success)
	assert.Equal(suite.T(), "signed-token", envelope.Data.Token)
}

func (suite *UserHandlerTestSuite) TestLogin_InvalidCredentials() {
	suite.mockUserService.MockError = common.ErrInvalidCredentials

	body := `{"username": "collector1", "password": "wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
}

func (suite *UserHandlerTestSuite) TestRegister_WithoutToken() {
	suite.mockUserService.MockUser = &domain.User{ID: "user-2", Username: "collector1"}

	body := `{"username": "collector1", "password": "secret123", "name": "Collector One"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
}

func (suite *UserHandlerTestSuite) TestRegister_UsernameTaken() {
	suite.mockUserService.MockError = common.ErrUsernameExists

	body := `{"username": "collector1", "password": "secret123", "name": "Collector One"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusConflict, resp.StatusCode)
}

func (suite *UserHandlerTestSuite) TestGet_Success() {
	suite.mockUserService.MockUser = &domain.User{ID: "user-2", Username: "collector1"}

	req := httptest.NewRequest(http.MethodGet, "/users/user-2", nil)
	req.Header.Set(fiber.HeaderAuthorization, suite.bearerToken(domain.AdminRole))

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool        `json:"success"`
		Data    domain.User `json:"data"`
	}
	json.NewDecoder(resp.Body).Decode(&envelope)
	assert.True(suite.T(), envelope.Success)
	assert.Equal(suite.T(), "collector1", envelope.Data.Username)
}

func (suite *UserHandlerTestSuite) TestGet_NotFound() {
	suite.mockUserService.MockError = common.ErrUserNotFound

	req := httptest.NewRequest(http.MethodGet, "/users/missing", nil)
	req.Header.Set(fiber.HeaderAuthorization, suite.bearerToken(domain.AdminRole))

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
}

func (suite *UserHandlerTestSuite) TestUserRoutes_FailWithWrongRole() {
	req := httptest.NewRequest(http.MethodGet, "/users/", nil)
	req.Header.Set(fiber.HeaderAuthorization, suite.bearerToken(domain.SubadminRole))

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusForbidden, resp.StatusCode)
}

func (suite *UserHandlerTestSuite) TestUserRoutes_FailWithoutToken() {
	req := httptest.NewRequest(http.MethodGet, "/users/", nil)

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
}

func (suite *UserHandlerTestSuite) TestDelete_NotFound() {
	suite.mockUserService.MockError = common.ErrUserNotFound

	req := httptest.NewRequest(http.MethodDelete, "/users/missing", nil)
	req.Header.Set(fiber.HeaderAuthorization, suite.bearerToken(domain.AdminRole))

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
}

func (suite *UserHandlerTestSuite) TestUpdatePassword_NotFound() {
	suite.mockUserService.MockError = common.ErrUserNotFound

	body := `{"username": "missing", "new_password": "secret123"}`
	req := httptest.NewRequest(http.MethodPut, "/auth/update-password", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
}

func (suite *UserHandlerTestSuite) TestValidateOTP_Expired() {
	suite.mockUserService.MockError = common.ErrOTPExpired

	body := `{"username": "collector1", "otp": "123456"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/validate-otp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
}

func (suite *UserHandlerTestSuite) TestValidateOTP_Success() {
	body := `{"username": "collector1", "otp": "123456"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/validate-otp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
}

func TestUserHandlerSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}
