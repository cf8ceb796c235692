package common

import (
	"errors"
	"os"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrLoanNotFound        = errors.New("loan not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrDuplicateSequence   = errors.New("sequence number already allocated in this section")
	ErrDuplicateEntry      = errors.New("installment for this date already exists for this loan")
	ErrEntryNotFound       = errors.New("entry not found")
	ErrNoValidLoans        = errors.New("no valid loans found")
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameExists      = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidOTP          = errors.New("invalid otp")
	ErrOTPExpired          = errors.New("otp not found or already expired")
	ErrInvalidDate         = errors.New("a valid date is required")
)

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func SuccessResponse(c *fiber.Ctx, statusCode int, message string, data any) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(statusCode).JSON(body)
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
