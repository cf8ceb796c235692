package middleware

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// NewTrimMiddleware strips leading and trailing whitespace from every string
// value in a JSON request body and from query parameter values before the
// request reaches a handler.
func NewTrimMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		args := c.Request().URI().QueryArgs()
		args.VisitAll(func(key, value []byte) {
			trimmed := strings.TrimSpace(string(value))
			if trimmed != string(value) {
				args.Set(string(key), trimmed)
			}
		})

		body := c.Body()
		if len(body) > 0 && strings.Contains(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
			var payload any
			if err := json.Unmarshal(body, &payload); err == nil {
				trimmed, err := json.Marshal(trimValues(payload))
				if err == nil {
					c.Request().SetBody(trimmed)
				}
			}
		}

		return c.Next()
	}
}

func trimValues(value any) any {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		for key, entry := range v {
			v[key] = trimValues(entry)
		}
		return v
	case []any:
		for i, entry := range v {
			v[i] = trimValues(entry)
		}
		return v
	default:
		return value
	}
}
