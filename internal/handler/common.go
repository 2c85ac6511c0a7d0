package handler

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// getSupplier extracts the authenticated supplier name placed in the context
// by the JWT middleware.
func getSupplier(c echo.Context) (string, error) {
	v, ok := c.Get("supplier").(string)
	if !ok || v == "" {
		return "", errors.New("no supplier in context")
	}
	return v, nil
}

// getEmail returns the confirmation recipient from the token claims, or ""
// when absent.
func getEmail(c echo.Context) string {
	v, _ := c.Get("email").(string)
	return v
}

// getCC returns the CC list from the token claims. JWT claims decode arrays
// as []interface{}, so each entry is re-asserted to string.
func getCC(c echo.Context) []string {
	raw, ok := c.Get("cc").([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
