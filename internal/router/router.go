// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ljbyon/almacen-v3-g/internal/handler"
	"github.com/ljbyon/almacen-v3-g/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the supplier login endpoint. Login lives under
// /v1/auth and requires no token; it is where tokens come from.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
}

// RegisterBooking registers the protected booking endpoints. All of them run
// behind the JWT middleware so handlers can rely on a supplier identity being
// present in the context.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.GET("/availability", b.Availability)
	g.POST("/bookings", b.Reserve)
	g.GET("/my-bookings", b.MyBookings)
}
