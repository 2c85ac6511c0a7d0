package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ljbyon/almacen-v3-g/internal/config"
	"github.com/ljbyon/almacen-v3-g/internal/credential"
	"github.com/ljbyon/almacen-v3-g/internal/utils"
)

// AuthHandler bundles dependencies for supplier login.
type AuthHandler struct {
	Cfg   config.Config
	Creds *credential.Store
}

func NewAuthHandler(cfg config.Config, creds *credential.Store) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Creds: creds}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login. Credentials are checked against the
// ledger's credentials partition. Every failure — wrong password, unknown
// user, unreachable store — yields the same generic 401 so nothing about
// internal state leaks to the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	id, ok := h.Creds.Authenticate(c.Request().Context(), req.Username, req.Password)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, id.Username, id.Email, id.CC, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp.Format(time.RFC3339),
	})
}
