package handler

import (
    "crypto/subtle"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/sakila-rental-service/internal/config"
    "github.com/iliyamo/sakila-rental-service/internal/logger"
    "github.com/iliyamo/sakila-rental-service/internal/utils"
)

// AuthHandler issues staff access tokens.
type AuthHandler struct {
    Cfg config.Config
    Log *logger.Logger
}

type loginReq struct {
    Username string `json:"username"`
    Password string `json:"password"`
}

type loginResp struct {
    AccessToken string    `json:"access_token"`
    TokenType   string    `json:"token_type"`
    ExpiresAt   time.Time `json:"expires_at"`
}

// Login checks the configured staff credentials and returns a signed
// token with the STAFF role.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := bindBody(c, &req); err != nil {
        return respondError(c, h.Log, err)
    }
    user := strings.TrimSpace(req.Username)
    if user == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "message": "username and password are required"})
    }
    // both checks always run so timing does not reveal which one failed
    userOK := h.Cfg.StaffUser != "" && subtle.ConstantTimeCompare([]byte(user), []byte(h.Cfg.StaffUser)) == 1
    passOK := utils.VerifyPassword(h.Cfg.StaffPasswordHash, req.Password)
    if !userOK || !passOK {
        h.Log.Warn("staff login rejected", "username", user)
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "invalid credentials"})
    }

    tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, user, utils.RoleStaff, time.Duration(h.Cfg.AccessTTLMin)*time.Minute)
    if err != nil {
        h.Log.Error("sign access token", "error", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "could not issue token"})
    }
    h.Log.Info("staff login", "username", user)
    return c.JSON(http.StatusOK, loginResp{AccessToken: tok.Token, TokenType: "Bearer", ExpiresAt: tok.Exp})
}
