package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-pass/internal/repository"
)

type updateProfileReq struct {
	Username             string `json:"username"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	Theme                string `json:"theme"`
}

// UpdateProfile rewrites the caller's profile.  Username and email must
// not collide with a different account; theme falls back to "light"
// when an unknown value is sent.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email required"})
	}
	if req.Theme != "dark" {
		req.Theme = "light"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	err = h.Users.UpdateProfile(ctx, uid, req.Username, req.Email, req.Phone, req.NotificationsEnabled, req.Theme)
	switch err {
	case nil:
	case repository.ErrUsernameExists:
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already taken"})
	case repository.ErrEmailExists:
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":                    u.ID,
		"username":              u.Username,
		"email":                 u.Email,
		"phone":                 u.Phone,
		"notifications_enabled": u.NotificationsEnabled,
		"theme":                 u.Theme,
	})
}
