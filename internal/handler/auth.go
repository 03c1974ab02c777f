package handler

import (
	"context"      // context with cancellation for DB calls
	"database/sql" // sentinel errors from the credential store
	"log/slog"     // structured server-side logging of store failures
	"net/http"     // HTTP status codes
	"time"         // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/driveaway/car-rental-api/internal/config"
	"github.com/driveaway/car-rental-api/internal/model"
	"github.com/driveaway/car-rental-api/internal/repository"
	"github.com/driveaway/car-rental-api/internal/utils"
)

// AuthHandler bundles dependencies for the registration and login
// endpoints. The credential store and signing secret come in through the
// constructor; nothing is read from globals.
type AuthHandler struct {
	Cfg   config.Config
	Users repository.UserStore
}

func NewAuthHandler(cfg config.Config, users repository.UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user and returns a fresh token bound to it. The
// email is checked before the insert; the store's unique index closes the
// window between the two (duplicate inserts also come back as
// repository.ErrEmailExists).
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "User already exists"})
	} else if err != sql.ErrNoRows {
		slog.Error("register: email lookup failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		slog.Error("register: hash password failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
	}

	u := model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.Users.Create(ctx, &u); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "User already exists"})
		}
		slog.Error("register: create user failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, h.Cfg.AccessTTLMin)
	if err != nil {
		slog.Error("register: issue token failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "User created", "token": access.Token})
}

// Login verifies the credentials and returns a token for the existing
// user. The two failure modes share the 400 status but keep distinct
// messages.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "User does not exist"})
		}
		slog.Error("login: email lookup failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid Credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, h.Cfg.AccessTTLMin)
	if err != nil {
		slog.Error("login: issue token failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "User logged in", "token": access.Token})
}
