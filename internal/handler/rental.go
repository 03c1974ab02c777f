package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/driveaway/car-rental-api/internal/middleware"
	"github.com/driveaway/car-rental-api/internal/model"
	"github.com/driveaway/car-rental-api/internal/queue"
	"github.com/driveaway/car-rental-api/internal/repository"
)

// PublishFunc sends a rental event to the message broker. Publishing is
// best-effort; handlers ignore the returned error so a broker outage
// never fails a request.
type PublishFunc func(ctx context.Context, ev queue.RentalEvent) error

// RentalHandler implements the rental lifecycle endpoints. All of them
// run behind the JWT middleware and read the authenticated identity from
// the echo context. Publish may be nil to disable events.
type RentalHandler struct {
	Rentals repository.RentalStore
	Publish PublishFunc
}

func NewRentalHandler(rentals repository.RentalStore, publish PublishFunc) *RentalHandler {
	if rentals == nil {
		panic("nil store passed to NewRentalHandler")
	}
	return &RentalHandler{Rentals: rentals, Publish: publish}
}

// getUserID extracts the authenticated user id placed into the context by
// the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get(middleware.CtxUserID)
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// ----- DTOs -----

type createRentalReq struct {
	Car           model.Car `json:"car"`
	RentalDetails struct {
		StartDate time.Time `json:"startDate"`
		EndDate   time.Time `json:"endDate"`
	} `json:"rentalDetails"`
	PaymentInfo model.PaymentInfo `json:"paymentInfo"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// Create handles POST /api/rentals. The total cost is always recomputed
// server-side from the car's per-day price and the requested window; the
// client never supplies it. The rental window itself is stored as given,
// including windows where the end precedes the start.
func (h *RentalHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized: Please log in"})
	}
	var req createRentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}

	rental := model.Rental{
		UserID:      userID,
		Car:         req.Car,
		PaymentInfo: req.PaymentInfo,
		Details: model.RentalDetails{
			StartDate: req.RentalDetails.StartDate,
			EndDate:   req.RentalDetails.EndDate,
			TotalCost: model.TotalCost(req.Car.Price, req.RentalDetails.StartDate, req.RentalDetails.EndDate),
			Status:    model.StatusPending,
		},
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rentals.Insert(ctx, &rental); err != nil {
		slog.Error("rental creation failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
	}

	h.publish(ctx, queue.EventRentalCreated, rental)

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Rental created successfully",
		"rental":  rental,
	})
}

// ListMine handles GET /api/rentals/user and returns the caller's
// rentals, most recent first. No rentals is an empty list, not an error.
func (h *RentalHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized: Please log in"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rentals, err := h.Rentals.ListByUser(ctx, userID)
	if err != nil {
		slog.Error("list rentals failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rentals": rentals})
}

// GetByID handles GET /api/rentals/:id. Existence is checked before
// ownership, so a rental that exists but belongs to someone else yields
// 403 while a truly absent id yields 404.
func (h *RentalHandler) GetByID(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized: Please log in"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rental, err := h.Rentals.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrRentalNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Rental not found"})
		}
		slog.Error("get rental failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
	}
	if rental.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Unauthorized: Not your rental"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rental": rental})
}

// UpdateStatus handles PATCH /api/rentals/:id/status. The submitted
// status string is persisted as given; it is not checked against the
// known status set.
func (h *RentalHandler) UpdateStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized: Please log in"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rental, err := h.Rentals.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrRentalNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Rental not found"})
		}
		slog.Error("get rental failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
	}
	if rental.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Unauthorized: Not your rental"})
	}

	if err := h.Rentals.UpdateStatus(ctx, rental.ID, req.Status); err != nil {
		slog.Error("update rental status failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
	}
	rental.Details.Status = req.Status

	h.publish(ctx, queue.EventRentalStatusUpdated, rental)

	return c.JSON(http.StatusOK, echo.Map{"message": "Rental status updated", "rental": rental})
}

// Cancel handles PATCH /api/rentals/:id/cancel. Cancellation is only
// permitted while the rental is pending or active; completed and
// cancelled rentals are left untouched.
func (h *RentalHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized: Please log in"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rental, err := h.Rentals.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrRentalNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Rental not found"})
		}
		slog.Error("get rental failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
	}
	if rental.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Unauthorized: Not your rental"})
	}
	if !model.CanCancel(rental.Details.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Cannot cancel completed rentals"})
	}

	if err := h.Rentals.UpdateStatus(ctx, rental.ID, model.StatusCancelled); err != nil {
		slog.Error("cancel rental failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
	}
	rental.Details.Status = model.StatusCancelled

	h.publish(ctx, queue.EventRentalCancelled, rental)

	return c.JSON(http.StatusOK, echo.Map{"message": "Rental cancelled", "rental": rental})
}

// publish emits a lifecycle event, swallowing any broker error.
func (h *RentalHandler) publish(ctx context.Context, eventType string, rental model.Rental) {
	if h.Publish == nil {
		return
	}
	_ = h.Publish(ctx, queue.RentalEvent{
		Type:       eventType,
		RentalID:   rental.ID,
		UserID:     rental.UserID,
		CarMake:    rental.Car.Make,
		CarModel:   rental.Car.Model,
		Status:     rental.Details.Status,
		TotalCost:  rental.Details.TotalCost,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
