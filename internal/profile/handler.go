package profile

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the profile HTTP endpoints used by tip pages and the tipper client.
type Handler struct {
	service *Service
}

// NewHandler constructs a profile HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get returns the profile for :handle, creating it on first access.
func (h *Handler) Get(c *fiber.Ctx) error {
	p, err := h.service.Resolve(c.UserContext(), c.Params("handle"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(ToResponse(p))
}

// UpdateWallet stores a new recipient address for :handle.
func (h *Handler) UpdateWallet(c *fiber.Ctx) error {
	var req WalletUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, ErrInvalidAddress)
	}
	p, err := h.service.UpdateWallet(c.UserContext(), c.Params("handle"), req.WalletAddress)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(MutationResponse{
		Success: true,
		Message: "Wallet address updated",
		User:    ToResponse(p),
	})
}

// UpdateStats records a donation for :handle. A missing or non-numeric amount is a 400.
func (h *Handler) UpdateStats(c *fiber.Ctx) error {
	var req UpdateStatsRequest
	if err := c.BodyParser(&req); err != nil || req.Amount == nil {
		return respondError(c, ErrInvalidAmount)
	}
	p, err := h.service.RecordDonation(c.UserContext(), c.Params("handle"), *req.Amount, req.FromAddress)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(MutationResponse{
		Success: true,
		Message: "Wallet stats updated",
		User:    ToResponse(p),
	})
}

func respondError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidHandle), errors.Is(err, ErrInvalidAddress), errors.Is(err, ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "failed to process profile request"
	}
	return c.Status(status).JSON(ErrorResponse{Error: msg})
}
