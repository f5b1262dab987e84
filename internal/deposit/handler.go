package deposit

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes HTTP endpoints for the deposit intake flow.
type Handler struct {
	service *Service
}

// NewHandler constructs a deposit handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateRequestBody captures user-declared transfer details.
type CreateRequestBody struct {
	UserID    string          `json:"user_id"`
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
}

// DepositResponse is the API representation of a deposit request.
type DepositResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
}

// Create registers a new deposit request.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req CreateRequestBody
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	d, err := h.service.Create(c.UserContext(), CreateInput{
		UserID:    req.UserID,
		Currency:  req.Currency,
		Amount:    req.Amount,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(toResponse(d))
}

// Pending lists a user's open deposit requests.
func (h *Handler) Pending(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return fiber.NewError(http.StatusBadRequest, "user_id is required")
	}

	deposits, err := h.service.PendingForUser(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	out := make([]DepositResponse, 0, len(deposits))
	for _, d := range deposits {
		out = append(out, toResponse(d))
	}
	return c.JSON(fiber.Map{"total": len(out), "deposits": out})
}

func toResponse(d DepositRequest) DepositResponse {
	return DepositResponse{
		ID:          d.ID,
		UserID:      d.UserID,
		Currency:    d.Currency,
		Amount:      d.Amount,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		ProcessedAt: d.ProcessedAt,
	}
}
