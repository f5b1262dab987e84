package reconciler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/andino-pay/andino_pay/internal/notification"
)

// Handler exposes the notification relay endpoints.
type Handler struct {
	log     notification.Log
	service *Service
}

// NewHandler builds the HTTP handler for notification submission and review.
func NewHandler(log notification.Log, service *Service) *Handler {
	return &Handler{log: log, service: service}
}

type submitRequest struct {
	Bank            string          `json:"bank"`
	Amount          decimal.Decimal `json:"amount"`
	SenderName      string          `json:"sender_name"`
	TransactionType string          `json:"transaction_type"`
	RawText         string          `json:"raw_text"`
	Timestamp       int64           `json:"timestamp"`
}

// Submit ingests a relayed bank notification: append it to the audit log
// first, then run reconciliation. The notification is kept even when it
// settles nothing; field-shape validation is the transport's job, business
// validation happens in the orchestrator.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Bank == "" {
		return fiber.NewError(http.StatusBadRequest, "bank is required")
	}

	stored, err := h.log.Append(c.UserContext(), notification.BankNotification{
		Bank:            req.Bank,
		Amount:          req.Amount,
		SenderName:      req.SenderName,
		TransactionType: req.TransactionType,
		RawText:         req.RawText,
		DeviceTimestamp: req.Timestamp,
	})
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "failed to store notification")
	}

	outcome := h.service.HandleNotification(c.UserContext(), stored)

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":          "success",
		"notification_id": stored.ID,
		"validation":      outcome,
	})
}

// Recent lists the latest received notifications for audit/debugging.
func (h *Handler) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	entries, err := h.log.Recent(c.UserContext(), limit)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "failed to load notifications")
	}
	if entries == nil {
		entries = []notification.BankNotification{}
	}
	return c.JSON(fiber.Map{
		"total":         len(entries),
		"notifications": entries,
	})
}
