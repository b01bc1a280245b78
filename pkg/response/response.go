package response

import (
	"errors"
	"fmt"

	"go-catalog-api/pkg/apperror"
	"go-catalog-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data"`
	Meta    *Meta      `json:"meta,omitempty"`
	Error   *ErrorInfo `json:"error"`
}

// Meta describes one page of a list response.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ErrorInfo struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details []apperror.Detail `json:"details"`
}

// NewMeta derives page numbers from skip/limit. page = skip/limit + 1.
func NewMeta(skip, limit int, total int64) *Meta {
	if limit <= 0 {
		limit = 1
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return &Meta{
		Page:  skip/limit + 1,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

// OK writes a 200 single-item envelope.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(Envelope{Success: true, Data: data})
}

// Created writes a 201 single-item envelope.
func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: data})
}

// List writes a 200 list envelope with pagination meta.
func List(c *fiber.Ctx, data any, skip, limit int, total int64) error {
	return c.JSON(Envelope{Success: true, Data: data, Meta: NewMeta(skip, limit, total)})
}

// Fail writes an error envelope.
func Fail(c *fiber.Ctx, status int, code, message string, details []apperror.Detail) error {
	return c.Status(status).JSON(Envelope{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message, Details: details},
	})
}

// ErrorHandler renders any error returned by a handler as an envelope.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := apperror.As(err); ok {
			return Fail(c, appErr.Status, appErr.Code, appErr.Message, appErr.Details)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return Fail(c, fiberErr.Code, fmt.Sprintf("HTTP_ERROR_%d", fiberErr.Code), fiberErr.Message, nil)
		}

		if log == nil {
			log = zap.NewNop()
		}
		log.Error("Unhandled error",
			zap.Error(err),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("request_id", logger.GetRequestID(c.UserContext())),
		)
		return Fail(c, fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error", nil)
	}
}
