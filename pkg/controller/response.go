package controller

import (
	"net/http"

	"github.com/nimburion/zipcodes/pkg/observability/logger"
	"github.com/nimburion/zipcodes/pkg/server/router"
)

// SuccessResponse represents a successful response with data.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
}

// Success sends a JSON response with HTTP 200 OK, wrapping the provided data
// in the consistent response format.
func Success(c router.Context, data interface{}) error {
	return c.JSON(http.StatusOK, SuccessResponse{
		Data:      data,
		RequestID: logger.RequestIDFromContext(c.Request().Context()),
	})
}

// Created sends a JSON response with HTTP 201 Created, typically after
// creating a new resource.
func Created(c router.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:      data,
		RequestID: logger.RequestIDFromContext(c.Request().Context()),
	})
}

// NoContent sends HTTP 204 No Content without a body.
func NoContent(c router.Context) error {
	c.Response().WriteHeader(http.StatusNoContent)
	return nil
}

// Error sends an error response with the appropriate HTTP status code.
func Error(c router.Context, err error) error {
	statusCode, errorResponse := MapError(c.Request().Context(), err)
	return c.JSON(statusCode, errorResponse)
}
