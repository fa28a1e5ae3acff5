package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the unified API response body. Every handler answers with
// this shape: a human-readable msg, optional payload, and the error detail
// for 5xx responses.
type Envelope struct {
	Msg   string      `json:"msg"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// AppError is a structured application error carrying the HTTP status it
// maps to. Services return these; handlers pass them to Error().
type AppError struct {
	HTTPStatus int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

// Error taxonomy. Forbidden is always 403, never 401; Conflict is always
// 409, never 400.

func NewValidation(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg}
}

func NewUnauthenticated(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusConflict, Message: msg}
}

func NewInternal(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Message: msg}
}

// IsStatus reports whether err is an AppError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.HTTPStatus == status
}

// --- Gin helpers ---

// OK sends a 200 response.
func OK(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Msg: msg, Data: data})
}

// Created sends a 201 response.
func Created(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Msg: msg, Data: data})
}

// Error sends an error response. An *AppError keeps its status and message;
// anything else becomes a 500 with the error detail in the envelope.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, Envelope{Msg: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, Envelope{
		Msg:   "internal server error",
		Error: err.Error(),
	})
}

// Convenience responders for handler-level checks.

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Envelope{Msg: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Envelope{Msg: msg})
}

func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Envelope{Msg: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Envelope{Msg: msg})
}
