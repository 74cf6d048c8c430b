package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the standard API response envelope.
type Body struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message,omitempty"`
	Data        interface{}  `json:"data,omitempty"`
	Errors      []FieldError `json:"errors,omitempty"`
	ContactInfo *ContactInfo `json:"contactInfo,omitempty"`
}

// FieldError names a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ContactInfo is the alternative contact channel returned with maintenance
// and capacity rejections so the caller has a path forward.
type ContactInfo struct {
	WhatsApp     string `json:"whatsapp"`
	WhatsAppLink string `json:"whatsappLink"`
	Message      string `json:"message"`
}

// WhatsAppContact builds contact info for the given number.
func WhatsAppContact(number, message string) *ContactInfo {
	return &ContactInfo{
		WhatsApp:     number,
		WhatsAppLink: "https://wa.me/" + number,
		Message:      message,
	}
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// OKMessage sends a 200 JSON response with a message and optional data.
func OKMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Message: message, Data: data})
}

// Created sends a 201 JSON response with a message and data.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Message: message, Data: data})
}

// BadRequest sends 400 with a message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Message: message})
}

// ValidationFailed sends 400 with one entry per invalid field.
func ValidationFailed(c *gin.Context, errs []FieldError) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Message: "Validation failed", Errors: errs})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Message: message})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, Body{Success: false, Message: message})
}

// NotFound sends 404.
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Message: message})
}

// Conflict sends 409 with optional data and contact info.
func Conflict(c *gin.Context, message string, data interface{}, contact *ContactInfo) {
	c.JSON(http.StatusConflict, Body{Success: false, Message: message, Data: data, ContactInfo: contact})
}

// ServiceUnavailable sends 503 with contact info.
func ServiceUnavailable(c *gin.Context, message string, contact *ContactInfo) {
	c.JSON(http.StatusServiceUnavailable, Body{Success: false, Message: message, ContactInfo: contact})
}

// Internal sends 500.
func Internal(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Message: message})
}
