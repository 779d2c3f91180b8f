package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// Created writes a 201 response for a newly stored resource.
func Created(c *gin.Context, payload any) {
	JSON(c, http.StatusCreated, payload)
}

// NoContent ends the request with 204 and no body.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
