package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/verdio/gastrace/gastrace"
)

// OK sends an HTTP 200 OK response with a custom body.
func OK(c *fiber.Ctx, s any) error {
	return c.Status(http.StatusOK).JSON(s)
}

// Created sends an HTTP 201 Created response with a custom body.
func Created(c *fiber.Ctx, s any) error {
	return c.Status(http.StatusCreated).JSON(s)
}

// BadRequest sends an HTTP 400 Bad Request response with a custom body.
func BadRequest(c *fiber.Ctx, s any) error {
	return c.Status(http.StatusBadRequest).JSON(s)
}

// UnprocessableEntity sends an HTTP 422 response with a custom body.
func UnprocessableEntity(c *fiber.Ctx, s any) error {
	return c.Status(http.StatusUnprocessableEntity).JSON(s)
}

// NotFound sends an HTTP 404 Not Found response with a code, title, and message.
func NotFound(c *fiber.Ctx, code, title, message string) error {
	return c.Status(http.StatusNotFound).JSON(gastrace.Response{
		Code:    code,
		Title:   title,
		Message: message,
	})
}

// InternalServerError sends an HTTP 500 response with a custom body.
func InternalServerError(c *fiber.Ctx, s any) error {
	return c.Status(http.StatusInternalServerError).JSON(s)
}

// BadGateway sends an HTTP 502 response with a custom body.
func BadGateway(c *fiber.Ctx, s any) error {
	return c.Status(http.StatusBadGateway).JSON(s)
}
