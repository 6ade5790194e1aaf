package handlers

import (
	"errors"

	"portfolio/internal/flash"
	"portfolio/internal/forms"
	"portfolio/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

// render executes a page template inside the main layout, adding the
// current user and any pending flash messages.
func render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = forms.Errors{}
	}
	data["CurrentUser"] = middleware.CurrentUser(c)

	flashes := flash.Pop(c)
	if inline, ok := data["Flashes"].([]flash.Message); ok {
		flashes = append(flashes, inline...)
	}
	data["Flashes"] = flashes

	return c.Render(name, data)
}

// ErrorHandler renders the error page for any error returned by a handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong on our end. Please try again later."

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		if code != fiber.StatusInternalServerError {
			message = fiberErr.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("Request failed")
	}

	c.Status(code)
	renderErr := c.Render("error", fiber.Map{
		"Title":       utils.StatusMessage(code),
		"Code":        code,
		"Message":     message,
		"CurrentUser": middleware.CurrentUser(c),
	})
	if renderErr != nil {
		logrus.WithError(renderErr).Error("Failed to render error page")
		return c.Status(code).SendString(message)
	}
	return nil
}
