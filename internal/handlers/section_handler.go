package handlers

import (
	"errors"
	"fmt"

	"portfolio/internal/flash"
	"portfolio/internal/forms"
	"portfolio/internal/middleware"
	"portfolio/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// SectionHandler handles the signed-in user's portfolio sections.
type SectionHandler struct {
	service   *services.SectionService
	validator *forms.Validator
}

// NewSectionHandler creates a new SectionHandler.
func NewSectionHandler(service *services.SectionService) *SectionHandler {
	return &SectionHandler{
		service:   service,
		validator: forms.NewValidator(),
	}
}

// RegisterRoutes registers the section routes. All of them require a session.
func (h *SectionHandler) RegisterRoutes(router fiber.Router) {
	auth := middleware.RequireAuth()
	router.Get("/dashboard", auth, h.HandleDashboard)
	router.Get("/add_section", auth, h.ShowAddSection)
	router.Post("/add_section", auth, h.HandleAddSection)
	router.Get("/edit_section/:id", auth, h.ShowEditSection)
	router.Post("/edit_section/:id", auth, h.HandleEditSection)
	router.Post("/delete_section/:id", auth, h.HandleDeleteSection)
	router.Get("/view_portfolio", auth, h.HandleViewPortfolio)
}

// HandleDashboard lists the caller's sections with edit and delete controls.
func (h *SectionHandler) HandleDashboard(c *fiber.Ctx) error {
	sections, err := h.service.ListFor(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return render(c, "dashboard", fiber.Map{
		"Title":    "Dashboard",
		"Sections": sections,
	})
}

// HandleViewPortfolio shows the caller's sections read-only.
func (h *SectionHandler) HandleViewPortfolio(c *fiber.Ctx) error {
	sections, err := h.service.ListFor(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return render(c, "view_portfolio", fiber.Map{
		"Title":    "My Portfolio",
		"Sections": sections,
	})
}

// ShowAddSection renders an empty section form.
func (h *SectionHandler) ShowAddSection(c *fiber.Ctx) error {
	return renderSectionForm(c, "Add Section", "/add_section", forms.SectionForm{}, nil)
}

// HandleAddSection creates a section owned by the caller.
func (h *SectionHandler) HandleAddSection(c *fiber.Ctx) error {
	form, err := h.parseForm(c)
	if err != nil {
		return err
	}
	if errs := h.validator.Validate(form); errs != nil {
		return renderSectionForm(c, "Add Section", "/add_section", form, errs)
	}

	if _, err := h.service.Create(c.UserContext(), middleware.CurrentUser(c), form.Title, form.Content); err != nil {
		return err
	}
	flash.Add(c, flash.Success, "Your section has been created!")
	return c.Redirect("/dashboard")
}

// ShowEditSection renders the form pre-filled with the section's content.
func (h *SectionHandler) ShowEditSection(c *fiber.Ctx) error {
	id, err := sectionID(c)
	if err != nil {
		return err
	}
	section, err := h.service.GetOwned(c.UserContext(), id, middleware.CurrentUser(c))
	if err != nil {
		return sectionError(err)
	}
	form := forms.SectionForm{Title: section.Title, Content: section.Content}
	return renderSectionForm(c, "Edit Section", editAction(id), form, nil)
}

// HandleEditSection replaces the title and content of the caller's section.
func (h *SectionHandler) HandleEditSection(c *fiber.Ctx) error {
	id, err := sectionID(c)
	if err != nil {
		return err
	}
	owner := middleware.CurrentUser(c)
	// Existence and ownership are checked before the form is looked at.
	if _, err := h.service.GetOwned(c.UserContext(), id, owner); err != nil {
		return sectionError(err)
	}

	form, err := h.parseForm(c)
	if err != nil {
		return err
	}
	if errs := h.validator.Validate(form); errs != nil {
		return renderSectionForm(c, "Edit Section", editAction(id), form, errs)
	}

	if _, err := h.service.Update(c.UserContext(), id, owner, form.Title, form.Content); err != nil {
		return sectionError(err)
	}
	flash.Add(c, flash.Success, "Your section has been updated!")
	return c.Redirect("/dashboard")
}

// HandleDeleteSection deletes the caller's section.
func (h *SectionHandler) HandleDeleteSection(c *fiber.Ctx) error {
	id, err := sectionID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id, middleware.CurrentUser(c)); err != nil {
		return sectionError(err)
	}
	flash.Add(c, flash.Success, "Your section has been deleted!")
	return c.Redirect("/dashboard")
}

func (h *SectionHandler) parseForm(c *fiber.Ctx) (forms.SectionForm, error) {
	var form forms.SectionForm
	if err := c.BodyParser(&form); err != nil {
		logrus.WithError(err).Warn("Error parsing section form")
		return form, fiber.NewError(fiber.StatusBadRequest, "Invalid form submission.")
	}
	form.Normalize()
	return form, nil
}

func renderSectionForm(c *fiber.Ctx, title, action string, form forms.SectionForm, errs forms.Errors) error {
	if errs == nil {
		errs = forms.Errors{}
	}
	return render(c, "section_form", fiber.Map{
		"Title":  title,
		"Action": action,
		"Form":   form,
		"Errors": errs,
	})
}

func editAction(id uint) string {
	return fmt.Sprintf("/edit_section/%d", id)
}

func sectionID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusNotFound, "Section not found.")
	}
	return uint(id), nil
}

// sectionError maps service errors to HTTP errors. Nothing about the
// section itself is included in the response.
func sectionError(err error) error {
	switch {
	case errors.Is(err, services.ErrSectionNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Section not found.")
	case errors.Is(err, services.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "You don't have permission to change this section.")
	default:
		return err
	}
}
