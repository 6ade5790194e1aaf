package handlers

import (
	"errors"

	"portfolio/internal/flash"
	"portfolio/internal/forms"
	"portfolio/internal/middleware"
	"portfolio/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	authService   *services.AuthService
	validator     *forms.Validator
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		validator:     forms.NewValidator(),
		secureCookies: secureCookies,
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	guest := middleware.RedirectIfAuthenticated()
	router.Get("/register", guest, h.ShowRegister)
	router.Post("/register", guest, h.HandleRegister)
	router.Get("/login", guest, h.ShowLogin)
	router.Post("/login", guest, h.HandleLogin)
	router.Get("/logout", middleware.RequireAuth(), h.HandleLogout)
}

// ShowRegister renders an empty registration form.
func (h *AuthHandler) ShowRegister(c *fiber.Ctx) error {
	return h.renderRegister(c, forms.RegistrationForm{}, nil)
}

// HandleRegister creates an account and sends the user to the login page.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var form forms.RegistrationForm
	if err := c.BodyParser(&form); err != nil {
		logrus.WithError(err).Warn("Error parsing register form")
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form submission.")
	}
	form.Normalize()

	if errs := h.validator.Validate(form); errs != nil {
		return h.renderRegister(c, form, errs)
	}

	_, err := h.authService.Register(c.UserContext(), form.Username, form.Email, form.Password)
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		return h.renderRegister(c, form, forms.Errors{"username": "That username is taken. Please choose a different one."})
	case errors.Is(err, services.ErrEmailTaken):
		return h.renderRegister(c, form, forms.Errors{"email": "That email is already registered. Please log in instead."})
	case err != nil:
		return err
	}

	flash.Add(c, flash.Success, "Your account has been created! You are now able to log in")
	return c.Redirect("/login")
}

func (h *AuthHandler) renderRegister(c *fiber.Ctx, form forms.RegistrationForm, errs forms.Errors) error {
	form.Password, form.ConfirmPassword = "", ""
	if errs == nil {
		errs = forms.Errors{}
	}
	return render(c, "register", fiber.Map{
		"Title":  "Register",
		"Form":   form,
		"Errors": errs,
	})
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	return h.renderLogin(c, forms.LoginForm{}, nil, nil)
}

// HandleLogin verifies credentials and starts a session.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var form forms.LoginForm
	if err := c.BodyParser(&form); err != nil {
		logrus.WithError(err).Warn("Error parsing login form")
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form submission.")
	}
	form.Normalize()

	if errs := h.validator.Validate(form); errs != nil {
		return h.renderLogin(c, form, errs, nil)
	}

	user, err := h.authService.Authenticate(c.UserContext(), form.Email, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		return h.renderLogin(c, form, nil, []flash.Message{{
			Category: flash.Danger,
			Text:     "Login Unsuccessful. Please check email and password",
		}})
	}
	if err != nil {
		return err
	}

	token, err := h.authService.IssueSession(user)
	if err != nil {
		return err
	}
	middleware.StartSession(c, token, h.secureCookies)

	return c.Redirect(middleware.SafeNext(c.Query("next"), "/dashboard"))
}

func (h *AuthHandler) renderLogin(c *fiber.Ctx, form forms.LoginForm, errs forms.Errors, notices []flash.Message) error {
	form.Password = ""
	if errs == nil {
		errs = forms.Errors{}
	}
	return render(c, "login", fiber.Map{
		"Title":   "Login",
		"Form":    form,
		"Errors":  errs,
		"Next":    middleware.SafeNext(c.Query("next"), ""),
		"Flashes": notices,
	})
}

// HandleLogout ends the session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	middleware.ClearSession(c)
	return c.Redirect("/")
}
