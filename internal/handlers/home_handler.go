package handlers

import "github.com/gofiber/fiber/v2"

// Feature is a selling point shown on the landing page.
type Feature struct {
	Icon        string
	Title       string
	Description string
}

// Testimonial is a user quote shown on the landing page.
type Testimonial struct {
	Name  string
	Role  string
	Quote string
}

var (
	features = []Feature{
		{Icon: "star", Title: "Professional Templates", Description: "Choose from a variety of sleek, modern templates designed to showcase your work."},
		{Icon: "users", Title: "Easy Collaboration", Description: "Share your portfolio and get feedback from peers and potential employers."},
		{Icon: "briefcase", Title: "Career Advancement", Description: "Increase your visibility and attract better job opportunities with a standout portfolio."},
	}
	testimonials = []Testimonial{
		{Name: "Alex Johnson", Role: "UX Designer", Quote: "PortfolioCreator helped me land my dream job. The templates are stunning and so easy to customize!"},
		{Name: "Samantha Lee", Role: "Freelance Developer", Quote: "As a freelancer, having a professional portfolio is crucial. This platform made it incredibly simple to showcase my projects."},
	}
)

// HomeHandler serves the landing page.
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// RegisterRoutes registers the landing page route.
func (h *HomeHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleHome)
}

// HandleHome renders the landing page.
func (h *HomeHandler) HandleHome(c *fiber.Ctx) error {
	return render(c, "home", fiber.Map{
		"Features":     features,
		"Testimonials": testimonials,
	})
}
