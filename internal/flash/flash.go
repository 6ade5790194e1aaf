// Package flash stores one-shot notices in a cookie until the next page
// renders them.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the cookie carrying pending messages.
const CookieName = "flash"

// Message categories.
const (
	Success = "success"
	Danger  = "danger"
	Info    = "info"
)

// Message is a single notice.
type Message struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Add queues a message for the next rendered page.
func Add(c *fiber.Ctx, category, text string) {
	messages := append(read(c), Message{Category: category, Text: text})
	raw, err := json.Marshal(messages)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Pop returns the pending messages and clears them.
func Pop(c *fiber.Ctx) []Message {
	messages := read(c)
	if c.Cookies(CookieName) != "" {
		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return messages
}

func read(c *fiber.Ctx) []Message {
	value := c.Cookies(CookieName)
	if value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var messages []Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil
	}
	return messages
}
