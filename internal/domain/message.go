package domain

import (
	"strings"
	"time"
)

type ContactMessage struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (m ContactMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return invalid("name", "is required")
	}
	if err := validateEmail("email", m.Email); err != nil {
		return err
	}
	if strings.TrimSpace(m.Subject) == "" {
		return invalid("subject", "is required")
	}
	if len(m.Subject) > 255 {
		return invalid("subject", "cannot be longer than 255 characters")
	}
	if strings.TrimSpace(m.Message) == "" {
		return invalid("message", "is required")
	}
	return nil
}

func (m *ContactMessage) MarkRead(at time.Time) {
	if m.IsRead {
		return
	}
	m.IsRead = true
	m.ReadAt = &at
}

// ToggleRead flips the read flag. Marking unread clears ReadAt.
func (m *ContactMessage) ToggleRead(at time.Time) {
	if m.IsRead {
		m.IsRead = false
		m.ReadAt = nil
		return
	}
	m.MarkRead(at)
}
