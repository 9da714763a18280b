package models

import (
	"strings"
	"time"
)

type Socials struct {
	GitHub    string `json:"github" validate:"max=300"`
	Discord   string `json:"discord" validate:"max=300"`
	Telegram  string `json:"telegram" validate:"max=300"`
	Instagram string `json:"instagram" validate:"max=300"`
	LinkedIn  string `json:"linkedin,omitempty" validate:"max=300"`
}

// SystemNote is the short status line shown on the admin dashboard.
type SystemNote struct {
	Text   string `json:"text" validate:"max=500"`
	Status string `json:"status" validate:"max=50"`
}

// Settings is the singleton site configuration.
type Settings struct {
	Email            string     `json:"email" validate:"required,email,max=254"`
	Phones           []string   `json:"phones" validate:"max=10,dive,max=40"`
	CVLink           string     `json:"cvLink" validate:"omitempty,url,max=500"`
	IsLookingForWork bool       `json:"isLookingForWork"`
	Socials          Socials    `json:"socials"`
	SystemNote       SystemNote `json:"systemNote"`
	UpdatedAt        time.Time  `json:"updatedAt,omitempty"`
}

// Normalize trims string fields and drops blank phone numbers.
func (s *Settings) Normalize() {
	s.Email = strings.TrimSpace(s.Email)
	s.CVLink = strings.TrimSpace(s.CVLink)
	phones := make([]string, 0, len(s.Phones))
	for _, p := range s.Phones {
		if p = strings.TrimSpace(p); p != "" {
			phones = append(phones, p)
		}
	}
	s.Phones = phones
	s.SystemNote.Text = strings.TrimSpace(s.SystemNote.Text)
}
