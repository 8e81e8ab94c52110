package domain

import (
	"net/mail"
	"net/url"
	"strings"
	"time"
)

type PersonalDetails struct {
	ID                  int64     `json:"id"`
	FullName            string    `json:"full_name"`
	JobTitle            string    `json:"job_title,omitempty"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone,omitempty"`
	Phone2              string    `json:"phone2,omitempty"`
	Location            string    `json:"location,omitempty"`
	Address             string    `json:"address,omitempty"`
	ProfessionalSummary string    `json:"professional_summary,omitempty"`
	YearsOfExperience   string    `json:"years_of_experience,omitempty"`
	LinkedinURL         string    `json:"linkedin_url,omitempty"`
	GithubURL           string    `json:"github_url,omitempty"`
	TwitterURL          string    `json:"twitter_url,omitempty"`
	WebsiteURL          string    `json:"website_url,omitempty"`
	CVPath              string    `json:"cv_path,omitempty"`
	ProfileImage        string    `json:"profile_image,omitempty"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ProfileImageURL is the public path of the profile image under the upload
// prefix, or "" when none is stored.
func (d PersonalDetails) ProfileImageURL(prefix string) string {
	return publicPath(prefix, "profile", d.ProfileImage)
}

func (d PersonalDetails) Validate() error {
	name := strings.TrimSpace(d.FullName)
	switch {
	case name == "":
		return invalid("full_name", "is required")
	case len(name) < 3:
		return invalid("full_name", "must be at least 3 characters")
	case len(name) > 255:
		return invalid("full_name", "cannot be longer than 255 characters")
	}
	if err := validateEmail("email", d.Email); err != nil {
		return err
	}
	for field, value := range map[string]string{
		"linkedin_url": d.LinkedinURL,
		"github_url":   d.GithubURL,
		"twitter_url":  d.TwitterURL,
		"website_url":  d.WebsiteURL,
	} {
		if err := validateURL(field, value); err != nil {
			return err
		}
	}
	return nil
}

func validateEmail(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return invalid(field, "is required")
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return invalid(field, "must be a valid email address")
	}
	return nil
}

// validateURL accepts an empty value or an absolute http(s) URL.
func validateURL(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid(field, "must be an absolute http(s) URL")
	}
	return nil
}
