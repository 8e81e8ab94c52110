package domain

import (
	"strings"
	"time"
)

const (
	ProjectStatusPublished = "published"
	ProjectStatusDraft     = "draft"
	ProjectStatusArchived  = "archived"
	ProjectStatusPending   = "pending"

	ProjectCategoryWeb     = "web"
	ProjectCategoryMobile  = "mobile"
	ProjectCategoryNetwork = "network"
	ProjectCategoryDesign  = "design"
	ProjectCategoryOther   = "other"
)

var (
	projectStatuses   = []string{ProjectStatusPublished, ProjectStatusDraft, ProjectStatusArchived, ProjectStatusPending}
	projectCategories = []string{ProjectCategoryWeb, ProjectCategoryMobile, ProjectCategoryNetwork, ProjectCategoryDesign, ProjectCategoryOther}
)

type Project struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	ImageURL       string     `json:"image_url,omitempty"`
	Category       string     `json:"category"`
	Technologies   string     `json:"technologies,omitempty"`
	ProjectDate    time.Time  `json:"project_date"`
	LiveURL        string     `json:"live_url,omitempty"`
	GithubURL      string     `json:"github_url,omitempty"`
	Status         string     `json:"status"`
	IsPublished    bool       `json:"is_published"`
	DisplayOrder   int        `json:"display_order"`
	ScreenshotPath string     `json:"screenshot_path,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// NewProject returns a project with the defaults a freshly created record gets.
func NewProject(now time.Time) Project {
	return Project{
		Category:    ProjectCategoryWeb,
		Status:      ProjectStatusPublished,
		IsPublished: true,
		ProjectDate: now,
		CreatedAt:   now,
	}
}

// SetPublished flips the published flag and keeps Status consistent with it.
func (p *Project) SetPublished(published bool) {
	p.IsPublished = published
	switch {
	case published && p.Status != ProjectStatusPublished:
		p.Status = ProjectStatusPublished
	case !published && p.Status == ProjectStatusPublished:
		p.Status = ProjectStatusDraft
	}
}

func (p Project) ScreenshotURL(prefix string) string {
	return publicPath(prefix, "projects", p.ScreenshotPath)
}

// TechnologyList splits the comma separated technologies column.
func (p Project) TechnologyList() []string {
	if strings.TrimSpace(p.Technologies) == "" {
		return []string{}
	}
	parts := strings.Split(p.Technologies, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (p Project) Validate() error {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return invalid("title", "is required")
	}
	if len(title) > 255 {
		return invalid("title", "cannot be longer than 255 characters")
	}
	if strings.TrimSpace(p.Description) == "" {
		return invalid("description", "is required")
	}
	if !contains(projectCategories, p.Category) {
		return invalid("category", "must be one of "+strings.Join(projectCategories, ", "))
	}
	if !contains(projectStatuses, p.Status) {
		return invalid("status", "must be one of "+strings.Join(projectStatuses, ", "))
	}
	if err := validateURL("live_url", p.LiveURL); err != nil {
		return err
	}
	return validateURL("github_url", p.GithubURL)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func publicPath(prefix, dir, name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimRight(prefix, "/") + "/" + dir + "/" + name
}
