package domain

import (
	"strings"
	"time"
)

const (
	SkillCategoryTechnical = "technical"
	SkillCategorySoft      = "soft"
	SkillCategoryDesign    = "design"
	SkillCategoryLanguage  = "language"

	EducationDiploma  = "diploma"
	EducationBachelor = "bachelor"
	EducationMaster   = "master"
	EducationPhD      = "phd"
)

var (
	skillCategories = []string{SkillCategoryTechnical, SkillCategorySoft, SkillCategoryDesign, SkillCategoryLanguage}
	educationLevels = []string{EducationDiploma, EducationBachelor, EducationMaster, EducationPhD}
)

// Entry is implemented by pointers to the resume section records so stores
// and handlers can share one implementation across them.
type Entry[T any] interface {
	*T
	Meta() *EntryMeta
	Validate() error
}

// EntryMeta holds the bookkeeping columns every resume section record has.
type EntryMeta struct {
	ID           int64      `json:"id"`
	IsActive     bool       `json:"is_active"`
	DisplayOrder int        `json:"display_order"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func (m *EntryMeta) Meta() *EntryMeta { return m }

type Skill struct {
	EntryMeta
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
	Category   string `json:"category"`
}

func (s Skill) Validate() error {
	if err := requiredText("name", s.Name); err != nil {
		return err
	}
	if s.Percentage < 0 || s.Percentage > 100 {
		return invalid("percentage", "must be between 0 and 100")
	}
	if !contains(skillCategories, s.Category) {
		return invalid("category", "must be one of "+strings.Join(skillCategories, ", "))
	}
	return nil
}

type Education struct {
	EntryMeta
	School       string     `json:"school"`
	Level        string     `json:"level,omitempty"`
	Degree       string     `json:"degree,omitempty"`
	FieldOfStudy string     `json:"field_of_study,omitempty"`
	GPA          string     `json:"gpa,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Description  string     `json:"description,omitempty"`
}

func (e Education) Validate() error {
	if err := requiredText("school", e.School); err != nil {
		return err
	}
	if e.Level != "" && !contains(educationLevels, e.Level) {
		return invalid("level", "must be one of "+strings.Join(educationLevels, ", "))
	}
	return validatePeriod(e.StartDate, e.EndDate)
}

type WorkExperience struct {
	EntryMeta
	Company     string     `json:"company"`
	Position    string     `json:"position,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description string     `json:"description,omitempty"`
	IsCurrent   bool       `json:"is_current"`
}

// SetCurrent marks the position as ongoing, which drops any end date.
func (w *WorkExperience) SetCurrent(current bool) {
	w.IsCurrent = current
	if current {
		w.EndDate = nil
	}
}

func (w WorkExperience) Validate() error {
	if err := requiredText("company", w.Company); err != nil {
		return err
	}
	if w.IsCurrent && w.EndDate != nil {
		return invalid("end_date", "must be empty for a current position")
	}
	return validatePeriod(w.StartDate, w.EndDate)
}

type Reference struct {
	EntryMeta
	Name    string `json:"name"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// Affiliation renders the referee's position as "TITLE at COMPANY".
func (r Reference) Affiliation() string {
	return strings.TrimSpace(r.Title) + " at " + strings.TrimSpace(r.Company)
}

func (r Reference) Validate() error {
	for _, f := range []struct{ field, value string }{
		{"name", r.Name},
		{"title", r.Title},
		{"company", r.Company},
		{"phone", r.Phone},
	} {
		if err := requiredText(f.field, f.value); err != nil {
			return err
		}
	}
	return validateEmail("email", r.Email)
}

func requiredText(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return invalid(field, "is required")
	}
	if len(value) > 255 {
		return invalid(field, "cannot be longer than 255 characters")
	}
	return nil
}

func validatePeriod(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return invalid("end_date", "cannot be before start_date")
	}
	return nil
}
