package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProject() Project {
	p := NewProject(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
	p.Title = "Network monitor"
	p.Description = "SNMP dashboards for a campus network."
	return p
}

func TestProjectValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Project)
		wantErr string
	}{
		{"valid defaults", func(*Project) {}, ""},
		{"missing title", func(p *Project) { p.Title = "  " }, "title"},
		{"missing description", func(p *Project) { p.Description = "" }, "description"},
		{"unknown category", func(p *Project) { p.Category = "games" }, "category"},
		{"unknown status", func(p *Project) { p.Status = "live" }, "status"},
		{"relative live url", func(p *Project) { p.LiveURL = "/demo" }, "live_url"},
		{"ftp github url", func(p *Project) { p.GithubURL = "ftp://github.com/x" }, "github_url"},
		{"https urls", func(p *Project) { p.LiveURL = "https://demo.example.com"; p.GithubURL = "https://github.com/x/y" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProject()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.wantErr, fe.Field)
		})
	}
}

func TestProjectSetPublishedSyncsStatus(t *testing.T) {
	p := validProject()

	p.SetPublished(false)
	assert.False(t, p.IsPublished)
	assert.Equal(t, ProjectStatusDraft, p.Status)

	p.Status = ProjectStatusArchived
	p.SetPublished(false)
	assert.Equal(t, ProjectStatusArchived, p.Status, "non-published statuses are kept")

	p.SetPublished(true)
	assert.Equal(t, ProjectStatusPublished, p.Status)
}

func TestProjectTechnologyList(t *testing.T) {
	p := Project{Technologies: " Go, PostgreSQL ,, Redis "}
	assert.Equal(t, []string{"Go", "PostgreSQL", "Redis"}, p.TechnologyList())
	assert.Empty(t, Project{}.TechnologyList())
}

func TestPersonalDetailsValidate(t *testing.T) {
	base := PersonalDetails{FullName: "Ada Lovelace", Email: "ada@example.com"}
	require.NoError(t, base.Validate())

	short := base
	short.FullName = "Al"
	require.ErrorIs(t, short.Validate(), ErrValidation)

	badEmail := base
	badEmail.Email = "Ada <ada@example.com>"
	require.ErrorIs(t, badEmail.Validate(), ErrValidation)

	badURL := base
	badURL.WebsiteURL = "example.com"
	require.ErrorIs(t, badURL.Validate(), ErrValidation)
}

func TestPublicURLs(t *testing.T) {
	d := PersonalDetails{}
	assert.Empty(t, d.ProfileImageURL("/uploads"))

	d.ProfileImage = "me_01h.png"
	assert.Equal(t, "/uploads/profile/me_01h.png", d.ProfileImageURL("/uploads/"))

	p := Project{ScreenshotPath: "home_01h.jpg"}
	assert.Equal(t, "/media/projects/home_01h.jpg", p.ScreenshotURL("/media"))
}

func TestContactMessageValidateAndMarkRead(t *testing.T) {
	m := ContactMessage{Name: "Grace", Email: "grace@example.com", Subject: "Hello", Message: "Hi there"}
	require.NoError(t, m.Validate())

	missing := m
	missing.Message = " "
	require.ErrorIs(t, missing.Validate(), ErrValidation)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.MarkRead(at)
	require.True(t, m.IsRead)
	require.NotNil(t, m.ReadAt)

	m.MarkRead(at.Add(time.Hour))
	assert.Equal(t, at, *m.ReadAt, "first read time is kept")
}

func TestContactMessageToggleRead(t *testing.T) {
	m := ContactMessage{}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	m.ToggleRead(at)
	require.True(t, m.IsRead)
	require.NotNil(t, m.ReadAt)
	assert.Equal(t, at, *m.ReadAt)

	m.ToggleRead(at.Add(time.Hour))
	assert.False(t, m.IsRead)
	assert.Nil(t, m.ReadAt)
}

func day(s string) *time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		return ""
	}
	require.ErrorIs(t, err, ErrValidation)
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	return fe.Field
}

func TestSkillValidate(t *testing.T) {
	base := Skill{Name: "Go", Percentage: 90, Category: SkillCategoryTechnical}
	assert.Empty(t, fieldOf(t, base.Validate()))

	tests := []struct {
		name   string
		mutate func(*Skill)
		field  string
	}{
		{"blank name", func(s *Skill) { s.Name = " " }, "name"},
		{"percentage above 100", func(s *Skill) { s.Percentage = 101 }, "percentage"},
		{"negative percentage", func(s *Skill) { s.Percentage = -1 }, "percentage"},
		{"bounds are inclusive", func(s *Skill) { s.Percentage = 0 }, ""},
		{"unknown category", func(s *Skill) { s.Category = "cooking" }, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.mutate(&s)
			assert.Equal(t, tt.field, fieldOf(t, s.Validate()))
		})
	}
}

func TestEducationValidate(t *testing.T) {
	e := Education{School: "Institute of Accountancy", Level: EducationDiploma, StartDate: day("2020-01-01"), EndDate: day("2023-12-31")}
	assert.Empty(t, fieldOf(t, e.Validate()))

	pending := Education{School: "University", StartDate: day("2023-01-01")}
	assert.Empty(t, fieldOf(t, pending.Validate()))

	assert.Equal(t, "school", fieldOf(t, Education{}.Validate()))
	assert.Equal(t, "level", fieldOf(t, Education{School: "x", Level: "kindergarten"}.Validate()))
	assert.Equal(t, "end_date", fieldOf(t, Education{School: "x", StartDate: day("2024-01-01"), EndDate: day("2023-01-01")}.Validate()))
}

func TestWorkExperienceCurrentPosition(t *testing.T) {
	w := WorkExperience{Company: "Acme", StartDate: day("2022-03-01"), EndDate: day("2024-01-01")}
	assert.Empty(t, fieldOf(t, w.Validate()))

	w.IsCurrent = true
	assert.Equal(t, "end_date", fieldOf(t, w.Validate()))

	w.SetCurrent(true)
	assert.Nil(t, w.EndDate)
	assert.Empty(t, fieldOf(t, w.Validate()))

	assert.Equal(t, "company", fieldOf(t, WorkExperience{}.Validate()))
}

func TestReferenceValidate(t *testing.T) {
	r := Reference{Name: "Jane Doe", Title: "CTO", Company: "Acme", Email: "jane@acme.example", Phone: "+255 700 000 000"}
	assert.Empty(t, fieldOf(t, r.Validate()))
	assert.Equal(t, "CTO at Acme", r.Affiliation())

	noPhone := r
	noPhone.Phone = ""
	assert.Equal(t, "phone", fieldOf(t, noPhone.Validate()))

	badEmail := r
	badEmail.Email = "jane"
	assert.Equal(t, "email", fieldOf(t, badEmail.Validate()))
}

func TestEntryMetaIsShared(t *testing.T) {
	s := Skill{Name: "Go", Category: SkillCategoryTechnical}
	s.Meta().ID = 7
	s.Meta().IsActive = true
	assert.Equal(t, int64(7), s.ID)
	assert.True(t, s.IsActive)
}
