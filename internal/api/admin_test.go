package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dunamismax/folio/internal/domain"
	"github.com/dunamismax/folio/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminForm(t *testing.T, target string, form url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(adminEmail, adminPassword)
	return req
}

func adminGet(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.SetBasicAuth(adminEmail, adminPassword)
	return req
}

type flashResponse struct {
	Flashes []media.Flash `json:"flashes"`
}

func TestDeleteProjectRemovesRecordAndScreenshot(t *testing.T) {
	env := newTestEnv(t)

	created := env.do(multipartRequest(t, "/v1/admin/projects", projectFields("Doomed"),
		filePart{field: "screenshot", name: "shot.png", data: pngBytes(t, 60, 40)}))
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	var resp projectResponse
	decodeBody(t, created, &resp)
	shot := filepath.Join(env.root, "projects", resp.Project.ScreenshotPath)
	require.FileExists(t, shot)

	rec := env.do(adminForm(t, "/v1/admin/projects/1/delete", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var flashes flashResponse
	decodeBody(t, rec, &flashes)
	assert.Equal(t, []media.Flash{{Level: media.FlashSuccess, Message: "Project deleted successfully!"}}, flashes.Flashes)

	assert.NoFileExists(t, shot)
	assert.Equal(t, http.StatusNotFound, env.do(httptest.NewRequest(http.MethodGet, "/v1/projects/1", nil)).Code)
	assert.Equal(t, http.StatusNotFound, env.do(adminForm(t, "/v1/admin/projects/1/delete", nil)).Code)
}

func TestDeleteProjectRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodPost, "/v1/admin/projects/1/delete", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToggleProjectStatus(t *testing.T) {
	env := newTestEnv(t)
	created := env.do(multipartRequest(t, "/v1/admin/projects", projectFields("Toggle me")))
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	rec := env.do(adminForm(t, "/v1/admin/projects/1/toggle-status", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Project status updated.")

	p, err := env.store.GetProject(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, p.IsPublished)
	assert.Equal(t, domain.ProjectStatusDraft, p.Status)

	list := env.do(httptest.NewRequest(http.MethodGet, "/v1/projects", nil))
	assert.NotContains(t, list.Body.String(), "Toggle me")

	require.Equal(t, http.StatusOK, env.do(adminForm(t, "/v1/admin/projects/1/toggle-status", nil)).Code)
	p, err = env.store.GetProject(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, p.IsPublished)
	assert.Equal(t, domain.ProjectStatusPublished, p.Status)

	assert.Equal(t, http.StatusNotFound, env.do(adminForm(t, "/v1/admin/projects/9/toggle-status", nil)).Code)
}

func TestToggleAndDeleteMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.CreateMessage(ctx, domain.ContactMessage{ID: "m1", Name: "A", CreatedAt: time.Now().UTC()}))

	rec := env.do(adminForm(t, "/v1/admin/messages/m1/toggle-read", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_read":true`)
	assert.Contains(t, rec.Body.String(), `"read_at"`)

	rec = env.do(adminForm(t, "/v1/admin/messages/m1/toggle-read", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_read":false`)
	assert.NotContains(t, rec.Body.String(), `"read_at"`)

	rec = env.do(adminForm(t, "/v1/admin/messages/m1/delete", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Message deleted successfully!")

	messages, err := env.store.ListMessages(ctx)
	require.NoError(t, err)
	assert.Empty(t, messages)

	assert.Equal(t, http.StatusNotFound, env.do(adminForm(t, "/v1/admin/messages/m1/delete", nil)).Code)
	assert.Equal(t, http.StatusNotFound, env.do(adminForm(t, "/v1/admin/messages/m1/toggle-read", nil)).Code)
}

func TestSkillsCRUD(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(adminForm(t, "/v1/admin/skills", url.Values{
		"name":       {"Go"},
		"percentage": {"90"},
		"category":   {"technical"},
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Skill   domain.Skill  `json:"skill"`
		Flashes []media.Flash `json:"flashes"`
	}
	decodeBody(t, rec, &created)
	assert.Equal(t, int64(1), created.Skill.ID)
	assert.True(t, created.Skill.IsActive)
	assert.Equal(t, "Skill created successfully!", created.Flashes[0].Message)

	rec = env.do(adminForm(t, "/v1/admin/skills/1", url.Values{"percentage": {"95"}, "is_active": {"false"}}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Skill updated successfully!")

	got, err := env.store.Skills().Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Name, "absent fields keep their value")
	assert.Equal(t, 95, got.Percentage)
	assert.False(t, got.IsActive)

	public := env.do(httptest.NewRequest(http.MethodGet, "/v1/skills", nil))
	require.Equal(t, http.StatusOK, public.Code)
	assert.JSONEq(t, `{"skills":[]}`, public.Body.String())

	admin := env.do(adminGet("/v1/admin/skills"))
	require.Equal(t, http.StatusOK, admin.Code)
	assert.Contains(t, admin.Body.String(), `"name":"Go"`)

	rec = env.do(adminForm(t, "/v1/admin/skills/1/delete", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Skill deleted successfully!")
	assert.Equal(t, http.StatusNotFound, env.do(adminForm(t, "/v1/admin/skills/1", url.Values{"name": {"x"}})).Code)
}

func TestSkillValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]url.Values{
		"percentage out of range": {"name": {"Go"}, "percentage": {"120"}, "category": {"technical"}},
		"percentage not a number": {"name": {"Go"}, "percentage": {"lots"}, "category": {"technical"}},
		"unknown category":        {"name": {"Go"}, "percentage": {"50"}, "category": {"cooking"}},
		"missing name":            {"percentage": {"50"}, "category": {"technical"}},
	}
	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			rec := env.do(adminForm(t, "/v1/admin/skills", form))
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	skills, err := env.store.Skills().List(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, skills)
}

func TestWorkExperienceViaMultipart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(multipartRequest(t, "/v1/admin/experience", map[string]string{
		"company":    "Acme",
		"position":   "Network Engineer",
		"start_date": "2022-03-01",
		"end_date":   "2024-01-01",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(multipartRequest(t, "/v1/admin/experience/1", map[string]string{"is_current": "yes"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := env.store.WorkExperience().Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, got.IsCurrent)
	assert.Nil(t, got.EndDate)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "2022-03-01", got.StartDate.Format(time.DateOnly))

	bad := env.do(adminForm(t, "/v1/admin/experience/1", url.Values{"start_date": {"03/01/2022"}}))
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	public := env.do(httptest.NewRequest(http.MethodGet, "/v1/experience", nil))
	require.Equal(t, http.StatusOK, public.Code)
	assert.Contains(t, public.Body.String(), `"company":"Acme"`)
}

func TestEducationAndReferences(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(adminForm(t, "/v1/admin/education", url.Values{
		"school":     {"Institute of Accountancy"},
		"level":      {"diploma"},
		"start_date": {"2020-01-01"},
		"end_date":   {"2019-01-01"},
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "end before start")

	rec = env.do(adminForm(t, "/v1/admin/education", url.Values{
		"school":     {"Institute of Accountancy"},
		"level":      {"diploma"},
		"start_date": {"2020-01-01"},
		"end_date":   {"2023-12-31"},
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Education created successfully!")

	rec = env.do(adminForm(t, "/v1/admin/references", url.Values{
		"name":    {"Jane Doe"},
		"title":   {"CTO"},
		"company": {"Acme"},
		"email":   {"jane@acme.example"},
		"phone":   {"+255 700 000 000"},
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	public := env.do(httptest.NewRequest(http.MethodGet, "/v1/references", nil))
	require.Equal(t, http.StatusOK, public.Code)
	assert.Contains(t, public.Body.String(), `"name":"Jane Doe"`)

	edu := env.do(httptest.NewRequest(http.MethodGet, "/v1/education", nil))
	assert.Contains(t, edu.Body.String(), `"school":"Institute of Accountancy"`)
}
