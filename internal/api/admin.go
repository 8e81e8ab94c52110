package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dunamismax/folio/internal/domain"
	"github.com/dunamismax/folio/internal/media"
	"github.com/dunamismax/folio/internal/normalize"
)

const multipartMemory = 8 << 20

// parseMultipart caps the body at the configured upload limit before parsing.
func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return maxBytesErr
		}
		if strings.Contains(err.Error(), "request body too large") {
			return &http.MaxBytesError{Limit: s.maxUploadBytes}
		}
		return fmt.Errorf("%w: invalid multipart form: %v", domain.ErrValidation, err)
	}
	return nil
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	if err := s.parseMultipart(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	p := domain.NewProject(time.Now().UTC())
	if err := applyProjectForm(&p, r.MultipartForm.Value); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.saveProject(w, r, p, http.StatusCreated)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.parseMultipart(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	p, err := s.store.GetProject(r.Context(), projectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := applyProjectForm(&p, r.MultipartForm.Value); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.saveProject(w, r, p, http.StatusOK)
}

func (s *Server) saveProject(w http.ResponseWriter, r *http.Request, p domain.Project, status int) {
	screenshot, closeFile, err := formUpload(r.MultipartForm, "screenshot")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer closeFile()

	saved, flashes, err := s.media.SaveProject(r.Context(), p, screenshot)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, map[string]any{
		"project": s.projectView(saved),
		"flashes": flashes,
	})
}

func (s *Server) handleToggleProjectStatus(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.store.GetProject(r.Context(), projectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p.SetPublished(!p.IsPublished)
	saved, err := s.store.UpdateProject(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"project": s.projectView(saved),
		"flashes": []media.Flash{{Level: media.FlashSuccess, Message: "Project status updated."}},
	})
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	flashes, err := s.media.DeleteProject(r.Context(), projectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"flashes": flashes})
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.parseMultipart(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	d, err := s.store.ActiveProfile(r.Context())
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		d = domain.PersonalDetails{IsActive: true}
	default:
		s.writeError(w, r, err)
		return
	}
	if err := applyProfileForm(&d, r.MultipartForm.Value); err != nil {
		s.writeError(w, r, err)
		return
	}

	image, closeImage, err := formUpload(r.MultipartForm, "profile_image")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer closeImage()

	cvUpload, closeCV, err := formUpload(r.MultipartForm, "cv")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer closeCV()
	var cv *media.Document
	if cvUpload != nil {
		cv = &media.Document{Filename: cvUpload.Filename, Body: cvUpload.Body}
	}

	saved, flashes, err := s.media.SaveProfile(r.Context(), d, image, cv)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profile": s.profileView(saved),
		"flashes": flashes,
	})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.store.ListMessages(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	unread := 0
	for _, m := range messages {
		if !m.IsRead {
			unread++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages, "unread": unread})
}

func (s *Server) handleMarkMessageRead(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.MarkMessageRead(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleToggleMessageRead(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.ToggleMessageRead(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteMessage(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"flashes": []media.Flash{{Level: media.FlashSuccess, Message: "Message deleted successfully!"}},
	})
}

// formUpload opens the first file under field. A missing or empty file part
// yields a nil upload.
func formUpload(form *multipart.Form, field string) (*normalize.Upload, func(), error) {
	noop := func() {}
	if form == nil || len(form.File[field]) == 0 {
		return nil, noop, nil
	}
	fh := form.File[field][0]
	if fh.Size == 0 && fh.Filename == "" {
		return nil, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("open %s upload: %w", field, err)
	}
	return &normalize.Upload{
		Filename:     fh.Filename,
		DeclaredType: fh.Header.Get("Content-Type"),
		Body:         f,
	}, func() { _ = f.Close() }, nil
}

// applyProjectForm copies submitted fields onto p. Absent fields keep their
// current value.
func applyProjectForm(p *domain.Project, values map[string][]string) error {
	setString(values, "title", &p.Title)
	setString(values, "description", &p.Description)
	setString(values, "category", &p.Category)
	setString(values, "technologies", &p.Technologies)
	setString(values, "live_url", &p.LiveURL)
	setString(values, "github_url", &p.GithubURL)
	setString(values, "status", &p.Status)

	if raw, ok := formValue(values, "project_date"); ok && raw != "" {
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return fmt.Errorf("%w: project_date must be YYYY-MM-DD", domain.ErrValidation)
		}
		p.ProjectDate = t
	}
	if raw, ok := formValue(values, "display_order"); ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: display_order must be an integer", domain.ErrValidation)
		}
		p.DisplayOrder = n
	}
	if raw, ok := formValue(values, "is_published"); ok {
		published, err := parseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: is_published must be a boolean", domain.ErrValidation)
		}
		p.SetPublished(published)
	} else if _, ok := formValue(values, "status"); ok {
		p.IsPublished = p.Status == domain.ProjectStatusPublished
	}
	return nil
}

func applyProfileForm(d *domain.PersonalDetails, values map[string][]string) error {
	setString(values, "full_name", &d.FullName)
	setString(values, "job_title", &d.JobTitle)
	setString(values, "email", &d.Email)
	setString(values, "phone", &d.Phone)
	setString(values, "phone2", &d.Phone2)
	setString(values, "location", &d.Location)
	setString(values, "address", &d.Address)
	setString(values, "professional_summary", &d.ProfessionalSummary)
	setString(values, "years_of_experience", &d.YearsOfExperience)
	setString(values, "linkedin_url", &d.LinkedinURL)
	setString(values, "github_url", &d.GithubURL)
	setString(values, "twitter_url", &d.TwitterURL)
	setString(values, "website_url", &d.WebsiteURL)

	if raw, ok := formValue(values, "is_active"); ok {
		active, err := parseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: is_active must be a boolean", domain.ErrValidation)
		}
		d.IsActive = active
	}
	return nil
}

func formValue(values map[string][]string, key string) (string, bool) {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return strings.TrimSpace(v[0]), true
}

func setString(values map[string][]string, key string, dst *string) {
	if v, ok := formValue(values, key); ok {
		*dst = v
	}
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "on", "yes":
		return true, nil
	case "off", "no", "":
		return false, nil
	}
	return strconv.ParseBool(raw)
}
