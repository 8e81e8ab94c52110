package api

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dunamismax/folio/internal/domain"
	"github.com/dunamismax/folio/internal/media"
	"github.com/dunamismax/folio/internal/store"
)

// section wires one resume section to public and admin routes.
type section[T any, P domain.Entry[T]] struct {
	path  string // URL segment under /v1 and /v1/admin
	key   string // JSON key for a single record
	noun  string // subject of flash messages
	store func(store.Store) store.SectionStore[T]
	apply func(P, url.Values) error
}

func registerSection[T any, P domain.Entry[T]](s *Server, sec section[T, P]) {
	h := &sectionHandler[T, P]{srv: s, sec: sec}
	s.mux.HandleFunc("GET /v1/"+sec.path, h.listActive)
	s.mux.Handle("GET /v1/admin/"+sec.path, s.requireAdmin(h.listAll))
	s.mux.Handle("POST /v1/admin/"+sec.path, s.requireAdmin(h.create))
	s.mux.Handle("POST /v1/admin/"+sec.path+"/{id}", s.requireAdmin(h.update))
	s.mux.Handle("POST /v1/admin/"+sec.path+"/{id}/delete", s.requireAdmin(h.remove))
}

func (s *Server) sectionRoutes() {
	registerSection(s, section[domain.Skill, *domain.Skill]{
		path: "skills", key: "skill", noun: "Skill",
		store: func(st store.Store) store.SectionStore[domain.Skill] { return st.Skills() },
		apply: applySkillForm,
	})
	registerSection(s, section[domain.Education, *domain.Education]{
		path: "education", key: "education", noun: "Education",
		store: func(st store.Store) store.SectionStore[domain.Education] { return st.Education() },
		apply: applyEducationForm,
	})
	registerSection(s, section[domain.WorkExperience, *domain.WorkExperience]{
		path: "experience", key: "experience", noun: "Work experience",
		store: func(st store.Store) store.SectionStore[domain.WorkExperience] { return st.WorkExperience() },
		apply: applyWorkExperienceForm,
	})
	registerSection(s, section[domain.Reference, *domain.Reference]{
		path: "references", key: "reference", noun: "Reference",
		store: func(st store.Store) store.SectionStore[domain.Reference] { return st.References() },
		apply: applyReferenceForm,
	})
}

type sectionHandler[T any, P domain.Entry[T]] struct {
	srv *Server
	sec section[T, P]
}

func (h *sectionHandler[T, P]) records() store.SectionStore[T] {
	return h.sec.store(h.srv.store)
}

func (h *sectionHandler[T, P]) listActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *sectionHandler[T, P]) listAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *sectionHandler[T, P]) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	entries, err := h.records().List(r.Context(), activeOnly)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{h.sec.path: entries})
}

func (h *sectionHandler[T, P]) create(w http.ResponseWriter, r *http.Request) {
	var entry T
	P(&entry).Meta().IsActive = true
	h.save(w, r, entry, http.StatusCreated, "created")
}

func (h *sectionHandler[T, P]) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	entry, err := h.records().Get(r.Context(), id)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	h.save(w, r, entry, http.StatusOK, "updated")
}

func (h *sectionHandler[T, P]) save(w http.ResponseWriter, r *http.Request, entry T, status int, verb string) {
	values, err := h.srv.parseForm(w, r)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	p := P(&entry)
	if err := applyMetaForm(p.Meta(), values); err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	if err := h.sec.apply(p, values); err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	if err := p.Validate(); err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	var saved T
	if status == http.StatusCreated {
		saved, err = h.records().Create(r.Context(), entry)
	} else {
		saved, err = h.records().Update(r.Context(), entry)
	}
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	writeJSON(w, status, map[string]any{
		h.sec.key: saved,
		"flashes": []media.Flash{{Level: media.FlashSuccess, Message: h.sec.noun + " " + verb + " successfully!"}},
	})
}

func (h *sectionHandler[T, P]) remove(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	if err := h.records().Delete(r.Context(), id); err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"flashes": []media.Flash{{Level: media.FlashSuccess, Message: h.sec.noun + " deleted successfully!"}},
	})
}

// parseForm accepts urlencoded and multipart bodies, both capped at the upload
// limit, and returns the posted fields.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := s.parseMultipart(w, r); err != nil {
			return nil, err
		}
		defer r.MultipartForm.RemoveAll()
		return r.PostForm, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseForm(); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, maxBytesErr
		}
		return nil, fmt.Errorf("%w: invalid form: %v", domain.ErrValidation, err)
	}
	return r.PostForm, nil
}

func applyMetaForm(m *domain.EntryMeta, values url.Values) error {
	if raw, ok := formValue(values, "display_order"); ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: display_order must be an integer", domain.ErrValidation)
		}
		m.DisplayOrder = n
	}
	if raw, ok := formValue(values, "is_active"); ok {
		active, err := parseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: is_active must be a boolean", domain.ErrValidation)
		}
		m.IsActive = active
	}
	return nil
}

func applySkillForm(s *domain.Skill, values url.Values) error {
	setString(values, "name", &s.Name)
	setString(values, "category", &s.Category)
	if raw, ok := formValue(values, "percentage"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: percentage must be an integer", domain.ErrValidation)
		}
		s.Percentage = n
	}
	return nil
}

func applyEducationForm(e *domain.Education, values url.Values) error {
	setString(values, "school", &e.School)
	setString(values, "level", &e.Level)
	setString(values, "degree", &e.Degree)
	setString(values, "field_of_study", &e.FieldOfStudy)
	setString(values, "gpa", &e.GPA)
	setString(values, "description", &e.Description)
	if err := setDate(values, "start_date", &e.StartDate); err != nil {
		return err
	}
	return setDate(values, "end_date", &e.EndDate)
}

func applyWorkExperienceForm(exp *domain.WorkExperience, values url.Values) error {
	setString(values, "company", &exp.Company)
	setString(values, "position", &exp.Position)
	setString(values, "description", &exp.Description)
	if err := setDate(values, "start_date", &exp.StartDate); err != nil {
		return err
	}
	if err := setDate(values, "end_date", &exp.EndDate); err != nil {
		return err
	}
	if raw, ok := formValue(values, "is_current"); ok {
		current, err := parseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: is_current must be a boolean", domain.ErrValidation)
		}
		exp.SetCurrent(current)
	}
	return nil
}

func applyReferenceForm(ref *domain.Reference, values url.Values) error {
	setString(values, "name", &ref.Name)
	setString(values, "title", &ref.Title)
	setString(values, "company", &ref.Company)
	setString(values, "email", &ref.Email)
	setString(values, "phone", &ref.Phone)
	return nil
}

// setDate parses a YYYY-MM-DD field. An empty value clears the date.
func setDate(values url.Values, key string, dst **time.Time) error {
	raw, ok := formValue(values, key)
	if !ok {
		return nil
	}
	if strings.TrimSpace(raw) == "" {
		*dst = nil
		return nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrValidation, key)
	}
	*dst = &t
	return nil
}
