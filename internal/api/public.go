package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dunamismax/folio/internal/domain"
	"github.com/dunamismax/folio/internal/id"
	"github.com/dunamismax/folio/internal/queue"
	"go.uber.org/zap"
)

type projectView struct {
	domain.Project
	Technologies  []string `json:"technologies"`
	ScreenshotURL string   `json:"screenshot_url,omitempty"`
}

type profileView struct {
	domain.PersonalDetails
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	CVURL           string `json:"cv_url,omitempty"`
}

func (s *Server) projectView(p domain.Project) projectView {
	return projectView{
		Project:       p,
		Technologies:  p.TechnologyList(),
		ScreenshotURL: p.ScreenshotURL(s.uploadPrefix),
	}
}

func (s *Server) profileView(d domain.PersonalDetails) profileView {
	v := profileView{
		PersonalDetails: d,
		ProfileImageURL: d.ProfileImageURL(s.uploadPrefix),
	}
	if d.CVPath != "" {
		v.CVURL = "/v1/cv"
	}
	return v
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context(), true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]projectView, 0, len(projects))
	for _, p := range projects {
		out = append(out, s.projectView(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": out})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
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
	if !p.IsPublished || p.Status != domain.ProjectStatusPublished {
		s.writeError(w, r, domain.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.projectView(p))
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.ActiveProfile(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.profileView(d))
}

func (s *Server) handleDownloadCV(w http.ResponseWriter, r *http.Request) {
	url, err := s.media.CVURL(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	msg := domain.ContactMessage{
		ID:        id.New(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: time.Now().UTC(),
	}
	if err := msg.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.CreateMessage(r.Context(), msg); err != nil {
		s.writeError(w, r, err)
		return
	}

	notified := false
	if s.queueClient != nil {
		info, err := s.queueClient.EnqueueContactNotification(r.Context(), queue.ContactNotifyPayload{
			Message:     msg,
			RequestedAt: msg.CreatedAt,
		})
		if err != nil {
			s.logger.Warn("enqueue contact notification failed", zap.String("message_id", msg.ID), zap.Error(err))
		} else {
			notified = true
			s.metrics.queueEnqueued.WithLabelValues(info.Queue).Inc()
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       msg.ID,
		"notified": notified,
		"flash": map[string]string{
			"level":   "success",
			"message": "Thank you! Your message has been sent successfully. I will contact you soon!",
		},
	})
}

func parseID(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, domain.ErrNotFound
	}
	return v, nil
}

// clientAddr is the caller's IP without port, used as the rate limit subject.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
