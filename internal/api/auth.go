package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type adminAuth struct {
	email        string
	passwordHash []byte
}

func newAdminAuth(email, passwordHash string) *adminAuth {
	return &adminAuth{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: []byte(strings.TrimSpace(passwordHash)),
	}
}

// verify reports whether the credentials match the configured admin. With no
// hash configured every attempt fails.
func (a *adminAuth) verify(email, password string) bool {
	if len(a.passwordHash) == 0 || a.email == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(strings.TrimSpace(email))), []byte(a.email)) == 1
	passwordOK := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
	return emailOK && passwordOK
}

func (s *Server) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, password, ok := r.BasicAuth()
		if !ok || !s.auth.verify(email, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="folio admin", charset="UTF-8"`)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			return
		}
		next(w, r)
	})
}
