package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jrsteele09/go-viewer-session/internal/errors"
	"github.com/jrsteele09/go-viewer-session/shares"
	"github.com/jrsteele09/go-viewer-session/tenants"
	"github.com/jrsteele09/go-viewer-session/token"
	"github.com/jrsteele09/go-viewer-session/users"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginUser mirrors the user object of the production API, which sends
// numeric ids.
type loginUser struct {
	ID           any    `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	HospitalName string `json:"hospital_name"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  loginUser `json:"user"`
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	}
}

// LoginHandler checks email and password and returns a session token. Every
// credential failure gets the same response.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "malformed login request")
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
			return
		}

		account, err := s.authenticate(req.Email, req.Password)
		if err != nil {
			log.Info().Err(err).Str("email", req.Email).Msg("Login rejected")
			writeProblem(w, err)
			return
		}

		signed, err := s.tokens.Issue(token.KindSession, account.ID.String(), account.Email, account.HospitalName)
		if err != nil {
			log.Err(err).Msg("Failed to issue session token")
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{Token: signed, User: toLoginUser(account)})
	}
}

func (s *Server) authenticate(email, password string) (*users.Account, error) {
	account, err := s.repos.Users.GetByEmail(email)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidCredentials, "lookup %s: %v", email, err)
	}
	if account.Blocked {
		return nil, apperrors.ErrUserBlocked
	}
	if !account.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return account, nil
}

func toLoginUser(a *users.Account) loginUser {
	var id any = a.ID.String()
	if n, err := strconv.Atoi(a.ID.String()); err == nil {
		id = n
	}
	return loginUser{
		ID:           id,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Email:        a.Email,
		HospitalName: a.HospitalName,
	}
}

// VerifyHandler answers 200 for any live session or entry token.
func (s *Server) VerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		writeJSON(w, http.StatusOK, map[string]string{
			"sub":   claims.Subject,
			"kind":  string(claims.Kind),
			"label": claims.Label,
		})
	}
}

// LogoutHandler revokes the presented token.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, _ := bearerToken(r)
		if err := s.tokens.Revoke(raw); err != nil {
			log.Err(err).Msg("Failed to revoke token")
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HospitalEntryHandler accepts an entry token minted for the hospital named
// by the label query parameter.
func (s *Server) HospitalEntryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		label, err := tenants.ParseLabel(r.URL.Query().Get("label"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "label is required")
			return
		}
		// Links for unknown hospitals are refused like foreign ones.
		if _, err := s.repos.Tenants.Get(label); err != nil {
			writeProblem(w, apperrors.Wrapf(apperrors.ErrUnauthorizedTenant, "hospital %s: %v", label, apperrors.ErrTenantNotFound))
			return
		}
		if claims.Label != label.String() {
			writeProblem(w, apperrors.Wrapf(apperrors.ErrUnauthorizedTenant, "token for %s used for %s", claims.Label, label))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "label": label.String()})
	}
}

type entryLinkRequest struct {
	Label string `json:"label"`
}

type entryLinkResponse struct {
	Token string `json:"token"`
	Link  string `json:"link"`
}

// CreateEntryLinkHandler mints an inbound entry link for a hospital. It
// stands in for the external hospital portal.
func (s *Server) CreateEntryLinkHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		var req entryLinkRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "malformed entry link request")
			return
		}
		label, err := tenants.ParseLabel(req.Label)
		if err != nil {
			label, err = tenants.ParseLabel(claims.Label)
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "label is required")
			return
		}
		if _, err := s.repos.Tenants.Get(label); err != nil {
			writeProblem(w, apperrors.Wrapf(apperrors.ErrTenantNotFound, "%s", label))
			return
		}

		signed, err := s.tokens.Issue(token.KindEntry, label.String(), claims.Email, label.String())
		if err != nil {
			log.Err(err).Msg("Failed to issue entry token")
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		query := url.Values{"label": []string{label.String()}, "token": []string{signed}}
		writeJSON(w, http.StatusCreated, entryLinkResponse{
			Token: signed,
			Link:  strings.TrimRight(s.config.GetViewerBaseURL(), "/") + "/entry?" + query.Encode(),
		})
	}
}

type shareResolution struct {
	StudyID       string `json:"study_id"`
	HospitalLabel string `json:"hospital_label"`
}

// ResolveShareHandler returns the study a share token grants. The body is
// JSON sent as text/plain, as the production API does.
func (s *Server) ResolveShareHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shareToken := mux.Vars(r)["token"]
		share, err := s.repos.Shares.Get(shareToken)
		if errors.Is(err, shares.ErrShareNotFound) {
			writeProblem(w, apperrors.ErrShareNotFound)
			return
		}
		if err != nil {
			log.Err(err).Msg("Failed to load share")
			writeProblem(w, err)
			return
		}
		if share.Expired(s.nowFunc()) {
			writeProblem(w, apperrors.ErrShareExpired)
			return
		}

		body, err := json.Marshal(shareResolution{StudyID: share.StudyID, HospitalLabel: share.HospitalLabel})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

type shareLinkRequest struct {
	StudyID       string `json:"study_id"`
	SharedToEmail string `json:"shared_to_email"`
	ShareType     string `json:"share_type"`
	Duration      string `json:"duration"`
}

type shareLinkResponse struct {
	Link string `json:"link"`
}

// CreateShareHandler creates a guest link for a study in the caller's
// hospital. The x-orthanc-label header wins over the token's label claim.
func (s *Server) CreateShareHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		var req shareLinkRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "malformed share request")
			return
		}
		label := r.Header.Get(tenants.HeaderName)
		if label == "" {
			label = claims.Label
		}

		share, err := shares.New(req.StudyID, label, req.SharedToEmail, shares.Type(req.ShareType), req.Duration, claims.Subject, s.nowFunc())
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		if err := s.repos.Shares.Upsert(share); err != nil {
			log.Err(err).Msg("Failed to store share")
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		log.Info().Str("study", share.StudyID).Str("label", share.HospitalLabel).Time("expires", share.ExpiresAt).Msg("Share link created")

		query := url.Values{"token": []string{share.Token}}
		writeJSON(w, http.StatusCreated, shareLinkResponse{
			Link: strings.TrimRight(s.config.GetViewerBaseURL(), "/") + "/view?" + query.Encode(),
		})
	}
}
