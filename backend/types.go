package backend

import "github.com/jrsteele09/go-viewer-session/users"

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /login on success.
type LoginResponse struct {
	// Token is the opaque bearer credential for subsequent requests.
	// Usage: "Authorization: Bearer <token>"
	Token string `json:"token"`

	// User is the backend's user record. Only a handful of fields are kept
	// client side; see LoginUser.Profile.
	User *LoginUser `json:"user"`
}

// LoginUser is the user object embedded in LoginResponse. The backend sends
// more fields than these; they are dropped on decode.
type LoginUser struct {
	ID           users.UserID `json:"id"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name,omitempty"`
	Email        string       `json:"email"`
	HospitalName string       `json:"hospital_name"`
}

// Profile returns the minimal projection stored for the tab.
func (u *LoginUser) Profile() users.Profile {
	return users.Profile{
		ID:          u.ID,
		DisplayName: u.FirstName,
		Email:       u.Email,
		TenantLabel: u.HospitalName,
	}
}

// ShareResolution is the body of GET /share/study/{token}.
// The backend sends it as a JSON-encoded text body.
type ShareResolution struct {
	// StudyID is the study instance UID the share link grants access to.
	// Example: "1.2.840.113619.2.55.3.604688119"
	StudyID string `json:"study_id"`

	// HospitalLabel is the tenant the study belongs to.
	// Example: "general-hospital"
	HospitalLabel string `json:"hospital_label"`
}

// ShareType is the audience a share link is created for.
type ShareType string

const (
	ShareTypePatient ShareType = "patient"
	ShareTypeDoctor  ShareType = "doctor"
)

// ShareDuration is how long a share link stays valid.
type ShareDuration string

const (
	ShareOneDay    ShareDuration = "1d"
	ShareSevenDays ShareDuration = "7d"
	ShareThirtyDay ShareDuration = "30d"
)

// ShareLinkRequest is the body of POST /share/study.
type ShareLinkRequest struct {
	StudyID       string        `json:"study_id"`
	SharedToEmail string        `json:"shared_to_email"`
	ShareType     ShareType     `json:"share_type"`
	Duration      ShareDuration `json:"duration"`
}

// ShareLink is returned by POST /share/study.
type ShareLink struct {
	// Link is the guest URL, pointing at the /view route with ?token=.
	Link string `json:"link"`
}
