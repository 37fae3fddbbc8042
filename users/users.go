package users

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// UserID identifies a user. The backend sends numeric ids; UserID accepts
// JSON numbers and strings alike.
type UserID string

func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

func (id UserID) String() string {
	return string(id)
}

// Profile is the minimal projection of the signed-in user kept for the
// lifetime of a tab. Field names on the wire match what the viewer has
// always stored.
type Profile struct {
	ID          UserID `json:"id"`
	DisplayName string `json:"username"`
	Email       string `json:"email"`
	TenantLabel string `json:"hospital_name"`
}

// Validate reports whether the profile carries an identity.
func (p *Profile) Validate() error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}
	if p.ID == "" && strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("profile has neither id nor email")
	}
	return nil
}

// Account is a backend user record. Only the dev backend keeps these.
type Account struct {
	ID           UserID `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	HospitalName string `json:"hospital_name"`
	PasswordHash string `json:"-"` // never serialize
	Blocked      bool   `json:"blocked,omitempty"`
}

// Profile returns the minimal projection of the account.
func (a *Account) Profile() Profile {
	return Profile{
		ID:          a.ID,
		DisplayName: a.FirstName,
		Email:       a.Email,
		TenantLabel: a.HospitalName,
	}
}

// CheckPassword compares password against the stored hash.
func (a *Account) CheckPassword(password string) bool {
	return CheckPasswordHash(password, a.PasswordHash)
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
