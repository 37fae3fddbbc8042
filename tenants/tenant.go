package tenants

import (
	"errors"
	"strings"
)

// HeaderName is the request header carrying the active tenant label to the
// image archive. The same name is used as the durable storage key.
const HeaderName = "x-orthanc-label"

var ErrEmptyLabel = errors.New("tenant label is empty")

// Label identifies the hospital whose studies the session is scoped to.
type Label string

// ParseLabel trims s and rejects empty labels.
func ParseLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyLabel
	}
	return Label(s), nil
}

func (l Label) String() string {
	return string(l)
}

// Tenant is a hospital known to the backend.
type Tenant struct {
	Label Label  `json:"label"`
	Name  string `json:"name"`
}
