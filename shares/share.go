// Package shares models guest share links held by the dev backend.
package shares

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypePatient Type = "patient"
	TypeDoctor  Type = "doctor"
)

// Durations accepted for a share, keyed by their wire form.
var Durations = map[string]time.Duration{
	"1d":  24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

// Share grants guest access to one study.
type Share struct {
	Token         string
	StudyID       string
	HospitalLabel string
	SharedToEmail string
	Type          Type
	CreatedBy     string
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// New creates a share with a fresh random token.
func New(studyID, label, sharedTo string, shareType Type, duration string, createdBy string, now time.Time) (*Share, error) {
	if strings.TrimSpace(studyID) == "" {
		return nil, fmt.Errorf("study id is required")
	}
	if strings.TrimSpace(label) == "" {
		return nil, fmt.Errorf("hospital label is required")
	}
	if shareType != TypePatient && shareType != TypeDoctor {
		return nil, fmt.Errorf("unknown share type %q", shareType)
	}
	d, ok := Durations[duration]
	if !ok {
		return nil, fmt.Errorf("unknown share duration %q", duration)
	}
	return &Share{
		Token:         strings.ReplaceAll(uuid.New().String(), "-", ""),
		StudyID:       studyID,
		HospitalLabel: label,
		SharedToEmail: strings.ToLower(strings.TrimSpace(sharedTo)),
		Type:          shareType,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		ExpiresAt:     now.Add(d),
	}, nil
}

func (s *Share) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
