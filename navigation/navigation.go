// Package navigation describes where the client should go next. Flows and
// the route guard return Targets; the caller decides how to perform them.
package navigation

import (
	"net/url"
	"strings"
)

// Route paths used by the session layer.
const (
	RouteRoot           = "/"
	RouteLogin          = "/login"
	RouteLogout         = "/logout"
	RouteDashboard      = "/dashboard"
	RouteUserManagement = "/user-management"
	RouteReports        = "/reports"
	RouteProfile        = "/profile"
	RouteEntry          = "/entry"
	RouteView           = "/view"
	RouteViewer         = "/viewer"
)

// StudyQueryParam carries the study to open in the viewer route.
const StudyQueryParam = "StudyInstanceUIDs"

// Target is a navigation request.
type Target struct {
	// Path is an in-app path, or an absolute URL when Hard is set.
	Path  string
	Query url.Values
	// Hard asks for a full page load instead of in-app routing. Used when
	// no session exists to return to.
	Hard bool
	// Replace asks for the current history entry to be replaced.
	Replace bool
	// Pending is carried to the login view so a later login can resume.
	Pending *PendingRedirect
}

// IsZero reports whether t asks for no navigation at all.
func (t Target) IsZero() bool {
	return t.Path == "" && !t.Hard
}

// String renders the path with its query string.
func (t Target) String() string {
	if len(t.Query) == 0 {
		return t.Path
	}
	sep := "?"
	if strings.Contains(t.Path, "?") {
		sep = "&"
	}
	return t.Path + sep + t.Query.Encode()
}

// To returns an in-app target.
func To(path string) Target {
	return Target{Path: path}
}

// Hard returns a full page load target for rawURL.
func Hard(rawURL string) Target {
	return Target{Path: rawURL, Hard: true}
}

// Login returns the login target remembering from as the destination to
// resume after a successful login. The login and logout routes are never
// remembered.
func Login(from string) Target {
	t := Target{Path: RouteLogin, Replace: true}
	if from != "" && pathOf(from) != RouteLogin && pathOf(from) != RouteLogout {
		t.Pending = NewPendingRedirect(from)
	}
	return t
}

// Viewer returns the viewer target for studyID.
func Viewer(studyID string) Target {
	return Target{Path: RouteViewer, Query: url.Values{StudyQueryParam: []string{studyID}}}
}

func pathOf(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		return location[:i]
	}
	return location
}
