package server

// Route path constants
// All backend routes are defined here to ensure consistency and prevent typos
const (
	// Session routes
	RouteLogin  = "/login"
	RouteVerify = "/verify"
	RouteLogout = "/logout"

	// Hospital entry links
	RouteHospitalEntry     = "/hospital/entry"
	RouteHospitalEntryLink = "/hospital/entry-link"

	// Share links
	RouteShareStudy      = "/share/study"
	RouteShareStudyToken = "/share/study/{token}"

	// Health
	RouteHealth = "/healthz"
)
