package app

import "github.com/jrsteele09/go-viewer-session/navigation"

type View string

const (
	ViewWorklist       View = "worklist"
	ViewDashboard      View = "dashboard"
	ViewUserManagement View = "user-management"
	ViewReports        View = "reports"
	ViewProfile        View = "profile"
	ViewLogin          View = "login"
	ViewLogout         View = "logout"
	ViewEntry          View = "entry"
	ViewShare          View = "view"
	ViewViewer         View = "viewer"
	ViewLoading        View = "loading"
	ViewNotFound       View = "not-found"
)

// Route maps a path to the view it renders.
type Route struct {
	Path    string
	View    View
	Private bool
}

// DefaultRoutes is the viewer's route table. The worklist at / is private.
// /entry is public so an inbound link can bootstrap a session, and /viewer
// is always public.
var DefaultRoutes = []Route{
	{Path: navigation.RouteDashboard, View: ViewDashboard, Private: true},
	{Path: navigation.RouteLogin, View: ViewLogin},
	{Path: navigation.RouteUserManagement, View: ViewUserManagement, Private: true},
	{Path: navigation.RouteReports, View: ViewReports, Private: true},
	{Path: navigation.RouteView, View: ViewShare},
	{Path: navigation.RouteEntry, View: ViewEntry},
	{Path: navigation.RouteProfile, View: ViewProfile, Private: true},
	{Path: navigation.RouteLogout, View: ViewLogout, Private: true},
	{Path: navigation.RouteViewer, View: ViewViewer},
	{Path: navigation.RouteRoot, View: ViewWorklist, Private: true},
}
