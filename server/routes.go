package server

import (
	"net/http"

	"github.com/jrsteele09/go-viewer-session/token"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc(RouteHealth, s.HealthHandler(), http.MethodGet)

	// Session
	s.RegisterRouteFunc(RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...), http.MethodPost)
	s.RegisterRouteFunc(RouteVerify, ChainMiddleware(s.VerifyHandler(), s.APIMiddleware(s.RequireBearer(token.KindSession, token.KindEntry))...), http.MethodGet)
	s.RegisterRouteFunc(RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireBearer(token.KindSession, token.KindEntry))...), http.MethodPost)

	// Hospital entry links
	s.RegisterRouteFunc(RouteHospitalEntry, ChainMiddleware(s.HospitalEntryHandler(), s.APIMiddleware(s.RequireBearer(token.KindEntry))...), http.MethodPost)
	s.RegisterRouteFunc(RouteHospitalEntryLink, ChainMiddleware(s.CreateEntryLinkHandler(), s.APIMiddleware(s.RequireBearer(token.KindSession))...), http.MethodPost)

	// Share links. Resolution is unauthenticated; the token is the capability.
	s.RegisterRouteFunc(RouteShareStudyToken, ChainMiddleware(s.ResolveShareHandler(), s.APIMiddleware()...), http.MethodGet)
	s.RegisterRouteFunc(RouteShareStudy, ChainMiddleware(s.CreateShareHandler(), s.APIMiddleware(s.RequireBearer(token.KindSession))...), http.MethodPost)

	s.router.NotFoundHandler = ChainMiddleware(s.NotFoundHandler(), s.APIMiddleware()...)
}
