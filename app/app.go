// Package app dispatches locations to the exchange flows and the route
// guard the way the viewer's router does, and reports what should render.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-viewer-session/auth"
	"github.com/jrsteele09/go-viewer-session/guard"
	"github.com/jrsteele09/go-viewer-session/navigation"
)

const defaultMaxHops = 8

var ErrTooManyRedirects = errors.New("too many redirects")

// Render is the result of opening a location.
type Render struct {
	// Location is the in-app location that was opened.
	Location string
	// View renders at Location. Empty when the location only redirects.
	View View
	// Query is the query string of Location, for views that read it.
	Query url.Values
	// Next is where to go next, zero when Location is the destination.
	Next navigation.Target
	// Message is an alert to surface before following Next.
	Message string
	Err     error
	Guard   *guard.Decision
	// Pending is handed to the login form so a later login can resume.
	Pending *navigation.PendingRedirect
}

type App struct {
	auth    *auth.Service
	guard   *guard.Guard
	routes  map[string]Route
	maxHops int
}

// AppOption defines a function type to modify the App instance.
type AppOption func(*App)

// WithRoutes replaces DefaultRoutes.
func WithRoutes(routes []Route) AppOption {
	return func(a *App) {
		a.routes = indexRoutes(routes)
	}
}

// WithMaxHops bounds Follow.
func WithMaxHops(n int) AppOption {
	return func(a *App) {
		if n > 0 {
			a.maxHops = n
		}
	}
}

func New(svc *auth.Service, g *guard.Guard, options ...AppOption) (*App, error) {
	if svc == nil || g == nil {
		return nil, errors.New("[app.New] auth service and guard are required")
	}
	a := &App{auth: svc, guard: g, routes: indexRoutes(DefaultRoutes), maxHops: defaultMaxHops}
	for _, opt := range options {
		opt(a)
	}
	return a, nil
}

func indexRoutes(routes []Route) map[string]Route {
	m := make(map[string]Route, len(routes))
	for _, r := range routes {
		m[r.Path] = r
	}
	return m
}

// Open handles one location. pending is the redirect carried by the
// navigation that led here, if any; it is only used by the login view.
func (a *App) Open(ctx context.Context, location string, pending *navigation.PendingRedirect) Render {
	u, err := url.Parse(location)
	if err != nil {
		return Render{Location: location, View: ViewNotFound, Err: fmt.Errorf("parse location: %w", err)}
	}
	path := u.Path
	if path == "" {
		path = navigation.RouteRoot
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	render := Render{Location: u.RequestURI(), Query: u.Query()}

	route, ok := a.routes[path]
	if !ok {
		render.View = ViewNotFound
		return render
	}

	if route.Private {
		d := a.guard.Verify(ctx, render.Location)
		render.Guard = &d
		switch {
		case d.Stale || d.State == guard.Verifying:
			render.View = ViewLoading
			return render
		case d.State == guard.Denied:
			render.Next = d.Redirect
			render.Err = d.Err
			if fe, ok := auth.AsFlowError(d.Err); ok {
				render.Message = fe.Message
			}
			return render
		}
	}

	switch route.Path {
	case navigation.RouteLogin:
		if next, ok := a.auth.LoginPage(); ok {
			render.Next = next
			return render
		}
		render.Pending = pending
	case navigation.RouteLogout:
		render.Next = a.auth.Logout(ctx)
		return render
	case navigation.RouteEntry:
		next, err := a.auth.Entry(ctx, render.Query.Get("label"), render.Query.Get("token"))
		if a.flowResult(&render, next, err) {
			return render
		}
	case navigation.RouteView:
		next, err := a.auth.ResolveShare(ctx, render.Query.Get("token"))
		if a.flowResult(&render, next, err) {
			return render
		}
	}
	render.View = route.View
	return render
}

// flowResult records an exchange flow outcome. It reports whether the flow
// produced a navigation, in which case nothing renders here.
func (a *App) flowResult(render *Render, next navigation.Target, err error) bool {
	if err != nil {
		render.Err = err
		if fe, ok := auth.AsFlowError(err); ok {
			render.Message = fe.Message
			render.Next = fe.Redirect
		}
		return true
	}
	if !next.IsZero() {
		render.Next = next
		return true
	}
	return false
}

// Follow opens location and keeps following in-app redirects until a view
// renders, an external URL is reached or the hop limit is hit. It returns
// every render along the way, the last one being the destination.
func (a *App) Follow(ctx context.Context, location string, pending *navigation.PendingRedirect) ([]Render, error) {
	var trail []Render
	for hop := 0; hop < a.maxHops; hop++ {
		r := a.Open(ctx, location, pending)
		trail = append(trail, r)
		if r.Next.IsZero() || isExternal(r.Next) {
			return trail, nil
		}
		location = r.Next.String()
		pending = r.Next.Pending
	}
	return trail, ErrTooManyRedirects
}

func isExternal(t navigation.Target) bool {
	if !t.Hard {
		return false
	}
	u, err := url.Parse(t.Path)
	return err != nil || u.IsAbs()
}
