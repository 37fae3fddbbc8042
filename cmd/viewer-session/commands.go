package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jrsteele09/go-viewer-session/app"
	"github.com/jrsteele09/go-viewer-session/auth"
	"github.com/jrsteele09/go-viewer-session/backend"
	"github.com/jrsteele09/go-viewer-session/navigation"
)

func newLoginCmd(flags *rootFlags) *cobra.Command {
	var email, password, resume string
	c := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withSession(cmd, func(ctx context.Context, s *session) error {
				var pending *navigation.PendingRedirect
				if resume != "" {
					pending = navigation.NewPendingRedirect(resume)
				}
				trail, err := s.app.Follow(ctx, navigation.RouteLogin, pending)
				if err != nil {
					return err
				}
				form := trail[len(trail)-1]
				if form.View != app.ViewLogin {
					fmt.Fprintln(cmd.OutOrStdout(), "Already signed in")
					return printTrail(cmd.OutOrStdout(), trail)
				}

				if password == "" {
					if password, err = readPassword(cmd); err != nil {
						return err
					}
				}
				next, err := s.auth.Login(ctx, email, password, form.Pending)
				if err != nil {
					return reportFlowError(cmd.OutOrStdout(), err)
				}
				trail, err = s.app.Follow(ctx, next.String(), next.Pending)
				if err != nil {
					return err
				}
				return printTrail(cmd.OutOrStdout(), trail)
			})
		},
	}
	c.Flags().StringVarP(&email, "email", "e", "", "Account email")
	c.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	c.Flags().StringVar(&resume, "resume", "", "Location to return to after signing in")
	return c
}

// readPassword prompts on a terminal and otherwise reads one line of stdin.
func readPassword(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newEntryCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "entry <label> <token>",
		Short: "Exchange a hospital entry link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{"label": {args[0]}, "token": {args[1]}}
			return flags.follow(cmd, navigation.RouteEntry+"?"+q.Encode())
		},
	}
}

func newShareCmd(flags *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "share <token>",
		Short: "Open a guest share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{"token": {args[0]}}
			return flags.follow(cmd, navigation.RouteView+"?"+q.Encode())
		},
	}
	c.AddCommand(newShareCreateCmd(flags))
	return c
}

func newShareCreateCmd(flags *rootFlags) *cobra.Command {
	var req backend.ShareLinkRequest
	var shareType, duration string
	c := &cobra.Command{
		Use:   "create",
		Short: "Create a guest link to a study",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withSession(cmd, func(ctx context.Context, s *session) error {
				req.ShareType = backend.ShareType(shareType)
				req.Duration = backend.ShareDuration(duration)
				link, err := s.client.CreateShareLink(ctx, s.creds.TokenSource(ctx), req)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), link.Link)
				return nil
			})
		},
	}
	c.Flags().StringVar(&req.StudyID, "study", "", "Study instance UID")
	c.Flags().StringVar(&req.SharedToEmail, "to", "", "Recipient email")
	c.Flags().StringVar(&shareType, "type", string(backend.ShareTypePatient), "Audience: patient|doctor")
	c.Flags().StringVar(&duration, "duration", string(backend.ShareOneDay), "Validity: 1d|7d|30d")
	return c
}

func newOpenCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "open <location>",
		Short: "Open a viewer location through the route guard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.follow(cmd, args[0])
		},
	}
}

func newLogoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.follow(cmd, navigation.RouteLogout)
		},
	}
}

func newTabCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "tab",
		Short: "Manage tab IDs",
	}
	c.AddCommand(&cobra.Command{
		Use:   "new",
		Short: "Print a fresh tab ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), uuid.NewString())
			return nil
		},
	})
	return c
}

func (f *rootFlags) follow(cmd *cobra.Command, location string) error {
	return f.withSession(cmd, func(ctx context.Context, s *session) error {
		trail, err := s.app.Follow(ctx, location, nil)
		if err != nil {
			return err
		}
		return printTrail(cmd.OutOrStdout(), trail)
	})
}

// printTrail writes one line per hop and returns the first flow error met.
func printTrail(w io.Writer, trail []app.Render) error {
	var flowErr error
	for _, r := range trail {
		switch {
		case r.View != "":
			fmt.Fprintf(w, "%s -> %s\n", r.Location, r.View)
		case r.Next.Hard:
			fmt.Fprintf(w, "%s => %s\n", r.Location, r.Next.String())
		default:
			fmt.Fprintf(w, "%s -> %s\n", r.Location, r.Next.String())
		}
		if r.Message != "" {
			fmt.Fprintf(w, "  ! %s\n", r.Message)
		}
		if r.Err != nil && flowErr == nil {
			flowErr = r.Err
		}
	}
	return flowErr
}

func reportFlowError(w io.Writer, err error) error {
	if fe, ok := auth.AsFlowError(err); ok {
		fmt.Fprintf(w, "  ! %s\n", fe.Message)
	}
	return err
}
