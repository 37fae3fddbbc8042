package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-viewer-session/credentials"
	"github.com/jrsteele09/go-viewer-session/token"
)

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session without contacting the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withSession(cmd, func(ctx context.Context, s *session) error {
				return renderStatus(ctx, cmd.OutOrStdout(), s, time.Now())
			})
		},
	}
}

func renderStatus(ctx context.Context, w io.Writer, s *session, now time.Time) error {
	snap, err := s.creds.Snapshot(ctx)
	if err != nil {
		return err
	}
	current := s.state.Get()

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Colors: text.Colors{text.Bold}}})

	tw.AppendRow(table.Row{"API", s.cfg.GetAPIBaseURL()})
	tw.AppendRow(table.Row{"Tab", s.cfg.GetTabID()})
	tw.AppendRow(table.Row{"Stores", fmt.Sprintf("%s / %s", s.cfg.GetDurableStore(), s.cfg.GetVolatileStore())})
	tw.AppendSeparator()

	tw.AppendRow(table.Row{"Token", orNone(snap.HasToken, credentials.RedactToken(snap.Token))})
	tw.AppendRow(table.Row{"Expires", tokenExpiry(snap, now)})
	tw.AppendRow(table.Row{"Hospital", orNone(snap.HasLabel, snap.Label.String())})
	tw.AppendSeparator()

	user := "-"
	if current.User != nil {
		user = fmt.Sprintf("%s <%s> (%s)", current.User.DisplayName, current.User.Email, current.User.ID)
	}
	tw.AppendRow(table.Row{"User", user})
	tw.AppendRow(table.Row{"Enabled", current.Enabled})
	tw.Render()
	return nil
}

func tokenExpiry(snap credentials.Snapshot, now time.Time) string {
	if !snap.HasToken {
		return "-"
	}
	info, err := token.Peek(snap.Token)
	switch {
	case errors.Is(err, token.ErrInvalidToken):
		return "opaque"
	case err != nil:
		return err.Error()
	case info.ExpiresAt.IsZero():
		return "never"
	case info.Expired(now):
		return info.ExpiresAt.Format(time.RFC3339) + " (expired)"
	}
	return info.ExpiresAt.Format(time.RFC3339)
}

func orNone(ok bool, v string) string {
	if !ok {
		return "-"
	}
	return v
}
