// Command viewer-session drives the viewer's session layer from a terminal:
// sign in, follow entry and share links, open routes through the guard and
// sign out. Durable credentials survive between invocations; the profile
// cache is scoped to a tab ID.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-viewer-session/internal/config"
	"github.com/jrsteele09/go-viewer-session/internal/logging"
)

type rootFlags struct {
	configFile string
	tab        string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "viewer-session",
		Short: "Viewer session client",
		Long: strings.TrimSpace(`
Viewer session client

Signs in against the viewer API, exchanges hospital entry links and guest
share links, and opens viewer routes through the route guard the same way
the browser client does.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "TOML config file")
	cmd.PersistentFlags().StringVar(&flags.tab, "tab", "", "Tab ID scoping the profile cache (overrides TAB_ID)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	cmd.AddCommand(
		newLoginCmd(flags),
		newEntryCmd(flags),
		newShareCmd(flags),
		newOpenCmd(flags),
		newStatusCmd(flags),
		newLogoutCmd(flags),
		newTabCmd(),
	)
	return cmd
}

// loadConfig reads the config file and applies flag overrides, then sets
// up logging.
func (f *rootFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, err
	}
	overrides := map[string]string{}
	if f.tab != "" {
		overrides["TAB_ID"] = f.tab
	}
	if f.logLevel != "" {
		overrides["LOG_LEVEL"] = f.logLevel
	}
	if len(overrides) > 0 {
		cfg = config.WithOverrides(cfg, overrides)
	}
	for _, kind := range []config.StoreKind{cfg.GetDurableStore(), cfg.GetVolatileStore()} {
		if !kind.Valid() {
			return nil, fmt.Errorf("unknown store %q", kind)
		}
	}
	logging.Setup(cfg.GetLogLevel(), cfg.GetEnv())
	return cfg, nil
}

// withSession runs fn against a freshly opened session and closes it.
func (f *rootFlags) withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	cfg, err := f.loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}
