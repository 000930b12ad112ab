// Package cli implements plannerctl, a terminal client for the planner API.
package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/99designs/keyring"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adanyl0v/go-planner/pkg/client"
)

var errNothingToUpdate = errors.New("nothing to update, pass at least one flag")

type app struct {
	tokens tokenStore
	logger zerolog.Logger
	v      *viper.Viper
}

// NewRootCommand builds the plannerctl command tree. The token is kept
// in ring and diagnostics go to logger.
func NewRootCommand(ring keyring.Keyring, logger zerolog.Logger) *cobra.Command {
	a := &app{
		tokens: tokenStore{ring: ring},
		logger: logger,
		v:      viper.New(),
	}

	root := &cobra.Command{
		Use:           "plannerctl",
		Short:         "Manage planner tasks, notes and projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				a.logger = a.logger.Level(zerolog.DebugLevel)
			} else {
				a.logger = a.logger.Level(zerolog.WarnLevel)
			}

			path, _ := cmd.Flags().GetString("config")
			return readConfig(a.v, path)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", DefaultConfigPath(), "path to the config file")
	flags.String(keyServer, "", "API base URL (default "+defaultServer+")")
	flags.BoolP("verbose", "v", false, "log failed requests")
	_ = a.v.BindPFlag(keyServer, flags.Lookup(keyServer))

	root.AddCommand(
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.tasksCommand(),
		a.notesCommand(),
		a.projectsCommand(),
	)
	return root
}

func (a *app) server() string {
	return a.v.GetString(keyServer)
}

// client returns an API client authorized with the stored token.
func (a *app) client() (*client.Client, error) {
	token, err := a.tokens.get()
	if err != nil {
		return nil, err
	}
	return client.New(a.server(), client.WithToken(token), client.WithLogger(a.logger)), nil
}

func (a *app) loginCommand() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the access token issued by the web sign-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token = strings.TrimSpace(token)
			c := client.New(a.server(), client.WithToken(token), client.WithLogger(a.logger))

			user, err := c.Profile(cmd.Context())
			if err != nil {
				return fmt.Errorf("token rejected: %w", err)
			}
			if err = a.tokens.set(token); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "access token from the sign-in redirect")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func (a *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.tokens.remove(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *app) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			user, err := c.Profile(cmd.Context())
			if err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), user)
			return nil
		},
	}
}

// parseDate reads a YYYY-MM-DD date as local midnight.
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// optionalString returns the flag value if it was set on the command line.
func optionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func optionalDate(cmd *cobra.Command, name string) (*time.Time, error) {
	s := optionalString(cmd, name)
	if s == nil {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
