// Package cli implements the agrofix command-line storefront.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agrofix/agrofix-backend/internal/cartsync"
	"github.com/agrofix/agrofix-backend/pkg/client"
	"github.com/agrofix/agrofix-backend/pkg/env"
	"github.com/agrofix/agrofix-backend/pkg/logger"
)

// Settings is read from ~/.agrofix/config.yaml, AGROFIX_CLI_* variables and
// flags, in increasing priority.
type Settings struct {
	Server   string `mapstructure:"server"`
	StateDir string `mapstructure:"state_dir"`
}

type session struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

type app struct {
	settings Settings
	out      io.Writer
	logg     *logger.Logger

	session session
	api     *client.Client
	cart    *cartsync.Cart
}

// NewRootCommand wires every subcommand. out receives command output.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out}
	v := viper.New()

	root := &cobra.Command{
		Use:           "agrofix",
		Short:         "AgroFix wholesale produce storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(v)
		},
	}
	root.SetOut(out)

	root.PersistentFlags().String("server", "http://localhost:5000", "API base URL")
	root.PersistentFlags().String("state-dir", defaultStateDir(), "directory holding the session and local cart")
	root.PersistentFlags().String("config", "", "config file (default $HOME/.agrofix/config.yaml)")
	_ = v.BindPFlag("server", root.PersistentFlags().Lookup("server"))
	_ = v.BindPFlag("state_dir", root.PersistentFlags().Lookup("state-dir"))
	_ = v.BindPFlag("config", root.PersistentFlags().Lookup("config"))

	root.AddCommand(
		a.productsCommand(),
		a.cartCommand(),
		a.orderCommand(),
		a.trackCommand(),
		a.registerCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.adminCommand(),
	)
	return root
}

// Execute runs the CLI against os.Args.
func Execute() {
	if err := NewRootCommand(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agrofix"
	}
	return filepath.Join(home, ".agrofix")
}

func (a *app) init(v *viper.Viper) error {
	v.SetEnvPrefix("AGROFIX_CLI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultStateDir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && v.GetString("config") != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&a.settings); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	a.logg = logger.New(logger.Options{
		ServiceName: "agrofix-cli",
		Level:       logger.ParseLevel(env.Get("AGROFIX_CLI_LOG_LEVEL", "warn")),
		Output:      os.Stderr,
		Format:      "console",
	})

	if err := a.loadSession(); err != nil {
		return err
	}
	api, err := client.New(a.settings.Server, client.WithToken(a.session.Token))
	if err != nil {
		return err
	}
	a.api = api

	cart, err := cartsync.Open(filepath.Join(a.settings.StateDir, "cart.json"), api, a.logg)
	if err != nil {
		return err
	}
	a.cart = cart
	return nil
}

func (a *app) sessionPath() string {
	return filepath.Join(a.settings.StateDir, "session.json")
}

func (a *app) loadSession() error {
	raw, err := os.ReadFile(a.sessionPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(raw, &a.session); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	return nil
}

func (a *app) saveSession() error {
	if err := os.MkdirAll(a.settings.StateDir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if a.session.Token == "" {
		err := os.Remove(a.sessionPath())
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	raw, err := json.Marshal(a.session)
	if err != nil {
		return err
	}
	return os.WriteFile(a.sessionPath(), raw, 0o600)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
