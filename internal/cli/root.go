// Package cli implements the vecfield command.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zephyrtronium/vecfield/internal/config"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
}

// NewRootCmd creates the vecfield command and its subcommands.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	root := &cobra.Command{
		Use:   "vecfield",
		Short: "Evaluate and simulate vector field expressions",
		Long: `vecfield evaluates arithmetic expressions over single-letter identifiers and
simulates points moving through vector fields whose axes are such expressions.

Expressions use + - * / ^, parentheses, and the functions sin, cos, sign, max,
and min. Identifiers are case-insensitive letters; x, y, and z are the
coordinates of a point and every other letter is a parameter.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			used, err := config.ReadFile(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			if err := initLogging(cmd, a.v.GetString("log-level")); err != nil {
				return err
			}
			if used != "" {
				log.Debug().Str("file", used).Msg("using config file")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./vecfield.yaml or $HOME/.vecfield/config.yaml)")
	root.PersistentFlags().String("log-level", "disabled", "log level (trace, debug, info, warn, error, disabled)")
	root.PersistentFlags().String("catalogue", "", "preset catalogue file (.txt or .yaml) in place of the built-in presets")
	_ = a.v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("catalogue", root.PersistentFlags().Lookup("catalogue"))

	root.AddCommand(
		newEvalCmd(),
		newPostfixCmd(),
		newPresetsCmd(a),
		newRunCmd(a),
	)
	return root
}

// Execute runs the vecfield command with the process's arguments. It stops
// any running simulation on interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// initLogging configures the global logger.
func initLogging(cmd *cobra.Command, level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.Disabled
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
	return nil
}
