package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/olivierh59500/particle-life-field/internal/config"
	"github.com/olivierh59500/particle-life-field/internal/observability"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

// flagKeys maps command-line flags onto configuration keys. A flag only
// overrides the file and environment when it was set explicitly.
var flagKeys = map[string]string{
	"log-level":   "logger.level",
	"log-file":    "logger.log_file",
	"particles":   "simulation.particles",
	"types":       "simulation.num_types",
	"seed":        "simulation.seed",
	"shape":       "cursor.shape",
	"mode":        "cursor.mode",
	"mood-source": "mood.source",
	"bridge-url":  "mood.bridge_url",
	"variant":     "mood.synth_variant",
	"listen":      "bridge.listen",
	"models-url":  "mood.models_url",
}

// app carries state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

// NewRootCmd builds the command tree with a fresh viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "particlefield",
		Short:         "Particle life with a mood-driven force field and a shaped selection cursor.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initialize(cmd.Flags()); err != nil {
				return err
			}
			observability.GetLogger().Info("Starting particlefield",
				zap.String("version", Version),
				zap.String("command", cmd.Name()))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWindow(cmd.Context())
		},
	}
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./particlefield.toml)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "also write JSON logs to this rotated file")
	addRunFlags(root.Flags())

	root.AddCommand(newRunCmd(a), newBridgeCmd(a), newModelsCmd(a))
	return root
}

// Execute runs the command tree with ctx, which should be cancelled on
// SIGINT/SIGTERM.
func Execute(ctx context.Context) error {
	defer observability.Sync()
	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		return err
	}
	return nil
}

// initialize reads the config file and environment, applies explicit
// flags, validates, and starts the logger.
func (a *app) initialize(flags *pflag.FlagSet) error {
	config.SetDefaults(a.v)
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("particlefield")
		a.v.SetConfigType("toml")
	}
	a.v.SetEnvPrefix("PARTICLEFIELD")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := config.NewConfigFromViper(a.v)
	if err != nil {
		observability.InitializeLogger(config.NewDefaultConfig().Logger)
		return err
	}
	a.cfg = cfg
	observability.InitializeLogger(cfg.Logger)
	return nil
}
