package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/fingerkin/internal/config"
	"github.com/san-kum/fingerkin/internal/finger"
	"github.com/san-kum/fingerkin/internal/logging"
	"github.com/san-kum/fingerkin/internal/tui"
)

var (
	dataDir    string
	logLevel   string
	logPretty  bool
	configFile string
	preset     string

	frame   string
	initial []float64
	output  string
	logger  = zerolog.Nop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "fingerkin",
		Short:         "tendon-driven finger kinematics lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel, logPretty)
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fingerkin", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "log-pretty", true, "human-readable log output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "finger config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "finger preset")

	rootCmd.AddCommand(
		fkCommand(),
		ikCommand(),
		jacobianCommand(),
		tendonCommand(),
		sweepCommand(),
		workspaceCommand(),
		listCommand(),
		plotCommand(),
		exportSVGCommand(),
		exportPNGCommand(),
		deleteCommand(),
		presetsCommand(),
		viewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the finger configuration: preset first, then the
// config file on top of it.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	return cfg, nil
}

// buildModel loads the configuration and builds the model. Joint angles
// given as positional arguments replace the configured ones.
func buildModel(args []string) (*finger.Model, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	m, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}

	if len(args) > 0 {
		theta, err := parseFloats(args)
		if err != nil {
			return nil, nil, err
		}
		if err := m.SetJointAngles(theta); err != nil {
			return nil, nil, err
		}
	}

	logger.Debug().
		Str("name", cfg.Name).
		Int("joints", m.NumJoints()).
		Int("tendons", m.NumTendons()).
		Floats64("link_lengths", m.LinkLengths()).
		Msg("model built")
	return m, cfg, nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func bodyFrame() (bool, error) {
	switch frame {
	case "space", "":
		return false, nil
	case "body":
		return true, nil
	}
	return false, fmt.Errorf("unknown frame %q (space, body)", frame)
}

func presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list finger presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Printf("  %-8s %d joints, %d tendons, links %v\n", name, p.Joints, p.Tendons, p.LinkLengths)
			}
			return nil
		},
	}
}

func viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [theta...]",
		Short: "interactive terminal viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, cfg, err := buildModel(args)
			if err != nil {
				return err
			}
			return tui.Run(m, cfg.Name)
		},
	}
}
