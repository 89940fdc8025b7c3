// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the risbas CLI. Running risbas with no
// subcommand converts the exponent table into a basis-set file.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/risbas/internal/convert"
	"github.com/pdiddy/risbas/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Configuration keys, also readable from RISBAS_<KEY> environment variables.
const (
	keyInput       = "input"
	keyOutput      = "output"
	keyOutputPFunc = "output_pfunc"
	keyLogLevel    = "log_level"
)

// app carries the state shared by the command tree for one invocation.
type app struct {
	v      *viper.Viper
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		v:      viper.New(),
		logger: zap.NewNop(),
		stdout: stdout,
		stderr: stderr,
	}

	var pfunc boolValue

	rootCmd := &cobra.Command{
		Use:   "risbas",
		Short: "Build an RIS basis-set file from an exponent table",
		Long: `risbas reads a table of per-element exponents (radi_exponent.txt) and
writes a basis-set file with one uncontracted S function per element
(ris.bas). With --pfunc, every element except hydrogen also gets a P
function and the output goes to ris+p.bas.

Lines starting with '#' in the table are ignored. Of the remaining
whitespace-separated fields, the second is the element symbol and the
last is the exponent, which is copied to the output as written.`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(cmd); err != nil {
				return err
			}
			return a.initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg := a.conversionConfig(bool(pfunc))
			if _, err := convert.Run(cfg, a.logger, a.stdout); err != nil {
				a.logger.Error("conversion failed", zap.Error(err))
				return err
			}
			return nil
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./risbas.yaml or ~/.config/risbas/risbas.yaml)")
	rootCmd.Flags().VarP(&pfunc, "pfunc", "p", "add a P function for every element except hydrogen (yes/no, true/false, t/f, y/n, 1/0)")

	rootCmd.AddCommand(newTableCmd(a), newVersionCmd(a))
	return rootCmd
}

func (a *app) initConfig(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.SetConfigName("risbas")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "risbas"))
		}
	}

	a.v.SetDefault(keyInput, types.DefaultInputPath)
	a.v.SetDefault(keyOutput, types.DefaultOutputPath)
	a.v.SetDefault(keyOutputPFunc, types.DefaultPFuncOutputPath)
	a.v.SetDefault(keyLogLevel, "warn")

	a.v.SetEnvPrefix("RISBAS")
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	fmt.Fprintln(a.stderr, "Using config file:", a.v.ConfigFileUsed())
	return nil
}

func (a *app) initLogger() error {
	level, err := zap.ParseAtomicLevel(a.v.GetString(keyLogLevel))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", keyLogLevel, err)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(a.stderr),
		level,
	)
	a.logger = zap.New(core)
	return nil
}

// conversionConfig gathers the configured paths once so the converter never
// consults viper itself.
func (a *app) conversionConfig(pfunc bool) types.ConversionConfig {
	return types.ConversionConfig{
		InputPath:       a.v.GetString(keyInput),
		BaseOutputPath:  a.v.GetString(keyOutput),
		PFuncOutputPath: a.v.GetString(keyOutputPFunc),
		PFunction:       pfunc,
	}
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
