/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// App carries the state shared by every command of one invocation
type App struct {
	cfgFile string
	v       *viper.Viper
	logger  *zap.Logger
}

// NewRootCmd builds the command tree, each call returns an independent tree
func NewRootCmd() *cobra.Command {
	app := &App{v: viper.New(), logger: zap.NewNop()}
	rootCmd := &cobra.Command{
		Use:   "meshseq",
		Short: "Tet mesh surface extraction and file sequence detection",
		Long: `
Decodes SLAC style tetrahedral connectivity (interior and exterior records) into
linear or quadratic triangle surfaces, and groups numbered files into sequences.

meshseq decode -q mesh.yaml
meshseq sequence ./frames`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.initConfig(cmd); err != nil {
				return err
			}
			return app.initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = app.logger.Sync()
		},
	}
	rootCmd.PersistentFlags().StringVar(&app.cfgFile, "config", "", "config file (default is $HOME/.meshseq.yaml)")
	rootCmd.PersistentFlags().String("log", "warn", "log level: debug, info, warn, error or none")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging, same as --log debug")
	_ = app.v.BindPFlag("log", rootCmd.PersistentFlags().Lookup("log"))
	_ = app.v.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(app.newDecodeCmd(), app.newSequenceCmd(), app.newWatchCmd())
	return rootCmd
}

// Execute runs the root command, interrupts cancel the command context
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func (app *App) initConfig(cmd *cobra.Command) error {
	v := app.v
	if app.cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(app.cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		// Search config in home directory with name ".meshseq" (without extension).
		v.AddConfigPath(home)
		v.SetConfigName(".meshseq")
	}
	v.SetEnvPrefix("MESHSEQ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound && app.cfgFile == "" {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func (app *App) initLogger() error {
	level := strings.ToLower(app.v.GetString("log"))
	if app.v.GetBool("verbose") {
		level = "debug"
	}
	if level == "none" {
		app.logger = zap.NewNop()
		return nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("unknown log level %q", level)
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := config.Build()
	if err != nil {
		return err
	}
	app.logger = logger
	if used := app.v.ConfigFileUsed(); used != "" {
		app.logger.Debug("Using config file", zap.String("path", used))
	}
	return nil
}
