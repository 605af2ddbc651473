package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ydrojd/assembler/cmd/asm"
)

var (
	cfgFile string
	logFile string
	watch   bool
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "asm",
	Short: "Assembler for the project's mixed 16/32-bit instruction set",
	Long: `asm turns assembly source into relocatable ELF32 object files.

It runs the full pipeline: lexing, parsing, multi-pass symbol
resolution and address assignment, instruction encoding, and ELF
writing.`,
}

// Execute adds all child commands to RootCmd and runs it.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.asmrc.yaml)")
	RootCmd.PersistentFlags().Bool("verbose", false, "enable verbose diagnostic logging")
	RootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write structured JSON logs to this file")
	RootCmd.PersistentFlags().BoolVar(&watch, "watch", false, "reload the config file automatically when it changes")
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))

	RootCmd.AddCommand(asm.BuildCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".asmrc")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}

	if watch {
		viper.OnConfigChange(func(e fsnotify.Event) {
			slog.Info("config file changed, reloaded", "path", e.Name, "op", e.Op.String())
		})
		viper.WatchConfig()
	}
}

// initLogging wires slog to stderr, fanning records out to a second
// JSON file handler when --log-file is given, and raising the level
// to debug when --verbose (or the matching config/env value) is set.
func initLogging() {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	handlers := []slog.Handler{slog.NewTextHandler(os.Stderr, opts)}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "could not open log file:", err)
		} else {
			handlers = append(handlers, slog.NewJSONHandler(f, opts))
		}
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))

	// Disable ANSI color codes when stderr isn't a terminal.
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		os.Setenv("NO_COLOR", "1")
	}
}
