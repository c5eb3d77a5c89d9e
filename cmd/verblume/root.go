package main

import (
	"fmt"
	"os"

	"github.com/harunnryd/verblume/internal/config"
	"github.com/harunnryd/verblume/internal/logger"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	cfgFile      string
	outputFormat string
	cfg          *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "verblume",
	Short: "VerbLume language lesson engine",
	Long:  `VerbLume generates structured language lessons, quizzes and conversations with generative models.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd)
		if err != nil {
			return err
		}

		logger.Setup(cfg.Server.LogLevel)
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.verblume/config.yaml)")
	rootCmd.PersistentFlags().String("server.log_level", config.DefaultServerLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("models.default", config.DefaultModelDefault, "text model used for lessons")
	rootCmd.PersistentFlags().String("models.image", config.DefaultModelImage, "image model used for illustrations")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")
}
