package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/harunnryd/verblume/internal/model"

	"github.com/spf13/cobra"
)

var modelsCheck bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the configured models",
	Long:  `List every model with an initialized provider. Models whose provider has no API key are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfigForCommand(cmd)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		router, err := model.NewModelRouter(loaded.Models)
		if err != nil {
			return err
		}

		roles := map[string][]string{}
		roles[loaded.Models.Default] = append(roles[loaded.Models.Default], "default")
		roles[loaded.Models.Image] = append(roles[loaded.Models.Image], "image")
		if loaded.Models.Fallback != "" {
			roles[loaded.Models.Fallback] = append(roles[loaded.Models.Fallback], "fallback")
		}

		names := router.ListModels()
		if len(names) == 0 {
			fmt.Println("No models available")
			return nil
		}
		for _, name := range names {
			if r := roles[name]; len(r) > 0 {
				fmt.Printf("%s (%s)\n", name, strings.Join(r, ", "))
				continue
			}
			fmt.Println(name)
		}

		if modelsCheck {
			if err := router.Health(context.Background()); err != nil {
				return err
			}
			fmt.Println("✓ All providers healthy")
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsCheck, "check", false, "run provider health checks")
	rootCmd.AddCommand(modelsCmd)
}
