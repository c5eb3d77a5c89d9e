package main

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/progress"

	"github.com/spf13/cobra"
)

var (
	topicsLanguage string
	topicsBase     string
	topicsAll      bool
)

var topicsCmd = &cobra.Command{
	Use:     "topics [category]",
	Short:   "Show a category's topics translated into the target language",
	Example: `  verblume topics -l Spanish Restaurant
  verblume topics -l Spanish --all`,
	Args: func(cmd *cobra.Command, args []string) error {
		if topicsAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(topicsLanguage) == "" {
			return apperrors.InvalidInput("--language is required")
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		cats, err := a.store.Categories()
		if err != nil {
			return err
		}

		sig := NewSignalHandler(context.Background())
		sig.Start()
		defer sig.Stop()

		if topicsAll {
			return prefetchAll(sig.Context(), a, cats)
		}

		var topics []string
		found := false
		for _, c := range cats {
			if strings.EqualFold(c.Name, args[0]) {
				topics, found = c.SubCategories, true
				break
			}
		}
		if !found {
			return apperrors.NotFound(fmt.Sprintf("category %q not found", args[0]))
		}

		details, err := a.planner.EnrichTopics(sig.Context(), topics, topicsLanguage, topicsBase)
		if err != nil {
			return err
		}
		return printOut(a.renderer.Topics(details))
	},
}

func prefetchAll(ctx context.Context, a *app, cats []progress.Category) error {
	byName := make(map[string][]string, len(cats))
	for _, c := range cats {
		byName[c.Name] = c.SubCategories
	}
	details, err := a.planner.PrefetchTopics(ctx, byName, topicsLanguage, topicsBase)
	if err != nil {
		return err
	}
	for _, c := range cats {
		fmt.Printf("%s %s\n", c.Icon, c.Name)
		if err := printOut(a.renderer.Topics(details[c.Name])); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	topicsCmd.Flags().StringVarP(&topicsLanguage, "language", "l", "", "language to learn")
	topicsCmd.Flags().StringVarP(&topicsBase, "base", "b", "English", "language of the pronunciation guide")
	topicsCmd.Flags().BoolVar(&topicsAll, "all", false, "translate the topics of every category")
	rootCmd.AddCommand(topicsCmd)
}
