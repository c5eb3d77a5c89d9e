package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"category"},
	Short:   "Manage topic categories",
}

var categoriesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, renderer, err := openStore(cmd)
		if err != nil {
			return err
		}
		cats, err := store.Categories()
		if err != nil {
			return err
		}
		return printOut(renderer.Categories(cats))
	},
}

var categoryIcon string

var categoriesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom category with generated topics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		sig := NewSignalHandler(context.Background())
		sig.Start()
		defer sig.Stop()

		c, err := a.store.AddCategory(sig.Context(), args[0], categoryIcon, a.planner)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Added %s %s with %d topic(s)\n", c.Icon, c.Name, len(c.SubCategories))
		return nil
	},
}

var categoriesRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a category",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		if err := store.RemoveCategory(args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Removed %s\n", args[0])
		return nil
	},
}

var categoriesAddTopicCmd = &cobra.Command{
	Use:   "add-topic <category> <topic>",
	Short: "Add a topic to a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		if err := store.AddTopic(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("✓ Added %q to %s\n", args[1], args[0])
		return nil
	},
}

var categoriesRemoveTopicCmd = &cobra.Command{
	Use:   "remove-topic <category> <topic>",
	Short: "Remove a topic from a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		if err := store.RemoveTopic(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("✓ Removed %q from %s\n", args[1], args[0])
		return nil
	},
}

func init() {
	categoriesAddCmd.Flags().StringVar(&categoryIcon, "icon", "📚", "emoji shown next to the category")
	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesAddCmd)
	categoriesCmd.AddCommand(categoriesRemoveCmd)
	categoriesCmd.AddCommand(categoriesAddTopicCmd)
	categoriesCmd.AddCommand(categoriesRemoveTopicCmd)
	rootCmd.AddCommand(categoriesCmd)
}
