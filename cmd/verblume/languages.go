package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var languagesCmd = &cobra.Command{
	Use:     "languages",
	Aliases: []string{"language"},
	Short:   "Manage learnable languages",
}

var languagesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List built-in and custom languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, renderer, err := openStore(cmd)
		if err != nil {
			return err
		}
		langs, err := store.Languages()
		if err != nil {
			return err
		}
		return printOut(renderer.Languages(langs))
	},
}

var languageBase string

var languagesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		sig := NewSignalHandler(context.Background())
		sig.Start()
		defer sig.Stop()

		l, err := a.store.AddLanguage(sig.Context(), args[0], languageBase, a.planner)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Added %s %s (%s)\n", l.Emoji, l.Name, l.NativeName)
		if l.Greeting != "" {
			fmt.Printf("  %s: %s\n", l.Greeting, l.GreetingInBase)
		}
		return nil
	},
}

var languagesRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a custom language and its scores",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		if err := store.RemoveLanguage(args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Removed %s\n", args[0])
		return nil
	},
}

func init() {
	languagesAddCmd.Flags().StringVarP(&languageBase, "base", "b", "English", "language used for the greeting translation")
	languagesCmd.AddCommand(languagesListCmd)
	languagesCmd.AddCommand(languagesAddCmd)
	languagesCmd.AddCommand(languagesRemoveCmd)
	rootCmd.AddCommand(languagesCmd)
}
