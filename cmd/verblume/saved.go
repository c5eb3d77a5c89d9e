package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var savedCmd = &cobra.Command{
	Use:     "saved",
	Aliases: []string{"bookmarks"},
	Short:   "Manage saved lessons",
}

var savedListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved lessons, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, renderer, err := openStore(cmd)
		if err != nil {
			return err
		}
		saved, err := store.SavedLessons()
		if err != nil {
			return err
		}
		return printOut(renderer.SavedLessons(saved))
	},
}

var savedShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, renderer, err := openStore(cmd)
		if err != nil {
			return err
		}
		l, err := store.SavedLesson(args[0])
		if err != nil {
			return err
		}
		payload, err := l.Payload()
		if err != nil {
			return err
		}
		return printOut(renderer.Lesson(payload))
	},
}

var savedRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a saved lesson",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		if err := store.RemoveLesson(args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Removed %s\n", args[0])
		return nil
	},
}

func init() {
	savedCmd.AddCommand(savedListCmd)
	savedCmd.AddCommand(savedShowCmd)
	savedCmd.AddCommand(savedRemoveCmd)
	rootCmd.AddCommand(savedCmd)
}
