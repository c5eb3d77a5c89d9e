package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

var (
	situationLanguage string
	situationBase     string
)

var situationCmd = &cobra.Command{
	Use:     "situation <description>",
	Short:   "Get phrases and an example dialogue for a real-life situation",
	Example: `  verblume situation -l Spanish "I need to return a broken phone"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		sig := NewSignalHandler(context.Background())
		sig.Start()
		defer sig.Stop()

		resp, err := a.planner.SituationalResponse(sig.Context(), situationLanguage, situationBase, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if err := a.store.RecordActivity(); err != nil {
			return err
		}
		return printOut(a.renderer.Lesson(resp))
	},
}

func init() {
	situationCmd.Flags().StringVarP(&situationLanguage, "language", "l", "", "language to learn")
	situationCmd.Flags().StringVarP(&situationBase, "base", "b", "English", "language the advice is written in")
	rootCmd.AddCommand(situationCmd)
}
