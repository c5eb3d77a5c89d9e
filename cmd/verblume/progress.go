package main

import (
	"fmt"
	"strconv"

	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/render"

	"github.com/spf13/cobra"
)

var progressLanguage string

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show streak, points and mastery",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, renderer, err := openStore(cmd)
		if err != nil {
			return err
		}

		streak, err := store.Streak()
		if err != nil {
			return err
		}
		points, err := store.Points()
		if err != nil {
			return err
		}
		perf, err := store.Performance()
		if err != nil {
			return err
		}
		completed, err := store.CompletedToday()
		if err != nil {
			return err
		}

		summary := render.Summary{
			Language:       progressLanguage,
			Streak:         streak,
			Points:         points,
			Performance:    perf,
			CompletedToday: completed,
		}
		if progressLanguage != "" {
			if summary.Mastery, err = store.Mastery(progressLanguage); err != nil {
				return err
			}
		}
		return printOut(renderer.Progress(summary))
	},
}

var progressScoreCmd = &cobra.Command{
	Use:   "score <language> <topic> <score>",
	Short: "Record a quiz score between 0 and 1",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return apperrors.InvalidInput(fmt.Sprintf("score %q is not a number", args[2]))
		}
		store, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		if err := store.RecordScore(args[0], args[1], score); err != nil {
			return err
		}
		if err := store.RecordActivity(); err != nil {
			return err
		}
		fmt.Printf("✓ Recorded %.0f%% for %s / %s\n", score*100, args[0], args[1])
		return nil
	},
}

var progressPointsCmd = &cobra.Command{
	Use:   "points <amount>",
	Short: "Award points",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.Atoi(args[0])
		if err != nil {
			return apperrors.InvalidInput(fmt.Sprintf("amount %q is not a whole number", args[0]))
		}
		store, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		total, err := store.AddPoints(amount)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Total points: %d\n", total)
		return nil
	},
}

var progressCompleteCmd = &cobra.Command{
	Use:   "complete <lesson-id>",
	Short: "Mark a lesson as completed today",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		if err := store.MarkCompleted(args[0]); err != nil {
			return err
		}
		if err := store.RecordActivity(); err != nil {
			return err
		}
		fmt.Printf("✓ Completed %s\n", args[0])
		return nil
	},
}

func init() {
	progressCmd.Flags().StringVarP(&progressLanguage, "language", "l", "", "show mastery for this language")
	progressCmd.AddCommand(progressScoreCmd)
	progressCmd.AddCommand(progressPointsCmd)
	progressCmd.AddCommand(progressCompleteCmd)
	rootCmd.AddCommand(progressCmd)
}
