// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohanganesh3/fitplanner/pkg/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect or replace stored user profiles",
}

var profileGetCmd = &cobra.Command{
	Use:   "get [user-id]",
	Short: "Print a stored profile as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := newStore(loadConfig().Profile)
		if err != nil {
			return err
		}
		defer closeStore()

		p, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if p.IsEmpty() {
			return fmt.Errorf("no profile stored for %q", args[0])
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set [user-id] [profile-json]",
	Short: "Replace a stored profile with the given JSON record",
	Long: `Set replaces the stored profile wholesale. Fields absent from the
given record are forgotten, matching how the extraction pipeline stores
profiles.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p types.Profile
		if err := json.Unmarshal([]byte(args[1]), &p); err != nil {
			return fmt.Errorf("parse profile JSON: %w", err)
		}

		store, closeStore, err := newStore(loadConfig().Profile)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := store.Put(cmd.Context(), args[0], p); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Profile stored for %s\n", args[0])
		return nil
	},
}

var profileQuestionsCmd = &cobra.Command{
	Use:   "questions [user-id]",
	Short: "Suggest questions that would fill gaps in a stored profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		context, _ := cmd.Flags().GetString("context")

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		questions, err := a.planner.ProfileQuestions(cmd.Context(), args[0], context)
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			fmt.Fprintln(os.Stderr, "No questions suggested.")
			return nil
		}
		for _, q := range questions {
			fmt.Println("-", q)
		}
		return nil
	},
}

func init() {
	profileQuestionsCmd.Flags().String("context", "", "conversation context to tailor the questions")

	profileCmd.AddCommand(profileGetCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileQuestionsCmd)
	rootCmd.AddCommand(profileCmd)
}
