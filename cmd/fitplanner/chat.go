// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Send one message through the planner",
	Long: `Chat runs a single message through the full pipeline and prints the
response. Use --user to address a stored profile and --json for the
complete structured response instead of the narrative reply.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	asJSON, _ := cmd.Flags().GetBool("json")
	message := strings.Join(args, " ")

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	resp, err := a.planner.Process(cmd.Context(), message, userID)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if resp.Reply != "" {
		fmt.Println(resp.Reply)
	}
	if resp.Knowledge != nil {
		for _, sec := range resp.Knowledge.Sections {
			fmt.Printf("\n## %s\n%s\n", sec.Title, sec.Content)
		}
	}
	if len(resp.Disclaimers) > 0 {
		fmt.Println()
		for _, d := range resp.Disclaimers {
			fmt.Printf("Note: %s\n", d)
		}
	}
	return nil
}

func init() {
	chatCmd.Flags().String("user", "", "user id for profile storage (default anonymous)")
	chatCmd.Flags().Bool("json", false, "print the full structured response as JSON")

	rootCmd.AddCommand(chatCmd)
}
