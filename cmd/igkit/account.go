package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"igkit/pkg/errors"
	"igkit/pkg/instagram"
	"igkit/pkg/store"
)

var asUser string

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <user-pk>",
	Short: "Fetch account info for a user primary key",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ig *instagram.Instagram, args []string) *errors.Error {
		body, err := ig.Account.GetAccount(args[0])
		if err != nil {
			return err
		}
		return printJSON(body)
	}),
}

// followersCmd represents the followers command
var followersCmd = &cobra.Command{
	Use:   "followers <user-pk>",
	Short: "Fetch one page of a user's followers",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ig *instagram.Instagram, args []string) *errors.Error {
		page, err := ig.Account.GetFollowers(args[0], "")
		if err != nil {
			return err
		}
		for _, user := range page.Users {
			if printErr := printJSON(user); printErr != nil {
				return printErr
			}
		}
		if page.NextMaxID != "" {
			fmt.Fprintf(os.Stderr, "next page: %s\n", page.NextMaxID)
		}
		return nil
	}),
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search profiles by name",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ig *instagram.Instagram, args []string) *errors.Error {
		users, err := ig.Search.Profiles(args[0])
		if err != nil {
			return err
		}
		for _, user := range users {
			if printErr := printJSON(user); printErr != nil {
				return printErr
			}
		}
		return nil
	}),
}

// inboxCmd represents the inbox command
var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Fetch the direct message inbox",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ig *instagram.Instagram, args []string) *errors.Error {
		inbox, err := ig.Direct.GetInbox()
		if err != nil {
			return err
		}
		return printJSON(inbox)
	}),
}

func init() {
	for _, cmd := range []*cobra.Command{infoCmd, followersCmd, searchCmd, inboxCmd} {
		cmd.Flags().StringVarP(&asUser, "user", "u", "", "stored session to use (required)")
		_ = cmd.MarkFlagRequired("user")
		rootCmd.AddCommand(cmd)
	}
}

// withSession wraps a data command with session restore and error mapping.
func withSession(fn func(*instagram.Instagram, []string) *errors.Error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		manager, err := store.NewManager()
		if err != nil {
			return fmt.Errorf("failed to initialize session store: %w", err)
		}

		ig, err := restoreClient(manager, asUser)
		if err != nil {
			return err
		}

		if apiErr := fn(ig, args); apiErr != nil {
			return fmt.Errorf("%s", apiErr.Message)
		}

		// Persist any state the server rotated during the calls
		if data, err := ig.SessionData(); err == nil {
			record := &store.Record{
				Username:   asUser,
				InstanceID: asUser,
				PrimaryKey: ig.Session().Snapshot().PrimaryKey,
				Data:       data,
			}
			_ = manager.Store(record)
		}
		return nil
	}
}

func printJSON(raw json.RawMessage) *errors.Error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return errors.Parsing(0, "response is not valid JSON")
	}
	fmt.Println(buf.String())
	return nil
}
