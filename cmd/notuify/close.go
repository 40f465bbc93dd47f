package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/notui/internal/dbus"
)

var closeCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Close a notification by ID",
	Long: `Ask the daemon to close a notification.

The ID is the one returned by 'notuify send --print-id'. Closing an ID
that is no longer displayed or waiting is not an error.

Examples:
  # Send and later close
  id=$(notuify send -p "Recording" "Microphone is live")
  notuify close "$id"`,
	Args: cobra.ExactArgs(1),
	RunE: runClose,
}

func init() {
	rootCmd.AddCommand(closeCmd)
}

func runClose(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid notification ID %q: %w", args[0], err)
	}

	client, err := dbus.NewClient()
	if err != nil {
		return err
	}

	if err := client.CloseNotification(uint32(id)); err != nil {
		return err
	}

	logger.Debug("close requested", "id", id)
	return nil
}
