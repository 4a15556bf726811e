package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Manage session reminders",
}

var remindScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one reminder scan",
	Long: `Scan upcoming sessions and send every due reminder that has not
been sent yet. Safe to run repeatedly; sent reminders are never repeated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		release, acquired, err := container.RunLock.Acquire(cmd.Context(), "reminder-scan", time.Minute)
		if err != nil {
			return err
		}
		if !acquired {
			fmt.Println("Another scan is in progress.")
			return nil
		}
		defer release()

		result, err := container.ScanHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("reminder scan failed: %w", err)
		}

		fmt.Printf("Scanned %d sessions: %d due, %d sent, %d already sent, %d failures\n",
			result.SessionsScanned,
			result.RemindersDue,
			result.RemindersSent,
			result.AlreadySent,
			result.SendFailures,
		)
		return nil
	},
}

func init() {
	remindCmd.AddCommand(remindScanCmd)
}
