package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage the rolling session calendar",
}

var scheduleExtendCmd = &cobra.Command{
	Use:   "extend",
	Short: "Extend the calendar of every active class",
	Long: `Run one extension pass: every active class whose forward buffer is
below the low-water mark gets its next block of sessions scheduled.
Safe to run repeatedly; a full calendar is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		release, acquired, err := container.RunLock.Acquire(cmd.Context(), "schedule-extend", 10*time.Minute)
		if err != nil {
			return err
		}
		if !acquired {
			fmt.Println("Another extension run is in progress.")
			return nil
		}
		defer release()

		result, err := container.ExtendHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("extension run failed: %w", err)
		}

		fmt.Printf("Processed %d classes: %d extended, %d skipped, %d failed, %d sessions created\n",
			result.ClassesProcessed,
			result.ClassesExtended,
			result.ClassesSkipped,
			result.ClassesFailed,
			result.SessionsCreated,
		)
		return nil
	},
}

var scheduleListCmd = &cobra.Command{
	Use:   "list <class-id>",
	Short: "List a class's upcoming sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid class id: %w", err)
		}

		sessions, err := container.UpcomingSessions.Handle(cmd.Context(), classID)
		if err != nil {
			return err
		}

		if len(sessions) == 0 {
			fmt.Println("No upcoming sessions.")
			return nil
		}

		for _, s := range sessions {
			tier := "paid"
			if s.IsFree() {
				tier = "free"
			}
			fmt.Printf("%s  %-9s  %-11s  %s  item=%s\n",
				s.ScheduledAt().Format(time.RFC3339),
				s.Slot(),
				s.Status(),
				tier,
				s.ContentItemRef(),
			)
		}
		return nil
	},
}

func init() {
	scheduleCmd.AddCommand(scheduleExtendCmd)
	scheduleCmd.AddCommand(scheduleListCmd)
}
