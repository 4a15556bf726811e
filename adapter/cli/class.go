package cli

import (
	"fmt"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var classCmd = &cobra.Command{
	Use:   "class",
	Short: "Manage live classes",
}

var classCreateCmd = &cobra.Command{
	Use:   "create <content-source-ref>",
	Short: "Create a live class from a content catalog",
	Long: `Create a live class backed by an ordered content catalog and
schedule its initial calendar.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceRef, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid content source ref: %w", err)
		}

		result, err := container.CreateHandler.Handle(cmd.Context(), sourceRef)
		if err != nil {
			return fmt.Errorf("failed to create class: %w", err)
		}

		fmt.Printf("Created class %s with %d sessions\n", result.Class.ID(), result.SessionsCreated)
		return nil
	},
}

var classPauseCmd = &cobra.Command{
	Use:   "pause <class-id>",
	Short: "Stop extending and reminding a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setClassActive(cmd, args[0], false)
	},
}

var classResumeCmd = &cobra.Command{
	Use:   "resume <class-id>",
	Short: "Resume extending and reminding a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setClassActive(cmd, args[0], true)
	},
}

func setClassActive(cmd *cobra.Command, rawID string, active bool) error {
	classID, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid class id: %w", err)
	}

	class, err := container.ClassRepo.FindByID(cmd.Context(), classID)
	if err != nil {
		return err
	}
	if class == nil {
		return domain.ErrClassNotFound
	}

	if active {
		class.Activate()
	} else {
		class.Deactivate()
	}

	if err := container.ClassRepo.Save(cmd.Context(), class); err != nil {
		return err
	}

	state := "paused"
	if active {
		state = "active"
	}
	fmt.Printf("Class %s is now %s\n", classID, state)
	return nil
}

func init() {
	classCmd.AddCommand(classCreateCmd)
	classCmd.AddCommand(classPauseCmd)
	classCmd.AddCommand(classResumeCmd)
}
