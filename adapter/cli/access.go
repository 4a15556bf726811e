package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var accessCmd = &cobra.Command{
	Use:   "access",
	Short: "Inspect access tiers",
}

var accessPreviewCmd = &cobra.Command{
	Use:   "preview <class-id>",
	Short: "Show the free/paid split of a class's catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid class id: %w", err)
		}

		items, err := container.AccessPreview.Handle(cmd.Context(), classID)
		if err != nil {
			return err
		}

		for _, item := range items {
			tier := "paid"
			if item.IsFree {
				tier = "free"
			}
			fmt.Printf("%3d  %-4s  %s  %s\n", item.OrdinalPosition, tier, item.ItemID, item.Title)
		}
		return nil
	},
}

func init() {
	accessCmd.AddCommand(accessPreviewCmd)
}
