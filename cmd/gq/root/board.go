package root

import (
	"context"

	"github.com/spf13/cobra"

	"gritquest/internal/config"
	"gritquest/internal/tui"
)

func newBoardCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, svc, cfg.CharacterID, cmd.OutOrStdout())
		},
	}

	return cmd
}
