package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gritquest/internal/config"
	"gritquest/internal/ui"
)

func newLogCmd(cfg config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := svc.LogRepo().ListRecent(ctx, cfg.CharacterID, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Activity"))
			if len(entries) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No activity yet."))
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s %s %s %s\n",
					ui.LogIcon(e.Type),
					ui.Muted.Render(e.CreatedAt.Local().Format("Jan 02 15:04")),
					e.Title,
					ui.Muted.Render(e.Description))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")

	return cmd
}
