package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gritquest/internal/config"
	"gritquest/internal/engine"
	"gritquest/internal/ui"
)

func newTrackCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track <module> <action>",
		Short: "Record an activity event and progress matching quests",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("module and action are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			results, err := svc.ProgressQuest(ctx, cfg.CharacterID, args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No pending quests match this event."))
				return nil
			}

			catalog := engine.QuestCatalog()
			for _, r := range results {
				title := r.Quest.CatalogID
				if def, ok := catalog[r.Quest.CatalogID]; ok {
					title = def.Title
				}
				if r.Completed {
					fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconDone+" Completed"), title,
						ui.Gold.Render(fmt.Sprintf("+%d XP", r.XPAwarded)))
					if r.QuestlineStep > 0 {
						fmt.Fprintf(out, "  %s questline advanced to step %d\n", ui.Muted.Render("↳"), r.QuestlineStep)
					}
				} else {
					fmt.Fprintf(out, "%s %s %s\n", ui.Warn.Render("…"), title,
						ui.Muted.Render(fmt.Sprintf("%d/%d", r.Quest.CurrentCount, r.Quest.TargetCount)))
				}
			}

			return nil
		},
	}

	return cmd
}
