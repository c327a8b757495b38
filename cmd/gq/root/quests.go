package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gritquest/internal/config"
	"gritquest/internal/engine"
	"gritquest/internal/ui"
)

func newQuestsCmd(cfg config.Config) *cobra.Command {
	var weekly bool

	cmd := &cobra.Command{
		Use:   "quests",
		Short: "Generate and list quests for the current period",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			now := time.Now().UTC()
			out := cmd.OutOrStdout()

			scope := engine.ScopeDaily
			periodKey := now.Format("2006-01-02")
			if weekly {
				scope = engine.ScopeWeekly
				periodKey = engine.WeekStart(now).Format("2006-01-02")
				if _, err := svc.GenerateWeeklyQuests(ctx, cfg.CharacterID, now); err != nil {
					return err
				}
			} else {
				if _, err := svc.GenerateDailyQuests(ctx, cfg.CharacterID, now); err != nil {
					return err
				}
			}

			quests, err := svc.QuestRepo().ListForPeriod(ctx, cfg.CharacterID, string(scope), periodKey)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, ui.Heading(ui.IconQuest, fmt.Sprintf("%s quests (%s)", scope, periodKey)))
			catalog := engine.QuestCatalog()
			for _, q := range quests {
				title := q.CatalogID
				if def, ok := catalog[q.CatalogID]; ok {
					title = def.Title
				}
				mark := ui.Warn.Render(fmt.Sprintf("%d/%d", q.CurrentCount, q.TargetCount))
				if q.Status == "completed" {
					mark = ui.Good.Render(ui.IconDone)
				}
				fmt.Fprintf(out, "- [%d] %s %s %s\n", q.ID, title, mark,
					ui.Muted.Render(fmt.Sprintf("(%s/%s, +%d XP)", q.SourceModule, q.SourceAction, q.XPReward)))
			}

			lines, err := svc.QuestlineRepo().ListAll(ctx, cfg.CharacterID)
			if err != nil {
				return err
			}
			if len(lines) > 0 {
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.H2.Render("📜 Questlines"))
				for _, ql := range lines {
					title := ql.Code
					if def := engine.GetQuestlineDef(ql.Code); def != nil {
						title = def.Title
					}
					state := fmt.Sprintf("step %d/%d", ql.CurrentStep, ql.TotalSteps)
					if ql.CompletedAt != nil {
						state = ui.Good.Render("complete")
					}
					fmt.Fprintf(out, "- %s %s\n", title, ui.Muted.Render(state))
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&weekly, "weekly", "w", false, "Show weekly quests instead of daily")

	return cmd
}
