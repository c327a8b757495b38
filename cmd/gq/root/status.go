package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gritquest/internal/config"
	"gritquest/internal/engine"
	"gritquest/internal/ui"
)

func newStatusCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the character sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			c, err := svc.CharacterRepo().GetOrCreate(ctx, cfg.CharacterID)
			if err != nil {
				return err
			}
			info := engine.LevelFromXP(c.XPTotal)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Character"))
			fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%d  %s %d/%d",
				info.Level, ui.ProgressBar(info.Progress(), 20), info.CurrentLevelXP, info.NextLevelXP)))
			fmt.Fprintln(out, ui.LabelValue("Total XP", c.XPTotal))
			fmt.Fprintln(out, ui.LabelValue("Perk points", c.PerkPoints))
			if c.Title != "" {
				fmt.Fprintln(out, ui.LabelValue("Title", c.Title))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("📊 Stat tracks"))
			levels, err := svc.StatLevelsFor(ctx, cfg.CharacterID)
			if err != nil {
				return err
			}
			for _, kind := range engine.AllStats {
				fmt.Fprintf(out, "- %s: lvl %d\n", ui.Key.Render(string(kind)), levels[kind])
			}
			fmt.Fprintln(out, "")

			derived := engine.ComputeSecondaryStats(levels)
			fmt.Fprintln(out, ui.H2.Render("⚔️ Combat"))
			fmt.Fprintln(out, ui.LabelValue("HP", derived.MaxHP))
			fmt.Fprintln(out, ui.LabelValue("Energy", derived.MaxEnergy))
			fmt.Fprintln(out, ui.LabelValue("Crit", fmt.Sprintf("%.0f%%", derived.Crit*100)))
			fmt.Fprintln(out, ui.LabelValue("Resistance", fmt.Sprintf("%.0f%%", derived.Resistance*100)))

			return nil
		},
	}

	return cmd
}
