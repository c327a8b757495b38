package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gritquest/internal/config"
	"gritquest/internal/engine"
	"gritquest/internal/ui"
)

func newGrantCmd(cfg config.Config) *cobra.Command {
	var module string
	var action string
	var itemID string
	var secondary string
	var secondaryXP int

	cmd := &cobra.Command{
		Use:   "grant <stat> <xp>",
		Short: "Grant XP to a stat track",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("stat and xp are required")
			}
			if _, err := strconv.Atoi(args[1]); err != nil {
				return errors.New("xp must be an integer")
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

			stat, ok := engine.ParseStatKind(args[0])
			if !ok {
				return fmt.Errorf("unknown stat %q", args[0])
			}
			xp, _ := strconv.Atoi(args[1])

			in := engine.GrantInput{
				CharacterID:  cfg.CharacterID,
				SourceModule: module,
				SourceAction: action,
				SourceItemID: itemID,
				PrimaryStat:  stat,
				PrimaryXP:    xp,
			}
			if secondary != "" {
				secStat, ok := engine.ParseStatKind(secondary)
				if !ok {
					return fmt.Errorf("unknown stat %q", secondary)
				}
				in.SecondaryStat = secStat
				in.SecondaryXP = secondaryXP
			}

			res, err := svc.GrantXP(ctx, in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", ui.Gold.Render(fmt.Sprintf("+%d XP", res.XPAwarded)), ui.Muted.Render("→ "+string(stat)))
			if res.LevelUp {
				// Perk points are host policy: one per level gained.
				gained := res.LevelAfter - res.LevelBefore
				if err := svc.AddPerkPoints(ctx, cfg.CharacterID, gained); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s level %d → %d (+%d perk point)\n", ui.BadgeLevelUp, res.LevelBefore, res.LevelAfter, gained)
			}
			for kind, lvl := range res.StatLevelUps {
				fmt.Fprintf(out, "%s %s is now level %d\n", ui.Good.Render(ui.IconBolt), kind, lvl)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&module, "module", "m", "manual", "Source module")
	cmd.Flags().StringVarP(&action, "action", "a", "grant", "Source action")
	cmd.Flags().StringVar(&itemID, "item", "", "Source item id")
	cmd.Flags().StringVar(&secondary, "secondary", "", "Secondary stat")
	cmd.Flags().IntVar(&secondaryXP, "secondary-xp", 0, "Secondary stat XP")

	return cmd
}
