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

func newPerksCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perks",
		Short: "Show skill trees and unlock state",
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
			statuses, err := svc.AvailablePerks(ctx, cfg.CharacterID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, fmt.Sprintf("Skill trees (%d points)", c.PerkPoints)))

			lastTree := ""
			for _, st := range statuses {
				if st.Tree != lastTree {
					lastTree = st.Tree
					tree := engine.GetSkillTree(st.Tree)
					fmt.Fprintln(out, "")
					fmt.Fprintln(out, ui.H2.Render(tree.Name))
				}
				var mark string
				switch st.State {
				case engine.PerkUnlocked:
					mark = ui.Good.Render(ui.IconDone)
				case engine.PerkAvailable:
					mark = ui.Gold.Render("◆")
				default:
					mark = ui.Muted.Render(ui.IconLock)
				}
				fmt.Fprintf(out, "  %s %d. %s %s\n", mark, st.Perk.Number, st.Perk.Name,
					ui.Muted.Render(st.Perk.Effect))
			}

			return nil
		},
	}

	cmd.AddCommand(newPerksUnlockCmd(cfg))

	return cmd
}

func newPerksUnlockCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlock <tree> <number>",
		Short: "Spend a perk point to unlock a perk",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("tree and perk number are required")
			}
			if _, err := strconv.Atoi(args[1]); err != nil {
				return errors.New("perk number must be an integer")
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

			number, _ := strconv.Atoi(args[1])
			if err := svc.UnlockPerk(ctx, cfg.CharacterID, args[0], number); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s/%s unlocked\n",
				ui.Good.Render(ui.IconSparkle), args[0], args[1])
			return nil
		},
	}

	return cmd
}
