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

func newTruthsCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "truths",
		Short: "List collected truths",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			truths, err := svc.TruthRepo().ListAll(ctx, cfg.CharacterID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconGem, "Truths"))
			if len(truths) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("Nothing collected yet."))
				return nil
			}
			for _, t := range truths {
				mark := " "
				if t.Equipped {
					mark = ui.Gold.Render("◈")
				}
				theme := ""
				if t.Theme != "" {
					theme = ui.Muted.Render(" (" + t.Theme + ")")
				}
				fmt.Fprintf(out, "%s %s%s %s\n", mark, t.Text, theme, ui.Muted.Render(t.ID))
			}
			return nil
		},
	}

	cmd.AddCommand(
		newTruthsCollectCmd(cfg),
		newTruthsEquipCmd(cfg, true),
		newTruthsEquipCmd(cfg, false),
	)

	return cmd
}

func newTruthsCollectCmd(cfg config.Config) *cobra.Command {
	var theme string
	var source string

	cmd := &cobra.Command{
		Use:   "collect <text>",
		Short: "Record a new truth",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("text is required")
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

			t, err := svc.CollectTruth(ctx, cfg.CharacterID, args[0], source, theme)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s collected %s\n", ui.Good.Render(ui.IconGem), ui.Muted.Render(t.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "Truth theme")
	cmd.Flags().StringVar(&source, "source", "", "Source entry id")

	return cmd
}

func newTruthsEquipCmd(cfg config.Config, equip bool) *cobra.Command {
	use := "equip <truth_id>"
	short := fmt.Sprintf("Equip a truth (max %d)", engine.TruthEquipLimit)
	if !equip {
		use = "unequip <truth_id>"
		short = "Unequip a truth"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("truth_id is required")
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

			if err := svc.ToggleTruthEquip(ctx, args[0], equip); err != nil {
				return err
			}
			verb := "equipped"
			if !equip {
				verb = "unequipped"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(ui.IconDone), verb)
			return nil
		},
	}

	return cmd
}
