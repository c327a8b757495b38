package root

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"gritquest/internal/config"
	"gritquest/internal/engine"
	"gritquest/internal/ui"
)

func newBattleCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "battle",
		Short: "Fight spawned encounters",
	}

	cmd.AddCommand(
		newBattleSpawnCmd(cfg),
		newBattleStartCmd(cfg),
		newBattleTurnCmd(cfg),
	)

	return cmd
}

func newBattleSpawnCmd(cfg config.Config) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "spawn <enemy_id>",
		Short: "Spawn a pending encounter",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("enemy_id is required")
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

			e, err := svc.SpawnEncounter(ctx, cfg.CharacterID, args[0], source)
			if err != nil {
				return err
			}
			def := engine.GetEnemyDef(e.EnemyID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s appears (%d HP) — encounter %s\n",
				ui.Warn.Render(ui.IconSword), def.Name, e.EnemyMaxHP, ui.Muted.Render(e.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "manual", "Source action that triggered the spawn")

	return cmd
}

func newBattleStartCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <encounter_id>",
		Short: "Start a pending encounter",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("encounter_id is required")
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

			e, err := svc.StartEncounter(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Battle begins: you %d HP / %d energy vs enemy %d HP\n",
				ui.Warn.Render(ui.IconShield), e.CharacterHP, e.CharacterEnergy, e.EnemyHP)
			return nil
		},
	}

	return cmd
}

func newBattleTurnCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "turn <encounter_id> <attack|defend|focus>",
		Short: "Execute one battle turn",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("encounter_id and action are required")
			}
			if _, ok := engine.ParseBattleAction(args[1]); !ok {
				return fmt.Errorf("unknown action %q", args[1])
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

			action, _ := engine.ParseBattleAction(args[1])
			res, err := svc.ExecuteBattleTurn(ctx, args[0], action, rand.Float64())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Turn %d [%s]: you %d HP, enemy %d HP %s\n",
				res.Turn.TurnNumber, res.Turn.Action,
				res.Turn.CharacterHPAfter, res.Turn.EnemyHPAfter,
				ui.Muted.Render(res.Turn.ResultFlags))
			if res.Victory {
				fmt.Fprintln(out, ui.Gold.Render(ui.IconTrophy+" Victory!"))
			}
			if res.Defeat {
				fmt.Fprintln(out, ui.Bad.Render(ui.IconSkull+" Defeat."))
			}
			return nil
		},
	}

	return cmd
}
