package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gritquest/internal/config"
	"gritquest/internal/engine"
	"gritquest/internal/logging"
	"gritquest/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "gq",
	Short:         "Gritquest — turn real-life progress into RPG progression",
	Long:          "Gritquest is a local-first progression and battle engine: completing tasks, workouts and journal entries levels a persistent character through XP curves, skill trees, quests and turn-based battles.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	if err := engine.ValidateCatalogs(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" catalog: "+err.Error()))
		os.Exit(1)
	}

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newStatusCmd(cfg),
		newQuestsCmd(cfg),
		newTrackCmd(cfg),
		newGrantCmd(cfg),
		newPerksCmd(cfg),
		newBattleCmd(cfg),
		newTruthsCmd(cfg),
		newLogCmd(cfg),
		newBoardCmd(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
