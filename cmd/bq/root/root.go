package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bulletquest/internal/config"
	"bulletquest/internal/ui"
)

const Version = "0.3.0"

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "bq",
	Short:         "Bulletquest - gamified bullet journal with missions, areas and decaying tasks",
	Long:          "Bulletquest is a chat-driven productivity tracker: complete missions for XP, keep your life areas healthy and rescue tasks before they turn into zombies.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.bulletquest/config.yaml)")

	rootCmd.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newStatusCmd(),
		newBoardCmd(),
		newSweepCmd(),
		newMigrateCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "bq v%s\n", Version)
			return nil
		},
	}
}
