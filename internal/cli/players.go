package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newPlayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Manage tracked players",
	}

	cmd.AddCommand(newPlayersListCmd())
	cmd.AddCommand(newPlayersAddCmd())
	cmd.AddCommand(newPlayersUpdateCmd())
	cmd.AddCommand(newPlayersDeleteCmd())

	return cmd
}

// playerFlags holds the stat fields shared by add and update. Rates are
// sent as typed so the server does the validation.
type playerFlags struct {
	name     string
	position string
	avg      string
	obp      string
	slg      string
}

func (f *playerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Player name")
	cmd.Flags().StringVar(&f.position, "position", "", "Position: C, 1B, 2B, 3B, SS, LF, CF, RF, DH, P")
	cmd.Flags().StringVar(&f.avg, "avg", "", "Batting average")
	cmd.Flags().StringVar(&f.obp, "obp", "", "On-base percentage")
	cmd.Flags().StringVar(&f.slg, "slg", "", "Slugging percentage")
}

func (f *playerFlags) body() map[string]string {
	return map[string]string{
		"name":     f.name,
		"position": f.position,
		"avg":      f.avg,
		"obp":      f.obp,
		"slg":      f.slg,
	}
}

func newPlayersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your tracked players",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []PlayerRecord

			if err := client.Get("/players", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newPlayersAddCmd() *cobra.Command {
	var flags playerFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Track a new player",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []PlayerRecord

			if err := client.Post("/players", flags.body(), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newPlayersUpdateCmd() *cobra.Command {
	var flags playerFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a tracked player's stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []PlayerRecord

			if err := client.Put("/players/"+url.PathEscape(args[0]), flags.body(), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newPlayersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Stop tracking a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []PlayerRecord

			if err := client.Delete("/players/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
