package cli

import (
	"errors"
	"fmt"

	"github.com/sadopc/hobbytrack/internal/activity"
	"github.com/spf13/cobra"
)

var errPurgeTarget = errors.New("name a category or pass --all")

func newPurgeCmd(app **appContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "purge [category]",
		Short: "Delete every month, goal and task of a category",
		Long: `Delete all stored data of one category, or of every category with --all.
Accounts and settings are kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := *app

			var namespaces []string
			switch {
			case all && len(args) == 0:
				ns, err := a.store.ListNamespaces()
				if err != nil {
					return err
				}
				namespaces = ns
			case !all && len(args) == 1:
				c, err := activity.ParseCategory(args[0])
				if err != nil {
					return err
				}
				namespaces = []string{c.Namespace()}
			default:
				return errPurgeTarget
			}

			for _, ns := range namespaces {
				if err := a.store.DeletePrefs(ns); err != nil {
					return err
				}
				a.logger.Info("prefs purged", "namespace", ns)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d namespace(s)\n", len(namespaces))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "purge every category")
	return cmd
}
