package main

import (
	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <repo> [query]",
		Short: "List the charts of a repository",
		Long: `List the charts of a repository, optionally filtered by a search query.
Charts are ordered by name, newest version first.`,
		Example: `  helmad search bitnami
  helmad search bitnami nginx -o yaml`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := args[0]
			var query string
			if len(args) == 2 {
				query = args[1]
			}

			s, err := a.session()
			if err != nil {
				return err
			}
			charts, err := s.Search(cmd.Context(), repo, query)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout(), a.cfg.Output).charts(repo, charts)
		},
	}
}
