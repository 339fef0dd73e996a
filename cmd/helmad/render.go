package main

import (
	"github.com/spf13/cobra"

	"github.com/lucas-albers-lz4/helmad/internal/session"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		flags         chartFlags
		valuesFile    string
		showTemplates bool
	)

	cmd := &cobra.Command{
		Use:   "render [repo/chart]",
		Short: "Render a chart and list its resources",
		Long: `Render a chart with helm template and list the resulting Kubernetes resources
ordered by kind. A remote chart (repo/chart or oci://...) is pulled into a
temporary directory first; --chart-path renders a local chart directory.`,
		Example: `  helmad render bitnami/nginx --name web -f values.yaml
  helmad render --chart-path ./charts/web --name web --templates -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := flags.reference(args)
			if err != nil {
				return err
			}
			values, err := readValues(cmd, valuesFile)
			if err != nil {
				return err
			}

			s, err := a.session()
			if err != nil {
				return err
			}

			var view *session.ChartView
			if ref.IsLocal() {
				view, err = s.RenderLocal(cmd.Context(), ref, flags.releaseName, values)
			} else {
				view, err = s.RenderRemote(cmd.Context(), ref, flags.releaseName, values)
			}
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout(), a.cfg.Output).chartView(view, showTemplates)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&valuesFile, "values", "f", "", "values file to render with (- for stdin)")
	cmd.Flags().BoolVar(&showTemplates, "templates", false, "also print the chart's template files")
	return cmd
}
