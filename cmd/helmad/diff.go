package main

import (
	"github.com/spf13/cobra"

	"github.com/lucas-albers-lz4/helmad/pkg/chart"
)

func newDiffCmd(a *app) *cobra.Command {
	var (
		flags    chartFlags
		baseFile string
		headFile string
	)

	cmd := &cobra.Command{
		Use:   "diff [repo/chart]",
		Short: "Compare the resources rendered with two values files",
		Long: `Render the same chart with a base and a head values file and print a unified
diff of the resulting resources, one YAML document per resource in kind order.`,
		Example: `  helmad diff bitnami/nginx --name web --base prod.yaml --head staging.yaml`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := flags.reference(args)
			if err != nil {
				return err
			}
			if baseFile == "" {
				return missingFlag("base")
			}
			if headFile == "" {
				return missingFlag("head")
			}

			if baseFile == stdinPath && headFile == stdinPath {
				return &chart.ConfigError{Argument: "values file", Reason: "--base and --head cannot both read stdin"}
			}
			base, err := readValues(cmd, baseFile)
			if err != nil {
				return err
			}
			head, err := readValues(cmd, headFile)
			if err != nil {
				return err
			}

			s, err := a.session()
			if err != nil {
				return err
			}
			view, err := s.Diff(cmd.Context(), ref, flags.releaseName, base, head)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout(), a.cfg.Output).diff(view)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&baseFile, "base", "", "values file for the base render (required)")
	cmd.Flags().StringVar(&headFile, "head", "", "values file for the head render (required)")
	return cmd
}
