package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucas-albers-lz4/helmad/pkg/version"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the helmad version and check the helm version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "helmad %s\n", version.BinaryVersion)

			gw, err := a.helm()
			if err != nil {
				return err
			}
			v, err := version.CheckHelmVersion(cmd.Context(), gw)
			if v != nil {
				fmt.Fprintf(out, "helm %s (minimum %s)\n", v, version.MinHelmVersion)
			}
			return err
		},
	}
}
