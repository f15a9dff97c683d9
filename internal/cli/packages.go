package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPackagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "Mystery package catalog commands",
	}

	cmd.AddCommand(newPackagesListCmd())
	cmd.AddCommand(newPackagesGetCmd())

	return cmd
}

func newPackagesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available mystery packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []PackageSummary

			if err := client.Get("/api/v1/packages", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPackagesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get mystery package details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Package

			if err := client.Get(fmt.Sprintf("/api/v1/packages/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
