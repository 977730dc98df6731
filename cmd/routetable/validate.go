package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/routetable/internal/errors"
	"github.com/vango-dev/routetable/pkg/router"
)

func validateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the route table for configuration problems",
		Long: `Check the route table and report every problem at once:
duplicate names, duplicate sibling paths, sections with loaders,
leaves without loaders, cycles and malformed patterns.

Examples:
  routetable validate
  routetable validate --manifest=routes.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRoutes(flags)
			if err != nil {
				return err
			}
			if err := router.Validate(rt.roots); err != nil {
				return errors.New("E122").Wrap(err)
			}
			success(cmd.OutOrStdout(), "%d routes OK", router.New(rt.roots).Len())
			return nil
		},
	}
}
