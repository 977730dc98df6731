package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routetable/internal/errors"
	"github.com/vango-dev/routetable/pkg/router"
)

func urlCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "url <name> [param=value...]",
		Short: "Build the URL of a named route",
		Long: `Build the concrete URL of a named route.

Examples:
  routetable url GeneralServices
  routetable url GeneralServicesActiveTabIndex activeTabIndex=2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := router.Params{}
			for _, arg := range args[1:] {
				k, v, ok := strings.Cut(arg, "=")
				if !ok || k == "" {
					return errors.New("E142").WithDetail(fmt.Sprintf("%q is not name=value.", arg))
				}
				params[k] = v
			}

			rt, err := setup(flags)
			if err != nil {
				return err
			}
			u, err := rt.registry.URL(args[0], params)
			if err != nil {
				if errors.Is(err, router.ErrUnknownRoute) {
					return errors.New("E141").Wrap(err).
						WithSuggestion("Run 'routetable routes' to list route names")
				}
				return errors.New("E142").Wrap(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
}
