package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routetable/pkg/router"
)

func routesCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long: `List every route with its full path, depth first in
declaration order.

Examples:
  routetable routes
  routetable routes --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(flags)
			if err != nil {
				return err
			}
			if asJSON {
				return printRoutesJSON(cmd, rt.registry)
			}
			printRoutes(cmd, rt.registry)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func printRoutes(cmd *cobra.Command, reg *router.Registry) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tNAME\tTITLE\tICON\tFLAGS")
	for _, e := range reg.Entries() {
		fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t%s\n",
			strings.Repeat("  ", e.Depth), e.FullPath, e.Node.Name,
			e.Node.Meta.Title, e.Node.Meta.Icon, routeFlags(e.Node))
	}
	tw.Flush()
}

func routeFlags(n *router.RouteNode) string {
	var flags []string
	if n.IsSection() {
		flags = append(flags, "section")
	} else {
		flags = append(flags, "leaf")
	}
	if n.Meta.Exact {
		flags = append(flags, "exact")
	}
	if n.Meta.HasGroup {
		flags = append(flags, "group")
	}
	if n.Layout != nil {
		flags = append(flags, "layout")
	}
	return strings.Join(flags, ",")
}

type routeJSON struct {
	FullPath string      `json:"fullPath"`
	Name     string      `json:"name"`
	Meta     router.Meta `json:"meta"`
	Depth    int         `json:"depth"`
	Leaf     bool        `json:"leaf"`
}

func printRoutesJSON(cmd *cobra.Command, reg *router.Registry) error {
	out := []routeJSON{}
	for _, e := range reg.Entries() {
		out = append(out, routeJSON{
			FullPath: e.FullPath,
			Name:     e.Node.Name,
			Meta:     e.Node.Meta,
			Depth:    e.Depth,
			Leaf:     e.Node.IsLeaf(),
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
