package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routetable/internal/errors"
	"github.com/vango-dev/routetable/pkg/render"
	"github.com/vango-dev/routetable/pkg/router"
	"github.com/vango-dev/routetable/pkg/view"
)

func resolveCmd(flags *globalFlags) *cobra.Command {
	var renderView bool

	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Show which route a path resolves to",
		Long: `Resolve a path against the route table and print the
matched route, its parameters and its ancestors.

With --render the view is loaded and the composed page is printed.

Examples:
  routetable resolve /general
  routetable resolve /general/tab/2 --render`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(flags)
			if err != nil {
				return err
			}

			m, ok := rt.registry.Resolve(args[0])
			if !ok {
				return errors.New("E140").
					WithDetail(fmt.Sprintf("%q did not match any route.", args[0])).
					WithSuggestion("Run 'routetable routes' to list the table")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "route:  %s\n", m.Route.Name)
			fmt.Fprintf(out, "path:   %s\n", m.FullPath)
			if t := m.Title(); t != "" {
				fmt.Fprintf(out, "title:  %s\n", t)
			}
			fmt.Fprintf(out, "chain:  %s\n", chainNames(m))
			for _, k := range sortedKeys(m.Params) {
				fmt.Fprintf(out, "param:  %s=%s\n", k, m.Params[k])
			}

			if !renderView {
				return nil
			}
			ctx := context.Background()
			ctx, cancel := context.WithTimeout(ctx, rt.cfg.LoadTimeout())
			defer cancel()
			v, err := rt.registry.ResolveView(ctx, m.Route).Wait(ctx)
			if errors.Is(err, view.ErrChunkNotFound) {
				return errors.New("E162").Wrap(err).
					WithSuggestion("Check chunks.dir or chunks.s3 in routetable.json")
			}
			if err != nil {
				return errors.New("E161").Wrap(err)
			}
			html, err := (&render.Renderer{}).RenderToString(m.Compose(ctx, v.Render(m.Params)))
			if err != nil {
				return errors.New("E161").Wrap(err)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, html)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&renderView, "render", "r", false, "Load the view and print the rendered page")

	return cmd
}

func chainNames(m *router.Match) string {
	names := make([]string, len(m.Chain))
	for i, n := range m.Chain {
		names[i] = n.Name
	}
	return strings.Join(names, " > ")
}

func sortedKeys(p router.Params) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
