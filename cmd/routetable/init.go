package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routetable/internal/scaffold"
)

func initCmd() *cobra.Command {
	var (
		template string
		brand    string
		port     int
		list     bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a starter route table project",
		Long: `Create routetable.json, a route manifest and view chunks.

Templates:
  general  The built-in General table with its tabbed layers view
  minimal  One section with a home page

Examples:
  routetable init
  routetable init site --template=minimal --brand="Acme Ops"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				for _, name := range scaffold.List() {
					t, _ := scaffold.Get(name)
					fmt.Fprintf(out, "%-10s %s\n", t.Name, t.Description)
				}
				return nil
			}

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if brand == "" {
				abs, err := filepath.Abs(dir)
				if err != nil {
					return err
				}
				brand = filepath.Base(abs)
			}

			tmpl, err := scaffold.Get(template)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			written, err := tmpl.Create(dir, scaffold.Config{Brand: brand, Port: port})
			if err != nil {
				return err
			}

			for _, p := range written {
				info(out, "created %s", p)
			}
			success(out, "Created %s project in %s", tmpl.Name, dir)
			fmt.Fprintf(out, "\n  routetable serve --dir %s --watch\n", dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "general", "Project template")
	cmd.Flags().StringVar(&brand, "brand", "", "Project name shown in page titles (default: directory name)")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port for routetable serve")
	cmd.Flags().BoolVar(&list, "list", false, "List templates and exit")

	return cmd
}
