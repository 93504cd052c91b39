package commands

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/campsite-dev/campsite-web/internal/routes"
)

// NewRoutesCmd creates the routes command
func NewRoutesCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "routes [path]",
		Short: "List page routes, or resolve a path to its page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := routes.New()

			if len(args) == 0 {
				w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "PATH\tVIEW")
				for _, r := range table.Routes() {
					fmt.Fprintf(w, "%s\t%s\n", r.Path, r.View)
				}
				return w.Flush()
			}

			match, ok := table.Resolve(args[0])
			if !ok {
				return fmt.Errorf("no route matches %q", args[0])
			}

			fmt.Fprintln(env.Out, match.View)
			names := make([]string, 0, len(match.Params))
			for name := range match.Params {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(env.Out, "  %s = %s\n", name, match.Params[name])
			}
			return nil
		},
	}
}
