package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"calcflow/internal/pipeline"
	"calcflow/internal/task"
)

func newGraphCmd() *cobra.Command {
	var fileFlag string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print a pipeline's stages in topological order with its graph hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def := pipeline.Arithmetic()
			if fileFlag != "" {
				var err error
				def, err = pipeline.Load(fileFlag)
				if err != nil {
					return err
				}
			}

			g, err := def.Graph()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pipeline: %s\n", def.Name)
			fmt.Fprintf(out, "graph: %s\n", g.Hash())
			fmt.Fprintln(out, "stages:")
			for _, name := range g.TopologicalOrder() {
				node, _ := g.Node(name)
				depth, _ := g.Depth(name)
				fmt.Fprintf(out, "  %d %s (%s)%s\n", depth, name, describeOp(node.Task), describeNeeds(node.Task))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fileFlag, "file", "", "pipeline YAML file (default: built-in arithmetic pipeline)")

	return cmd
}

func describeOp(t task.Task) string {
	if t.Op == task.OpSquare {
		return string(t.Op)
	}
	return fmt.Sprintf("%s %d", t.Op, t.Operand)
}

func describeNeeds(t task.Task) string {
	if len(t.Needs) == 0 {
		return ""
	}
	return " <- " + strings.Join(t.Needs, ", ")
}
