// Package cli wires the calcflow commands.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the calcflow command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "calcflow",
		Short:         "Run arithmetic stage pipelines with manual or automatic value passing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newGraphCmd())
	return root
}

// Run is a high-level CLI entrypoint suitable for black-box tests.
// It accepts the argument slice (excluding argv[0]) and the output streams.
func Run(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}
