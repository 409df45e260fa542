package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"calcflow/internal/logging"
	"calcflow/internal/pipeline"
	"calcflow/internal/xcom"
)

func newRunCmd() *cobra.Command {
	var (
		styleFlag string
		fileFlag  string
		storeFlag string
		dataDir   string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a pipeline and print one line per stage plus the final value",
		Long: `Run a pipeline. Without --file the built-in five-stage arithmetic
pipeline is used (start at 10, add 5, multiply by 2, subtract 3, square;
final value 729).

The --style flag selects how values move between stages: "manual" pushes
and pulls them through a shared per-run key/value store, "auto" threads
each stage's return value straight into the next stage.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			style, err := pipeline.ParseStyle(styleFlag)
			if err != nil {
				return err
			}

			def := pipeline.Arithmetic()
			if fileFlag != "" {
				def, err = pipeline.Load(fileFlag)
				if err != nil {
					return err
				}
			}

			log := logging.New(verbose)
			defer func() { _ = log.Sync() }()

			var store xcom.Store
			if style == pipeline.StyleManual {
				switch storeFlag {
				case "memory":
					store = xcom.NewMemStore()
				case "badger":
					store, err = xcom.OpenBadger(xcom.DefaultBadgerConfig(dataDir))
					if err != nil {
						return err
					}
					defer func() { _ = store.Close() }()
				default:
					return fmt.Errorf("unknown store %q (want \"memory\" or \"badger\")", storeFlag)
				}
			}

			runner := pipeline.Runner{
				Log:   log,
				Out:   cmd.OutOrStdout(),
				Store: store,
			}
			report, err := runner.Run(cmd.Context(), def, style)
			if err != nil {
				return err
			}
			if report.Result.Failed() {
				return fmt.Errorf("pipeline %q failed", def.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&styleFlag, "style", string(pipeline.StyleAuto), "value-passing style: manual or auto")
	cmd.Flags().StringVar(&fileFlag, "file", "", "pipeline YAML file (default: built-in arithmetic pipeline)")
	cmd.Flags().StringVar(&storeFlag, "store", "memory", "store backend for --style manual: memory or badger")
	cmd.Flags().StringVar(&dataDir, "data-dir", ".calcflow", "directory for the badger store")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}
