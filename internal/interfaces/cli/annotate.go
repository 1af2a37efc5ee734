package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/texttechlab/enhanced-search/internal/bootstrap"
	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
)

// NewAnnotateCmd creates the annotate command.  It runs the annotation
// pipeline over the given query string and prints the enriched query.
func NewAnnotateCmd() *cobra.Command {
	var resolve bool

	cmd := &cobra.Command{
		Use:   "annotate <query>",
		Short: "Annotate a query string and print the structured query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			app, err := bootstrap.NewApplication(cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer app.Close(context.Background())

			query := &annotation.Query{OriginalString: strings.Join(args, " ")}
			if err := app.Processor.UpdateQueryWithAnnotations(cmd.Context(), query); err != nil {
				return err
			}
			if resolve {
				if _, err := app.Processor.ResolveQueryAnnotations(
					cmd.Context(), query, cliCtx.Config.Search.Limit); err != nil {
					return err
				}
			}

			return printResult(cmd, cliCtx.OutputFormat, query)
		},
	}

	cmd.Flags().BoolVar(&resolve, "resolve", true, "resolve the annotations against the knowledge store")

	return cmd
}
