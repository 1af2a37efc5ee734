package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/texttechlab/enhanced-search/internal/bootstrap"
	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
	"github.com/texttechlab/enhanced-search/internal/generators/document"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/search/opensearch"
	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// NewSearchCmd creates the search command.  It annotates and enriches the
// query, generates the document query and runs it against the document
// store.  With --dry-run only the generated document query is printed.
func NewSearchCmd() *cobra.Command {
	var (
		from   int
		size   int
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search documents with a semantically enriched query",
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

			queryString := strings.Join(args, " ")
			if !document.IsQuerySafe(queryString) {
				return errors.New(errors.ErrCodeUserInput,
					"the query contains forbidden character sequences")
			}

			query := &annotation.Query{OriginalString: queryString}
			if err := app.Processor.UpdateQueryWithAnnotations(cmd.Context(), query); err != nil {
				return err
			}
			if _, err := app.Processor.ResolveQueryAnnotations(
				cmd.Context(), query, cliCtx.Config.Search.Limit); err != nil {
				return err
			}

			documentQuery := app.Generator.Generate(query)
			if dryRun {
				return printResult(cmd, cliCtx.OutputFormat, documentQuery)
			}

			if app.Searcher == nil {
				return errors.New(errors.ErrCodeDocumentStore,
					"no document store is configured")
			}

			result, err := app.Searcher.Search(cmd.Context(), documentQuery, from, size)
			if err != nil {
				return err
			}

			return printResult(cmd, cliCtx.OutputFormat, struct {
				DocumentQuery document.DocumentQuery   `json:"document_query"`
				Result        *opensearch.SearchResult `json:"result"`
			}{documentQuery, result})
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "result offset")
	cmd.Flags().IntVar(&size, "size", opensearch.DefaultPageSize, "number of documents to return")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only print the generated document query")

	return cmd
}
