package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandrolain/goxq/pkg/evaluator"
	"github.com/sandrolain/goxq/pkg/resource"
	"github.com/sandrolain/goxq/pkg/storage"
	"github.com/sandrolain/goxq/pkg/storage/memdb"
	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

type queryParams struct {
	dbs         []string
	contextDB   string
	indexes     []string
	whitespace  bool
	file        string
	jsonOutput  bool
	separator   string
	timeout     time.Duration
	maxDepth    int
	maxResource int64
	cache       bool
	debug       bool
}

// response is the --json output envelope.
type response struct {
	Result []string `json:"result,omitempty"`
	Plan   string   `json:"plan,omitempty"`
	Error  string   `json:"error,omitempty"`
	Code   string   `json:"code,omitempty"`
}

func newQueryCommand(root *rootParams, planOnly bool) *cobra.Command {
	params := &queryParams{}
	cmd := &cobra.Command{
		Use:   "query [query]",
		Short: "Evaluate a query",
		Long: `Evaluate a query against the loaded databases.

The query is taken from the argument or from --file. The first database passed with --db is
the context database unless --context names another one; all databases are available to db().`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, root, params, args, planOnly)
		},
	}
	if planOnly {
		cmd.Use = "plan [query]"
		cmd.Short = "Print the compiled query plan"
		cmd.Long = "Compile a query against the loaded databases and print the resulting plan.\n" +
			"Pre-evaluated subexpressions appear as literals and index requests as index scans."
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&params.dbs, "db", nil, "XML file or directory to load, optionally as name=path (repeatable)")
	flags.StringVar(&params.contextDB, "context", "", "name of the context database")
	flags.StringSliceVar(&params.indexes, "index", nil, "indexes to build: text, attribute, fulltext or all")
	flags.BoolVar(&params.whitespace, "whitespace", false, "keep whitespace-only text nodes")
	flags.StringVarP(&params.file, "file", "f", "", "read the query from a file")
	flags.BoolVar(&params.jsonOutput, "json", false, "print a JSON envelope instead of plain output")
	flags.StringVar(&params.separator, "separator", "\n", "separator between result items")
	flags.DurationVar(&params.timeout, "timeout", 30*time.Second, "evaluation timeout")
	flags.IntVar(&params.maxDepth, "max-depth", 32, "maximum nesting of eval() and run()")
	flags.Int64Var(&params.maxResource, "max-resource-size", resource.DefaultMaxSize, "maximum size of resources read by read() and run()")
	flags.BoolVar(&params.cache, "cache", false, "cache parsed nested queries")
	flags.BoolVar(&params.debug, "debug", false, "log compilation and evaluation details")
	return cmd
}

func runQuery(cmd *cobra.Command, root *rootParams, params *queryParams, args []string, planOnly bool) error {
	out := cmd.OutOrStdout()
	logger, err := root.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	query, err := params.query(args)
	if err != nil {
		return err
	}
	opts, err := buildOptions(params.indexes, params.whitespace)
	if err != nil {
		return err
	}

	catalog := memdb.NewCatalog()
	var data storage.Data
	for _, arg := range params.dbs {
		db, err := loadDatabase(arg, opts)
		if err != nil {
			return err
		}
		catalog.Add(db)
		logger.Info("database loaded", "name", db.Name(), "nodes", db.Size())
		if data == nil && params.contextDB == "" {
			data = db
		}
	}
	if params.contextDB != "" {
		if data, err = catalog.Open(params.contextDB); err != nil {
			return err
		}
	}

	ev := evaluator.New(
		evaluator.WithCatalog(catalog),
		evaluator.WithFetcher(resource.Default(resource.WithMaxSize(params.maxResource))),
		evaluator.WithLogger(logger),
		evaluator.WithDebug(params.debug),
		evaluator.WithTimeout(params.timeout),
		evaluator.WithMaxDepth(params.maxDepth),
		evaluator.WithCaching(params.cache),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), params.timeout)
	defer cancel()

	q, err := ev.Compile(ctx, query, data)
	if err != nil {
		return params.fail(out, err)
	}
	if planOnly {
		if params.jsonOutput {
			return writeJSON(out, response{Plan: q.Plan()})
		}
		_, err := fmt.Fprintln(out, q.Plan())
		return err
	}

	v, err := q.Value(ctx)
	if err != nil {
		return params.fail(out, err)
	}
	items := make([]string, 0, v.Size())
	for i := int64(0); i < v.Size(); i++ {
		s, err := value.Serialize(v.ItemAt(i))
		if err != nil {
			return params.fail(out, err)
		}
		items = append(items, s)
	}
	if params.jsonOutput {
		return writeJSON(out, response{Result: items})
	}
	for i, s := range items {
		if i > 0 {
			if _, err := io.WriteString(out, params.separator); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(out, s); err != nil {
			return err
		}
	}
	if len(items) > 0 {
		_, err = io.WriteString(out, "\n")
	}
	return err
}

func (p *queryParams) query(args []string) (string, error) {
	switch {
	case p.file != "" && len(args) > 0:
		return "", errors.New("pass either a query or --file, not both")
	case p.file != "":
		b, err := os.ReadFile(p.file)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case len(args) == 1:
		return args[0], nil
	default:
		return "", errors.New("no query specified")
	}
}

// fail reports a query error. With --json the error is written to the envelope as well.
func (p *queryParams) fail(w io.Writer, err error) error {
	if p.jsonOutput {
		if werr := writeJSON(w, response{Error: err.Error(), Code: string(types.CodeOf(err))}); werr != nil {
			return werr
		}
	}
	return err
}

func writeJSON(w io.Writer, r response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
