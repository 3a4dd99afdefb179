package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dangunter/alsdata/config"
	"github.com/dangunter/alsdata/infer"
	"github.com/dangunter/alsdata/integrations/shapeserver"
	"github.com/dangunter/alsdata/report"
	"github.com/dangunter/alsdata/shape"
)

var errSomeFailed = errors.New("some documents could not be processed")

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("could not load config", "err", err)
		os.Exit(2)
	}
	config.SetupLogging(cfg.LogLevel)

	if err := run(cfg, os.Args[1:], os.Stdout); err != nil {
		slog.Error("alsdata failed", "err", err)
		os.Exit(1)
	}
}

type options struct {
	format   string
	server   string
	maxDepth int
	idKey    string
	files    []string
}

func parseFlags(cfg *config.Config, args []string) (*options, error) {
	fs := flag.NewFlagSet("alsdata", flag.ContinueOnError)
	o := &options{}
	fs.StringVar(&o.format, "format", "text", "report format: text or openapi")
	fs.StringVar(&o.server, "server", cfg.Server, "submit documents to this shape server instead of grouping locally")
	fs.IntVar(&o.maxDepth, "max-depth", cfg.MaxDepth, "maximum nesting depth")
	fs.StringVar(&o.idKey, "id-key", cfg.IDKey, "document key holding the id, skipped when inferring")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if o.format != "text" && o.format != "openapi" {
		return nil, fmt.Errorf("unknown format %q", o.format)
	}
	if o.maxDepth <= 0 {
		return nil, fmt.Errorf("max-depth must be positive, got %d", o.maxDepth)
	}
	o.files = fs.Args()
	if len(o.files) == 0 {
		return nil, errors.New("no input files")
	}
	return o, nil
}

func run(cfg *config.Config, args []string, w io.Writer) error {
	o, err := parseFlags(cfg, args)
	if err != nil {
		return err
	}
	if o.server != "" {
		return submitAll(o, w)
	}
	return groupAll(o, w)
}

func groupAll(o *options, w io.Writer) error {
	b := shape.NewBuilder(
		shape.WithIDKey(o.idKey),
		shape.WithMaxDepth(o.maxDepth),
		shape.WithLogger(slog.Default()),
	)
	groups := shape.NewSet()

	failed := 0
	for _, name := range o.files {
		doc, err := readDocument(name)
		if err != nil {
			slog.Warn("skipping file", "file", name, "err", err)
			failed++
			continue
		}

		s, err := b.Process(doc)
		if err != nil {
			slog.Warn("skipping file", "file", name, "err", err)
			failed++
			continue
		}
		groups.Add(s, documentID(doc, o.idKey, name))
	}

	stats := b.Stats()
	slog.Info("processed", "documents", stats.Documents, "failed", stats.Failed,
		"groups", groups.Len(), "collapsed", stats.CollapsedElements)

	for n, e := range groups.EntriesByDate() {
		if err := printGroup(w, n+1, e, o.format); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errSomeFailed, failed, len(o.files))
	}
	return nil
}

func printGroup(w io.Writer, n int, e *shape.Entry, format string) error {
	_, err := fmt.Fprintf(w, "# group %d: %d documents, %s to %s\n# ids: %s\n",
		n, len(e.IDs), e.First.Format(time.RFC3339), e.Last.Format(time.RFC3339), strings.Join(e.IDs, ", "))
	if err != nil {
		return err
	}

	if format == "openapi" {
		bs, err := json.MarshalIndent(report.OpenAPI(e.Schema), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", bs)
		return err
	}
	return report.Text(w, e.Schema)
}

func submitAll(o *options, w io.Writer) error {
	client, err := shapeserver.NewClient(o.server)
	if err != nil {
		return err
	}
	ctx := context.Background()

	failed := 0
	for _, name := range o.files {
		bs, err := os.ReadFile(name)
		if err != nil {
			slog.Warn("skipping file", "file", name, "err", err)
			failed++
			continue
		}

		doc, err := infer.ParseFile(name, bs)
		if err != nil {
			slog.Warn("skipping file", "file", name, "err", err)
			failed++
			continue
		}

		res, err := client.Submit(ctx, documentID(doc, o.idKey, name), contentType(name), bs)
		if err != nil {
			slog.Warn("submit failed", "file", name, "err", err)
			failed++
			continue
		}
		slog.Debug("submitted", "file", name, "hash", res.Hash, "new", res.New)
	}

	summaries, err := client.Schemas(ctx)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		_, err := fmt.Fprintf(w, "%s %d rows, %d documents: %s\n", s.Hash, s.Rows, len(s.IDs), strings.Join(s.IDs, ", "))
		if err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errSomeFailed, failed, len(o.files))
	}
	return nil
}

func readDocument(name string) (map[string]any, error) {
	bs, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return infer.ParseFile(name, bs)
}

// documentID prefers the id stored in the document, then the file name.
func documentID(doc map[string]any, key, name string) string {
	if v, ok := doc[key]; ok && v != nil {
		return infer.DocumentID(doc, key)
	}
	return filepath.Base(name)
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return "application/yaml"
	}
	return "application/json"
}
