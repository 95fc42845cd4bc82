package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"layerspeed/internal/gcode"
	"layerspeed/internal/layercache"
	"layerspeed/internal/trace"
)

type layersReport struct {
	File   string      `json:"file"`
	Size   int         `json:"size"`
	Cached bool        `json:"cached"`
	Marks  []layerJSON `json:"layers"`
}

type layerJSON struct {
	Layer  uint64 `json:"layer"`
	Line   int    `json:"line"`
	Offset int    `json:"offset"`
}

func newLayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layers <file.gcode>...",
		Short: "List the LAYER:<n> markers found in G-code files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runLayers,
	}
	cmd.Flags().Int("jobs", runtime.NumCPU(), "files scanned in parallel")
	cmd.Flags().Bool("no-cache", false, "do not read or write the scan cache")
	cmd.Flags().Bool("list", false, "print every marker, not just a summary")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runLayers(cmd *cobra.Command, files []string) error {
	env, cleanup, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return fmt.Errorf("failed to get list flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return usageError("unsupported format %q (must be pretty or json)", format)
	}
	if jobs < 1 {
		jobs = 1
	}

	var cache *layercache.Cache
	if env.cfg.CacheEnabled && !noCache {
		cache, err = openCache(env.cfg.CacheDir)
		if err != nil {
			trace.Error(trace.FromContext(env.ctx), trace.ScopeCommand, "cache", err, trace.CurrentSpan(env.ctx))
			cache = nil
		}
	}

	idx := env.timer.Begin("scan")
	reports, err := scanFiles(env.ctx, files, cache, jobs)
	env.timer.End(idx, fmt.Sprintf("%d files", len(files)))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		printLayers(out, reports, list)
	}
	env.printTimings(cmd.ErrOrStderr())
	return nil
}

func openCache(dir string) (*layercache.Cache, error) {
	if dir != "" {
		return layercache.Open(dir)
	}
	return layercache.OpenDefault("layerspeed")
}

// scanFiles reads and scans files concurrently. Output order follows input order.
func scanFiles(ctx context.Context, files []string, cache *layercache.Cache, jobs int) ([]layersReport, error) {
	reports := make([]layersReport, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			r, err := scanFile(gctx, file, cache)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func scanFile(ctx context.Context, file string, cache *layercache.Cache) (layersReport, error) {
	if err := ctx.Err(); err != nil {
		return layersReport{}, err
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeEdit, "scan", trace.CurrentSpan(ctx))
	defer span.End(file)

	content, err := os.ReadFile(file)
	if err != nil {
		return layersReport{}, fmt.Errorf("failed to read %q: %w", file, err)
	}
	report := layersReport{File: file, Size: len(content)}

	key := layercache.Sum(content)
	var marks []gcode.LayerMark
	var payload layercache.Payload
	hit, err := cache.Get(key, &payload)
	if err != nil {
		trace.Error(tracer, trace.ScopeIO, "cache get", err, span.ID())
	}
	if hit {
		marks = payload.LayerMarks()
		report.Cached = true
	} else {
		marks = gcode.ScanLayers(content)
		if err := cache.Put(key, layercache.NewPayload(len(content), marks)); err != nil {
			trace.Error(tracer, trace.ScopeIO, "cache put", err, span.ID())
		}
	}
	span.WithExtra("cached", fmt.Sprint(report.Cached))

	report.Marks = make([]layerJSON, len(marks))
	for i, m := range marks {
		report.Marks[i] = layerJSON{Layer: m.Layer, Line: m.Line, Offset: m.Offset}
	}
	return report, nil
}

func printLayers(out io.Writer, reports []layersReport, list bool) {
	for _, r := range reports {
		if len(r.Marks) == 0 {
			_, _ = fmt.Fprintf(out, "%s: no layer markers\n", r.File)
			continue
		}
		lo, hi := r.Marks[0].Layer, r.Marks[0].Layer
		for _, m := range r.Marks[1:] {
			lo = min(lo, m.Layer)
			hi = max(hi, m.Layer)
		}
		_, _ = fmt.Fprintf(out, "%s: %d markers, layers %d-%d\n", r.File, len(r.Marks), lo, hi)
		if !list {
			continue
		}
		for _, m := range r.Marks {
			_, _ = fmt.Fprintf(out, "  %-14s line %d\n", gcode.Marker(m.Text), m.Line)
		}
	}
}
