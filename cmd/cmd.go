package cmd

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/thiagokokada/gitgraph-go/internal/buildinfo"
	"github.com/thiagokokada/gitgraph-go/internal/git"
	"github.com/thiagokokada/gitgraph-go/internal/layout"
	"github.com/thiagokokada/gitgraph-go/internal/render"
	"github.com/thiagokokada/gitgraph-go/internal/watch"
)

func Run() error {
	return run(os.Args[1:], os.Stdout)
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("gitgraph-go", flag.ContinueOnError)
	limit := fs.Int("limit", git.DefaultBatch, "number of commits to load per batch")
	mode := fs.String("mode", render.ThemeAuto.String(), "color mode: auto, light, or dark")
	watchMode := fs.Bool("watch", false, "redraw when the repository changes")
	verbose := fs.Bool("verbose", false, "enable verbose logging")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	if *showVersion {
		fmt.Fprintln(out, buildinfo.Version())
		return nil
	}
	repoPath := "."
	remaining := fs.Args()
	if len(remaining) > 0 {
		repoPath = remaining[len(remaining)-1]
	}

	svc, err := git.Open(repoPath)
	if err != nil {
		return err
	}
	palette := render.PaletteFor(render.ThemePreferenceFromString(*mode))
	graph := layout.New(len(palette.Accents))
	renderer := render.New(palette)

	if !*watchMode {
		return renderGraph(out, svc, graph, renderer, *limit)
	}

	// The watcher callback and the initial draw share the graph, so redraws
	// are serialized.
	var mu sync.Mutex
	redraw := func() error {
		mu.Lock()
		defer mu.Unlock()
		return renderGraph(out, svc, graph, renderer, *limit)
	}
	if err := redraw(); err != nil {
		return err
	}
	w, err := watch.New(svc.RepoPath(), watch.DefaultDebounceDelay, func() {
		if err := redraw(); err != nil {
			slog.Error("redraw", slog.Any("error", err))
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

// renderGraph rebuilds the layout from a full scan and writes one row per
// commit: graph cells, ref badges, then the commit summary.
func renderGraph(out io.Writer, svc *git.Service, graph *layout.Graph, renderer *render.Renderer, limit int) error {
	graph.Clear()
	var entries []*git.Entry
	skip := 0
	for {
		page, _, hasMore, err := svc.ScanCommits(skip, limit)
		if err != nil {
			return err
		}
		graph.AddCommits(git.Records(page))
		entries = append(entries, page...)
		skip += len(page)
		if !hasMore || len(page) == 0 {
			break
		}
	}
	rows := renderer.Rows(graph, 0, len(graph.Commits()))
	for i, row := range rows {
		entry := entries[i]
		line := row + "  "
		if badges := renderer.RefBadges(entry.Record.RefNames); badges != "" {
			line += badges + " "
		}
		line += entry.Summary
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}
