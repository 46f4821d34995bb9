package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/thiagokokada/promptns/internal/config"
	"github.com/thiagokokada/promptns/internal/ffi"
	"github.com/thiagokokada/promptns/internal/git"
	"github.com/thiagokokada/promptns/internal/plugin"
	"github.com/thiagokokada/promptns/internal/provider"
	"github.com/thiagokokada/promptns/internal/watch"
)

const defaultFormat = "{{.branch}}" +
	"{{with .staged_count}} +{{.}}{{end}}" +
	"{{with .modified_count}} ~{{.}}{{end}}" +
	"{{with .ahead_count}} ↑{{.}}{{end}}" +
	"{{with .behind_count}} ↓{{.}}{{end}}"

type renderer struct {
	rt    *plugin.Runtime
	names []string
	tmpl  *template.Template
	dir   string
}

func newRenderer(cfg *config.Config, dir, format string) (*renderer, error) {
	tmpl, err := template.New("prompt").Option("missingkey=zero").Parse(format)
	if err != nil {
		return nil, fmt.Errorf("parse format: %w", err)
	}
	ns := provider.Git()
	return &renderer{
		rt:    plugin.NewEmbedded(ns, cfg),
		names: ns.Names(),
		tmpl:  tmpl,
		dir:   dir,
	}, nil
}

// values evaluates every provider; absent ones map to "".
func (r *renderer) values() map[string]string {
	values := make(map[string]string, len(r.names))
	for _, name := range r.names {
		v, _ := ffi.Take(r.rt.InvokeAt(r.dir, name, ffi.NoArgs{}))
		values[name] = v
	}
	return values
}

func (r *renderer) render() (string, error) {
	var b strings.Builder
	if err := r.tmpl.Execute(&b, r.values()); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return strings.TrimSpace(b.String()), nil
}

func (r *renderer) print(w io.Writer) error {
	line, err := r.render()
	if err != nil {
		return err
	}
	return writeLine(w, line)
}

// watch prints the segment, then again after every change to the
// repository, until ctx is cancelled.
func (r *renderer) watch(ctx context.Context, w io.Writer, delay time.Duration) error {
	svc, err := git.Open(r.dir)
	if err != nil {
		return err
	}
	root, err := svc.Root()
	if err != nil {
		return err
	}
	last, err := r.render()
	if err != nil {
		return err
	}
	if err := writeLine(w, last); err != nil {
		return err
	}
	changes := make(chan struct{}, 1)
	watcher, err := watch.New(root, delay, func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	errc := make(chan error, 1)
	go func() { errc <- watcher.Run(ctx) }()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			return err
		case <-changes:
			line, err := r.render()
			if err != nil {
				slog.Error("render", slog.Any("error", err))
				continue
			}
			if line == last {
				continue
			}
			last = line
			if err := writeLine(w, line); err != nil {
				return err
			}
		}
	}
}
