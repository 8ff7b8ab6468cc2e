package app

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/five82/dstk/internal/inputs"
	"github.com/five82/dstk/internal/ui"
)

type converter func(ctx context.Context, path string) (string, error)

type job struct {
	path string
	err  error // set when the path could not be expanded
}

type outcome struct {
	text string
	err  error
}

// convertFiles runs convert over every file under args with at most
// cfg.Concurrency calls in flight. Output follows input order. A failed file
// is reported on stderr and the batch continues.
func (s *session) convertFiles(ctx context.Context, args []string, convert converter) error {
	var jobs []job
	for path, err := range inputs.Files(args) {
		jobs = append(jobs, job{path: path, err: err})
	}
	if len(jobs) == 0 {
		return usagef("no files found under %v", args)
	}

	progress := ui.StartProgress(ctx, s.streams.Err, len(jobs), s.styles)
	slots := make([]chan outcome, len(jobs))
	for i := range slots {
		slots[i] = make(chan outcome, 1)
	}

	var g errgroup.Group
	g.SetLimit(max(1, s.cfg.Concurrency))
	go func() {
		for i, j := range jobs {
			if j.err != nil {
				slots[i] <- outcome{err: j.err}
				progress.FileDone(j.path, j.err)
				continue
			}
			g.Go(func() error {
				text, err := convert(ctx, j.path)
				slots[i] <- outcome{text: text, err: err}
				progress.FileDone(j.path, err)
				return nil
			})
		}
	}()

	// Warnings wait until the bar is gone when one is shown.
	var held []string
	failed := 0
	var writeErr error
	for i, j := range jobs {
		res := <-slots[i]
		if res.err != nil {
			failed++
			s.log.Debug().Err(res.err).Str("path", j.path).Msg("conversion failed")
			msg := fmt.Sprintf("%s: %v", s.styles.Path.Render(j.path), res.err)
			if progress == nil {
				s.warnf("%s", msg)
			} else {
				held = append(held, msg)
			}
			continue
		}
		if writeErr == nil {
			writeErr = s.writeDocument(s.streams.Out, j.path, res.text)
		}
	}
	_ = g.Wait()
	progress.Stop()
	for _, msg := range held {
		s.warnf("%s", msg)
	}

	if writeErr != nil {
		return writeErr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(jobs))
	}
	return nil
}

func (s *session) writeDocument(out io.Writer, path, text string) error {
	if s.cfg.ShowHeaders {
		if _, err := fmt.Fprintf(out, "--File--: %s\n", path); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return writeText(out, text)
}
