package ui

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	minBarWidth = 10
	maxBarWidth = 50
)

// FileDoneMsg reports one finished upload to the progress model.
type FileDoneMsg struct {
	Path string
	Err  error
}

type finishMsg struct{}

// BatchProgress is a single-line Bubble Tea model tracking a batch of files.
type BatchProgress struct {
	total  int
	done   int
	failed int
	last   string

	bar      progress.Model
	styles   Styles
	finished bool
}

// NewBatchProgress returns a model for total files.
func NewBatchProgress(total int, styles Styles) BatchProgress {
	opts := []progress.Option{progress.WithWidth(maxBarWidth - 10)}
	if t := styles.Theme(); t.Plain() {
		opts = append(opts, progress.WithSolidFill("7"))
	} else {
		opts = append(opts, progress.WithGradient(t.Accent, t.Success))
	}
	return BatchProgress{
		total:  total,
		bar:    progress.New(opts...),
		styles: styles,
	}
}

// Init implements tea.Model.
func (m BatchProgress) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m BatchProgress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FileDoneMsg:
		m.done++
		if msg.Err != nil {
			m.failed++
		}
		m.last = msg.Path
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = max(minBarWidth, min(maxBarWidth, msg.Width/3))
		return m, nil

	case finishMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model. It renders nothing once finished so the bar
// does not linger above the summary.
func (m BatchProgress) View() string {
	if m.finished {
		return ""
	}
	percent := 0.0
	if m.total > 0 {
		percent = float64(m.done) / float64(m.total)
	}
	var b strings.Builder
	b.WriteString(m.bar.ViewAs(percent))
	b.WriteString(" ")
	b.WriteString(m.styles.Text.Render(fmt.Sprintf("%d/%d", m.done, m.total)))
	if m.failed > 0 {
		b.WriteString(" ")
		b.WriteString(m.styles.DangerText.Render(fmt.Sprintf("%d failed", m.failed)))
	}
	if m.last != "" {
		b.WriteString(" ")
		b.WriteString(m.styles.MutedText.Render(filepath.Base(m.last)))
	}
	return b.String()
}

// Done returns the number of files reported so far.
func (m BatchProgress) Done() int { return m.done }

// Failed returns how many reported files carried an error.
func (m BatchProgress) Failed() int { return m.failed }

// Reporter drives a BatchProgress program in the background. A nil Reporter
// is valid and ignores every call.
type Reporter struct {
	program *tea.Program
	exited  chan struct{}
}

// StartProgress shows a progress bar on out when it is a terminal and the
// batch has more than one file; otherwise it returns nil.
func StartProgress(ctx context.Context, out io.Writer, total int, styles Styles) *Reporter {
	if total < 2 || !IsTerminal(out) {
		return nil
	}
	p := tea.NewProgram(
		NewBatchProgress(total, styles),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	r := &Reporter{program: p, exited: make(chan struct{})}
	go func() {
		defer close(r.exited)
		_, _ = p.Run()
	}()
	return r
}

// FileDone records one finished file.
func (r *Reporter) FileDone(path string, err error) {
	if r == nil {
		return
	}
	r.program.Send(FileDoneMsg{Path: path, Err: err})
}

// Stop clears the bar and waits for the program to exit.
func (r *Reporter) Stop() {
	if r == nil {
		return
	}
	r.program.Send(finishMsg{})
	<-r.exited
}
