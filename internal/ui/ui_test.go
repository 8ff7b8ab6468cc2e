package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestGetTheme(t *testing.T) {
	if got := GetTheme("LIGHT"); got.Name != ThemeLight {
		t.Fatalf("GetTheme(LIGHT) = %q, want %q", got.Name, ThemeLight)
	}
	if got := GetTheme("unknown"); got.Name != ThemeDark {
		t.Fatalf("GetTheme(unknown) = %q, want %q", got.Name, ThemeDark)
	}
	if !GetTheme(ThemePlain).Plain() {
		t.Fatal("plain theme does not report Plain")
	}
}

func TestResolve_NonTerminalIsPlain(t *testing.T) {
	var buf bytes.Buffer
	for _, name := range []string{ThemeAuto, ThemeDark, ThemeLight} {
		if got := Resolve(name, &buf); !got.Plain() {
			t.Fatalf("Resolve(%q, buffer) = %q, want plain", name, got.Name)
		}
	}
}

func TestPlainStylesRenderVerbatim(t *testing.T) {
	styles := GetTheme(ThemePlain).Styles()
	if got := styles.DangerText.Render("boom"); got != "boom" {
		t.Fatalf("DangerText.Render = %q, want %q", got, "boom")
	}
	if got := styles.Path.Render("scans/a.pdf"); got != "scans/a.pdf" {
		t.Fatalf("Path.Render = %q, want %q", got, "scans/a.pdf")
	}
	if styles.Theme().Name != ThemePlain {
		t.Fatalf("Styles().Theme() = %q, want plain", styles.Theme().Name)
	}
}

func TestBatchProgress_CountsFiles(t *testing.T) {
	var m tea.Model = NewBatchProgress(3, GetTheme(ThemePlain).Styles())

	m, _ = m.Update(FileDoneMsg{Path: "/tmp/a.pdf"})
	m, _ = m.Update(FileDoneMsg{Path: "/tmp/b.png", Err: errors.New("boom")})

	bp := m.(BatchProgress)
	if bp.Done() != 2 || bp.Failed() != 1 {
		t.Fatalf("Done/Failed = %d/%d, want 2/1", bp.Done(), bp.Failed())
	}
	view := bp.View()
	for _, want := range []string{"2/3", "1 failed", "b.png"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() = %q, want it to contain %q", view, want)
		}
	}
}

func TestBatchProgress_FinishQuitsAndClears(t *testing.T) {
	var m tea.Model = NewBatchProgress(1, GetTheme(ThemeDark).Styles())

	m, cmd := m.Update(finishMsg{})
	if cmd == nil {
		t.Fatal("finish returned nil cmd, want tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("finish cmd produced %T, want tea.QuitMsg", cmd())
	}
	if got := m.View(); got != "" {
		t.Fatalf("View() after finish = %q, want empty", got)
	}
}

func TestBatchProgress_ResizeClampsBar(t *testing.T) {
	var m tea.Model = NewBatchProgress(2, GetTheme(ThemePlain).Styles())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 600, Height: 40})
	if w := m.(BatchProgress).bar.Width; w != maxBarWidth {
		t.Fatalf("bar width = %d, want %d", w, maxBarWidth)
	}
	m, _ = m.Update(tea.WindowSizeMsg{Width: 12, Height: 40})
	if w := m.(BatchProgress).bar.Width; w != minBarWidth {
		t.Fatalf("bar width = %d, want %d", w, minBarWidth)
	}
}

func TestStartProgress_NilWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	r := StartProgress(t.Context(), &buf, 10, GetTheme(ThemePlain).Styles())
	if r != nil {
		t.Fatal("StartProgress on a buffer returned a reporter")
	}
	// A nil reporter must be safe to use.
	r.FileDone("x", nil)
	r.Stop()
	if buf.Len() != 0 {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
