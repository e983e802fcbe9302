package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/thiagokokada/gitgraph-go/internal/layout"
)

func rec(sha string, parents ...string) layout.CommitRecord {
	r := layout.CommitRecord{SHA: layout.Oid(sha)}
	for _, p := range parents {
		r.Parents = append(r.Parents, layout.Oid(p))
	}
	return r
}

func diamondGraph() *layout.Graph {
	g := layout.New(7)
	g.AddCommits([]layout.CommitRecord{
		rec("a", "b", "c"),
		rec("b", "d"),
		rec("c", "d"),
		rec("d"),
	})
	return g
}

func requireRows(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, "\n") == strings.Join(want, "\n") {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        want,
		B:        got,
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	if err != nil {
		t.Fatalf("diff rows: %v", err)
	}
	t.Fatalf("rendered rows mismatch:\n%s", diff)
}

func TestPlainRowsDiamond(t *testing.T) {
	r := New(PaletteFor(ThemeLight))
	got := r.PlainRows(diamondGraph(), 0, 4)
	requireRows(t, got, []string{
		"●  ",
		"●─╮",
		"│ ●",
		"●─╯",
	})
}

func TestPlainRowsResumesMidLine(t *testing.T) {
	r := New(PaletteFor(ThemeLight))
	got := r.PlainRows(diamondGraph(), 2, 2)
	requireRows(t, got, []string{
		"│ ●",
		"●─╯",
	})
}

func TestPlainRowsClampsViewport(t *testing.T) {
	r := New(PaletteFor(ThemeLight))
	if got := r.PlainRows(diamondGraph(), 3, 10); len(got) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(got))
	}
	if got := r.PlainRows(diamondGraph(), 10, 4); got != nil {
		t.Fatalf("rows past the graph = %v, want nil", got)
	}
	if got := r.PlainRows(layout.New(7), 0, 4); got != nil {
		t.Fatalf("rows of empty graph = %v, want nil", got)
	}
}

func TestPlainRowsMarksHeadNode(t *testing.T) {
	g := layout.New(7)
	g.AddCommits([]layout.CommitRecord{
		{SHA: "a", Parents: []layout.Oid{"b"}, RefNames: []string{"HEAD -> master", "master"}},
		{SHA: "b"},
	})
	r := New(PaletteFor(ThemeLight))
	got := r.PlainRows(g, 0, 2)
	requireRows(t, got, []string{"◉", "●"})
}

func TestPlainRowsStraightCrossesBend(t *testing.T) {
	// b's merge line bends out to lane 2 across lane 1, which still carries
	// the a→d line, so the crossing cell becomes a junction.
	g := layout.New(7)
	g.AddCommits([]layout.CommitRecord{
		rec("a", "b", "d"),
		rec("b", "c", "e"),
		rec("c", "f"),
		rec("d"),
		rec("e"),
		rec("f"),
	})
	rows := New(PaletteFor(ThemeLight)).PlainRows(g, 0, 6)
	for _, row := range rows {
		if strings.ContainsRune(row, '┼') {
			return
		}
	}
	t.Fatalf("no junction rune in rows:\n%s", strings.Join(rows, "\n"))
}

func TestRefBadges(t *testing.T) {
	r := New(PaletteFor(ThemeLight))
	got := r.RefBadges([]string{"HEAD -> master", "master", "origin/master", "tag: v1.0.0", " ", ""})
	// Styling is a no-op when stdout is not a terminal.
	want := "[HEAD -> master] [master] [origin/master] [tag: v1.0.0]"
	if got != want {
		t.Fatalf("RefBadges = %q, want %q", got, want)
	}
	if r.RefBadges(nil) != "" {
		t.Fatalf("RefBadges(nil) = %q, want empty", r.RefBadges(nil))
	}
}

func TestThemePreferenceFromString(t *testing.T) {
	tests := []struct {
		raw  string
		want ThemePreference
	}{
		{"dark", ThemeDark},
		{" Light ", ThemeLight},
		{"auto", ThemeAuto},
		{"nonsense", ThemeAuto},
		{"", ThemeAuto},
	}
	for _, tt := range tests {
		if got := ThemePreferenceFromString(tt.raw); got != tt.want {
			t.Fatalf("ThemePreferenceFromString(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestPaletteForAutoUsesDetection(t *testing.T) {
	orig := detectDarkMode
	defer func() { detectDarkMode = orig }()

	detectDarkMode = func() (bool, error) { return true, nil }
	if p := PaletteFor(ThemeAuto); !p.Dark {
		t.Fatalf("auto palette with dark detection should be dark")
	}
	detectDarkMode = func() (bool, error) { return false, errors.New("unsupported") }
	if p := PaletteFor(ThemeAuto); p.Dark {
		t.Fatalf("auto palette should fall back to light when detection fails")
	}
	if !PaletteFor(ThemeDark).Dark || PaletteFor(ThemeLight).Dark {
		t.Fatalf("explicit preferences must not consult detection")
	}
}
