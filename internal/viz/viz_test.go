package viz

import (
	"context"
	"errors"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega"

	"github.com/san-kum/acoustray/internal/boundary"
	"github.com/san-kum/acoustray/internal/grid"
	"github.com/san-kum/acoustray/internal/sim"
	"github.com/san-kum/acoustray/internal/storage"
)

var (
	unitX = grid.Range{Min: 0, Max: 10}
	unitY = grid.Range{Min: -10, Max: 0}
)

// lit reports whether sub-pixel (x, y) of c is drawn.
func lit(c *Canvas, x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if got := c.String(); got != "⠁⢀\n" {
		t.Errorf("String() = %q", got)
	}
	if !lit(c, 3, 3) || lit(c, 1, 0) {
		t.Error("lit sub-pixels disagree with Set")
	}
	c.Clear()
	if lit(c, 0, 0) {
		t.Error("Clear left a dot")
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 3)
	if !lit(c, 0, 0) || !lit(c, 7, 3) {
		t.Error("line endpoints not set")
	}
}

func TestViewportMap(t *testing.T) {
	v := Viewport{X: unitX, Y: unitY, W: 10, H: 5}

	tests := []struct {
		name   string
		x, y   float64
		px, py int
		ok     bool
	}{
		{"top left", 0, 0, 0, 0, true},
		{"bottom right edge", 10, -10, 9, 4, true},
		{"middle", 5.5, -5, 5, 2, true},
		{"left of range", -0.1, -5, 0, 0, false},
		{"below range", 5, -10.1, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px, py, ok := v.Map(tt.x, tt.y)
			if ok != tt.ok || (ok && (px != tt.px || py != tt.py)) {
				t.Errorf("Map(%v, %v) = (%d, %d, %v), want (%d, %d, %v)", tt.x, tt.y, px, py, ok, tt.px, tt.py, tt.ok)
			}
		})
	}
}

func TestPreviewFloor(t *testing.T) {
	p := Preview{XRange: unitX, YRange: unitY, Floor: 0.01}
	c := NewCanvas(5, 5)

	dots := []Dot{
		{X: 1, Y: -1, Intensity: 1},
		{X: 9, Y: -9, Intensity: 1e-4},
		{X: 5, Y: -5, Intensity: 0},
	}
	p.Draw(c, dots, nil, 1)

	v := CanvasViewport(c, unitX, unitY)
	for _, d := range dots {
		x, y, _ := v.Map(d.X, d.Y)
		want := d.Intensity >= 0.01
		if lit(c, x, y) != want {
			t.Errorf("dot %+v: set = %v, want %v", d, !want, want)
		}
	}
}

func TestPreviewOutline(t *testing.T) {
	p := Preview{XRange: unitX, YRange: unitY}
	c := NewCanvas(5, 5)
	p.Draw(c, nil, [][]boundary.Point{{{X: 0, Y: -5}, {X: 10, Y: -5}}}, 0)

	v := CanvasViewport(c, unitX, unitY)
	_, row, _ := v.Map(0, -5)
	for x := 0; x < v.W; x++ {
		if !lit(c, x, row) {
			t.Fatalf("outline gap at x=%d", x)
		}
	}
}

func TestShade(t *testing.T) {
	g := NewWithT(t)
	g.Expect(shade(0, 1)).To(Equal(uint8(paletteBackground)))
	g.Expect(shade(1, 1)).To(Equal(uint8(paletteFirstLevel + levels - 1)))
	g.Expect(shade(1e-9, 1)).To(Equal(uint8(paletteFirstLevel)))
	g.Expect(shade(1e-3, 1)).To(BeNumerically(">", shade(1e-5, 1)))
	g.Expect(Level(5, 0)).To(Equal(1.0))
	g.Expect(Level(1e-3, 1)).To(BeNumerically("~", 0.5, 1e-12))
	g.Expect(len(heatPalette())).To(Equal(paletteFirstLevel + levels))
}

func writeRun(t *testing.T, frames int) (*storage.Store, sim.RenderJob) {
	t.Helper()
	store := storage.New(filepath.Join(t.TempDir(), "run"))
	if err := store.Reset(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < frames; i++ {
		f := &sim.Frame{Index: i, Cells: []grid.Cell{{X: float64(i), Y: -1, Intensity: 0.5}}}
		if err := store.WriteFrame(f); err != nil {
			t.Fatal(err)
		}
	}
	n, err := store.WriteBoundaries([][]boundary.Point{{{X: 0, Y: -8}, {X: 10, Y: -8}}})
	if err != nil {
		t.Fatal(err)
	}
	return store, sim.RenderJob{
		Dir:          store.Dir(),
		Frames:       frames,
		Boundaries:   n,
		XRange:       unitX,
		YRange:       unitY,
		Duration:     0.3,
		MaxIntensity: 1,
	}
}

func TestGIFRenderer(t *testing.T) {
	g := NewWithT(t)
	store, job := writeRun(t, 3)

	r := &GIFRenderer{Width: 20, Height: 20}
	g.Expect(r.Render(context.Background(), job)).To(Succeed())

	f, err := os.Open(filepath.Join(store.Dir(), "animation.gif"))
	g.Expect(err).NotTo(HaveOccurred())
	defer f.Close()

	anim, err := gif.DecodeAll(f)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(anim.Image).To(HaveLen(3))
	g.Expect(anim.Delay).To(Equal([]int{10, 10, 10}))

	first := anim.Image[0]
	g.Expect(first.ColorIndexAt(0, 2)).To(BeNumerically(">=", paletteFirstLevel))
	g.Expect(first.ColorIndexAt(10, 16)).To(Equal(uint8(paletteOutline)))
}

func TestGIFRendererErrors(t *testing.T) {
	r := &GIFRenderer{}
	if err := r.Render(context.Background(), sim.RenderJob{}); !errors.Is(err, ErrEmptyJob) {
		t.Errorf("empty job: err = %v", err)
	}

	_, job := writeRun(t, 2)
	job.Frames = 5
	if err := r.Render(context.Background(), job); err == nil {
		t.Error("missing dataset: expected error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job.Frames = 2
	if err := r.Render(ctx, job); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: err = %v", err)
	}
}

func TestFeedStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	feed := NewFeed(ctx, 0)
	cancel()

	done := make(chan struct{})
	go func() {
		feed.OnFrame(&sim.Frame{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("OnFrame blocked after cancel")
	}
}

func TestProgressFollowsFeed(t *testing.T) {
	g := NewWithT(t)

	feed := NewFeed(context.Background(), 4)
	feed.OnFrame(&sim.Frame{Index: 0, Rays: 3, Cells: []grid.Cell{{X: 1, Y: -1, Intensity: 2}}})
	feed.OnFrame(&sim.Frame{Index: 1, Time: 0.5, Rays: 2, Cells: []grid.Cell{{X: 2, Y: -2, Intensity: 1}}})
	feed.Finish(nil)

	var m tea.Model = NewProgress(ProgressConfig{
		Title:   "dome",
		Frames:  2,
		Feed:    feed,
		Preview: Preview{XRange: unitX, YRange: unitY},
	})

	cmd := m.(Progress).Init()
	for cmd != nil {
		msg := cmd()
		m, cmd = m.Update(msg)
		if _, ok := msg.(finishedMsg); ok {
			break
		}
	}

	p := m.(Progress)
	g.Expect(p.Err()).NotTo(HaveOccurred())
	g.Expect(p.totals).To(Equal([]float64{2, 1}))

	view := p.View()
	g.Expect(view).To(ContainSubstring("DOME"))
	g.Expect(view).To(ContainSubstring("DONE"))
	g.Expect(view).To(ContainSubstring("2/2"))
	g.Expect(strings.Contains(view, "0.500s")).To(BeTrue())
}

func TestProgressQuitCancels(t *testing.T) {
	cancelled := false
	m := NewProgress(ProgressConfig{
		Feed:   NewFeed(context.Background(), 0),
		Cancel: func() { cancelled = true },
	})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !cancelled || cmd == nil {
		t.Error("quit did not cancel the run")
	}
}

func TestProgressReportsFailure(t *testing.T) {
	m := NewProgress(ProgressConfig{Title: "x", Feed: NewFeed(context.Background(), 0)})
	next, _ := m.Update(finishedMsg{err: errors.New("boom")})
	if v := next.View(); !strings.Contains(v, "FAILED") || !strings.Contains(v, "boom") {
		t.Errorf("view = %q", v)
	}
}
