package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/acoustray/internal/boundary"
	"github.com/san-kum/acoustray/internal/raytrace"
	"github.com/san-kum/acoustray/internal/sim"
)

// Snapshot is a copy of one frame that can cross goroutines.
type Snapshot struct {
	Index  int
	Stats  sim.Stats
	Events raytrace.Events
	Dots   []Dot
}

// Feed is a sim.Observer that forwards frame copies to a progress view.
// The simulation goroutine calls OnFrame and then Finish exactly once.
type Feed struct {
	ctx    context.Context
	frames chan Snapshot
	done   chan error
}

var _ sim.Observer = (*Feed)(nil)

func NewFeed(ctx context.Context, buffer int) *Feed {
	return &Feed{
		ctx:    ctx,
		frames: make(chan Snapshot, buffer),
		done:   make(chan error, 1),
	}
}

// OnFrame blocks until the view takes the frame or ctx is cancelled.
func (f *Feed) OnFrame(fr *sim.Frame) {
	s := Snapshot{
		Index:  fr.Index,
		Stats:  fr.Stats(),
		Events: fr.Events,
		Dots:   FromCells(fr.Cells),
	}
	select {
	case f.frames <- s:
	case <-f.ctx.Done():
	}
}

func (f *Feed) Finish(err error) {
	f.done <- err
	close(f.frames)
}

type frameMsg Snapshot

type finishedMsg struct{ err error }

func (f *Feed) next() tea.Msg {
	s, ok := <-f.frames
	if !ok {
		return finishedMsg{err: <-f.done}
	}
	return frameMsg(s)
}

type ProgressConfig struct {
	Title  string
	Frames int
	Feed   *Feed

	Preview   Preview
	Outlines  [][]boundary.Point
	Reference float64

	// Cancel stops the simulation when the user quits early.
	Cancel context.CancelFunc
}

// Progress follows a running simulation frame by frame.
type Progress struct {
	cfg    ProgressConfig
	canvas *Canvas

	last   *Snapshot
	totals []float64
	rays   []float64
	done   bool
	err    error
}

const (
	canvasWidth  = 60
	canvasHeight = 20
)

func NewProgress(cfg ProgressConfig) Progress {
	return Progress{
		cfg:    cfg,
		canvas: NewCanvas(canvasWidth, canvasHeight),
		totals: make([]float64, 0, cfg.Frames),
		rays:   make([]float64, 0, cfg.Frames),
	}
}

// Err is the simulation error once the view has finished.
func (m Progress) Err() error { return m.err }

func (m Progress) Init() tea.Cmd {
	return m.cfg.Feed.next
}

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cfg.Cancel != nil {
				m.cfg.Cancel()
			}
			return m, tea.Quit
		}
	case frameMsg:
		s := Snapshot(msg)
		m.last = &s
		m.totals = append(m.totals, s.Stats.Total)
		m.rays = append(m.rays, float64(s.Stats.Rays))
		m.canvas.Clear()
		m.cfg.Preview.Draw(m.canvas, s.Dots, m.cfg.Outlines, m.cfg.Reference)
		return m, m.cfg.Feed.next
	case finishedMsg:
		m.done, m.err = true, msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m Progress) View() string {
	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.cfg.Title)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(StatusFailed.Render("FAILED") + " " + m.err.Error() + "\n\n")
	case m.done:
		s.WriteString(StatusDone.Render("DONE") + "\n\n")
	default:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	}

	n := 0
	if m.last != nil {
		n = m.last.Index + 1
	}
	fraction := 0.0
	if m.cfg.Frames > 0 {
		fraction = float64(n) / float64(m.cfg.Frames)
	}
	s.WriteString(ProgressBar(fraction, 30) + fmt.Sprintf(" %d/%d\n\n", n, m.cfg.Frames))

	if m.last != nil {
		st, ev := m.last.Stats, m.last.Events
		row := func(label, value string) {
			s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
		}
		row("Time", fmt.Sprintf("%.3fs", st.Time))
		row("Rays", fmt.Sprintf("%d", st.Rays))
		row("Cells", fmt.Sprintf("%d", st.Cells))
		row("Total", fmt.Sprintf("%.4g", st.Total))
		row("Peak", fmt.Sprintf("%.4g", st.Peak))
		row("Crossings", fmt.Sprintf("%d", ev.Crossings))
		row("Reflected", fmt.Sprintf("%d", ev.Reflections))
		row("TIR", fmt.Sprintf("%d", ev.TotalInternal))
		row("Removed", fmt.Sprintf("%d", ev.Removed))
	}
	if len(m.totals) > 1 {
		chart := asciigraph.Plot(m.totals, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Total intensity"))
		s.WriteString(Graph.Render(chart) + "\n")
		s.WriteString(Sparkline(m.rays, 30) + " " + Subtle.Render("rays") + "\n")
	}
	s.WriteString("\n" + Separator(30) + "\n" + KeyHint.Render("Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, Panel.Render(m.canvas.String()), "  ", s.String())
}
