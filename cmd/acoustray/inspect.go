package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/acoustray/internal/analysis"
	"github.com/san-kum/acoustray/internal/boundary"
	"github.com/san-kum/acoustray/internal/config"
	"github.com/san-kum/acoustray/internal/export"
	"github.com/san-kum/acoustray/internal/ocean"
	"github.com/san-kum/acoustray/internal/storage"
	"github.com/san-kum/acoustray/internal/viz"
)

var (
	maxDepth  float64
	samples   int
	frequency float64
	table     bool

	previewIndex int
	previewWidth int
	height       int
	floor        float64

	tlIndex   int
	depthY    float64
	receiverX float64
	tolerance float64
	reference float64

	svgIndex int
	svgWidth int
	svgFile  string
)

// openRun loads the manifest of the run directory named by args, or the
// default output directory.
func openRun(args []string) (*storage.Store, *storage.Manifest, error) {
	dir := config.DefaultOutput
	if len(args) > 0 {
		dir = args[0]
	}
	st := storage.New(dir)
	m, err := st.LoadManifest()
	if err != nil {
		return nil, nil, fmt.Errorf("no run in %s: %w", dir, err)
	}
	return st, m, nil
}

func pickFrame(m *storage.Manifest, i int) (int, error) {
	if i < 0 {
		i = m.Frames - 1
	}
	if i < 0 || i >= m.Frames {
		return 0, fmt.Errorf("frame %d out of range [0, %d)", i, m.Frames)
	}
	return i, nil
}

func loadOutlines(st *storage.Store) ([][]boundary.Point, error) {
	ids, err := st.ListBoundaries()
	if err != nil {
		return nil, err
	}
	outlines := make([][]boundary.Point, 0, len(ids))
	for _, id := range ids {
		pts, err := st.LoadBoundary(id)
		if err != nil {
			return nil, err
		}
		outlines = append(outlines, pts)
	}
	return outlines, nil
}

func plotProfile(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	column := &ocean.Column{Profile: cfg.Profile, Latitude: cfg.Latitude}
	profile := analysis.DepthProfile(column, maxDepth, samples, frequency)

	if table {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DEPTH\tTEMP\tSPEED\tPRESSURE\tIMPEDANCE\tABSORPTION")
		for _, p := range profile {
			fmt.Fprintf(w, "%.0fm\t%.2fC\t%.2fm/s\t%.4gPa\t%.4gRayl\t%.4gdB/m\n",
				p.Depth, p.Temperature, p.Speed, p.Pressure, p.Impedance, p.Absorption)
		}
		return w.Flush()
	}

	for _, c := range []struct {
		caption string
		value   func(analysis.DepthSample) float64
	}{
		{"sound speed (m/s)", func(p analysis.DepthSample) float64 { return p.Speed }},
		{"temperature (C)", func(p analysis.DepthSample) float64 { return p.Temperature }},
		{"absorption (dB/m)", func(p analysis.DepthSample) float64 { return p.Absorption }},
	} {
		data := make([]float64, len(profile))
		for i, p := range profile {
			data[i] = c.value(p)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s, 0 to %.0fm", c.caption, maxDepth)),
		))
		fmt.Println()
	}
	fmt.Printf("sound channel axis: %.0fm\n", analysis.MinSpeedDepth(profile))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	_, m, err := openRun(args)
	if err != nil {
		return err
	}
	if len(m.Stats) == 0 {
		return errors.New("no data to plot")
	}

	fmt.Printf("scenario: %s\n", m.Scenario)
	fmt.Printf("frames: %d over %.3gs\n\n", m.Frames, m.Duration)

	total := make([]float64, len(m.Stats))
	peak := make([]float64, len(m.Stats))
	rays := make([]float64, len(m.Stats))
	for i, s := range m.Stats {
		total[i], peak[i], rays[i] = s.Total, s.Peak, float64(s.Rays)
	}
	for _, p := range []struct {
		caption string
		data    []float64
	}{
		{"total intensity", total},
		{"peak cell intensity", peak},
		{"live rays", rays},
	} {
		fmt.Println(asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		))
		fmt.Println()
	}
	return nil
}

func previewFrame(cmd *cobra.Command, args []string) error {
	st, m, err := openRun(args)
	if err != nil {
		return err
	}
	i, err := pickFrame(m, previewIndex)
	if err != nil {
		return err
	}
	cells, err := st.LoadFrame(i)
	if err != nil {
		return err
	}
	outlines, err := loadOutlines(st)
	if err != nil {
		return err
	}

	p := viz.Preview{XRange: m.XRange, YRange: m.YRange, Floor: floor}
	fmt.Print(viz.Panel.Render(p.Render(previewWidth, height, viz.FromSamples(cells), outlines, m.MaxIntensity)))
	fmt.Printf("\n%s frame %d/%d, %d cells\n", m.Scenario, i, m.Frames-1, len(cells))
	return nil
}

func transmissionLoss(cmd *cobra.Command, args []string) error {
	st, m, err := openRun(args)
	if err != nil {
		return err
	}
	i, err := pickFrame(m, tlIndex)
	if err != nil {
		return err
	}
	cells, err := st.LoadFrame(i)
	if err != nil {
		return err
	}

	tol, ref := tolerance, reference
	if tol <= 0 {
		tol = m.CellSize / 2
	}
	if ref <= 0 {
		ref = m.MaxIntensity
	}
	loss, err := analysis.TransmissionLoss(cells, depthY, tol, ref)
	if err != nil {
		return err
	}

	data := make([]float64, len(loss))
	for j, p := range loss {
		data[j] = p.Loss
	}
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("transmission loss (dB) at y=%gm, x %.0f to %.0fm, frame %d",
			depthY, loss[0].X, loss[len(loss)-1].X, i)),
	))
	return nil
}

func receiverSpectrum(cmd *cobra.Command, args []string) error {
	st, m, err := openRun(args)
	if err != nil {
		return err
	}
	tol := tolerance
	if tol <= 0 {
		tol = m.CellSize
	}

	frames := make([][]storage.Sample, m.Frames)
	for i := range frames {
		if frames[i], err = st.LoadFrame(i); err != nil {
			return err
		}
	}
	series := analysis.Receiver(frames, receiverX, depthY, tol)

	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("intensity at (%g, %g)", receiverX, depthY)),
	))
	fmt.Println()

	if len(series) < 4 {
		return fmt.Errorf("%d frames are too few for a spectrum", len(series))
	}
	frameDt := float64(m.Steps/m.Frames) * m.Dt
	ps := analysis.PowerSpectrum(series)
	fmt.Println(asciigraph.Plot(ps,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum, 0 to %.3gHz", analysis.BinFrequency(len(ps)-1, len(series), frameDt))),
	))

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] > 0 && !math.IsNaN(ps[peak]) {
		fmt.Printf("dominant fluctuation: %.3gHz\n", analysis.BinFrequency(peak, len(series), frameDt))
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st, m, err := openRun(args)
	if err != nil {
		return err
	}
	i, err := pickFrame(m, svgIndex)
	if err != nil {
		return err
	}
	cells, err := st.LoadFrame(i)
	if err != nil {
		return err
	}
	outlines, err := loadOutlines(st)
	if err != nil {
		return err
	}

	svg := export.FrameToSVG(viz.FromSamples(cells), outlines, export.Options{
		XRange:    m.XRange,
		YRange:    m.YRange,
		CellSize:  m.CellSize,
		Width:     svgWidth,
		Reference: m.MaxIntensity,
	})
	if svgFile == "" {
		_, err := fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("exported", "frame", i, "path", svgFile)
	return nil
}
