package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/acoustray/internal/boundary"
	"github.com/san-kum/acoustray/internal/grid"
	"github.com/san-kum/acoustray/internal/material"
	"github.com/san-kum/acoustray/internal/sim"
)

type memorySink struct {
	resets  int
	frames  []*sim.Frame
	failAt  int
	failErr error

	outlines [][]boundary.Point
}

func (m *memorySink) Reset() error {
	m.resets++
	m.frames = nil
	return nil
}

func (m *memorySink) WriteFrame(f *sim.Frame) error {
	if m.failErr != nil && f.Index == m.failAt {
		return m.failErr
	}
	m.frames = append(m.frames, f)
	return nil
}

func (m *memorySink) Dir() string { return "memory" }

func (m *memorySink) WriteBoundaries(outlines [][]boundary.Point) (int, error) {
	m.outlines = outlines
	return len(outlines), nil
}

type recordingRenderer struct {
	jobs []sim.RenderJob
}

func (r *recordingRenderer) Render(_ context.Context, job sim.RenderJob) error {
	r.jobs = append(r.jobs, job)
	return nil
}

type frameCounter struct{ n int }

func (c *frameCounter) OnFrame(*sim.Frame) { c.n++ }

type peakMetric struct{ peak float64 }

func (p *peakMetric) Name() string { return "peak" }
func (p *peakMetric) Observe(f *sim.Frame) {
	p.peak = math.Max(p.peak, f.Stats().Peak)
}
func (p *peakMetric) Value() float64 { return p.peak }
func (p *peakMetric) Reset()         { p.peak = 0 }

func newSimulation() *sim.Simulation {
	s, err := sim.New(sim.Config{
		CellSize: 5,
		XRange:   grid.Range{Min: -1500, Max: 1500},
		YRange:   grid.Range{Min: -2000, Max: 1000},
	})
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("Simulation", func() {
	var (
		s    *sim.Simulation
		sink *memorySink
		ctx  context.Context
	)

	BeforeEach(func() {
		s = newSimulation()
		sink = &memorySink{}
		ctx = context.Background()
	})

	Describe("New", func() {
		It("rejects a non-positive cell size", func() {
			_, err := sim.New(sim.Config{CellSize: 0, XRange: grid.Range{Min: 0, Max: 1}, YRange: grid.Range{Min: 0, Max: 1}})
			Expect(err).To(MatchError(grid.ErrInvalidGrid))
		})

		It("rejects unordered ranges", func() {
			_, err := sim.New(sim.Config{CellSize: 1, XRange: grid.Range{Min: 5, Max: 1}, YRange: grid.Range{Min: 0, Max: 1}})
			Expect(err).To(MatchError(grid.ErrInvalidGrid))
		})
	})

	Describe("Calculate", func() {
		BeforeEach(func() {
			Expect(s.AddSource(-math.Pi/4, math.Pi/4, 3, 1, 100, 0, -10)).To(Succeed())
		})

		It("writes exactly the requested frames at evenly spaced steps", func() {
			res, err := s.Calculate(ctx, 0.5, 5, 5, sink)
			Expect(err).NotTo(HaveOccurred())

			Expect(sink.resets).To(Equal(1))
			Expect(sink.frames).To(HaveLen(5))
			Expect(res.Frames).To(Equal(5))
			Expect(res.Steps).To(Equal(10))
			Expect(res.Spacing).To(Equal(2))
			for i, f := range sink.frames {
				Expect(f.Index).To(Equal(i))
				Expect(f.Step).To(Equal(2 * i))
				Expect(f.Time).To(BeNumerically("~", float64(2*i)*0.5, 1e-12))
			}
		})

		It("superposes the co-located rays of the first frame in phase", func() {
			_, err := s.Calculate(ctx, 0.5, 5, 5, sink)
			Expect(err).NotTo(HaveOccurred())

			first := sink.frames[0]
			Expect(first.Rays).To(Equal(3))
			Expect(first.Cells).To(HaveLen(1))
			Expect(first.Cells[0].Samples).To(Equal(3))
			Expect(first.Cells[0].Intensity).To(BeNumerically("~", 1, 1e-12))
		})

		It("reports the strongest emitted ray intensity", func() {
			res, err := s.Calculate(ctx, 0.5, 5, 1, sink)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.MaxIntensity).To(BeNumerically("~", 1.0/9, 1e-15))
			Expect(res.PeakRays).To(Equal(3))
		})

		It("recreates output on every call", func() {
			_, err := s.Calculate(ctx, 0.5, 5, 5, sink)
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Calculate(ctx, 0.5, 5, 2, sink)
			Expect(err).NotTo(HaveOccurred())

			Expect(sink.resets).To(Equal(2))
			Expect(sink.frames).To(HaveLen(2))
		})

		It("notifies observers and collects metrics", func() {
			counter := &frameCounter{}
			s.AddObserver(counter)
			s.AddMetric(&peakMetric{})

			res, err := s.Calculate(ctx, 0.5, 5, 5, sink)
			Expect(err).NotTo(HaveOccurred())
			Expect(counter.n).To(Equal(5))
			Expect(res.Metrics).To(HaveKeyWithValue("peak", BeNumerically(">", 0)))
			Expect(res.Stats).To(HaveLen(5))
		})

		DescribeTable("rejects bad arguments before touching the sink",
			func(dt, duration float64, frames int, want error) {
				_, err := s.Calculate(ctx, dt, duration, frames, sink)
				Expect(err).To(MatchError(want))
				Expect(sink.resets).To(BeZero())
			},
			Entry("zero dt", 0.0, 1.0, 1, sim.ErrInvalidTimestep),
			Entry("negative dt", -0.1, 1.0, 1, sim.ErrInvalidTimestep),
			Entry("zero duration", 0.1, 0.0, 1, sim.ErrInvalidDuration),
			Entry("zero frames", 0.5, 5.0, 0, sim.ErrInvalidFrameCount),
			Entry("more frames than steps", 0.5, 5.0, 11, sim.ErrTooManyFrames),
		)

		It("wraps sink failures with frame context", func() {
			sink.failErr = errors.New("disk full")
			sink.failAt = 2

			_, err := s.Calculate(ctx, 0.5, 5, 5, sink)
			var fe *sim.FrameError
			Expect(errors.As(err, &fe)).To(BeTrue())
			Expect(fe.Frame).To(Equal(2))
			Expect(fe.Step).To(Equal(4))
			Expect(err).To(MatchError(sink.failErr))
		})

		It("stops when the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.Calculate(cctx, 0.5, 5, 5, sink)
			Expect(err).To(MatchError(context.Canceled))
			Expect(sink.frames).To(BeEmpty())
		})
	})

	It("requires at least one source", func() {
		_, err := s.Calculate(ctx, 0.5, 5, 1, sink)
		Expect(err).To(MatchError(sim.ErrNoSources))
	})

	It("rejects a source with no rays", func() {
		Expect(s.AddSource(0, 1, 0, 1, 100, 0, 0)).NotTo(Succeed())
		Expect(s.Sources()).To(BeEmpty())
	})

	Describe("GenerateGIF", func() {
		It("writes outlines and hands the run to the renderer", func() {
			Expect(s.AddSource(-math.Pi, math.Pi, 16, 2, 100, -700, -600)).To(Succeed())
			dome, err := s.AddBoundary(material.MustDefine(material.Granite),
				boundary.Power{Scale: -1, Divisor: 10, Exponent: 2, Offset: 1000},
				boundary.WithUpperLimit(-500))
			Expect(err).NotTo(HaveOccurred())
			Expect(dome.LimitX(-400, 400)).To(Succeed())
			_, err = s.AddBoundary(material.MustDefine(material.TurbiditeArea),
				boundary.Power{Scale: 1, Divisor: 220, Exponent: 4, Offset: -1500})
			Expect(err).NotTo(HaveOccurred())

			renderer := &recordingRenderer{}
			res, err := s.GenerateGIF(ctx, 0.01, 0.5, 10, sink, renderer)
			Expect(err).NotTo(HaveOccurred())

			Expect(sink.outlines).To(HaveLen(2))
			Expect(sink.outlines[0][0]).To(Equal(boundary.Point{X: sink.outlines[0][1].X, Y: -2000}))
			Expect(sink.outlines[1]).To(HaveLen(sim.OutlineSamples))

			Expect(renderer.jobs).To(HaveLen(1))
			job := renderer.jobs[0]
			Expect(job.Dir).To(Equal("memory"))
			Expect(job.Frames).To(Equal(10))
			Expect(job.Boundaries).To(Equal(2))
			Expect(job.Duration).To(Equal(0.5))
			Expect(job.XRange).To(Equal(grid.Range{Min: -1500, Max: 1500}))
			Expect(job.MaxIntensity).To(Equal(res.MaxIntensity))
		})
	})
})

var _ = Describe("RunAll", func() {
	It("runs independent simulations and keeps job order", func() {
		var jobs []sim.Job
		sinks := []*memorySink{{}, {}, {}}
		for i, sk := range sinks {
			s := newSimulation()
			Expect(s.AddSource(-math.Pi/4, math.Pi/4, 3, 1, float64(100*(i+1)), 0, -10)).To(Succeed())
			jobs = append(jobs, sim.Job{Name: "job", Sim: s, Dt: 0.5, Duration: 5, Frames: i + 1, Sink: sk})
		}

		results, err := sim.RunAll(context.Background(), jobs)
		Expect(err).NotTo(HaveOccurred())
		for i, r := range results {
			Expect(r.Frames).To(Equal(i + 1))
			Expect(sinks[i].frames).To(HaveLen(i + 1))
		}
	})

	It("joins job errors", func() {
		s := newSimulation()
		results, err := sim.RunAll(context.Background(), []sim.Job{{Name: "empty", Sim: s, Dt: 0.5, Duration: 5, Frames: 1, Sink: &memorySink{}}})
		Expect(err).To(MatchError(sim.ErrNoSources))
		Expect(err.Error()).To(ContainSubstring("empty"))
		Expect(results[0]).To(BeNil())
	})
})
