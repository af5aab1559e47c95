// Package render hands a finished run to an external animation program.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/san-kum/acoustray/internal/sim"
)

var ErrNoCommand = errors.New("render: no command configured")

// Command runs Name with Args followed by the run description:
//
//	<frames> <boundaries> <xmin> <xmax> <ymin> <ymax> <duration> <maxIntensity>
//
// in the output directory.
type Command struct {
	Name   string
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
	Logger *log.Logger
}

func (c *Command) Render(ctx context.Context, job sim.RenderJob) error {
	if c.Name == "" {
		return ErrNoCommand
	}
	args := append(append([]string{}, c.Args...), JobArgs(job)...)

	cmd := exec.CommandContext(ctx, c.Name, args...)
	cmd.Dir = job.Dir
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if c.Logger != nil {
		c.Logger.Info("rendering", "cmd", c.Name, "dir", job.Dir, "frames", job.Frames)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("render: %s: %w", c.Name, err)
	}
	return nil
}

// JobArgs formats the positional arguments describing job.
func JobArgs(job sim.RenderJob) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		strconv.Itoa(job.Frames),
		strconv.Itoa(job.Boundaries),
		f(job.XRange.Min),
		f(job.XRange.Max),
		f(job.YRange.Min),
		f(job.YRange.Max),
		f(job.Duration),
		f(job.MaxIntensity),
	}
}
