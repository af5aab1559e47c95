package render

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/acoustray/internal/grid"
	"github.com/san-kum/acoustray/internal/sim"
)

var job = sim.RenderJob{
	Frames:       100,
	Boundaries:   2,
	XRange:       grid.Range{Min: -1500, Max: 1500},
	YRange:       grid.Range{Min: -2000, Max: 1000},
	Duration:     2,
	MaxIntensity: 2.5e-5,
}

func TestJobArgs(t *testing.T) {
	g := NewWithT(t)
	g.Expect(JobArgs(job)).To(Equal([]string{
		"100", "2", "-1500", "1500", "-2000", "1000", "2", "2.5e-05",
	}))
}

func TestRenderRunsInOutputDirectory(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no sh")
	}
	g := NewWithT(t)

	j := job
	j.Dir = t.TempDir()
	cmd := &Command{Name: "sh", Args: []string{"-c", `echo "$@" > args.txt`, "render"}}
	g.Expect(cmd.Render(context.Background(), j)).To(Succeed())

	raw, err := os.ReadFile(filepath.Join(j.Dir, "args.txt"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(raw)).To(Equal("100 2 -1500 1500 -2000 1000 2 2.5e-05\n"))
}

func TestRenderFailures(t *testing.T) {
	if err := (&Command{}).Render(context.Background(), job); !errors.Is(err, ErrNoCommand) {
		t.Errorf("empty command: err = %v", err)
	}

	j := job
	j.Dir = t.TempDir()
	if err := (&Command{Name: "acoustray-no-such-renderer"}).Render(context.Background(), j); err == nil {
		t.Error("missing executable: expected error")
	}
}
