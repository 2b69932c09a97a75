package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Generated trace file names.
const (
	FusedFileName   = "fused.trace"
	UnfusedFileName = "unfused.trace"
)

// Generator writes synthetic traces that compare two loops run one after
// the other (unfused) against the same work in a single loop (fused).
//
// Four arrays of Loop² words are laid out back to back: a, b, c and d. The
// first loop computes a[i] from b[i] and c[i], the second computes d[i] from
// a[i] and c[i].
type Generator struct {
	SetCount     int
	LineSize     int
	Organization string
	Loop         int
}

func (g Generator) arrays() (a, b, c, d uint64) {
	n := uint64(g.Loop) * uint64(g.Loop)
	return 0, n, 2 * n, 3 * n
}

func (g Generator) writeHeader(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d\n%d\n%s\n",
		g.SetCount, g.LineSize, g.Organization)
	return err
}

type traceWriter struct {
	w   *bufio.Writer
	err error
}

func (t *traceWriter) op(kind Kind, addr uint64) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, "%s %d\n", kind, addr)
}

func (t *traceWriter) finish() error {
	if t.err != nil {
		return t.err
	}

	if _, err := fmt.Fprintf(t.w, "%s\n", PrintHitRate); err != nil {
		return err
	}

	return t.w.Flush()
}

func (g Generator) firstBody(t *traceWriter, i uint64) {
	a, b, c, _ := g.arrays()
	t.op(Load, b+i)
	t.op(Load, c+i)
	t.op(Store, a+i)
}

func (g Generator) secondBody(t *traceWriter, i uint64) {
	a, _, c, d := g.arrays()
	t.op(Load, a+i)
	t.op(Load, c+i)
	t.op(Store, d+i)
}

// WriteUnfused writes the two loops one after the other.
func (g Generator) WriteUnfused(w io.Writer) error {
	if err := g.writeHeader(w); err != nil {
		return err
	}

	t := &traceWriter{w: bufio.NewWriter(w)}
	for i := uint64(0); i < uint64(g.Loop); i++ {
		g.firstBody(t, i)
	}
	for i := uint64(0); i < uint64(g.Loop); i++ {
		g.secondBody(t, i)
	}

	return t.finish()
}

// WriteFused writes both loop bodies inside a single loop.
func (g Generator) WriteFused(w io.Writer) error {
	if err := g.writeHeader(w); err != nil {
		return err
	}

	t := &traceWriter{w: bufio.NewWriter(w)}
	for i := uint64(0); i < uint64(g.Loop); i++ {
		g.firstBody(t, i)
		g.secondBody(t, i)
	}

	return t.finish()
}

// WriteFiles writes fused.trace and unfused.trace into dir.
func (g Generator) WriteFiles(dir string) error {
	if err := g.writeFile(filepath.Join(dir, UnfusedFileName), g.WriteUnfused); err != nil {
		return err
	}

	return g.writeFile(filepath.Join(dir, FusedFileName), g.WriteFused)
}

func (g Generator) writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write trace file %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close trace file %s: %w", path, err)
	}

	return nil
}
