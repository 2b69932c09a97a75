package trace

import (
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/cachesim/cache"
)

// NoAccessesMessage is printed for a hit-rate command issued before any
// load or store.
const NoAccessesMessage = "\nHit rate: no accesses yet"

// Runner executes trace commands against an engine.
type Runner struct {
	engine *cache.Engine
	out    io.Writer
}

// NewRunner creates a runner that prints to out. The engine should write its
// verbose lines to the same writer.
func NewRunner(engine *cache.Engine, out io.Writer) *Runner {
	return &Runner{engine: engine, out: out}
}

// Engine returns the engine the runner drives.
func (r *Runner) Engine() *cache.Engine {
	return r.engine
}

// Run executes every command of the file in order.
func (r *Runner) Run(f *File) error {
	for _, cmd := range f.Commands {
		if err := r.Exec(cmd); err != nil {
			return fmt.Errorf("line %d: %w", cmd.Line, err)
		}
	}

	return nil
}

// Exec executes a single command.
func (r *Runner) Exec(cmd Command) error {
	switch cmd.Kind {
	case Load:
		r.engine.Load(cmd.Address)
	case Store:
		r.engine.Store(cmd.Address)
	case ToggleVerbose:
		r.engine.ToggleVerbose()
	case PrintState:
		return r.engine.WriteState(r.out)
	case PrintHitRate:
		return r.printHitRate()
	default:
		return &MalformedCommandError{
			Line:   cmd.Line,
			Token:  cmd.Kind.String(),
			Reason: "is incorrect",
		}
	}

	return nil
}

func (r *Runner) printHitRate() error {
	err := r.engine.WriteHitRate(r.out)
	if errors.Is(err, cache.ErrNoAccesses) {
		_, err = fmt.Fprintln(r.out, NoAccessesMessage)
	}

	return err
}

// RunFile parses the script at path, builds its engine and runs it, printing
// to out. It returns the engine for inspection.
func RunFile(path string, out io.Writer, opts ...cache.Option) (*cache.Engine, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	opts = append([]cache.Option{cache.WithOutput(out)}, opts...)

	engine, err := f.NewEngine(opts...)
	if err != nil {
		return nil, err
	}

	if err := NewRunner(engine, out).Run(f); err != nil {
		return engine, err
	}

	return engine, nil
}
