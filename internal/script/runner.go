package script

import (
	"fmt"
	"io"

	"github.com/joshuapare/memsim/internal/logger"
	"github.com/joshuapare/memsim/mem/alloc"
	"github.com/joshuapare/memsim/mem/dirty"
	"github.com/joshuapare/memsim/mem/printer"
	"github.com/joshuapare/memsim/mem/verify"
)

// Options controls a Runner.
type Options struct {
	// StopOnError aborts the run at the first allocator error instead of
	// reporting it and continuing.
	StopOnError bool

	// Printer options for stats, map and blocks output.
	Printer printer.Options
}

// Result summarizes a run.
type Result struct {
	Commands int // commands executed
	Errors   int // allocator errors and failed checks
}

// Runner executes commands against a Manager it owns.
type Runner struct {
	cfg  alloc.Config
	m    *alloc.Manager
	dt   *dirty.Tracker
	out  io.Writer
	opts Options
}

// NewRunner creates a runner with a freshly initialized manager.
func NewRunner(cfg alloc.Config, out io.Writer, opts Options) (*Runner, error) {
	r := &Runner{cfg: cfg, out: out, opts: opts}
	if err := r.rebuild(cfg); err != nil {
		return nil, err
	}
	return r, nil
}

// Manager returns the manager the runner is driving.
func (r *Runner) Manager() *alloc.Manager {
	return r.m
}

// Dirty returns the ranges changed since the last map.
func (r *Runner) Dirty() *dirty.Tracker {
	return r.dt
}

func (r *Runner) rebuild(cfg alloc.Config) error {
	dt := dirty.NewTracker(cfg.MinBlockSize)
	m, err := alloc.New(&cfg, dt)
	if err != nil {
		return err
	}
	r.cfg, r.m, r.dt = cfg, m, dt
	return nil
}

func (r *Runner) printer() *printer.Printer {
	opts := r.opts.Printer
	if opts.Color && opts.Highlight == nil {
		opts.Highlight = r.dt.Contains
	}
	return printer.New(r.out, opts)
}

// Run executes cmds in order. Allocator errors are written inline and
// counted; with StopOnError the first one is returned.
func (r *Runner) Run(cmds []Command) (Result, error) {
	var res Result
	for _, cmd := range cmds {
		res.Commands++
		if err := r.Exec(cmd); err != nil {
			res.Errors++
			fmt.Fprintf(r.out, "error: line %d: %v\n", cmd.Line, err)
			if r.opts.StopOnError {
				return res, fmt.Errorf("line %d: %w", cmd.Line, err)
			}
		}
	}
	return res, nil
}

// Exec executes one command. Returned errors are recoverable: the manager
// is unchanged when an operation fails.
func (r *Runner) Exec(cmd Command) error {
	logger.Debug("script exec", "line", cmd.Line, "op", cmd.Op.String())

	switch cmd.Op {
	case OpInit:
		if cmd.Size > 0 && cmd.Size != r.cfg.TotalMemory {
			cfg := r.cfg
			cfg.TotalMemory = cmd.Size
			if err := r.rebuild(cfg); err != nil {
				return err
			}
		} else {
			r.m.Reset()
		}
		_, err := fmt.Fprintf(r.out, "Memory initialized: %d KB free\n", r.cfg.TotalMemory)
		return err

	case OpStatic:
		a, err := r.m.AllocateStatic()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(r.out, "Static memory allocated: %d KB at address %d\n", a.Size, a.Address)
		return err

	case OpSpawn:
		a, err := r.m.Spawn(cmd.Size)
		if err != nil {
			return err
		}
		return r.reportAlloc(a)

	case OpAlloc:
		a, err := r.m.Allocate(cmd.Owner, cmd.Size)
		if err != nil {
			return err
		}
		return r.reportAlloc(a)

	case OpFree:
		rel, err := r.m.Release(cmd.Owner)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(r.out, "Released %d KB from %s (%d block(s), %d merge(s))\n",
			rel.Size, rel.Owner, rel.Blocks, rel.Merges)
		return err

	case OpCoalesce:
		_, err := fmt.Fprintf(r.out, "Coalesced: %d merge(s)\n", r.m.Coalesce())
		return err

	case OpStats:
		return r.printer().Stats(r.m.Stats())

	case OpMap:
		err := r.printer().Map(r.m.Snapshot(), r.cfg.TotalMemory)
		r.dt.Reset()
		return err

	case OpBlocks:
		return r.printer().Table(r.m.Snapshot())

	case OpCheck:
		if err := verify.AllInvariants(r.m.Snapshot(), r.m.Stats()); err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		_, err := fmt.Fprintln(r.out, "OK: all invariants hold")
		return err
	}

	return fmt.Errorf("unsupported op %s", cmd.Op)
}

func (r *Runner) reportAlloc(a alloc.Allocation) error {
	if a.Size != a.Requested {
		_, err := fmt.Fprintf(r.out, "Allocated %d KB (block %d KB) to %s at address %d\n",
			a.Requested, a.Size, a.Owner, a.Address)
		return err
	}
	_, err := fmt.Fprintf(r.out, "Allocated %d KB to %s at address %d\n", a.Requested, a.Owner, a.Address)
	return err
}
