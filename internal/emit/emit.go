// Package emit drives manifest builds: every target library is assembled
// into its own program and written out as textual IR, in parallel.
package emit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"loom/internal/codegen"
	"loom/internal/manifest"
	"loom/internal/sample"
)

// Status captures progress state for one target.
type Status string

const (
	// StatusQueued indicates the target is waiting to start.
	StatusQueued Status = "queued"
	// StatusBuilding indicates the target's libraries are being built.
	StatusBuilding Status = "building"
	// StatusWriting indicates the assembled module is being written out.
	StatusWriting Status = "writing"
	// StatusDone indicates the target finished.
	StatusDone Status = "done"
	// StatusError indicates the target failed.
	StatusError Status = "error"
)

// Event reports progress for a single target.
type Event struct {
	Target  string
	Status  Status
	Output  string
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// NopSink discards events.
type NopSink struct{}

func (NopSink) OnEvent(Event) {}

// Result describes one written target.
type Result struct {
	Target string
	Output string
	Bytes  int
}

// Run builds every manifest target and writes its module next to the
// manifest root. Targets run in parallel, capped at jobs (NumCPU when
// jobs <= 0). Results keep manifest order.
func Run(ctx context.Context, m *manifest.Manifest, jobs int, sink ProgressSink) ([]Result, error) {
	if m == nil {
		return nil, fmt.Errorf("missing manifest")
	}
	if sink == nil {
		sink = NopSink{}
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	for _, tgt := range m.Targets {
		sink.OnEvent(Event{Target: tgt.Name, Status: StatusQueued})
	}

	results := make([]Result, len(m.Targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(m.Targets)))

	for i, tgt := range m.Targets {
		i, tgt := i, tgt
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			start := time.Now()
			sink.OnEvent(Event{Target: tgt.Name, Status: StatusBuilding})
			res, err := buildTarget(m, tgt, sink)
			if err != nil {
				sink.OnEvent(Event{Target: tgt.Name, Status: StatusError, Err: err, Elapsed: time.Since(start)})
				return fmt.Errorf("target %q: %w", tgt.Name, err)
			}
			sink.OnEvent(Event{Target: tgt.Name, Status: StatusDone, Output: res.Output, Elapsed: time.Since(start)})
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildTarget(m *manifest.Manifest, tgt manifest.TargetConfig, sink ProgressSink) (Result, error) {
	lib, err := sample.Build(tgt.Name)
	if err != nil {
		return Result{}, err
	}
	p := codegen.NewProgram(m.Program.Name)
	if m.Program.Triple != "" {
		p.SetTargetTriple(m.Program.Triple)
	}
	if err := p.Add(lib); err != nil {
		return Result{}, err
	}
	text := p.Assemble().String()
	sink.OnEvent(Event{Target: tgt.Name, Status: StatusWriting})

	out := tgt.Output
	if !filepath.IsAbs(out) {
		out = filepath.Join(m.Root, out)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return Result{}, fmt.Errorf("failed to write %q: %w", out, err)
	}
	return Result{Target: tgt.Name, Output: out, Bytes: len(text)}, nil
}
