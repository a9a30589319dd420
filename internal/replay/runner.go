package replay

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"liquidityEngine/internal/engine"
	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/storage"
)

// RunConfig holds runtime settings for a replay.
type RunConfig struct {
	ScriptPath        string
	BatchSize         uint64
	CheckpointPath    string
	CheckpointEnabled bool
}

// Summary counts what a replay did.
type Summary struct {
	Instructions int
	Applied      int
	Rejected     int
	Resumed      int
	Events       int
}

// Runner applies a script to an engine and writes the events to a sink.
type Runner struct {
	cfg        RunConfig
	eng        *engine.Engine
	sink       storage.Sink
	keys       *KeyBook
	applier    *applier
	logger     *zap.Logger
	checkpoint *CheckpointStore
}

// NewRunner builds a Runner. advance_clock only works when the engine runs
// on an *engine.ManualClock.
func NewRunner(cfg RunConfig, eng *engine.Engine, sink storage.Sink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	keys := NewKeyBook()
	clock, _ := eng.Clock().(*engine.ManualClock)
	return &Runner{
		cfg:        cfg,
		eng:        eng,
		sink:       sink,
		keys:       keys,
		applier:    &applier{eng: eng, keys: keys, clock: clock},
		logger:     logger,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
	}
}

// Keys exposes the names bound during the run.
func (r *Runner) Keys() *KeyBook { return r.keys }

// Run applies script in batches. Lines at or before a stored checkpoint are
// applied again to rebuild state, but their events are not re-emitted.
func (r *Runner) Run(ctx context.Context, script []model.Instruction) (Summary, error) {
	var sum Summary
	if r.sink == nil {
		return sum, fmt.Errorf("sink is nil")
	}
	if r.cfg.BatchSize == 0 {
		return sum, fmt.Errorf("batch size must be greater than zero")
	}
	sum.Instructions = len(script)
	if len(script) == 0 {
		r.logger.Info("empty script")
		return sum, nil
	}

	batches, err := SplitBatches(script, r.cfg.BatchSize)
	if err != nil {
		return sum, err
	}
	resume, err := r.loadResume(script)
	if err != nil {
		return sum, err
	}

	for _, batch := range batches {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		events := make([]model.LiquidityEvent, 0, len(batch))
		for _, ins := range batch {
			if resume.pending() && ins.Line > resume.Line {
				if err := r.verifyResume(&resume); err != nil {
					return sum, err
				}
			}
			emitted, err := r.step(ctx, ins)
			if err != nil {
				return sum, err
			}
			if ins.Line <= resume.Line {
				sum.Resumed++
				continue
			}
			if len(emitted) == 1 && emitted[0].Kind == model.EventRejected {
				sum.Rejected++
			} else {
				sum.Applied++
			}
			for _, ev := range emitted {
				events = append(events, *ev)
			}
		}

		last := batch.LastLine()
		if last <= resume.Line {
			continue
		}
		if len(events) > 0 {
			if err := r.sink.PutEvents(ctx, events); err != nil {
				return sum, fmt.Errorf("store events: %w", err)
			}
		}
		sum.Events += len(events)
		if err := r.checkpoint.Save(r.position(last, resume.Events+sum.Events)); err != nil {
			return sum, err
		}

		r.logger.Info("batch complete",
			zap.Int("events", len(events)),
			zap.Uint64("from_line", batch.FirstLine()),
			zap.Uint64("to_line", last),
			zap.Uint64("sequence", r.eng.Sequence()),
		)
	}
	if resume.pending() {
		if err := r.verifyResume(&resume); err != nil {
			return sum, err
		}
	}

	r.logger.Info("replay complete",
		zap.Int("applied", sum.Applied),
		zap.Int("rejected", sum.Rejected),
		zap.Int("resumed", sum.Resumed),
		zap.Int("events", sum.Events),
	)
	return sum, nil
}

// resumePoint is a loaded checkpoint and whether the rebuilt state has been
// checked against it.
type resumePoint struct {
	Checkpoint
	verified bool
}

func (p *resumePoint) pending() bool { return p.Line > 0 && !p.verified }

func (r *Runner) loadResume(script []model.Instruction) (resumePoint, error) {
	cp, ok, err := r.checkpoint.Load()
	if err != nil || !ok {
		return resumePoint{}, err
	}
	if !cp.Matches(r.cfg.ScriptPath) {
		r.logger.Warn("checkpoint belongs to another script, starting over",
			zap.String("checkpoint_script", cp.Script),
			zap.String("script", r.cfg.ScriptPath),
		)
		return resumePoint{}, nil
	}
	if last := script[len(script)-1].Line; cp.Line > last {
		return resumePoint{}, fmt.Errorf("checkpoint line %d is past the end of the script (line %d)", cp.Line, last)
	}
	r.logger.Info("resume from checkpoint",
		zap.Uint64("line", cp.Line),
		zap.Uint64("sequence", cp.Sequence),
	)
	return resumePoint{Checkpoint: cp}, nil
}

// verifyResume checks that re-applying the script up to the checkpoint line
// rebuilt the same engine position.
func (r *Runner) verifyResume(p *resumePoint) error {
	if seq := r.eng.Sequence(); seq != p.Sequence {
		return fmt.Errorf("resume at line %d: engine sequence %d, checkpoint sequence %d", p.Line, seq, p.Sequence)
	}
	if r.applier.clock != nil && p.Clock != 0 {
		if now := r.applier.clock.Now(); now != p.Clock {
			return fmt.Errorf("resume at line %d: clock %d, checkpoint clock %d", p.Line, now, p.Clock)
		}
	}
	p.verified = true
	return nil
}

func (r *Runner) position(line uint64, events int) Checkpoint {
	cp := Checkpoint{
		Script:   r.cfg.ScriptPath,
		Line:     line,
		Sequence: r.eng.Sequence(),
		Events:   events,
	}
	if r.applier.clock != nil {
		cp.Clock = r.applier.clock.Now()
	}
	return cp
}

// step applies one instruction. A failure matching expect_error becomes a
// Rejected event; any other outcome that differs from the script aborts.
func (r *Runner) step(ctx context.Context, ins model.Instruction) ([]*model.LiquidityEvent, error) {
	events, err := r.applier.apply(ctx, ins)
	switch {
	case err == nil && ins.ExpectError != "":
		return nil, fmt.Errorf("line %d: %s succeeded, expected %s", ins.Line, ins.Op, ins.ExpectError)
	case err == nil:
		return events, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case ins.ExpectError == "":
		return nil, fmt.Errorf("line %d: %w", ins.Line, err)
	case !MatchesError(err, ins.ExpectError):
		return nil, fmt.Errorf("line %d: %s failed with %v, expected %s", ins.Line, ins.Op, err, ins.ExpectError)
	}

	ev := r.eng.Rejected(ins.Op, err)
	ev.Rejection.Line = ins.Line
	r.logger.Debug("expected rejection",
		zap.Uint64("line", ins.Line),
		zap.String("op", ins.Op),
		zap.String("error", ev.Rejection.Name),
	)
	return []*model.LiquidityEvent{ev}, nil
}

// MatchesError reports whether err is the failure named by expect: a
// program error name, its hex or decimal code, or failing that a substring
// of the message.
func MatchesError(err error, expect string) bool {
	if err == nil || expect == "" {
		return false
	}
	if code, ok := errcode.From(err); ok {
		if strings.EqualFold(code.Name, expect) || strings.EqualFold(code.Hex(), expect) {
			return true
		}
		if strconv.FormatUint(uint64(code.Code), 10) == expect {
			return true
		}
	}
	return strings.Contains(err.Error(), expect)
}
