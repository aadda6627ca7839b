// Package batch drives an input stream through the engine.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/cfcosta/fictional-octo-dollop/internal/engine"
	"github.com/cfcosta/fictional-octo-dollop/internal/journal"
	"github.com/cfcosta/fictional-octo-dollop/internal/model"
	"github.com/cfcosta/fictional-octo-dollop/internal/rejectlog"
)

// Policy decides what happens when a single record or input fails.
type Policy string

const (
	// PolicySkip logs the failure and continues with the next record.
	PolicySkip Policy = "skip"
	// PolicyAbort stops the run at the first failure.
	PolicyAbort Policy = "abort"
)

// ParsePolicy maps a config or flag value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicySkip, PolicyAbort:
		return p, nil
	case "":
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("unknown policy %q (want %q or %q)", s, PolicySkip, PolicyAbort)
	}
}

// Source yields Inputs in order. Next returns io.EOF at the end of the
// stream and a *journal.RecordError for a record that could not be parsed.
type Source interface {
	Next() (model.Input, error)
	Line() int
}

// Options configures Run.
type Options struct {
	Policy  Policy
	Logger  *zap.Logger
	Rejects *rejectlog.Writer // optional
}

// Summary describes a finished run.
type Summary struct {
	engine.Stats
	Records   int // records read, including malformed ones
	Malformed int
}

// Run applies every Input from src to eng.
//
// Record and input failures are logged, written to the reject log, and
// either skipped or returned depending on the policy. Invariant violations
// and I/O errors always end the run.
func Run(ctx context.Context, src Source, eng *engine.Engine, opts Options) (Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var sum Summary
	for {
		if err := ctx.Err(); err != nil {
			sum.Stats = eng.Stats()
			return sum, err
		}

		in, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		var rerr *journal.RecordError
		if errors.As(err, &rerr) {
			sum.Records++
			sum.Malformed++
			logger.Warn("skipping malformed record", zap.Int("line", rerr.Line), zap.Error(rerr.Err))
			if werr := reject(opts.Rejects, rejectlog.FromRecord(rerr.Line, rerr.Record, rerr.Err)); werr != nil {
				return sum, werr
			}
			if opts.Policy == PolicyAbort {
				sum.Stats = eng.Stats()
				return sum, rerr
			}
			continue
		}
		if err != nil {
			sum.Stats = eng.Stats()
			return sum, err
		}

		sum.Records++
		line := src.Line()
		if err := eng.Apply(in); err != nil {
			if !errors.Is(err, engine.ErrInput) {
				sum.Stats = eng.Stats()
				return sum, fmt.Errorf("line %d: %w", line, err)
			}

			logger.Warn("input rejected",
				zap.Int("line", line),
				zap.String("type", string(in.Kind)),
				zap.Uint16("client", in.Client),
				zap.Uint32("tx", in.Tx),
				zap.Error(err))
			if werr := reject(opts.Rejects, rejectlog.FromRecord(line, journal.MarshalInput(in), err)); werr != nil {
				return sum, werr
			}
			if opts.Policy == PolicyAbort {
				sum.Stats = eng.Stats()
				return sum, fmt.Errorf("line %d: %w", line, err)
			}
		}
	}

	sum.Stats = eng.Stats()
	logger.Info("batch complete",
		zap.Int("records", sum.Records),
		zap.Int("applied", sum.Applied),
		zap.Int("ignored", sum.Ignored),
		zap.Int("rejected", sum.Rejected),
		zap.Int("malformed", sum.Malformed))
	return sum, nil
}

func reject(w *rejectlog.Writer, e rejectlog.Entry) error {
	if w == nil {
		return nil
	}
	return w.Write(e)
}
