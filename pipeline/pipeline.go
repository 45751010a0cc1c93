// Package pipeline runs feature extraction over a directory of recordings.
// Recordings are processed in parallel and their rows are written in
// recording order, so the output is identical for any worker count.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RyanBlaney/latido/algorithms/filters"
	"github.com/RyanBlaney/latido/config"
	"github.com/RyanBlaney/latido/detect"
	"github.com/RyanBlaney/latido/features"
	"github.com/RyanBlaney/latido/label"
	"github.com/RyanBlaney/latido/logging"
	"github.com/RyanBlaney/latido/record"
	"github.com/RyanBlaney/latido/table"
)

// ErrOutputWrite is returned when the sink rejects rows. It is the only
// error that stops a run.
var ErrOutputWrite = errors.New("output write failed")

// Summary describes a finished run
type Summary struct {
	RunID        string        `json:"run_id"`
	Recordings   int           `json:"recordings"` // Listed by the source
	Processed    int           `json:"processed"`
	Skipped      int           `json:"skipped"`
	BeatsWritten int           `json:"beats_written"`
	BeatsSkipped int           `json:"beats_skipped"`
	Duration     time.Duration `json:"duration"`
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithDetector replaces the configured detector chain
func WithDetector(d detect.Detector) Option {
	return func(p *Pipeline) {
		p.detector = d
	}
}

// WithLogger sets the base logger
func WithLogger(logger logging.Logger) Option {
	return func(p *Pipeline) {
		p.baseLogger = logger
	}
}

// Pipeline wires a recording source to conditioning, beat detection,
// feature extraction and labelling
type Pipeline struct {
	cfg         *config.Config
	source      record.Source
	conditioner *filters.Conditioner
	detector    detect.Detector
	extractor   *features.Extractor

	runID      string
	baseLogger logging.Logger
	logger     logging.Logger
}

// New creates a pipeline reading from source
func New(cfg *config.Config, source record.Source, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("nil recording source")
	}

	p := &Pipeline{
		cfg:         cfg,
		source:      source,
		conditioner: filters.NewConditioner(cfg.Filter),
		extractor:   features.NewExtractor(cfg),
		runID:       uuid.NewString(),
		baseLogger:  logging.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.detector == nil {
		chain, err := detect.NewChainFromConfig(cfg.Detection)
		if err != nil {
			return nil, err
		}
		p.detector = chain
	}

	p.logger = p.baseLogger.WithFields(logging.Fields{
		"component": "pipeline",
		"run_id":    p.runID,
	})

	return p, nil
}

// RunID returns the identifier attached to this pipeline's log lines
func (p *Pipeline) RunID() string {
	return p.runID
}

// recordingResult is what a worker hands back to the collector
type recordingResult struct {
	index        int
	id           string
	rows         []table.Row
	beatsSkipped int
	err          error
	started      bool
}

// ProcessRecording runs one recording through the pipeline and returns its
// rows in beat order
func (p *Pipeline) ProcessRecording(id string) ([]table.Row, error) {
	rows, _, err := p.process(id)
	return rows, err
}

func (p *Pipeline) process(id string) ([]table.Row, int, error) {
	logger := p.logger.WithFields(logging.Fields{"record": id})

	rec, err := p.source.LoadRecording(id)
	if err != nil {
		return nil, 0, err
	}
	anns, err := p.source.LoadAnnotations(id)
	if err != nil {
		return nil, 0, err
	}

	conditioned, err := p.conditioner.Condition(rec.Samples, rec.SampleRate)
	if err != nil {
		return nil, 0, err
	}

	detector := p.detector
	if chain, ok := detector.(*detect.Chain); ok {
		detector = chain.WithLogger(logger)
	}
	beats, err := detector.Detect(conditioned, rec.SampleRate)
	if err != nil {
		return nil, 0, err
	}

	result, err := p.extractor.Extract(id, conditioned, rec.SampleRate, beats)
	if err != nil {
		return nil, 0, err
	}
	for _, skip := range result.Skipped {
		logger.Warn("Beat skipped", logging.Fields{
			"sample": skip.Sample,
			"reason": skip.Err.Error(),
		})
	}

	labeler := label.NewLabeler(anns)
	if labeler.Len() == 0 {
		logger.Warn("Recording has no annotations, every beat is labelled Other")
	}

	rows := make([]table.Row, len(result.Vectors))
	for i, v := range result.Vectors {
		rows[i] = table.Row{
			Features: v,
			Label:    labeler.Label(v.Sample),
		}
	}

	logger.Info("Recording processed", logging.Fields{
		"sample_rate": rec.SampleRate,
		"beats":       len(beats),
		"rows":        len(rows),
		"skipped":     len(result.Skipped),
	})

	return rows, len(result.Skipped), nil
}

// Run processes every recording of the source and appends the rows to sink
// in recording order. Recording-level failures are logged and skipped.
//
// Cancellation is coarse: no recording starts after ctx is done, recordings
// already in flight finish, and Run returns ctx.Err() with the partial
// summary. A sink failure stops the run and is returned wrapped in
// ErrOutputWrite. The sink is not closed.
func (p *Pipeline) Run(ctx context.Context, sink table.Sink) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: p.runID}

	ids, err := p.source.List()
	if err != nil {
		return summary, fmt.Errorf("list recordings: %w", err)
	}
	summary.Recordings = len(ids)

	workers := min(p.cfg.WorkerCount(), max(1, len(ids)))
	p.logger.Info("Starting feature extraction", logging.Fields{
		"recordings": len(ids),
		"workers":    workers,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type job struct {
		index int
		id    string
	}
	jobs := make(chan job)
	results := make(chan recordingResult, len(ids))

	go func() {
		defer close(jobs)
		for i, id := range ids {
			if runCtx.Err() != nil {
				return
			}
			select {
			case <-runCtx.Done():
				return
			case jobs <- job{index: i, id: id}:
			}
		}
	}()

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if runCtx.Err() != nil {
					results <- recordingResult{index: j.index, id: j.id}
					continue
				}
				rows, beatsSkipped, err := p.process(j.id)
				results <- recordingResult{
					index:        j.index,
					id:           j.id,
					rows:         rows,
					beatsSkipped: beatsSkipped,
					err:          err,
					started:      true,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Results arrive in completion order; rows are released in index order
	var sinkErr error
	pending := make(map[int]recordingResult)
	next := 0
	for res := range results {
		pending[res.index] = res
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++

			if sinkErr == nil {
				sinkErr = p.collect(r, sink, summary)
				if sinkErr != nil {
					cancel()
				}
			}
		}
	}

	summary.Duration = time.Since(start)
	fields := logging.Fields{
		"recordings":    summary.Recordings,
		"processed":     summary.Processed,
		"skipped":       summary.Skipped,
		"beats_written": summary.BeatsWritten,
		"beats_skipped": summary.BeatsSkipped,
		"duration":      summary.Duration.String(),
	}

	if sinkErr != nil {
		p.logger.Error(sinkErr, "Feature extraction aborted", fields)
		return summary, sinkErr
	}
	if err := ctx.Err(); err != nil {
		p.logger.Warn("Feature extraction cancelled", fields)
		return summary, err
	}

	p.logger.Info("Feature extraction complete", fields)
	return summary, nil
}

// collect accounts for one finished recording and appends its rows
func (p *Pipeline) collect(r recordingResult, sink table.Sink, summary *Summary) error {
	if !r.started {
		return nil
	}

	if r.err != nil {
		summary.Skipped++
		p.logger.Warn("Recording skipped", logging.Fields{
			"record": r.id,
			"reason": r.err.Error(),
		})
		return nil
	}

	if len(r.rows) > 0 {
		if err := sink.Append(r.rows...); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrOutputWrite, r.id, err)
		}
	}

	summary.Processed++
	summary.BeatsWritten += len(r.rows)
	summary.BeatsSkipped += r.beatsSkipped
	return nil
}
