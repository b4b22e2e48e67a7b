package ai

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nyashahama/culture-guard/internal/culture"
	"github.com/nyashahama/culture-guard/internal/heuristic"
)

// DefaultTimeout bounds a single provider call when none is configured.
const DefaultTimeout = 20 * time.Second

// Source records which path produced a response.
type Source string

const (
	SourceAI        Source = "ai"
	SourceHeuristic Source = "heuristic"
)

// Recorder receives analysis outcomes. internal/metrics implements it; tests
// and callers without metrics pass nil.
type Recorder interface {
	// RecordProviderCall is called once per provider attempt. failure is ""
	// on success, otherwise a short kind such as "timeout" or "parse".
	RecordProviderCall(provider string, elapsed time.Duration, failure string)

	// RecordAnalysis is called once per request with the final results.
	RecordAnalysis(source, scope string, results []culture.Result)
}

// Analyzer runs the AI path and falls back to the heuristic engine on any
// failure. It holds no per-request state and is safe for concurrent use.
type Analyzer struct {
	gen      Generator
	timeout  time.Duration
	recorder Recorder
	logger   *slog.Logger
}

// NewAnalyzer constructs an Analyzer. gen may be nil, in which case every
// request goes straight to the heuristic engine.
func NewAnalyzer(gen Generator, timeout time.Duration, recorder Recorder, logger *slog.Logger) *Analyzer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Analyzer{gen: gen, timeout: timeout, recorder: recorder, logger: logger}
}

// Analyze never fails: the provider result when it is usable, otherwise the
// heuristic result for the same (text, country).
func (a *Analyzer) Analyze(ctx context.Context, text, country string) ([]culture.Result, Source) {
	results, err := a.AnalyzeViaProvider(ctx, text, country)
	source := SourceAI

	if err != nil {
		if errors.Is(err, ErrCredentialMissing) {
			a.logger.Debug("ai: no provider configured, using heuristic", "country", country)
		} else {
			a.logger.Warn("ai: analysis failed, using heuristic fallback",
				"country", country,
				"error", err,
			)
		}
		results = heuristic.Analyze(text, country)
		source = SourceHeuristic
	}

	if a.recorder != nil {
		a.recorder.RecordAnalysis(string(source), scope(country), results)
	}
	return results, source
}

// AnalyzeViaProvider is the AI path on its own. It returns ErrCredentialMissing
// without calling anything when no provider is configured, a *ProviderError
// for transport failures and timeouts, and a *ParseError for unusable output.
func (a *Analyzer) AnalyzeViaProvider(ctx context.Context, text, country string) ([]culture.Result, error) {
	if a.gen == nil {
		return nil, ErrCredentialMissing
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	raw, err := a.gen.Generate(callCtx, BuildPrompt(text, country))
	if err != nil {
		err = asProviderError(a.gen.Name(), err, callCtx.Err())
		a.record(start, err)
		return nil, err
	}

	results, err := ParseResults(raw, country)
	a.record(start, err)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// asProviderError makes sure a Generate failure is a *ProviderError (or the
// credential sentinel) and that a deadline hit is visible via errors.Is.
func asProviderError(provider string, err, ctxErr error) error {
	if ctxErr != nil && !errors.Is(err, ctxErr) {
		err = errors.Join(ctxErr, err)
	}
	var provErr *ProviderError
	if errors.Is(err, ErrCredentialMissing) || errors.As(err, &provErr) {
		return err
	}
	return &ProviderError{Provider: provider, Err: err}
}

func (a *Analyzer) record(start time.Time, err error) {
	if a.recorder != nil {
		a.recorder.RecordProviderCall(a.gen.Name(), time.Since(start), failureKind(err))
	}
}

func scope(country string) string {
	if country == culture.AllCountries {
		return "all"
	}
	return "single"
}
