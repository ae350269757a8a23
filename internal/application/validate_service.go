package application

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/catalog"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/donegate/donegate/internal/domain/report"
	"golang.org/x/sync/semaphore"
)

// ValidateService orchestrates the gate pipeline:
// resolve gates -> execute under the concurrency bound -> collect evidence -> build report -> record history.
type ValidateService struct {
	cfg      domain.Config
	registry domain.ExecutorRegistry
	git      domain.GitInfo
	fetcher  domain.ContextFetcher
	sampler  domain.ResourceSampler
	hist     *history.Store
}

// ValidateRequest describes one work-item to validate.
type ValidateRequest struct {
	Category    domain.Category
	SessionID   string
	TaskID      string
	ProjectRoot string
	Context     map[string]string
}

func NewValidateService(
	cfg domain.Config,
	registry domain.ExecutorRegistry,
	git domain.GitInfo,
	fetcher domain.ContextFetcher,
	sampler domain.ResourceSampler,
	hist *history.Store,
) *ValidateService {
	return &ValidateService{
		cfg:      cfg,
		registry: registry,
		git:      git,
		fetcher:  fetcher,
		sampler:  sampler,
		hist:     hist,
	}
}

// Validate runs every gate applicable to the request's category and returns
// the report. Gate failures are recorded in the report, never returned as
// errors; an orchestrator-level failure yields a degraded FAILED report.
func (s *ValidateService) Validate(ctx context.Context, req ValidateRequest) *domain.ValidationReport {
	started := time.Now()

	if _, err := os.Stat(req.ProjectRoot); err != nil {
		return s.degraded(req, fmt.Errorf("reading project root: %w", err))
	}

	// 1. Resolve the gate set for the category
	gates, err := catalog.For(req.Category, s.cfg)
	if err != nil {
		return s.degraded(req, err)
	}

	// 2. Execute under the concurrency bound
	results, err := s.runGates(ctx, gates, req)
	if err != nil {
		return s.degraded(req, err)
	}

	// 3. Attach contextual evidence to failed gates
	s.attachContext(req.ProjectRoot, results)

	// 4. Build the report
	input := report.Input{
		SessionID: req.SessionID,
		TaskID:    req.TaskID,
		Category:  req.Category,
		Results:   results,
		Duration:  time.Since(started),
	}
	if s.sampler != nil {
		input.MemoryMB = s.sampler.Sample().HeapMB
	}
	if s.git != nil && s.git.IsGitRepo(req.ProjectRoot) {
		if hash, err := s.git.CommitHash(req.ProjectRoot); err == nil {
			input.CommitHash = hash
		}
	}
	rep := report.Build(input)

	// 5. Record history
	s.hist.AppendReport(rep)
	return rep
}

// runGates executes all gates with at most cfg.MaxConcurrentGates in flight.
func (s *ValidateService) runGates(ctx context.Context, gates []domain.GateDefinition, req ValidateRequest) ([]domain.GateResult, error) {
	sem := semaphore.NewWeighted(int64(s.cfg.MaxConcurrentGates))
	results := make([]domain.GateResult, len(gates))

	var wg sync.WaitGroup
	for i, def := range gates {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("acquiring gate slot: %w", err)
		}
		wg.Add(1)
		go func(i int, def domain.GateDefinition) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = s.runGate(ctx, def, req)
		}(i, def)
	}
	wg.Wait()
	return results, nil
}

type gateOutcome struct {
	outcome domain.ExecutionOutcome
	err     error
}

// runGate executes one gate with its timeout and retry budget. A crash or
// timeout is converted into a failed result at the gate's configured
// severity; it never aborts the batch.
func (s *ValidateService) runGate(ctx context.Context, def domain.GateDefinition, req ValidateRequest) domain.GateResult {
	started := time.Now()
	base := domain.GateResult{
		GateName:  def.Name,
		Kind:      def.Kind,
		Severity:  def.Severity,
		Timestamp: started,
	}
	finish := func(r domain.GateResult) domain.GateResult {
		r.Duration = time.Since(started)
		return r
	}

	executor, ok := s.registry.For(def.Name)
	if !ok {
		base.Status = domain.GateStatusCrashed
		base.Message = fmt.Sprintf("no executor registered for gate %q", def.Name)
		return finish(base)
	}

	gateCtx, cancel := context.WithTimeout(ctx, def.Timeout)
	defer cancel()

	done := make(chan gateOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- gateOutcome{err: fmt.Errorf("gate panicked: %v", r)}
			}
		}()
		done <- s.executeWithRetry(gateCtx, executor, def, req)
	}()

	select {
	case <-gateCtx.Done():
		base.Status = domain.GateStatusTimeout
		base.Message = fmt.Sprintf("gate timed out after %s", def.Timeout)
		return finish(base)
	case out := <-done:
		if out.err != nil {
			base.Status = domain.GateStatusCrashed
			base.Message = fmt.Sprintf("gate crashed: %v", out.err)
			return finish(base)
		}
		base.Passed = out.outcome.Passed
		base.Message = out.outcome.Message
		base.Details = out.outcome.Details
		for i, ev := range out.outcome.Evidence {
			base.Evidence = append(base.Evidence, domain.Evidence{
				Name:    fmt.Sprintf("%s-output-%d", def.Name, i+1),
				Gate:    def.Name,
				Content: ev,
			})
		}
		if base.Passed {
			base.Status = domain.GateStatusPassed
		} else {
			base.Status = domain.GateStatusFailed
		}
		return finish(base)
	}
}

// executeWithRetry retries crashed executions up to the gate's retry budget.
// A check that ran and reported failure is a terminal outcome, not a retry.
func (s *ValidateService) executeWithRetry(ctx context.Context, executor domain.GateExecutor, def domain.GateDefinition, req ValidateRequest) gateOutcome {
	var out domain.ExecutionOutcome

	// BackOff implementations are stateful; always build a fresh instance.
	bo := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	err := backoff.Retry(func() error {
		o, err := executor.Execute(ctx, req.ProjectRoot, req.Context)
		if err != nil {
			return err
		}
		out = o
		return nil
	}, backoff.WithMaxRetries(bo, uint64(def.Retries)))

	return gateOutcome{outcome: out, err: err}
}

// attachContext fetches one piece of contextual evidence for each failed
// gate. Absence of context is not an error.
func (s *ValidateService) attachContext(projectRoot string, results []domain.GateResult) {
	if s.fetcher == nil {
		return
	}
	for i := range results {
		if results[i].Passed {
			continue
		}
		if ev, ok := s.fetcher.Fetch(projectRoot, results[i].GateName); ok {
			results[i].Evidence = append(results[i].Evidence, ev)
		}
	}
}

func (s *ValidateService) degraded(req ValidateRequest, cause error) *domain.ValidationReport {
	rep := report.BuildDegraded(req.SessionID, req.TaskID, req.Category, cause)
	s.hist.AppendReport(rep)
	return rep
}
