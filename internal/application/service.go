package application

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/raftai/engine/infrastructure/evaluators"
	"github.com/raftai/engine/internal/domain"
	"github.com/raftai/engine/internal/ports"
)

// Service exposes the five analysis operations behind one facade. Every
// method returns a Report envelope and never an analysis error: remote
// failures degrade to rule-based verdicts inside the evaluators.
type Service struct {
	kyc       *evaluators.KYCEvaluator
	kyb       *evaluators.KYBEvaluator
	pitch     *evaluators.PitchEvaluator
	chat      *evaluators.ChatEvaluator
	financial *evaluators.FinancialEvaluator

	logger      *slog.Logger
	concurrency int
}

// NewService wires the evaluators. A nil client runs every domain in
// fallback-only mode; a nil rubric selects the built-in pitch tables.
func NewService(client ports.LLMClient, rubric *domain.Rubric, logger *slog.Logger, metrics ports.MetricsCollector, batchConcurrency int) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if batchConcurrency <= 0 {
		batchConcurrency = DefaultBatchConcurrency
	}
	return &Service{
		kyc:         evaluators.NewKYCEvaluator(client, logger, metrics),
		kyb:         evaluators.NewKYBEvaluator(client, logger, metrics),
		pitch:       evaluators.NewPitchEvaluator(client, rubric, logger, metrics),
		chat:        evaluators.NewChatEvaluator(client, logger, metrics),
		financial:   evaluators.NewFinancialEvaluator(client, logger, metrics),
		logger:      logger,
		concurrency: batchConcurrency,
	}
}

// EvaluateKYC analyzes one identity verification submission.
func (s *Service) EvaluateKYC(ctx context.Context, in domain.KYCInput) domain.Report {
	verdict, degraded := s.kyc.Evaluate(ctx, in)
	return domain.NewReport(domain.DomainKYC, degraded, verdict)
}

// EvaluateKYB analyzes one business verification submission.
func (s *Service) EvaluateKYB(ctx context.Context, in domain.KYBInput) domain.Report {
	verdict, degraded := s.kyb.Evaluate(ctx, in)
	return domain.NewReport(domain.DomainKYB, degraded, verdict)
}

// EvaluatePitch analyzes one project pitch.
func (s *Service) EvaluatePitch(ctx context.Context, in domain.PitchInput) domain.Report {
	verdict, degraded := s.pitch.Evaluate(ctx, in)
	return domain.NewReport(domain.DomainPitch, degraded, verdict)
}

// SummarizeChat analyzes one deal room conversation.
func (s *Service) SummarizeChat(ctx context.Context, in domain.ChatInput) domain.Report {
	summary, degraded := s.chat.Summarize(ctx, in)
	return domain.NewReport(domain.DomainChat, degraded, summary)
}

// EvaluateFinancial analyzes one transaction record.
func (s *Service) EvaluateFinancial(ctx context.Context, in domain.FinancialInput) domain.Report {
	verdict, degraded := s.financial.Evaluate(ctx, in)
	return domain.NewReport(domain.DomainFinancial, degraded, verdict)
}

// EvaluateKYCBatch analyzes submissions concurrently, preserving input
// order in the result. Cancellation stops unstarted work; completed slots
// keep their reports.
func (s *Service) EvaluateKYCBatch(ctx context.Context, inputs []domain.KYCInput) []domain.Report {
	return runBatch(ctx, s.concurrency, inputs, s.EvaluateKYC)
}

// EvaluateKYBBatch analyzes submissions concurrently.
func (s *Service) EvaluateKYBBatch(ctx context.Context, inputs []domain.KYBInput) []domain.Report {
	return runBatch(ctx, s.concurrency, inputs, s.EvaluateKYB)
}

// EvaluatePitchBatch analyzes pitches concurrently.
func (s *Service) EvaluatePitchBatch(ctx context.Context, inputs []domain.PitchInput) []domain.Report {
	return runBatch(ctx, s.concurrency, inputs, s.EvaluatePitch)
}

// EvaluateFinancialBatch analyzes transactions concurrently.
func (s *Service) EvaluateFinancialBatch(ctx context.Context, inputs []domain.FinancialInput) []domain.Report {
	return runBatch(ctx, s.concurrency, inputs, s.EvaluateFinancial)
}

// runBatch fans inputs out over a bounded worker group. Individual
// evaluations cannot fail, so the group only stops early on context
// cancellation.
func runBatch[T any](ctx context.Context, concurrency int, inputs []T, evaluate func(context.Context, T) domain.Report) []domain.Report {
	reports := make([]domain.Report, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = evaluate(ctx, in)
			return nil
		})
	}
	// The only possible error is context cancellation; partial results
	// are still returned.
	_ = g.Wait()
	return reports
}
