package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bryanwahyu/healthcare-collab/internal/application"
	"github.com/bryanwahyu/healthcare-collab/internal/domain"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/accounts"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/ai"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/aifailures"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/analysis"
	"github.com/bryanwahyu/healthcare-collab/internal/infra/ai/prompt"
	"github.com/bryanwahyu/healthcare-collab/internal/infra/logger"
)

// Generation parameters per operation.
const (
	AnalysisTemperature = 0.7
	AnalysisMaxTokens   = 1000
	ProposalTemperature = 0.7
	ProposalMaxTokens   = 1500
	ChatTemperature     = 0.8
	ChatMaxTokens       = 800

	// AnalysisConfidence is stamped on every successful analysis.
	AnalysisConfidence = 0.85
)

// Fixed texts returned when the generation service fails.
const (
	FallbackFindings       = "Unable to generate AI analysis at this time."
	FallbackConcern        = "API connection issue"
	FallbackRecommendation = "Please review patient data manually"
	ChatApology            = "I apologize, but I'm having trouble responding right now. Please try again."
)

// Metrics receives per-operation counters.
type Metrics interface {
	AIRequested(op string)
	AIFailed(op string)
}

// Service is the AI analysis requestor. It never returns an error to callers:
// every failure is converted into a fallback payload tagged with an Outcome.
// Safe for concurrent use.
type Service struct {
	Client   ai.Client
	Failures aifailures.Repository // optional
	Metrics  Metrics               // optional
	Clock    application.Clock
	Log      *logger.Logger
}

func NewService(client ai.Client, failures aifailures.Repository, metrics Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		Client:   client,
		Failures: failures,
		Metrics:  metrics,
		Clock:    application.SystemClock{},
		Log:      log.With("service", "ai"),
	}
}

// AnalysisInput is everything the analysis prompt is built from.
type AnalysisInput struct {
	Patient   analysis.PatientSnapshot
	Vitals    []analysis.VitalReading
	HealthLog []analysis.HealthLogEntry
}

// reportReply is the subset of fields read from the model; metadata is
// stamped locally and never taken from the reply.
type reportReply struct {
	Findings        analysis.Text      `json:"findings"`
	Concerns        analysis.TextList  `json:"concerns"`
	RiskLevel       analysis.RiskLevel `json:"risk_level"`
	Recommendations analysis.TextList  `json:"recommendations"`
	Evidence        analysis.TextList  `json:"evidence"`
}

// Analyze asks the model for a structured report. On any failure the fixed
// fallback report is returned with a fallback outcome.
func (s *Service) Analyze(ctx context.Context, in AnalysisInput) (analysis.Report, ai.Outcome) {
	s.requested(aifailures.OpAnalyze)

	raw, err := s.Client.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: prompt.AnalysisSystemPrompt()},
			{Role: ai.RoleUser, Content: prompt.AnalysisUserPrompt(in.Patient, in.Vitals, in.HealthLog)},
		},
		Temperature: AnalysisTemperature,
		MaxTokens:   AnalysisMaxTokens,
		JSON:        true,
	})
	if err == nil {
		var reply reportReply
		if uerr := decodeObject(raw, &reply); uerr != nil {
			err = fmt.Errorf("failed to parse analysis reply: %w", uerr)
		} else {
			risk := reply.RiskLevel
			if risk == "" {
				risk = analysis.RiskUnknown
			}
			return analysis.Report{
				Findings:        reply.Findings,
				Concerns:        orEmpty(reply.Concerns),
				RiskLevel:       risk,
				Recommendations: orEmpty(reply.Recommendations),
				Evidence:        orEmpty(reply.Evidence),
				ConfidenceScore: AnalysisConfidence,
				GeneratedAt:     s.Clock.Now().UTC(),
				ModelUsed:       s.Client.Model(),
			}, ai.Succeeded()
		}
	}

	s.failed(ctx, aifailures.OpAnalyze, err)
	return s.FallbackReport(), ai.Failed(err)
}

// FallbackReport is the fixed report used when no analysis could be generated.
func (s *Service) FallbackReport() analysis.Report {
	return analysis.Report{
		Findings:        FallbackFindings,
		Concerns:        analysis.TextList{FallbackConcern},
		RiskLevel:       analysis.RiskUnknown,
		Recommendations: analysis.TextList{FallbackRecommendation},
		Evidence:        analysis.TextList{},
		ConfidenceScore: 0.0,
		GeneratedAt:     s.Clock.Now().UTC(),
		ModelUsed:       analysis.ModelFallback,
	}
}

// ProposeTreatment asks for a treatment proposal from the patient context and
// a prior analysis. On failure the error-shaped proposal is returned.
func (s *Service) ProposeTreatment(ctx context.Context, patientContext, priorAnalysis any) (ai.Proposal, ai.Outcome) {
	s.requested(aifailures.OpProposal)

	user, err := prompt.ProposalUserPrompt(patientContext, priorAnalysis)
	if err == nil {
		var raw string
		raw, err = s.Client.Complete(ctx, ai.CompletionRequest{
			Messages: []ai.Message{
				{Role: ai.RoleSystem, Content: prompt.ProposalSystemPrompt()},
				{Role: ai.RoleUser, Content: user},
			},
			Temperature: ProposalTemperature,
			MaxTokens:   ProposalMaxTokens,
			JSON:        true,
		})
		if err == nil {
			var p ai.Proposal
			if uerr := decodeObject(raw, &p); uerr != nil {
				err = fmt.Errorf("failed to parse proposal reply: %w", uerr)
			} else {
				return normalizeProposal(p), ai.Succeeded()
			}
		}
	}

	s.failed(ctx, aifailures.OpProposal, err)
	return ai.FailedProposal(err), ai.Failed(err)
}

// Chat continues a doctor/AI conversation. On failure the apology text is
// returned.
func (s *Service) Chat(ctx context.Context, history []ai.ChatTurn, message string) (string, ai.Outcome) {
	s.requested(aifailures.OpChat)

	reply, err := s.Client.Complete(ctx, ai.CompletionRequest{
		Messages:    prompt.ChatMessages(history, message),
		Temperature: ChatTemperature,
		MaxTokens:   ChatMaxTokens,
	})
	if err != nil {
		s.failed(ctx, aifailures.OpChat, err)
		return ChatApology, ai.Failed(err)
	}
	return reply, ai.Succeeded()
}

// DefaultFailureLimit caps RecentFailures when no limit is given.
const DefaultFailureLimit = 50

// RecentFailures lists the newest persisted AI failures. Doctors only.
func (s *Service) RecentFailures(ctx context.Context, caller accounts.Identity, limit int) ([]*aifailures.Failure, error) {
	if !caller.IsDoctor() {
		return nil, domain.Forbidden("Unauthorized")
	}
	if s.Failures == nil {
		return []*aifailures.Failure{}, nil
	}
	if limit <= 0 || limit > 500 {
		limit = DefaultFailureLimit
	}
	list, err := s.Failures.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*aifailures.Failure{}
	}
	return list, nil
}

func (s *Service) requested(op string) {
	if s.Metrics != nil {
		s.Metrics.AIRequested(op)
	}
}

// failed logs, counts and persists the failure. Persistence is best effort:
// the caller still gets its fallback when the failure log is unavailable.
func (s *Service) failed(ctx context.Context, op string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	s.Log.Warn("ai call failed, using fallback", "operation", op, "error", msg)
	if s.Metrics != nil {
		s.Metrics.AIFailed(op)
	}
	if s.Failures == nil {
		return
	}
	f := &aifailures.Failure{
		Operation: op,
		Model:     s.Client.Model(),
		Message:   msg,
		PatientID: PatientIDFrom(ctx),
		CreatedAt: s.Clock.Now().UTC(),
	}
	if serr := s.Failures.Save(context.WithoutCancel(ctx), f); serr != nil {
		s.Log.Error("failed to save ai failure", "operation", op, "error", serr)
	}
}

var errNotObject = errors.New("reply is not a JSON object")

// decodeObject unmarshals a model reply that must be a JSON object.
func decodeObject(raw string, dst any) error {
	b := bytes.TrimSpace([]byte(raw))
	if len(b) == 0 || b[0] != '{' {
		return errNotObject
	}
	return json.Unmarshal(b, dst)
}

func normalizeProposal(p ai.Proposal) ai.Proposal {
	if p.Medications == nil {
		p.Medications = ai.List{}
	}
	if p.LifestyleChanges == nil {
		p.LifestyleChanges = ai.List{}
	}
	if p.DiagnosticTests == nil {
		p.DiagnosticTests = ai.List{}
	}
	return p
}

func orEmpty(l analysis.TextList) analysis.TextList {
	if l == nil {
		return analysis.TextList{}
	}
	return l
}

type patientKey struct{}

// WithPatientID tags ctx so a failure record can name the patient involved.
func WithPatientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, patientKey{}, id)
}

// PatientIDFrom returns the patient tagged by WithPatientID, if any.
func PatientIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(patientKey{}).(string)
	return id
}
