package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finclarity/advisor/internal/auth"
	"github.com/finclarity/advisor/internal/transcript"
)

// State names the runner's position in the pipeline.
type State int

const (
	StateProfiling State = iota
	StateExpert
	StateClarity
	StateCompliance
	StatePublishing
	StatePublished
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateProfiling:
		return "profiling"
	case StateExpert:
		return "expert"
	case StateClarity:
		return "clarity"
	case StateCompliance:
		return "compliance"
	case StatePublishing:
		return "publishing"
	case StatePublished:
		return "published"
	case StateHalted:
		return "halted_for_info"
	}
	return "unknown"
}

// TurnOptions bounds a single turn. MaxRevisions caps the
// compliance/clarity loop; StageTimeout applies per stage invocation.
type TurnOptions struct {
	MaxRevisions int
	StageTimeout time.Duration
}

const (
	defaultMaxRevisions = 3
	defaultStageTimeout = 90 * time.Second
)

// TurnResult is the terminal outcome of one customer query. State is
// either StatePublished (Content holds the advisory) or StateHalted
// (MissingInfo lists what the profiler could not extract and Content
// holds the rendered information request).
type TurnResult struct {
	TurnID      string
	State       State
	Content     string
	MissingInfo []string
	Revisions   int
}

// Runner executes one turn through the fixed stage order. Stages run
// strictly sequentially; the runner itself never blocks outside stage
// calls and keeps no state across turns.
type Runner struct {
	Profiler    Stage
	Expert      Stage
	Clarity     Stage
	Compliance  Stage
	Publisher   Stage
	Options     TurnOptions
	Logger      *zap.Logger
	Transcripts *transcript.Writer
}

// Run processes one customer query. A missing-information halt is a
// normal outcome, not an error; every other early exit returns one of
// the advisor error kinds.
func (r Runner) Run(ctx context.Context, credential auth.Credential, query string) (TurnResult, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	turnID := uuid.NewString()
	logger = logger.With(zap.String("turn_id", turnID), zap.String("session_id", credential.SessionID))
	logger.Info("turn started")

	record := transcript.Record{
		TurnID:    turnID,
		SessionID: credential.SessionID,
		Query:     query,
		StartedAt: time.Now().UTC(),
	}
	fail := func(err error) (TurnResult, error) {
		record.Outcome = "error"
		r.writeTranscript(&record, logger)
		logger.Error("turn failed", zap.Error(err))
		return TurnResult{}, err
	}

	output, err := r.invoke(ctx, logger, &record, r.Profiler, credential, query)
	if err != nil {
		return fail(err)
	}
	profile, ok := output.(NeedProfile)
	if !ok {
		return fail(fmt.Errorf("after %s: %w", StageProfiler, ErrUnrecognizedMessage))
	}
	decision, err := Route(profile)
	if err != nil {
		return fail(err)
	}
	recordDecision(&record, StageProfiler, decision)
	if decision.Kind == HaltForInfo {
		logger.Info("turn halted for information", zap.Strings("missing_info", decision.MissingInfo))
		record.Outcome = StateHalted.String()
		record.EndedAt = time.Now().UTC()
		r.writeTranscript(&record, logger)
		return TurnResult{
			TurnID:      turnID,
			State:       StateHalted,
			Content:     RenderMissingInfo(decision.MissingInfo),
			MissingInfo: decision.MissingInfo,
		}, nil
	}

	output, err = r.invoke(ctx, logger, &record, r.Expert, credential, profile.StructuredQuery)
	if err != nil {
		return fail(err)
	}
	expert, ok := output.(ExpertAnswer)
	if !ok {
		return fail(fmt.Errorf("after %s: %w", StageExpert, ErrUnrecognizedMessage))
	}

	clarityInput := buildClarityRequest(expert.Content)
	revisions := 0
	var verdict ComplianceVerdict
	var draft ClarityDraft
	for {
		output, err = r.invoke(ctx, logger, &record, r.Clarity, credential, clarityInput)
		if err != nil {
			return fail(err)
		}
		draft, ok = output.(ClarityDraft)
		if !ok {
			return fail(fmt.Errorf("after %s: %w", StageClarity, ErrUnrecognizedMessage))
		}

		output, err = r.invoke(ctx, logger, &record, r.Compliance, credential, draft.FullContent)
		if err != nil {
			return fail(err)
		}
		verdict, ok = output.(ComplianceVerdict)
		if !ok {
			return fail(fmt.Errorf("after %s: %w", StageCompliance, ErrUnrecognizedMessage))
		}
		decision, err = Route(verdict)
		if err != nil {
			return fail(err)
		}
		recordDecision(&record, StageCompliance, decision)
		if decision.Kind == Publish {
			break
		}

		revisions++
		if revisions > r.maxRevisions() {
			return fail(&RevisionLimitError{Limit: r.maxRevisions(), LastFeedback: decision.Feedback})
		}
		logger.Info("compliance rejected draft, revising",
			zap.Int("revision", revisions),
			zap.Strings("issues", decision.Issues))
		clarityInput = buildRevisionRequest(decision)
	}

	publisherInput := strings.TrimSpace(verdict.Content)
	if publisherInput == "" {
		publisherInput = draft.FullContent
	}
	output, err = r.invoke(ctx, logger, &record, r.Publisher, credential, publisherInput)
	if err != nil {
		return fail(err)
	}
	published, ok := output.(PublishedResponse)
	if !ok {
		return fail(fmt.Errorf("after %s: %w", StagePublisher, ErrUnrecognizedMessage))
	}

	content := EnsureDisclaimer(published.Content)
	logger.Info("turn published", zap.Int("revisions", revisions))
	record.Outcome = StatePublished.String()
	record.Revisions = revisions
	record.EndedAt = time.Now().UTC()
	r.writeTranscript(&record, logger)
	return TurnResult{
		TurnID:    turnID,
		State:     StatePublished,
		Content:   content,
		Revisions: revisions,
	}, nil
}

func (r Runner) invoke(ctx context.Context, logger *zap.Logger, record *transcript.Record, stage Stage, credential auth.Credential, input string) (StageOutput, error) {
	timeout := r.Options.StageTimeout
	if timeout <= 0 {
		timeout = defaultStageTimeout
	}
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	output, err := stage.Invoke(stageCtx, credential, input)
	if err != nil {
		return nil, err
	}
	logger.Info("stage completed",
		zap.String("stage", string(stage.Name())),
		zap.Duration("elapsed", time.Since(started)))
	recordStage(record, stage.Name(), output)
	return output, nil
}

func (r Runner) maxRevisions() int {
	if r.Options.MaxRevisions > 0 {
		return r.Options.MaxRevisions
	}
	return defaultMaxRevisions
}

func (r Runner) writeTranscript(record *transcript.Record, logger *zap.Logger) {
	if record.EndedAt.IsZero() {
		record.EndedAt = time.Now().UTC()
	}
	if err := r.Transcripts.Write(*record); err != nil {
		// The advisory outcome stands even when the audit copy fails.
		logger.Warn("transcript write failed", zap.Error(err))
	}
}

func recordStage(record *transcript.Record, stage StageName, output StageOutput) {
	encoded, err := json.Marshal(output)
	if err != nil {
		encoded = nil
	}
	record.Events = append(record.Events, transcript.Event{
		Stage:  string(stage),
		Output: encoded,
		At:     time.Now().UTC(),
	})
}

func recordDecision(record *transcript.Record, stage StageName, decision Decision) {
	record.Events = append(record.Events, transcript.Event{
		Stage:    string(stage),
		Decision: decision.Kind.String(),
		At:       time.Now().UTC(),
	})
}
