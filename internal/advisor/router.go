package advisor

// DecisionKind names the edge the router selected.
type DecisionKind int

const (
	// Continue advances to the next stage in pipeline order.
	Continue DecisionKind = iota
	// HaltForInfo terminates the turn with a request for more input.
	HaltForInfo
	// Publish advances an approved draft to the publisher.
	Publish
	// Revise sends the draft back to the clarity writer with feedback.
	Revise
	// Complete marks the terminal publisher output.
	Complete
)

func (k DecisionKind) String() string {
	switch k {
	case Continue:
		return "continue"
	case HaltForInfo:
		return "halt_for_info"
	case Publish:
		return "publish"
	case Revise:
		return "revise"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// Decision is a routing outcome. The payload fields are populated only
// for the kinds that carry them: MissingInfo for HaltForInfo; Feedback,
// Issues and PriorContent for Revise.
type Decision struct {
	Kind         DecisionKind
	MissingInfo  []string
	Feedback     string
	Issues       []string
	PriorContent string
}

// RouteAfterProfiling decides the junction after the need profiler.
// A non-empty MissingInfo halts the turn; nothing downstream runs.
func RouteAfterProfiling(profile NeedProfile) Decision {
	if len(profile.MissingInfo) > 0 {
		return Decision{Kind: HaltForInfo, MissingInfo: profile.MissingInfo}
	}
	return Decision{Kind: Continue}
}

// RouteAfterCompliance decides the junction after the compliance
// checker. A rejection carries the verdict's feedback, issues and
// reviewed content unmodified so the clarity writer can revise.
func RouteAfterCompliance(verdict ComplianceVerdict) Decision {
	if verdict.Approved {
		return Decision{Kind: Publish}
	}
	return Decision{
		Kind:         Revise,
		Feedback:     verdict.Feedback,
		Issues:       verdict.Issues,
		PriorContent: verdict.Content,
	}
}

// Route dispatches over the full stage-output union. Expert answers
// and clarity drafts ride unconditional edges; a nil or unknown
// variant takes no edge and returns ErrUnrecognizedMessage.
func Route(output StageOutput) (Decision, error) {
	switch value := output.(type) {
	case NeedProfile:
		return RouteAfterProfiling(value), nil
	case ExpertAnswer:
		return Decision{Kind: Continue}, nil
	case ClarityDraft:
		return Decision{Kind: Continue}, nil
	case ComplianceVerdict:
		return RouteAfterCompliance(value), nil
	case PublishedResponse:
		return Decision{Kind: Complete}, nil
	default:
		return Decision{}, ErrUnrecognizedMessage
	}
}
