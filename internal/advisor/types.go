// Package advisor implements the five-stage bank product advisory
// pipeline: need profiling, product expertise, clarity rewriting,
// compliance checking and publishing. The router that sequences the
// stages lives in router.go; the per-turn state machine in turn.go.
package advisor

// StageName identifies one pipeline stage.
type StageName string

const (
	StageProfiler   StageName = "need_profiler"
	StageExpert     StageName = "product_expert"
	StageClarity    StageName = "clarity_writer"
	StageCompliance StageName = "compliance_checker"
	StagePublisher  StageName = "publisher"
)

// StageOutput is the closed union of everything a stage can produce.
// Routing is total over this union; anything else fails closed.
type StageOutput interface {
	stageOutput()
}

// NeedProfile is the structured reading of the customer's question.
// Immutable once produced; MissingInfo is ordered as the model listed it.
type NeedProfile struct {
	ProductType     string   `json:"product_type" jsonschema:"required,description=Product category such as mortgage or current account"`
	CustomerType    string   `json:"customer_type" jsonschema:"required,description=Customer profile such as new or existing or self-employed"`
	KeyConstraints  []string `json:"key_constraints" jsonschema:"required,description=Specific features the customer asked for"`
	MissingInfo     []string `json:"missing_info" jsonschema:"required,description=Critical details without which no useful answer is possible"`
	StructuredQuery string   `json:"structured_query" jsonschema:"required,description=Well-formed question for the product expert"`
}

// ExpertAnswer carries the product expert's raw material for rewriting.
type ExpertAnswer struct {
	Content string `json:"content" jsonschema:"required,description=Product information relevant to the structured query"`
}

// ClarityDraft is the plain-language rewrite of the expert answer.
type ClarityDraft struct {
	Summary     string   `json:"summary" jsonschema:"required,description=Plain-language explanation in two or three paragraphs"`
	ProsCons    []string `json:"pros_cons" jsonschema:"required,description=Three to five key advantages and considerations"`
	CTA         string   `json:"cta" jsonschema:"required,description=Concrete next step for the customer"`
	FullContent string   `json:"full_content" jsonschema:"required,description=Complete formatted content ready for review"`
}

// ComplianceVerdict is the compliance checker's decision. Feedback and
// Issues are meaningful only when Approved is false; Content echoes the
// text that was reviewed so a revision can start from it.
type ComplianceVerdict struct {
	Approved bool     `json:"approved" jsonschema:"required,description=True only when every check passes"`
	Issues   []string `json:"issues" jsonschema:"required,description=Specific problems found; empty when approved"`
	Feedback string   `json:"feedback" jsonschema:"required,description=Instructions for fixing each issue"`
	Content  string   `json:"content" jsonschema:"required,description=The reviewed content for reference"`
}

// PublishedResponse is the final customer-facing advisory text.
type PublishedResponse struct {
	Content string `json:"content" jsonschema:"required,description=Complete markdown-formatted advisory"`
}

func (NeedProfile) stageOutput()       {}
func (ExpertAnswer) stageOutput()      {}
func (ClarityDraft) stageOutput()      {}
func (ComplianceVerdict) stageOutput() {}
func (PublishedResponse) stageOutput() {}
