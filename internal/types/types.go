package types

// FileType identifies the format a resume was uploaded in.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypeText FileType = "txt"
)

// ParsedResume holds the result of extracting text from an uploaded resume.
// ParseSuccess is false when extraction failed or produced no usable text;
// ErrorMessage then carries the cause.
type ParsedResume struct {
	Filename     string   `json:"filename"`
	RawText      string   `json:"rawText"`
	FileType     FileType `json:"fileType"`
	ParseSuccess bool     `json:"parseSuccess"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
}

// CriterionEvidence is the per-criterion result of mapping a resume onto one
// of the eight O-1A evidentiary criteria.
type CriterionEvidence struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Met         bool     `json:"met"`
	Evidence    []string `json:"evidence,omitempty"`
	Reasoning   string   `json:"reasoning,omitempty"`
	Confidence  float64  `json:"confidence"` // 0.0 to 1.0
}

// Assessment is the full eight-criterion evaluation of a resume.
type Assessment struct {
	Criteria []CriterionEvidence `json:"criteria"`
}

// MetNames returns the names of the criteria marked met.
func (a *Assessment) MetNames() []string {
	var names []string
	for _, c := range a.Criteria {
		if c.Met {
			names = append(names, c.Name)
		}
	}
	return names
}

// Find returns the evidence record for the named criterion, or nil.
func (a *Assessment) Find(name string) *CriterionEvidence {
	for i := range a.Criteria {
		if a.Criteria[i].Name == name {
			return &a.Criteria[i]
		}
	}
	return nil
}

// ScoreResult is the deterministic scoring of an assessment.
type ScoreResult struct {
	MetCount     int    `json:"metCount"`     // 0-8
	ThresholdMet bool   `json:"thresholdMet"` // true iff MetCount >= 3
	Score        int    `json:"score"`        // 0-100
	Tier         string `json:"tier"`         // "Strong", "Moderate", or "Needs Work"
}

// Recommendation priorities, ordered from fastest to slowest payoff.
const (
	PriorityQuickWin   = "quick-win"
	PriorityMediumTerm = "medium-term"
	PriorityStrategic  = "strategic"
)

// Recommendation is a prioritized action toward satisfying an unmet criterion.
type Recommendation struct {
	Criterion string `json:"criterion"`
	Priority  string `json:"priority"`
	Action    string `json:"action"`
	Rationale string `json:"rationale"`
}

// ReadinessReport bundles everything the analyze command produces.
type ReadinessReport struct {
	Filename        string           `json:"filename"`
	Assessment      Assessment       `json:"assessment"`
	Result          ScoreResult      `json:"result"`
	Recommendations []Recommendation `json:"recommendations"`
}

// ChatMessage is one turn of a gap interview conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// AnalyzeResumeInput is the input for the full eight-criterion analysis.
type AnalyzeResumeInput struct {
	ResumeText string `json:"resumeText"`
}

// AnalyzeResumeOutput is the raw model output for the analysis operation.
type AnalyzeResumeOutput struct {
	Criteria []CriterionEvidence `json:"criteria"`
}

// RescoreCriterionInput re-evaluates a single criterion with the gap
// interview transcript merged into the resume context. Criterion carries the
// prior evidence record so the model sees the original judgment.
type RescoreCriterionInput struct {
	Criterion  CriterionEvidence `json:"criterion"`
	ResumeText string            `json:"resumeText"`
	Transcript []ChatMessage     `json:"transcript"`
}

// RescoreCriterionOutput is the updated evidence record for one criterion.
type RescoreCriterionOutput struct {
	Met        bool     `json:"met"`
	Evidence   []string `json:"evidence,omitempty"`
	Reasoning  string   `json:"reasoning"`
	Confidence float64  `json:"confidence"`
}

// InterviewReplyInput asks the advisor for the next conversational turn of a
// gap interview about one criterion.
type InterviewReplyInput struct {
	Criterion   CriterionEvidence `json:"criterion"`
	ResumeText  string            `json:"resumeText"`
	History     []ChatMessage     `json:"history"`
	UserMessage string            `json:"userMessage"`
}

// InterviewReplyOutput is the advisor's reply plus short prompt suggestions
// the user can tap instead of typing.
type InterviewReplyOutput struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}
