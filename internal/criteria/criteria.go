// Package criteria holds the eight O-1A evidentiary criteria and the
// deterministic logic built on top of them: scoring, recommendations, and the
// gap interview question bank.
package criteria

import (
	"fmt"

	"o1ready/internal/errors"
	"o1ready/internal/types"
)

// Count is the number of O-1A evidentiary criteria. Fixed by regulation.
const Count = 8

// Threshold is the number of criteria a beneficiary must satisfy.
const Threshold = 3

// Criterion names, in regulatory order.
const (
	Awards                = "Awards"
	Membership            = "Membership"
	PublishedMaterial     = "Published Material"
	Judging               = "Judging"
	OriginalContributions = "Original Contributions"
	ScholarlyArticles     = "Scholarly Articles"
	CriticalEmployment    = "Critical Employment"
	HighSalary            = "High Salary"
)

// Criterion pairs a criterion name with its one-line regulatory description.
type Criterion struct {
	Name        string
	Description string
}

// Definitions lists all eight criteria with the USCIS Policy Manual language,
// in the order they appear in the regulation.
var Definitions = []Criterion{
	{
		Name:        Awards,
		Description: "Nationally or internationally recognized prizes or awards for excellence in the field of endeavor",
	},
	{
		Name:        Membership,
		Description: "Membership in associations in the field which require outstanding achievements of their members, as judged by recognized national or international experts",
	},
	{
		Name:        PublishedMaterial,
		Description: "Published material in professional or major trade publications or major media about the beneficiary, relating to the beneficiary's work in the field",
	},
	{
		Name:        Judging,
		Description: "Participation on a panel, or individually, as a judge of the work of others in the same or in an allied field of specialization",
	},
	{
		Name:        OriginalContributions,
		Description: "Original scientific, scholarly, or business-related contributions of major significance in the field",
	},
	{
		Name:        ScholarlyArticles,
		Description: "Authorship of scholarly articles in the field, in professional journals, or other major media",
	},
	{
		Name:        CriticalEmployment,
		Description: "Employment in a critical or essential capacity for organizations and establishments that have a distinguished reputation",
	},
	{
		Name:        HighSalary,
		Description: "High salary or other remuneration for services, as evidenced by contracts or other reliable evidence",
	},
}

// Names returns the criterion names in regulatory order.
func Names() []string {
	names := make([]string, len(Definitions))
	for i, d := range Definitions {
		names[i] = d.Name
	}
	return names
}

// Lookup returns the definition for a criterion name.
func Lookup(name string) (Criterion, error) {
	for _, d := range Definitions {
		if d.Name == name {
			return d, nil
		}
	}
	return Criterion{}, errors.NewNotFoundError(
		errors.ErrCodeCriterionNotFound,
		fmt.Sprintf("unknown criterion: %s", name),
		nil,
	)
}

// EmptyAssessment returns an assessment with all eight criteria unmet and the
// given reason recorded on each. Used when a resume cannot be parsed or the
// model output cannot be decoded, so downstream scoring still sees a
// well-formed eight-record assessment.
func EmptyAssessment(reason string) types.Assessment {
	records := make([]types.CriterionEvidence, len(Definitions))
	for i, d := range Definitions {
		records[i] = types.CriterionEvidence{
			Name:        d.Name,
			Description: d.Description,
			Met:         false,
			Reasoning:   reason,
			Confidence:  0,
		}
	}
	return types.Assessment{Criteria: records}
}

// Normalize validates the assessment shape: exactly eight records, every
// regulatory criterion present exactly once, confidences within [0,1]. The
// returned assessment has the records in regulatory order with descriptions
// filled from the definitions.
func Normalize(a types.Assessment) (types.Assessment, error) {
	if len(a.Criteria) != Count {
		return types.Assessment{}, errors.NewValidationError(
			errors.ErrCodeInvalidAssessment,
			fmt.Sprintf("assessment must contain exactly %d criteria, got %d", Count, len(a.Criteria)),
			nil,
		)
	}

	byName := make(map[string]types.CriterionEvidence, Count)
	for _, c := range a.Criteria {
		if _, dup := byName[c.Name]; dup {
			return types.Assessment{}, errors.NewValidationError(
				errors.ErrCodeInvalidAssessment,
				fmt.Sprintf("duplicate criterion: %s", c.Name),
				nil,
			)
		}
		if c.Confidence < 0 || c.Confidence > 1 {
			return types.Assessment{}, errors.NewValidationError(
				errors.ErrCodeInvalidAssessment,
				fmt.Sprintf("criterion %s has confidence %v outside [0,1]", c.Name, c.Confidence),
				nil,
			)
		}
		byName[c.Name] = c
	}

	ordered := make([]types.CriterionEvidence, 0, Count)
	for _, d := range Definitions {
		c, ok := byName[d.Name]
		if !ok {
			return types.Assessment{}, errors.NewValidationError(
				errors.ErrCodeInvalidAssessment,
				fmt.Sprintf("missing criterion: %s", d.Name),
				nil,
			)
		}
		c.Description = d.Description
		ordered = append(ordered, c)
	}

	return types.Assessment{Criteria: ordered}, nil
}
