package criteria

import (
	"o1ready/internal/types"
)

// actionTemplate is one static recommendation for an unmet criterion.
type actionTemplate struct {
	priority  string
	action    string
	rationale string
}

// actionsByName is the fixed recommendation table. Deterministic on purpose:
// the same unmet-criteria set always yields the same recommendations, in the
// same order.
var actionsByName = map[string][]actionTemplate{
	Awards: {
		{
			priority:  types.PriorityMediumTerm,
			action:    "Submit your work to nationally recognized competitions, conference best-paper tracks, or professional association awards in your field.",
			rationale: "Awards must carry national or international recognition for excellence; employer-internal recognition does not count.",
		},
		{
			priority:  types.PriorityStrategic,
			action:    "Build a record of high-visibility work that award committees in your field select from, such as widely adopted projects or influential publications.",
			rationale: "Significant awards usually follow a sustained, visible body of work rather than a single submission.",
		},
	},
	Membership: {
		{
			priority:  types.PriorityMediumTerm,
			action:    "Apply for selective memberships or fellowships that admit on achievement, such as senior or fellow grades of professional societies.",
			rationale: "Only associations that require outstanding achievements judged by recognized experts qualify; dues-based memberships do not.",
		},
	},
	PublishedMaterial: {
		{
			priority:  types.PriorityQuickWin,
			action:    "Collect any existing press, trade publication, or major media coverage about you and your work, including title, date, and author for each piece.",
			rationale: "Coverage that already exists is usable immediately once documented in the form USCIS requires.",
		},
		{
			priority:  types.PriorityMediumTerm,
			action:    "Pitch your work to journalists and trade publications that cover your field, aiming for substantial discussion of your role rather than a passing mention.",
			rationale: "The material must be about you and your work; brief citations or passing references are not sufficient.",
		},
	},
	Judging: {
		{
			priority:  types.PriorityQuickWin,
			action:    "Volunteer as a peer reviewer for journals and conferences in your field, and keep the review requests plus confirmations of completed reviews.",
			rationale: "Review invitations are routinely available to practitioners with publications, and completed reviews directly satisfy this criterion.",
		},
	},
	OriginalContributions: {
		{
			priority:  types.PriorityStrategic,
			action:    "Document adoption and impact of your original work: citation counts, production deployments, patents or licenses, and expert letters explaining its significance.",
			rationale: "Originality alone is not enough; USCIS requires evidence the contribution is of major significance to the field.",
		},
	},
	ScholarlyArticles: {
		{
			priority:  types.PriorityMediumTerm,
			action:    "Write up your original work and submit it to peer-reviewed journals or nationally recognized conferences in your field.",
			rationale: "Authorship of scholarly articles is satisfied by publication itself; citation evidence is not required for this criterion.",
		},
	},
	CriticalEmployment: {
		{
			priority:  types.PriorityQuickWin,
			action:    "Gather documentation of your role's importance at current and past employers: org charts, performance reviews, and letters describing what depended on your work.",
			rationale: "It is the duties and performance, not the job title, that establish a role as critical or essential.",
		},
		{
			priority:  types.PriorityMediumTerm,
			action:    "Collect evidence of each employer's distinguished reputation, such as funding raised, rankings, scale, or media coverage.",
			rationale: "The criterion has two parts; the organization's reputation must be documented alongside the role.",
		},
	},
	HighSalary: {
		{
			priority:  types.PriorityQuickWin,
			action:    "Assemble tax returns, pay statements, or an offer letter, and pair them with field compensation data such as BLS wage statistics for your occupation and locality.",
			rationale: "The burden is to show compensation is high relative to others in the field, which requires comparative data, not just pay records.",
		},
	},
}

// priorityOrder fixes the bucket ordering of recommendation output.
var priorityOrder = []string{
	types.PriorityQuickWin,
	types.PriorityMediumTerm,
	types.PriorityStrategic,
}

// Recommend produces prioritized actions for the unmet criteria of an
// assessment. Output is grouped quick-win first, then medium-term, then
// strategic, with regulatory criterion order within each bucket. Met criteria
// never appear in the output.
func Recommend(a types.Assessment) ([]types.Recommendation, error) {
	normalized, err := Normalize(a)
	if err != nil {
		return nil, err
	}

	var recs []types.Recommendation
	for _, priority := range priorityOrder {
		for _, c := range normalized.Criteria {
			if c.Met {
				continue
			}
			for _, t := range actionsByName[c.Name] {
				if t.priority != priority {
					continue
				}
				recs = append(recs, types.Recommendation{
					Criterion: c.Name,
					Priority:  t.priority,
					Action:    t.action,
					Rationale: t.rationale,
				})
			}
		}
	}
	return recs, nil
}
