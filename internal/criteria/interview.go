package criteria

import (
	"o1ready/internal/types"
)

// questionBank is the fixed gap interview question set per criterion. The
// interview is a finite decision tree with one branch level: met criteria are
// skipped entirely, unmet criteria walk their questions in order.
var questionBank = map[string][]string{
	Awards: {
		"Have you received any prizes or awards for your work, even ones not listed on your resume?",
		"Who was eligible to compete for each award, and who selected the winners?",
		"Was any award granted by a national institution or professional association?",
	},
	Membership: {
		"Are you a member of any professional associations or societies in your field?",
		"What did each association require for admission beyond paying dues or years of experience?",
		"Have you been elected to a fellow or senior grade judged by existing members?",
	},
	PublishedMaterial: {
		"Has any newspaper, trade publication, or major website written about you or your work?",
		"For each piece of coverage, do you have the title, date, and author?",
		"Did the coverage discuss your work substantially, or only mention you in passing?",
	},
	Judging: {
		"Have you reviewed papers, abstracts, or proposals for journals, conferences, or funding bodies?",
		"Have you served on a thesis committee, competition jury, or program committee?",
		"Can you show both the invitation to review and confirmation you completed it?",
	},
	OriginalContributions: {
		"What is the most original piece of work you have produced, and what makes it original?",
		"How widely has that work been adopted, cited, or commercialized?",
		"Could recognized experts in your field write letters explaining its significance?",
	},
	ScholarlyArticles: {
		"Have you authored articles in peer-reviewed journals or at recognized conferences?",
		"Were you a listed author on any publication, even if not first author?",
		"Have you written in-depth technical material aimed at experts in your field?",
	},
	CriticalEmployment: {
		"At which organizations has your role been essential, and what depended on your work?",
		"What evidence shows each organization's distinguished reputation, such as funding, rankings, or press?",
		"Could a senior leader write a letter describing why your role was critical?",
	},
	HighSalary: {
		"What is your current total compensation, including equity and bonuses?",
		"Do you have contracts, pay statements, or offer letters documenting it?",
		"How does your compensation compare to published wage data for your occupation and location?",
	},
}

// QuestionSet is the pending interview questions for one unmet criterion.
type QuestionSet struct {
	Criterion string   `json:"criterion"`
	Questions []string `json:"questions"`
}

// QuestionsFor returns the full question bank for one criterion.
func QuestionsFor(name string) []string {
	return questionBank[name]
}

// PendingQuestions returns the remaining questions for each unmet criterion,
// given how many questions have already been answered or skipped per
// criterion. Met criteria are skipped. A nil progress map means nothing has
// been answered yet.
func PendingQuestions(a types.Assessment, progress map[string]int) []QuestionSet {
	var sets []QuestionSet
	for _, c := range a.Criteria {
		if c.Met {
			continue
		}
		bank := questionBank[c.Name]
		done := progress[c.Name]
		if done >= len(bank) {
			continue
		}
		sets = append(sets, QuestionSet{
			Criterion: c.Name,
			Questions: bank[done:],
		})
	}
	return sets
}

// InterviewComplete reports whether the gap interview has reached its
// terminal state: no unmet criterion has questions left to answer or skip.
func InterviewComplete(a types.Assessment, progress map[string]int) bool {
	return len(PendingQuestions(a, progress)) == 0
}
