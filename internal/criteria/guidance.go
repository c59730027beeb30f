package criteria

import (
	"fmt"
	"strings"
)

// Guidance carries the detailed USCIS Policy Manual guidance for one
// criterion. It is embedded into interview and rescore prompts so the model
// reasons against the actual evidentiary standard rather than a paraphrase.
type Guidance struct {
	RegulatoryLanguage      string
	WhatUSCISEvaluates      []string
	Examples                []string
	Considerations          []string
	DoesNotQualify          []string
	Notes                   []string
	CriticalOrEssential     []string
	DistinguishedReputation []string
}

var guidanceByName = map[string]Guidance{
	Awards: {
		RegulatoryLanguage: "Documentation of the beneficiary's receipt of nationally or internationally recognized prizes or awards for excellence in the field of endeavor.",
		WhatUSCISEvaluates: []string{
			"Whether the person was the recipient of prizes or awards in the field of endeavor",
			"Whether the award is a nationally or internationally recognized prize or award for excellence",
		},
		Examples: []string{
			"Awards from well-known national institutions and well-known professional associations",
			"Certain doctoral dissertation awards and scholarships",
			"Certain awards recognizing presentations at nationally or internationally recognized conferences",
		},
		Considerations: []string{
			"The criteria used to grant the awards or prizes",
			"The national or international significance of the awards or prizes in the field",
			"The number of awardees or prize recipients",
			"Limitations on eligible competitors",
		},
		Notes: []string{
			"A person may rely on a team award, provided the person is one of the recipients",
			"This criterion does not require an award to have the same prestige as a Nobel Prize",
			"An award available only to persons within a single locality, employer, or school may have little national/international recognition",
			"An award open to members of a well-known national institution (including R1 or R2 doctoral universities) may be nationally recognized",
		},
	},
	Membership: {
		RegulatoryLanguage: "Documentation of the beneficiary's membership in associations in the field for which classification is sought, which require outstanding achievements of their members, as judged by recognized national or international experts in their disciplines or fields.",
		WhatUSCISEvaluates: []string{
			"Whether the association requires that members have outstanding achievements in the field as judged by recognized experts",
		},
		Examples: []string{
			"Membership in certain professional associations",
			"Fellowships with certain organizations or institutions",
			"IEEE Fellow level membership (requires 'accomplishments that have contributed importantly to the advancement or application of engineering, science and technology')",
			"AAAI Fellow membership (based on 'significant, sustained contributions' to AI, judged by current fellows)",
		},
		DoesNotQualify: []string{
			"Membership based solely on a level of education or years of experience",
			"Membership based on payment of a fee or subscribing to publications",
			"Membership based on a requirement for employment (such as union membership)",
		},
	},
	PublishedMaterial: {
		RegulatoryLanguage: "Published material in professional or major trade publications or major media about the beneficiary, relating to the beneficiary's work in the field for which classification is sought. This evidence must include the title, date, and author of such published material and any necessary translation.",
		WhatUSCISEvaluates: []string{
			"Whether the published material was related to the person and their specific work",
			"Whether the publication qualifies as a professional publication, major trade publication, or major media",
		},
		Examples: []string{
			"Professional or major print publications (newspaper articles, journal articles, books, textbooks) regarding the beneficiary and their work",
			"Professional or major online publications regarding the beneficiary and their work",
			"Transcript of professional or major audio or video coverage of the beneficiary and their work",
		},
		Considerations: []string{
			"Published material that includes only a brief citation or passing reference is NOT sufficient",
			"The beneficiary need not be the only subject; material covering a broader topic but including substantial discussion of the beneficiary's work qualifies",
			"Material focusing on work by a team qualifies if it mentions the beneficiary or documents their significant role",
			"Relevant factors include intended audience and relative circulation, readership, or viewership",
		},
	},
	Judging: {
		RegulatoryLanguage: "Evidence of the beneficiary's participation on a panel, or individually, as a judge of the work of others in the same or in an allied field of specialization for which classification is sought.",
		WhatUSCISEvaluates: []string{
			"Whether the person has acted as the judge of the work of others in the same or an allied field",
		},
		Examples: []string{
			"Reviewer of abstracts or papers submitted for presentation at scholarly conferences",
			"Peer reviewer for scholarly publications",
			"Member of doctoral dissertation committees",
			"Peer reviewer for government research funding programs",
		},
		Considerations: []string{
			"Must show actual participation in judging, not just invitations",
			"Example: A copy of a request from a journal to do a review, accompanied by evidence confirming the review was completed",
		},
	},
	OriginalContributions: {
		RegulatoryLanguage: "Evidence of the beneficiary's original scientific, scholarly, or business-related contributions of major significance in the field.",
		WhatUSCISEvaluates: []string{
			"Whether the person has made original contributions in the field",
			"Whether the original contributions are of major significance to the field",
		},
		Examples: []string{
			"Published materials about the significance of the beneficiary's original work",
			"Testimonials, letters, and affidavits about the beneficiary's original work and its significance",
			"Documentation that the work was cited at a level indicative of major significance",
			"Documentation that the work was published in a scholarly journal of distinguished reputation",
			"Patents or licenses deriving from the beneficiary's work",
			"Evidence of commercial use of the beneficiary's work (e.g., commercialization of a research innovation)",
			"Contributions to repositories of software, data, designs, protocols, or other technical resources with evidence of significant impact",
		},
		Considerations: []string{
			"Evidence that work was funded, patented, or published does NOT alone establish major significance",
			"Published research that has provoked widespread commentary and high citations may be probative",
			"A patented technology that has attracted significant attention or commercialization may establish significance",
			"Detailed letters from experts explaining the nature and significance are valuable",
		},
	},
	ScholarlyArticles: {
		RegulatoryLanguage: "Evidence of the beneficiary's authorship of scholarly articles in the field, in professional journals, or other major media.",
		WhatUSCISEvaluates: []string{
			"Whether the person has authored scholarly articles in the field",
			"Whether the publication qualifies as professional, major trade, or major media",
		},
		Examples: []string{
			"Publications in professionally-relevant journals",
			"Published conference presentations at nationally or internationally recognized conferences",
		},
		Considerations: []string{
			"The beneficiary must be a listed author but need not be the sole or first author",
			"A petitioner need NOT provide evidence that the work has been cited to meet this criterion",
			"Articles must be scholarly: reporting on original research, experimentation, or philosophical discourse",
			"Generally peer-reviewed with footnotes, endnotes, or bibliography",
			"In non-academic arenas, should be written for learned persons in that field",
		},
	},
	CriticalEmployment: {
		RegulatoryLanguage: "Evidence that the beneficiary has been employed in a critical or essential capacity for organizations and establishments that have a distinguished reputation.",
		WhatUSCISEvaluates: []string{
			"Whether the person has performed in a leading or critical role for an organization or establishment",
			"Whether the organization or establishment has a distinguished reputation",
		},
		Examples: []string{
			"Faculty or research position for a distinguished academic department or program",
			"Research position for a distinguished non-academic institution, government entity, or company",
			"Principal or named investigator for a department that received a merit-based government award (e.g., SBIR grant)",
			"Member of a key committee or high-performing team within a distinguished organization",
			"Founder or co-founder of, or contributor of IP to, a startup business with a distinguished reputation",
			"Critical or essential supporting role for a distinguished organization",
		},
		CriticalOrEssential: []string{
			"Critical role: contributed in a way of significant importance to the organization's activities",
			"Essential role: role is or was integral to the entity",
			"A leadership role often qualifies as critical or essential",
			"It is the duties and performance, not the title, that determines if the role is critical",
		},
		DistinguishedReputation: []string{
			"Scale of customer base, longevity, or relevant media coverage",
			"For academic departments: national rankings and receipt of government research grants",
			"For startups: evidence of significant funding from government entities, venture capital, angel investors",
		},
	},
	HighSalary: {
		RegulatoryLanguage: "Evidence that the beneficiary has either commanded a high salary or will command a high salary or other remuneration for services as evidenced by contracts or other reliable evidence.",
		WhatUSCISEvaluates: []string{
			"Whether the person has commanded or will command a high salary or other remuneration",
		},
		Examples: []string{
			"Tax returns, pay statements, or other evidence of past salary",
			"Contract, job offer letter, or other evidence of prospective salary",
			"Comparative wage or remuneration data for the beneficiary's field (e.g., compensation surveys)",
		},
		Considerations: []string{
			"The burden is on the petitioner to provide evidence that compensation is high relative to others in the field",
			"Helpful resources: U.S. Bureau of Labor Statistics wage data, Department of Labor's Career One Stop",
			"For persons working outside the U.S.: evaluate based on wage statistics for that locality",
			"For entrepreneurs/founders: evidence of significant funding may help evaluate credibility of prospective salary evidence",
		},
	},
}

// GuidanceFor returns the detailed guidance for a criterion. The zero value
// is returned for unknown names.
func GuidanceFor(name string) Guidance {
	return guidanceByName[name]
}

// FormatGuidance renders the guidance for a criterion into the sectioned
// markdown embedded in interview and rescore prompts.
func FormatGuidance(name string) string {
	g, ok := guidanceByName[name]
	if !ok {
		return ""
	}

	var sections []string
	appendSection := func(heading string, items []string) {
		if len(items) == 0 {
			return
		}
		var b strings.Builder
		fmt.Fprintf(&b, "**%s:**\n", heading)
		for i, item := range items {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("- " + item)
		}
		sections = append(sections, b.String())
	}

	if g.RegulatoryLanguage != "" {
		sections = append(sections, fmt.Sprintf("**USCIS Regulatory Language:**\n%q", g.RegulatoryLanguage))
	}
	appendSection("What USCIS Evaluates", g.WhatUSCISEvaluates)
	appendSection("Examples of Qualifying Evidence", g.Examples)
	appendSection("Key Considerations", g.Considerations)
	appendSection("What Does NOT Qualify", g.DoesNotQualify)
	appendSection("Important Notes", g.Notes)
	appendSection("What Makes a Role Critical/Essential", g.CriticalOrEssential)
	appendSection("What Makes an Organization Distinguished", g.DistinguishedReputation)

	return strings.Join(sections, "\n\n")
}
