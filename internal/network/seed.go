package network

import "time"

// SeedSampleData writes a small starter directory so the endpoints return
// something useful before real profiles are loaded. Existing files are
// overwritten.
func (s *Service) SeedSampleData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	mentors := []MentorProfile{
		{
			ID:              "mentor_001",
			Name:            "Dr. Sarah Chen",
			Field:           "Computer Science",
			Subfield:        "AI/ML",
			YearsExperience: 15,
			O1ApprovalYear:  2020,
			Location:        "San Francisco, CA",
			Languages:       []string{"English", "Mandarin"},
			Availability:    "high",
			MentoringTopics: []string{"O-1 application process", "Building extraordinary ability evidence", "Consultation letters"},
			ContactMethod:   "platform",
			CreatedAt:       now,
			Active:          true,
		},
		{
			ID:              "mentor_002",
			Name:            "Prof. Michael Rodriguez",
			Field:           "Medicine",
			Subfield:        "Neurosurgery",
			YearsExperience: 20,
			O1ApprovalYear:  2019,
			Location:        "Boston, MA",
			Languages:       []string{"English", "Spanish"},
			Availability:    "medium",
			MentoringTopics: []string{"Medical research", "Surgical innovation", "Academic publishing"},
			ContactMethod:   "platform",
			CreatedAt:       now,
			Active:          true,
		},
	}

	experts := []ExpertReviewer{
		{
			ID:                   "expert_001",
			Name:                 "Dr. Emily Watson",
			Credentials:          "Professor of Artificial Intelligence, MIT",
			Field:                "Computer Science",
			Subfield:             "AI/ML",
			Institution:          "MIT",
			Position:             "Full Professor",
			Publications:         150,
			YearsExperience:      18,
			ConsultationFeeRange: "$800-1500",
			ResponseTime:         "1-2 weeks",
			ContactInfo:          "Available through platform messaging",
			Verified:             true,
			Rating:               4.8,
			ReviewCount:          24,
			CreatedAt:            now,
			Active:               true,
		},
	}

	stories := []SuccessStory{
		{
			ID:               "story_001",
			Field:            "Computer Science",
			Subfield:         "AI/ML",
			ApprovalTimeline: "10 months",
			KeySuccessFactors: []string{
				"Published 12 papers in top conferences",
				"Received 2 prestigious awards",
				"Consultation letter from Turing Award winner",
			},
			ChallengesOvercome: []string{
				"Initial rejection due to insufficient evidence",
				"Difficulty finding qualified expert reviewers",
			},
			AdviceForOthers: "Start building your publication record early. Focus on high-impact conferences and journals. Network extensively to get strong consultation letters.",
			CriteriaMet:     []string{"Awards", "Published Material", "Original Contributions", "Scholarly Articles", "High Salary"},
			AssessmentScore: 7,
			ApprovalYear:    2023,
			CreatedAt:       now,
			HelpfulVotes:    45,
		},
	}

	if err := saveRecords(s, mentorsFile, mentors); err != nil {
		return err
	}
	if err := saveRecords(s, expertsFile, experts); err != nil {
		return err
	}
	return saveRecords(s, storiesFile, stories)
}
