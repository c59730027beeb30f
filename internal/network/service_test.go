package network

import (
	"math"
	"testing"
	"time"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Failed to create network service: %v", err)
	}
	return svc
}

func seededService(t *testing.T) *Service {
	t.Helper()
	svc := newTestService(t)
	if err := svc.SeedSampleData(); err != nil {
		t.Fatalf("Failed to seed sample data: %v", err)
	}
	return svc
}

func TestFindMentorsRanksByRelevance(t *testing.T) {
	svc := seededService(t)

	matches, err := svc.FindMentors("Computer Science", "AI/ML", 5)
	if err != nil {
		t.Fatalf("FindMentors failed: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("Expected at least one mentor match")
	}

	top := matches[0]
	if top.Type != "mentor" {
		t.Errorf("Expected match type mentor, got %q", top.Type)
	}
	if top.Field != "Computer Science" {
		t.Errorf("Expected the Computer Science mentor first, got field %q", top.Field)
	}
	// Exact field + exact subfield + high availability.
	if !approx(top.RelevanceScore, 0.6+0.3+0.1) {
		t.Errorf("Expected full relevance for exact match, got %v", top.RelevanceScore)
	}

	for i := 1; i < len(matches); i++ {
		if matches[i].RelevanceScore > matches[i-1].RelevanceScore {
			t.Errorf("Matches not sorted by relevance at index %d", i)
		}
	}
}

func TestFindMentorsRanksFieldMatchAboveAvailability(t *testing.T) {
	svc := seededService(t)

	// The Computer Science mentor still scores an availability bonus, but a
	// field match must always outrank it.
	matches, err := svc.FindMentors("Medicine", "", 5)
	if err != nil {
		t.Fatalf("FindMentors failed: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("Expected at least one mentor match")
	}
	if matches[0].Field != "Medicine" {
		t.Errorf("Expected the Medicine mentor first, got field %q", matches[0].Field)
	}
}

func TestFindMentorsSkipsInactive(t *testing.T) {
	svc := newTestService(t)
	mentors := []MentorProfile{
		{ID: "m1", Name: "Active", Field: "Physics", Availability: "high", CreatedAt: time.Now(), Active: true},
		{ID: "m2", Name: "Retired", Field: "Physics", Availability: "high", CreatedAt: time.Now(), Active: false},
	}
	if err := saveRecords(svc, mentorsFile, mentors); err != nil {
		t.Fatalf("Failed to write mentors: %v", err)
	}

	matches, err := svc.FindMentors("Physics", "", 5)
	if err != nil {
		t.Fatalf("FindMentors failed: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "m1" {
		t.Errorf("Expected only the active mentor, got %+v", matches)
	}
}

func TestFindExpertsIncludesRating(t *testing.T) {
	svc := seededService(t)

	matches, err := svc.FindExperts("Computer Science", "AI/ML", 5)
	if err != nil {
		t.Fatalf("FindExperts failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected one expert match, got %d", len(matches))
	}

	expert := matches[0]
	if expert.Type != "expert" {
		t.Errorf("Expected match type expert, got %q", expert.Type)
	}
	if expert.ContactInfo == "" {
		t.Error("Expected contact info on expert match")
	}
	found := false
	for _, q := range expert.KeyQualifications {
		if q == "Rating: 4.8/5 (24 reviews)" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected rating qualification, got %v", expert.KeyQualifications)
	}
}

func TestMentorMatchScore(t *testing.T) {
	base := MentorProfile{Field: "Computer Science", Subfield: "AI/ML"}

	tests := []struct {
		name     string
		mentor   MentorProfile
		field    string
		subfield string
		want     float64
	}{
		{"exact field", base, "Computer Science", "", 0.6},
		{"exact field and subfield", base, "computer science", "ai/ml", 0.9},
		{"partial field", base, "Science", "", 0.3},
		{"no match", base, "Fine Arts", "", 0},
		{
			"availability bonus",
			MentorProfile{Field: "Computer Science", Availability: "high"},
			"Computer Science", "", 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mentorMatchScore(tt.mentor, tt.field, tt.subfield)
			if !approx(got, tt.want) {
				t.Errorf("mentorMatchScore(%q, %q) = %v, want %v", tt.field, tt.subfield, got, tt.want)
			}
		})
	}
}

func TestExpertMatchScoreBonuses(t *testing.T) {
	expert := ExpertReviewer{
		Field:           "Computer Science",
		Subfield:        "AI/ML",
		YearsExperience: 25,
		Rating:          4.9,
	}

	// 0.5 field + 0.3 subfield + 0.1 experience + 0.1 rating.
	got := expertMatchScore(expert, "Computer Science", "AI/ML")
	if !approx(got, 1.0) {
		t.Errorf("Expected full score, got %v", got)
	}

	modest := ExpertReviewer{Field: "Computer Science", YearsExperience: 12, Rating: 4.2}
	got = expertMatchScore(modest, "Computer Science", "")
	if !approx(got, 0.5+0.05+0.05) {
		t.Errorf("Expected 0.6, got %v", got)
	}
}

func TestSuccessStoriesFilterAndOrder(t *testing.T) {
	svc := newTestService(t)
	now := time.Now()
	stories := []SuccessStory{
		{ID: "s1", Field: "Computer Science", AssessmentScore: 5, HelpfulVotes: 2, CreatedAt: now},
		{ID: "s2", Field: "Computer Science", AssessmentScore: 7, HelpfulVotes: 9, CreatedAt: now.Add(-time.Hour)},
		{ID: "s3", Field: "Medicine", AssessmentScore: 8, HelpfulVotes: 5, CreatedAt: now},
	}
	if err := saveRecords(svc, storiesFile, stories); err != nil {
		t.Fatalf("Failed to write stories: %v", err)
	}

	got, err := svc.SuccessStories("Computer Science", 0, 10)
	if err != nil {
		t.Fatalf("SuccessStories failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 Computer Science stories, got %d", len(got))
	}
	if got[0].ID != "s2" {
		t.Errorf("Expected most-voted story first, got %q", got[0].ID)
	}

	highBar, err := svc.SuccessStories("", 8, 10)
	if err != nil {
		t.Fatalf("SuccessStories failed: %v", err)
	}
	if len(highBar) != 1 || highBar[0].ID != "s3" {
		t.Errorf("Expected only the score-8 story, got %+v", highBar)
	}
}

func TestForumPostsFilterByTag(t *testing.T) {
	svc := newTestService(t)
	now := time.Now()
	posts := []ForumPost{
		{ID: "p1", Field: "Computer Science", Title: "RFE advice", Tags: []string{"rfe"}, CreatedAt: now.Add(-time.Hour)},
		{ID: "p2", Field: "Computer Science", Title: "Timeline question", Tags: []string{"timeline"}, CreatedAt: now},
	}
	if err := saveRecords(svc, postsFile, posts); err != nil {
		t.Fatalf("Failed to write posts: %v", err)
	}

	all, err := svc.ForumPosts("", "", 20)
	if err != nil {
		t.Fatalf("ForumPosts failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != "p2" {
		t.Errorf("Expected newest post first, got %+v", all)
	}

	tagged, err := svc.ForumPosts("", "rfe", 20)
	if err != nil {
		t.Fatalf("ForumPosts failed: %v", err)
	}
	if len(tagged) != 1 || tagged[0].ID != "p1" {
		t.Errorf("Expected only the rfe-tagged post, got %+v", tagged)
	}
}

func TestRequestMentorshipPersists(t *testing.T) {
	svc := newTestService(t)

	req := MentorshipRequest{
		ID:        "req_001",
		SeekerID:  "session-abc",
		MentorID:  "mentor_001",
		Field:     "Computer Science",
		Topics:    []string{"Resume review"},
		Message:   "Would appreciate feedback on my evidence",
		Status:    "pending",
		CreatedAt: time.Now(),
	}
	if err := svc.RequestMentorship(req); err != nil {
		t.Fatalf("RequestMentorship failed: %v", err)
	}

	stored, err := loadRecords[MentorshipRequest](svc, requestsFile)
	if err != nil {
		t.Fatalf("Failed to read back requests: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != "req_001" || stored[0].Status != "pending" {
		t.Errorf("Unexpected stored requests: %+v", stored)
	}
}
