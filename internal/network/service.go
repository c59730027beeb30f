package network

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"o1ready/internal/errors"
)

const (
	mentorsFile  = "mentors.json"
	expertsFile  = "experts.json"
	storiesFile  = "stories.json"
	postsFile    = "forum_posts.json"
	repliesFile  = "forum_replies.json"
	requestsFile = "mentorship_requests.json"
)

// Service serves the mentor and expert directory, success stories, and the
// community forum. Records live in JSON files under a data directory, which
// keeps the directory editable without a database.
type Service struct {
	dataDir string
	mu      sync.Mutex
	logger  *errors.Logger
}

// NewService opens (and if needed initializes) the directory files.
func NewService(dataDir string, logger *errors.Logger) (*Service, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create network data directory: %w", err)
	}

	s := &Service{dataDir: dataDir, logger: logger}
	for _, name := range []string{mentorsFile, expertsFile, storiesFile, postsFile, repliesFile, requestsFile} {
		path := filepath.Join(dataDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte("[]\n"), 0o644); err != nil {
				return nil, fmt.Errorf("failed to initialize %s: %w", name, err)
			}
		}
	}
	return s, nil
}

func loadRecords[T any](s *Service, filename string) ([]T, error) {
	raw, err := os.ReadFile(filepath.Join(s.dataDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return records, nil
}

func saveRecords[T any](s *Service, filename string, records []T) error {
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	if err := os.WriteFile(filepath.Join(s.dataDir, filename), raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

func appendRecord[T any](s *Service, filename string, record T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := loadRecords[T](s, filename)
	if err != nil {
		return err
	}
	return saveRecords(s, filename, append(records, record))
}

// FindMentors scores active mentors against the requested field and returns
// the best matches, highest relevance first.
func (s *Service) FindMentors(field, subfield string, limit int) ([]Match, error) {
	mentors, err := loadRecords[MentorProfile](s, mentorsFile)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(mentors))
	for _, mentor := range mentors {
		if !mentor.Active {
			continue
		}
		score := mentorMatchScore(mentor, field, subfield)
		if score <= 0 {
			continue
		}

		quals := []string{
			fmt.Sprintf("%d years experience", mentor.YearsExperience),
			fmt.Sprintf("O-1 approved in %d", mentor.O1ApprovalYear),
		}
		if len(mentor.MentoringTopics) > 0 {
			topics := mentor.MentoringTopics
			if len(topics) > 2 {
				topics = topics[:2]
			}
			quals = append(quals, "Specializes in: "+strings.Join(topics, ", "))
		}

		matches = append(matches, Match{
			Type:              "mentor",
			ID:                mentor.ID,
			Name:              mentor.Name,
			Field:             mentor.Field,
			RelevanceScore:    score,
			KeyQualifications: quals,
			Availability:      mentor.Availability,
		})
	}

	return topMatches(matches, limit), nil
}

// FindExperts scores active expert reviewers for consultation letters.
func (s *Service) FindExperts(field, subfield string, limit int) ([]Match, error) {
	experts, err := loadRecords[ExpertReviewer](s, expertsFile)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(experts))
	for _, expert := range experts {
		if !expert.Active {
			continue
		}
		score := expertMatchScore(expert, field, subfield)
		if score <= 0 {
			continue
		}

		quals := []string{
			expert.Credentials,
			fmt.Sprintf("%d years experience", expert.YearsExperience),
			"Fee range: " + expert.ConsultationFeeRange,
			"Response time: " + expert.ResponseTime,
		}
		if expert.Rating > 0 {
			quals = append(quals, fmt.Sprintf("Rating: %.1f/5 (%d reviews)", expert.Rating, expert.ReviewCount))
		}

		matches = append(matches, Match{
			Type:              "expert",
			ID:                expert.ID,
			Name:              expert.Name,
			Field:             expert.Field,
			RelevanceScore:    score,
			KeyQualifications: quals,
			ContactInfo:       expert.ContactInfo,
		})
	}

	return topMatches(matches, limit), nil
}

func topMatches(matches []Match, limit int) []Match {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].RelevanceScore > matches[j].RelevanceScore
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// mentorMatchScore weighs field match heaviest, then subfield, then how
// available the mentor is. Capped at 1.
func mentorMatchScore(mentor MentorProfile, field, subfield string) float64 {
	score := 0.0
	mf, f := strings.ToLower(mentor.Field), strings.ToLower(field)

	switch {
	case mf == f:
		score += 0.6
	case f != "" && (strings.Contains(mf, f) || strings.Contains(f, mf)):
		score += 0.3
	}

	if subfield != "" && mentor.Subfield != "" {
		ms, sf := strings.ToLower(mentor.Subfield), strings.ToLower(subfield)
		switch {
		case ms == sf:
			score += 0.3
		case strings.Contains(ms, sf):
			score += 0.2
		}
	}

	switch mentor.Availability {
	case "high":
		score += 0.1
	case "medium":
		score += 0.05
	}

	return min(score, 1.0)
}

// expertMatchScore mirrors mentorMatchScore but rewards experience and a
// strong consultation rating instead of availability.
func expertMatchScore(expert ExpertReviewer, field, subfield string) float64 {
	score := 0.0
	ef, f := strings.ToLower(expert.Field), strings.ToLower(field)

	switch {
	case ef == f:
		score += 0.5
	case f != "" && (strings.Contains(ef, f) || strings.Contains(f, ef)):
		score += 0.25
	}

	if subfield != "" && expert.Subfield != "" {
		es, sf := strings.ToLower(expert.Subfield), strings.ToLower(subfield)
		switch {
		case es == sf:
			score += 0.3
		case strings.Contains(es, sf):
			score += 0.15
		}
	}

	switch {
	case expert.YearsExperience > 20:
		score += 0.1
	case expert.YearsExperience > 10:
		score += 0.05
	}

	switch {
	case expert.Rating >= 4.5:
		score += 0.1
	case expert.Rating >= 4.0:
		score += 0.05
	}

	return min(score, 1.0)
}

// SuccessStories returns stories filtered by field and minimum assessment
// score, most helpful and most recent first.
func (s *Service) SuccessStories(field string, minScore, limit int) ([]SuccessStory, error) {
	stories, err := loadRecords[SuccessStory](s, storiesFile)
	if err != nil {
		return nil, err
	}

	filtered := make([]SuccessStory, 0, len(stories))
	for _, story := range stories {
		if field != "" && !strings.EqualFold(story.Field, field) {
			continue
		}
		if story.AssessmentScore < minScore {
			continue
		}
		filtered = append(filtered, story)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].HelpfulVotes != filtered[j].HelpfulVotes {
			return filtered[i].HelpfulVotes > filtered[j].HelpfulVotes
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// ForumPosts returns posts newest first, optionally filtered by field or tag.
func (s *Service) ForumPosts(field, tag string, limit int) ([]ForumPost, error) {
	posts, err := loadRecords[ForumPost](s, postsFile)
	if err != nil {
		return nil, err
	}

	filtered := make([]ForumPost, 0, len(posts))
	for _, post := range posts {
		if field != "" && !strings.EqualFold(post.Field, field) {
			continue
		}
		if tag != "" && !hasTag(post.Tags, tag) {
			continue
		}
		filtered = append(filtered, post)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddSuccessStory appends a story to the directory.
func (s *Service) AddSuccessStory(story SuccessStory) error {
	return appendRecord(s, storiesFile, story)
}

// AddForumPost appends a post to the forum.
func (s *Service) AddForumPost(post ForumPost) error {
	return appendRecord(s, postsFile, post)
}

// AddForumReply appends a reply to the forum.
func (s *Service) AddForumReply(reply ForumReply) error {
	return appendRecord(s, repliesFile, reply)
}

// RequestMentorship records a mentorship request for later follow-up.
func (s *Service) RequestMentorship(req MentorshipRequest) error {
	if s.logger != nil {
		s.logger.Info("Mentorship request recorded",
			"mentor_id", req.MentorID,
			"field", req.Field)
	}
	return appendRecord(s, requestsFile, req)
}
