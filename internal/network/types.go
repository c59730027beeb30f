package network

import "time"

// MentorProfile is a successful O-1 holder willing to mentor applicants.
type MentorProfile struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Field           string    `json:"field"`
	Subfield        string    `json:"subfield,omitempty"`
	YearsExperience int       `json:"years_experience"`
	O1ApprovalYear  int       `json:"o1_approval_year"`
	Location        string    `json:"location"`
	Languages       []string  `json:"languages"`
	Availability    string    `json:"availability"` // high, medium, low
	MentoringTopics []string  `json:"mentoring_topics"`
	ContactMethod   string    `json:"contact_method"`
	CreatedAt       time.Time `json:"created_at"`
	Active          bool      `json:"is_active"`
}

// ExpertReviewer is an expert available to provide consultation letters.
type ExpertReviewer struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Credentials          string    `json:"credentials"`
	Field                string    `json:"field"`
	Subfield             string    `json:"subfield,omitempty"`
	Institution          string    `json:"institution"`
	Position             string    `json:"position"`
	Publications         int       `json:"publications,omitempty"`
	YearsExperience      int       `json:"years_experience"`
	ConsultationFeeRange string    `json:"consultation_fee_range"`
	ResponseTime         string    `json:"response_time"`
	ContactInfo          string    `json:"contact_info"`
	Verified             bool      `json:"verified"`
	Rating               float64   `json:"rating,omitempty"`
	ReviewCount          int       `json:"review_count"`
	CreatedAt            time.Time `json:"created_at"`
	Active               bool      `json:"is_active"`
}

// SuccessStory is an anonymized account from an approved applicant.
type SuccessStory struct {
	ID                 string    `json:"id"`
	Field              string    `json:"field"`
	Subfield           string    `json:"subfield,omitempty"`
	ApprovalTimeline   string    `json:"approval_timeline"`
	KeySuccessFactors  []string  `json:"key_success_factors"`
	ChallengesOvercome []string  `json:"challenges_overcome"`
	AdviceForOthers    string    `json:"advice_for_others"`
	CriteriaMet        []string  `json:"criteria_met"`
	AssessmentScore    int       `json:"assessment_score"`
	ApprovalYear       int       `json:"approval_year"`
	CreatedAt          time.Time `json:"created_at"`
	HelpfulVotes       int       `json:"helpful_votes"`
}

// ForumPost is a community forum post.
type ForumPost struct {
	ID           string     `json:"id"`
	AuthorID     string     `json:"author_id"`
	Field        string     `json:"field"`
	Subfield     string     `json:"subfield,omitempty"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Tags         []string   `json:"tags,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	ReplyCount   int        `json:"reply_count"`
	HelpfulVotes int        `json:"helpful_votes"`
	Resolved     bool       `json:"is_resolved"`
}

// ForumReply is a reply to a forum post.
type ForumReply struct {
	ID           string    `json:"id"`
	PostID       string    `json:"post_id"`
	AuthorID     string    `json:"author_id"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	HelpfulVotes int       `json:"helpful_votes"`
	ExpertAnswer bool      `json:"is_expert_answer"`
}

// MentorshipRequest connects an applicant session to a mentor.
type MentorshipRequest struct {
	ID          string     `json:"id"`
	SeekerID    string     `json:"seeker_id"`
	MentorID    string     `json:"mentor_id"`
	Field       string     `json:"field"`
	Topics      []string   `json:"topics"`
	Message     string     `json:"message"`
	Status      string     `json:"status"` // pending, accepted, declined, completed
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// Match is a scored directory result for a mentor or expert lookup.
type Match struct {
	Type              string   `json:"type"` // mentor or expert
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Field             string   `json:"field"`
	RelevanceScore    float64  `json:"relevance_score"`
	KeyQualifications []string `json:"key_qualifications"`
	Availability      string   `json:"availability,omitempty"`
	ContactInfo       string   `json:"contact_info,omitempty"`
}
