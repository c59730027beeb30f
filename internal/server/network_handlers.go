package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"o1ready/internal/network"

	"github.com/google/uuid"
)

// MentorshipRequestBody is the request body for creating a mentorship
// request tied to an analysis session.
type MentorshipRequestBody struct {
	SessionID string `json:"session_id"`
	MentorID  string `json:"mentor_id"`
	Field     string `json:"field"`
	Message   string `json:"message"`
}

// mentorsHandler finds mentors for a field. The field query parameter is
// required; subfield and limit refine the search.
func (s *Server) mentorsHandler(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	if field == "" {
		writeErrorResponse(w, "Missing field", "The 'field' query parameter is required", http.StatusBadRequest)
		return
	}

	matches, err := s.Network.FindMentors(field, r.URL.Query().Get("subfield"), queryInt(r, "limit", 5))
	if err != nil {
		s.Logger.LogError(err, "Failed to find mentors", "field", field)
		writeErrorResponse(w, "Failed to find mentors", err.Error(), http.StatusInternalServerError)
		return
	}

	writeNetworkJSON(w, map[string]any{"mentors": matches})
}

// expertsHandler finds expert reviewers available for consultation letters.
func (s *Server) expertsHandler(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	if field == "" {
		writeErrorResponse(w, "Missing field", "The 'field' query parameter is required", http.StatusBadRequest)
		return
	}

	matches, err := s.Network.FindExperts(field, r.URL.Query().Get("subfield"), queryInt(r, "limit", 5))
	if err != nil {
		s.Logger.LogError(err, "Failed to find experts", "field", field)
		writeErrorResponse(w, "Failed to find experts", err.Error(), http.StatusInternalServerError)
		return
	}

	writeNetworkJSON(w, map[string]any{"experts": matches})
}

// successStoriesHandler returns anonymized approval stories, optionally
// filtered by field and minimum assessment score.
func (s *Server) successStoriesHandler(w http.ResponseWriter, r *http.Request) {
	stories, err := s.Network.SuccessStories(
		r.URL.Query().Get("field"),
		queryInt(r, "min_score", 0),
		queryInt(r, "limit", 10),
	)
	if err != nil {
		s.Logger.LogError(err, "Failed to load success stories")
		writeErrorResponse(w, "Failed to get success stories", err.Error(), http.StatusInternalServerError)
		return
	}

	writeNetworkJSON(w, map[string]any{"stories": stories})
}

// forumPostsHandler returns community posts, newest first.
func (s *Server) forumPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := s.Network.ForumPosts(
		r.URL.Query().Get("field"),
		r.URL.Query().Get("tag"),
		queryInt(r, "limit", 20),
	)
	if err != nil {
		s.Logger.LogError(err, "Failed to load forum posts")
		writeErrorResponse(w, "Failed to get forum posts", err.Error(), http.StatusInternalServerError)
		return
	}

	writeNetworkJSON(w, map[string]any{"posts": posts})
}

// mentorshipRequestHandler records a mentorship request for a session.
func (s *Server) mentorshipRequestHandler(w http.ResponseWriter, r *http.Request) {
	var body MentorshipRequestBody
	if err := parseJSONRequest(r, &body); err != nil {
		writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}
	if body.MentorID == "" || body.SessionID == "" {
		writeErrorResponse(w, "Invalid request", "session_id and mentor_id are required", http.StatusBadRequest)
		return
	}

	req := network.MentorshipRequest{
		ID:        uuid.NewString(),
		SeekerID:  body.SessionID,
		MentorID:  body.MentorID,
		Field:     body.Field,
		Topics:    []string{"Resume review", "O-1 case strategy"},
		Message:   body.Message,
		Status:    "pending",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Network.RequestMentorship(req); err != nil {
		s.Logger.LogError(err, "Failed to record mentorship request", "mentor_id", body.MentorID)
		writeErrorResponse(w, "Failed to create mentorship request", err.Error(), http.StatusInternalServerError)
		return
	}

	writeNetworkJSON(w, map[string]any{"success": true, "id": req.ID})
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

func writeNetworkJSON(w http.ResponseWriter, response any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode network response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
