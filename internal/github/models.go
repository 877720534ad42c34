package github

import "time"

// Recognized event types on the GitHub events feed. Anything else
// is carried through unchanged and scores zero.
const (
	EventTypePush              = "PushEvent"
	EventTypePullRequest       = "PullRequestEvent"
	EventTypePullRequestReview = "PullRequestReviewEvent"
)

// ActionOpened is the pull request action that earns points on its own
const ActionOpened = "opened"

// Event is a single entry from a user's public activity feed
type Event struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	Payload   EventPayload `json:"payload"`
	CreatedAt time.Time    `json:"created_at"`
}

// EventPayload carries the type-specific fields this service reads.
// Fields absent for a given event type decode to zero values.
type EventPayload struct {
	Action      string       `json:"action"`
	PullRequest *PullRequest `json:"pull_request"`
}

type PullRequest struct {
	Merged bool `json:"merged"`
}

// Repository is a user's public repository as reported by the API.
// Language is nil when GitHub has not detected a primary language.
type Repository struct {
	Name            string  `json:"name"`
	Owner           Owner   `json:"owner"`
	Language        *string `json:"language"`
	StargazersCount int     `json:"stargazers_count"`
}

type Owner struct {
	Login string `json:"login"`
}

// LanguageBytes maps language name to the byte count GitHub attributes
// to it within a single repository
type LanguageBytes map[string]int64
