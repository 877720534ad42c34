// Package scoring computes a user's impact score from public activity events.
package scoring

import "github.com/devrank/devrank/internal/github"

// Points per recognized event type
const (
	pushPoints             = 1
	pullRequestOpenPoints  = 5
	pullRequestMergePoints = 10
	reviewPoints           = 3
)

// Calculator is stateless; a single instance is shared across requests.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// ImpactScore sums the points of every event. A nil or empty slice
// scores zero.
func (c *Calculator) ImpactScore(events []github.Event) int {
	score := 0
	for _, event := range events {
		score += eventPoints(event)
	}
	return score
}

// eventPoints scores one event. A merged pull request always earns the
// merge points, whatever its action field says; unrecognized event
// types earn nothing.
func eventPoints(event github.Event) int {
	switch event.Type {
	case github.EventTypePush:
		return pushPoints
	case github.EventTypePullRequest:
		if pr := event.Payload.PullRequest; pr != nil && pr.Merged {
			return pullRequestMergePoints
		}
		if event.Payload.Action == github.ActionOpened {
			return pullRequestOpenPoints
		}
		return 0
	case github.EventTypePullRequestReview:
		return reviewPoints
	default:
		return 0
	}
}
