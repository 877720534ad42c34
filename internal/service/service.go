// Package service orchestrates GitHub lookups, scoring, and the
// leaderboard into the operations the API exposes.
package service

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/devrank/devrank/internal/github"
	"github.com/devrank/devrank/internal/language"
	"github.com/devrank/devrank/internal/leaderboard"
	"github.com/devrank/devrank/internal/scoring"
)

// GitHubClient defines the upstream operations the service needs
type GitHubClient interface {
	// GetUserEvents retrieves a user's most recent public events
	GetUserEvents(ctx context.Context, username string) ([]github.Event, error)

	// GetUserRepos retrieves a user's public repositories
	GetUserRepos(ctx context.Context, username string) ([]github.Repository, error)

	// GetRepoLanguages retrieves language byte counts for one repository
	GetRepoLanguages(ctx context.Context, owner, repo string) (github.LanguageBytes, error)
}

// RankedUser is a successfully scored user
type RankedUser struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// FailedUser records why a user could not be ranked
type FailedUser struct {
	Username string `json:"username"`
	Error    string `json:"error"`
}

// RankResult partitions a batch ranking into successes and failures
type RankResult struct {
	Leaderboard []RankedUser `json:"leaderboard"`
	Failed      []FailedUser `json:"failed,omitempty"`
}

// Project is the trimmed repository view the API returns
type Project struct {
	Name            string  `json:"name"`
	StargazersCount int     `json:"stargazers_count"`
	PrimaryLanguage *string `json:"primary_language"`
}

type Service struct {
	client GitHubClient
	scorer *scoring.Calculator
	board  *leaderboard.Store
	logger *logrus.Logger
}

func New(client GitHubClient, scorer *scoring.Calculator, board *leaderboard.Store, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		scorer: scorer,
		board:  board,
		logger: logger,
	}
}

type userOutcome struct {
	username string
	score    int
	err      error
}

// RankUsers scores every username concurrently. A failure for one user
// is recorded and never aborts the others; successes are written to the
// leaderboard and returned sorted by score descending.
func (s *Service) RankUsers(ctx context.Context, usernames []string) RankResult {
	outcomes := make([]userOutcome, len(usernames))

	var wg sync.WaitGroup
	for i, username := range usernames {
		wg.Add(1)
		go func(i int, username string) {
			defer wg.Done()
			outcomes[i] = s.rankOne(ctx, username)
		}(i, username)
	}
	wg.Wait()

	result := RankResult{Leaderboard: make([]RankedUser, 0, len(usernames))}
	for _, out := range outcomes {
		if out.err != nil {
			result.Failed = append(result.Failed, FailedUser{
				Username: out.username,
				Error:    out.err.Error(),
			})
			continue
		}
		result.Leaderboard = append(result.Leaderboard, RankedUser{
			Username: out.username,
			Score:    out.score,
		})
	}

	sort.Slice(result.Leaderboard, func(i, j int) bool {
		return result.Leaderboard[i].Score > result.Leaderboard[j].Score
	})

	return result
}

func (s *Service) rankOne(ctx context.Context, username string) userOutcome {
	events, err := s.client.GetUserEvents(ctx, username)
	if err != nil {
		s.logger.WithError(err).WithField("username", username).Warn("Failed to rank user")
		return userOutcome{username: username, err: err}
	}

	score := s.scorer.ImpactScore(events)
	s.board.Upsert(username, score)
	return userOutcome{username: username, score: score}
}

// Projects returns a user's public repositories trimmed to the fields
// the API exposes
func (s *Service) Projects(ctx context.Context, username string) ([]Project, error) {
	repos, err := s.client.GetUserRepos(ctx, username)
	if err != nil {
		return nil, err
	}

	projects := make([]Project, 0, len(repos))
	for _, repo := range repos {
		projects = append(projects, Project{
			Name:            repo.Name,
			StargazersCount: repo.StargazersCount,
			PrimaryLanguage: repo.Language,
		})
	}
	return projects, nil
}

// LanguageDistribution fetches language stats for every repository of a
// user concurrently and merges them into percentages. A repository
// whose fetch fails contributes nothing; the rest still count. A user
// without repositories yields an empty map and no per-repo calls.
func (s *Service) LanguageDistribution(ctx context.Context, username string) (language.Percentages, error) {
	repos, err := s.client.GetUserRepos(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		return language.Percentages{}, nil
	}

	maps := make([]github.LanguageBytes, len(repos))

	var wg sync.WaitGroup
	for i, repo := range repos {
		wg.Add(1)
		go func(i int, repo github.Repository) {
			defer wg.Done()
			langs, err := s.client.GetRepoLanguages(ctx, repo.Owner.Login, repo.Name)
			if err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"username": username,
					"repo":     repo.Name,
				}).Warn("Skipping repository languages")
				return
			}
			maps[i] = langs
		}(i, repo)
	}
	wg.Wait()

	return language.ToPercentages(language.Aggregate(maps)), nil
}

// TopUsers returns the highest-scoring leaderboard entries
func (s *Service) TopUsers(limit int) []leaderboard.Entry {
	return s.board.GetTop(limit)
}
