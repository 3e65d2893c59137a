package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mindware/taskmaster/models"
	"github.com/mindware/taskmaster/repositories"
)

func blobContent() io.Reader {
	return strings.NewReader("media bytes")
}

// In-memory repository fakes shared by the service tests.

type fakeTeamRepo struct {
	mu     sync.Mutex
	nextID int
	teams  map[int]*models.Team
	tokens map[int]map[string]bool
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		teams:  make(map[int]*models.Team),
		tokens: make(map[int]map[string]bool),
	}
}

func (r *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.teams {
		if existing.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	r.nextID++
	team.ID = r.nextID
	team.CreatedAt = time.Now()
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) GetByName(ctx context.Context, name string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, team := range r.teams {
		if team.Name == name {
			copied := *team
			return &copied, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) List(ctx context.Context) ([]models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	teams := make([]models.Team, 0, len(r.teams))
	for _, team := range r.teams {
		teams = append(teams, *team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

func (r *fakeTeamRepo) AppendToken(ctx context.Context, teamID int, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[teamID]; !ok {
		return repositories.ErrTeamNotFound
	}
	if r.tokens[teamID] == nil {
		r.tokens[teamID] = make(map[string]bool)
	}
	r.tokens[teamID][token] = true
	return nil
}

func (r *fakeTeamRepo) HasToken(ctx context.Context, teamID int, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens[teamID][token], nil
}

type fakeChallengeRepo struct {
	mu         sync.Mutex
	nextID     int
	challenges map[int]*models.Challenge
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: make(map[int]*models.Challenge)}
}

func (r *fakeChallengeRepo) Create(ctx context.Context, challenge *models.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	challenge.ID = r.nextID
	challenge.CreatedAt = time.Now()
	copied := *challenge
	r.challenges[challenge.ID] = &copied
	return nil
}

func (r *fakeChallengeRepo) GetByID(ctx context.Context, id int) (*models.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	challenge, ok := r.challenges[id]
	if !ok {
		return nil, repositories.ErrChallengeNotFound
	}
	copied := *challenge
	return &copied, nil
}

func (r *fakeChallengeRepo) CurrentAsOf(ctx context.Context, now time.Time) (*models.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var current *models.Challenge
	for _, challenge := range r.challenges {
		if challenge.StartDate.After(now) {
			continue
		}
		if current == nil || challenge.StartDate.After(current.StartDate) {
			current = challenge
		}
	}
	if current == nil {
		return nil, repositories.ErrChallengeNotFound
	}
	copied := *current
	return &copied, nil
}

func (r *fakeChallengeRepo) ListStartedBefore(ctx context.Context, now time.Time) ([]models.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	challenges := make([]models.Challenge, 0)
	for _, challenge := range r.challenges {
		if !challenge.StartDate.After(now) {
			challenges = append(challenges, *challenge)
		}
	}
	sort.Slice(challenges, func(i, j int) bool {
		return challenges[i].StartDate.After(challenges[j].StartDate)
	})
	return challenges, nil
}

func (r *fakeChallengeRepo) ListAll(ctx context.Context) ([]models.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	challenges := make([]models.Challenge, 0, len(r.challenges))
	for _, challenge := range r.challenges {
		challenges = append(challenges, *challenge)
	}
	sort.Slice(challenges, func(i, j int) bool {
		return challenges[i].StartDate.After(challenges[j].StartDate)
	})
	return challenges, nil
}

func (r *fakeChallengeRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.challenges[id]; !ok {
		return repositories.ErrChallengeNotFound
	}
	delete(r.challenges, id)
	return nil
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	nextID      int
	submissions map[int]*models.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[int]*models.Submission)}
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	submission.ID = r.nextID
	copied := *submission
	r.submissions[submission.ID] = &copied
	return nil
}

func (r *fakeSubmissionRepo) ListByChallenge(ctx context.Context, challengeID int) ([]models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(s *models.Submission) bool {
		return s.ChallengeID == challengeID
	}), nil
}

func (r *fakeSubmissionRepo) ListByTeamAndChallenge(ctx context.Context, teamID, challengeID int) ([]models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(s *models.Submission) bool {
		return s.TeamID == teamID && s.ChallengeID == challengeID
	}), nil
}

func (r *fakeSubmissionRepo) CountByTeamAndChallenge(ctx context.Context, teamID, challengeID int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matches := r.filter(func(s *models.Submission) bool {
		return s.TeamID == teamID && s.ChallengeID == challengeID
	})
	return int64(len(matches)), nil
}

func (r *fakeSubmissionRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.submissions[id]; !ok {
		return repositories.ErrSubmissionNotFound
	}
	delete(r.submissions, id)
	return nil
}

func (r *fakeSubmissionRepo) ListFileNames(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.submissions))
	for _, submission := range r.submissions {
		names = append(names, submission.FileName)
	}
	return names, nil
}

func (r *fakeSubmissionRepo) filter(keep func(*models.Submission) bool) []models.Submission {
	matches := make([]models.Submission, 0)
	for _, submission := range r.submissions {
		if keep(submission) {
			matches = append(matches, *submission)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches
}
