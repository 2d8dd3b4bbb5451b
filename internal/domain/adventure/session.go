package adventure

import (
	"errors"
	"math"
	"time"
)

var (
	ErrNotInProgress  = errors.New("adventure session is not in progress")
	ErrNegativeReward = errors.New("rewards must be non-negative")
	ErrRewardTooLarge = errors.New("rewards must not exceed 2147483647")
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
	StatusAborted    Status = "aborted"
)

func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost || s == StatusAborted
}

type Session struct {
	ID         string     `json:"session_id"`
	PetID      string     `json:"pet_id"`
	UserID     string     `json:"user_id"`
	Level      int        `json:"level"`
	Status     Status     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	Points     int        `json:"points"`
	Experience int        `json:"experience"`
	RewardCode string     `json:"reward_code,omitempty"`
}

type Outcome struct {
	Win        bool
	Points     int
	Experience int
	RewardCode string
}

func NewSession(id, petID, userID string, level int, now time.Time) Session {
	return Session{
		ID:        id,
		PetID:     petID,
		UserID:    userID,
		Level:     level,
		Status:    StatusInProgress,
		StartedAt: now.UTC(),
	}
}

func (s Session) InProgress() bool {
	return s.Status == StatusInProgress
}

func (o Outcome) Validate() error {
	if o.Points < 0 || o.Experience < 0 {
		return ErrNegativeReward
	}
	// Stored as 32-bit integers.
	if o.Points > math.MaxInt32 || o.Experience > math.MaxInt32 {
		return ErrRewardTooLarge
	}
	return nil
}

func (s *Session) Resolve(o Outcome, now time.Time) error {
	if !s.InProgress() {
		return ErrNotInProgress
	}
	if err := o.Validate(); err != nil {
		return err
	}
	ended := now.UTC()
	s.EndedAt = &ended
	s.Status = StatusLost
	if o.Win {
		s.Status = StatusWon
	}
	s.Points = o.Points
	s.Experience = o.Experience
	s.RewardCode = o.RewardCode
	return nil
}

func (s *Session) Abort(now time.Time) error {
	if !s.InProgress() {
		return ErrNotInProgress
	}
	ended := now.UTC()
	s.EndedAt = &ended
	s.Status = StatusAborted
	return nil
}
