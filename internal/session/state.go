package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MinSeedSymptoms is the number of symptoms the user must pick before the
// question loop can start.
const MinSeedSymptoms = 3

// MaxAge bounds the age field.
const MaxAge = 120

var (
	// ErrAlreadyAnswered is returned when a symptom is already accepted or rejected.
	ErrAlreadyAnswered = errors.New("symptom already answered")

	// ErrDuplicateSymptom is returned when the seed list repeats a symptom.
	ErrDuplicateSymptom = errors.New("symptom already selected")

	// ErrEmptySymptom is returned for blank symptom ids.
	ErrEmptySymptom = errors.New("empty symptom")
)

// Genders lists the values offered by the identity step. The service treats
// gender as an opaque string, so other values pass through unchanged.
var Genders = []string{"male", "female", "other"}

// State is everything one wizard run knows about the user. It is owned by a
// single wizard instance and discarded on restart.
type State struct {
	// ID identifies this run in the local event log.
	ID string

	// Name, Age and Gender are collected by the identity step.
	Name   string
	Age    int
	Gender string

	// StartTime is when the run began.
	StartTime time.Time

	// accepted is in elicitation order: seeds first, then each "yes".
	accepted []string

	// rejected keeps insertion order for the wire; index gives set lookups.
	rejected []string

	index map[string]bool // true = accepted, false = rejected
}

// New creates an empty state with a fresh ID.
func New() *State {
	return &State{
		ID:        uuid.New().String(),
		StartTime: time.Now(),
		index:     make(map[string]bool),
	}
}

// IdentityComplete reports whether name, age and gender are all present.
func (s *State) IdentityComplete() bool {
	return strings.TrimSpace(s.Name) != "" &&
		s.Age > 0 && s.Age <= MaxAge &&
		strings.TrimSpace(s.Gender) != ""
}

// Seed replaces the accepted list with the user's own symptom picks.
// Seeding is only meaningful before any question has been answered; it
// fails if anything was rejected already.
func (s *State) Seed(symptoms []string) error {
	if len(s.rejected) > 0 {
		return fmt.Errorf("seed after questions started: %w", ErrAlreadyAnswered)
	}

	seen := make(map[string]bool, len(symptoms))
	for _, id := range symptoms {
		if id == "" {
			return ErrEmptySymptom
		}
		if seen[id] {
			return fmt.Errorf("%s: %w", id, ErrDuplicateSymptom)
		}
		seen[id] = true
	}

	s.accepted = append([]string(nil), symptoms...)
	s.index = make(map[string]bool, len(symptoms))
	for _, id := range symptoms {
		s.index[id] = true
	}
	return nil
}

// Seeded reports whether enough seed symptoms were collected.
func (s *State) Seeded() bool {
	return len(s.accepted) >= MinSeedSymptoms
}

// Accept records a "yes" answer.
func (s *State) Accept(id string) error {
	if err := s.checkNew(id); err != nil {
		return err
	}
	s.accepted = append(s.accepted, id)
	s.index[id] = true
	return nil
}

// Reject records a "no" answer.
func (s *State) Reject(id string) error {
	if err := s.checkNew(id); err != nil {
		return err
	}
	s.rejected = append(s.rejected, id)
	s.index[id] = false
	return nil
}

func (s *State) checkNew(id string) error {
	if id == "" {
		return ErrEmptySymptom
	}
	if s.index == nil {
		s.index = make(map[string]bool)
	}
	if _, ok := s.index[id]; ok {
		return fmt.Errorf("%s: %w", id, ErrAlreadyAnswered)
	}
	return nil
}

// Knows reports whether id is in either set.
func (s *State) Knows(id string) bool {
	_, ok := s.index[id]
	return ok
}

// IsAccepted reports whether id was accepted.
func (s *State) IsAccepted(id string) bool {
	v, ok := s.index[id]
	return ok && v
}

// IsRejected reports whether id was rejected.
func (s *State) IsRejected(id string) bool {
	v, ok := s.index[id]
	return ok && !v
}

// Accepted returns a copy of the accepted symptoms in elicitation order.
func (s *State) Accepted() []string {
	return append([]string{}, s.accepted...)
}

// Rejected returns a copy of the rejected symptoms in answer order.
func (s *State) Rejected() []string {
	return append([]string{}, s.rejected...)
}

// AcceptedCount returns the number of accepted symptoms.
func (s *State) AcceptedCount() int {
	return len(s.accepted)
}
