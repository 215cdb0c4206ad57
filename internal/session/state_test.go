package session

import (
	"errors"
	"testing"
)

func seeded(t *testing.T) *State {
	t.Helper()
	s := New()
	if err := s.Seed([]string{"itching", "skin_rash", "chills"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func TestNewStateHasID(t *testing.T) {
	a, b := New(), New()
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a.ID, b.ID)
	}
}

func TestIdentityComplete(t *testing.T) {
	tests := []struct {
		name   string
		state  State
		expect bool
	}{
		{"complete", State{Name: "Asha", Age: 31, Gender: "female"}, true},
		{"blank name", State{Name: "  ", Age: 31, Gender: "female"}, false},
		{"zero age", State{Name: "Asha", Gender: "female"}, false},
		{"age too high", State{Name: "Asha", Age: MaxAge + 1, Gender: "female"}, false},
		{"no gender", State{Name: "Asha", Age: 31}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IdentityComplete(); got != tt.expect {
				t.Errorf("IdentityComplete() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	s := seeded(t)
	if !s.Seeded() {
		t.Error("expected Seeded() after 3 symptoms")
	}
	got := s.Accepted()
	if len(got) != 3 || got[0] != "itching" || got[2] != "chills" {
		t.Errorf("Accepted() = %v", got)
	}
}

func TestSeedTooFew(t *testing.T) {
	s := New()
	if err := s.Seed([]string{"itching"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if s.Seeded() {
		t.Error("one symptom should not count as seeded")
	}
}

func TestSeedRejectsDuplicates(t *testing.T) {
	s := New()
	err := s.Seed([]string{"itching", "chills", "itching"})
	if !errors.Is(err, ErrDuplicateSymptom) {
		t.Fatalf("expected ErrDuplicateSymptom, got %v", err)
	}
	if s.AcceptedCount() != 0 {
		t.Error("failed seed must not modify state")
	}
}

func TestSeedRejectsEmpty(t *testing.T) {
	s := New()
	if err := s.Seed([]string{"itching", ""}); !errors.Is(err, ErrEmptySymptom) {
		t.Fatalf("expected ErrEmptySymptom, got %v", err)
	}
}

func TestSeedAfterRejectFails(t *testing.T) {
	s := seeded(t)
	if err := s.Reject("cough"); err != nil {
		t.Fatal(err)
	}
	if err := s.Seed([]string{"a", "b", "c"}); !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("expected ErrAlreadyAnswered, got %v", err)
	}
}

func TestAcceptRejectDisjoint(t *testing.T) {
	s := seeded(t)

	if err := s.Reject("cough"); err != nil {
		t.Fatal(err)
	}
	if err := s.Accept("cough"); !errors.Is(err, ErrAlreadyAnswered) {
		t.Errorf("accepting a rejected symptom: got %v", err)
	}
	if err := s.Reject("itching"); !errors.Is(err, ErrAlreadyAnswered) {
		t.Errorf("rejecting an accepted symptom: got %v", err)
	}
	if err := s.Accept("itching"); !errors.Is(err, ErrAlreadyAnswered) {
		t.Errorf("accepting twice: got %v", err)
	}

	for _, a := range s.Accepted() {
		if s.IsRejected(a) {
			t.Errorf("%s is in both sets", a)
		}
	}
	if !s.IsRejected("cough") || s.IsAccepted("cough") {
		t.Error("cough should only be rejected")
	}
}

func TestAcceptKeepsOrder(t *testing.T) {
	s := seeded(t)
	for _, id := range []string{"fatigue", "vomiting"} {
		if err := s.Accept(id); err != nil {
			t.Fatal(err)
		}
	}
	got := s.Accepted()
	want := []string{"itching", "skin_rash", "chills", "fatigue", "vomiting"}
	if len(got) != len(want) {
		t.Fatalf("Accepted() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Accepted()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := seeded(t)
	a := s.Accepted()
	a[0] = "mutated"
	if s.Accepted()[0] != "itching" {
		t.Error("Accepted() must return a copy")
	}
	_ = s.Reject("cough")
	r := s.Rejected()
	r[0] = "mutated"
	if s.Rejected()[0] != "cough" {
		t.Error("Rejected() must return a copy")
	}
}
