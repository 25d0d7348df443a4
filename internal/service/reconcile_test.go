package service

import (
	"errors"
	"testing"
	"time"

	"github.com/sevillaa/Travel-bros/internal/apperror"
	"github.com/sevillaa/Travel-bros/internal/model"
)

func placeholderTrip(maxYes, maxNo *int) *model.Trip {
	return &model.Trip{
		Code:   "ABC234",
		Config: model.TripConfig{MaxYesPerUser: maxYes, MaxNoPerUser: maxNo},
		Participants: []*model.Participant{
			{ID: "p1", Name: "Ana", IsAdmin: true},
			{ID: "p2", Name: "Bob"},
		},
	}
}

func TestReconcile_AppendsWhenNothingMatches(t *testing.T) {
	trip := placeholderTrip(nil, nil)
	now := time.Now().UTC()

	p, err := reconcile(trip, "Carol", "carol@example.com", []string{"Lisbon"}, []string{}, now)
	if err != nil {
		t.Fatalf("reconcile() error = %v", err)
	}

	if p.ID != "p3" {
		t.Errorf("ID = %q, want p3 (count+1)", p.ID)
	}
	if !p.Assigned || p.IsAdmin {
		t.Errorf("new participant = %+v, want assigned non-admin", p)
	}
	if !p.JoinedAt.Equal(now) {
		t.Errorf("JoinedAt = %v, want %v", p.JoinedAt, now)
	}
	if len(trip.Participants) != 3 {
		t.Errorf("roster = %d, want 3", len(trip.Participants))
	}
}

func TestReconcile_NameMatchIsCaseInsensitive(t *testing.T) {
	trip := placeholderTrip(nil, nil)

	p, err := reconcile(trip, "BOB", "bob@example.com", nil, nil, time.Now())
	if err != nil {
		t.Fatalf("reconcile() error = %v", err)
	}
	if p.ID != "p2" {
		t.Errorf("ID = %q, want the Bob placeholder", p.ID)
	}
	if p.Name != "BOB" || p.Email != "bob@example.com" || !p.Assigned {
		t.Errorf("claimed slot = %+v", p)
	}
}

func TestReconcile_NameMatchSkipsSlotsWithEmail(t *testing.T) {
	// A slot that already carries an email is only reachable through the
	// email match; an identical name with a different email gets a new slot.
	trip := placeholderTrip(nil, nil)
	trip.Participants[1].Email = "bob@example.com"
	trip.Participants[1].Assigned = true

	p, err := reconcile(trip, "Bob", "other.bob@example.com", nil, nil, time.Now())
	if err != nil {
		t.Fatalf("reconcile() error = %v", err)
	}
	if p.ID != "p3" {
		t.Errorf("ID = %q, want a fresh slot", p.ID)
	}
}

func TestReconcile_DuplicateEmailFailsBeforeMutation(t *testing.T) {
	trip := placeholderTrip(nil, nil)
	trip.Participants[1].Email = "bob@example.com"
	trip.Participants[1].Assigned = true

	_, err := reconcile(trip, "Somebody", "BOB@EXAMPLE.COM", []string{"Lisbon"}, nil, time.Now())
	if !errors.Is(err, apperror.ErrDuplicateEmail) {
		t.Fatalf("reconcile() error = %v, want ErrDuplicateEmail", err)
	}

	if len(trip.Participants) != 2 {
		t.Error("rejected reconcile must not append")
	}
	if trip.Participants[1].Name != "Bob" {
		t.Error("rejected reconcile must not rename")
	}
}

func TestReconcile_EmailCasePreservedOnClaim(t *testing.T) {
	trip := placeholderTrip(nil, nil)

	p, err := reconcile(trip, "Ana", "Ana.Garcia@Example.com", nil, nil, time.Now())
	if err != nil {
		t.Fatalf("reconcile() error = %v", err)
	}
	if p.Email != "Ana.Garcia@Example.com" {
		t.Errorf("Email = %q, original case must be stored", p.Email)
	}
}

func TestReconcile_LimitFailureAfterIdentityResolution(t *testing.T) {
	// The limit check runs after the claim, so the in-memory trip carries
	// the identity mutation even though the call failed. Durability is the
	// caller's concern: it must not save on error.
	trip := placeholderTrip(intPtr(1), nil)

	_, err := reconcile(trip, "Ana", "ana@example.com", []string{"Lisbon", "Rome"}, nil, time.Now())
	if !errors.Is(err, apperror.ErrLimitExceeded) {
		t.Fatalf("reconcile() error = %v, want ErrLimitExceeded", err)
	}

	p := trip.Participants[0]
	if !p.Assigned || p.Email != "ana@example.com" {
		t.Errorf("identity claim should have happened in memory, got %+v", p)
	}
	if len(p.Choices.Yes) != 0 {
		t.Error("choices must not be committed on a failed limit check")
	}
}

func TestReconcile_NormalizesBeforeMatching(t *testing.T) {
	now := time.Now().UTC()
	trip := &model.Trip{
		Code: "ABC234",
		Participants: []*model.Participant{
			{Name: "Ana"}, // no id, no choices, no join time
		},
	}

	p, err := reconcile(trip, "ana", "ana@example.com", nil, nil, now)
	if err != nil {
		t.Fatalf("reconcile() error = %v", err)
	}
	if p.ID != "p1" {
		t.Errorf("ID = %q, want backfilled p1", p.ID)
	}
	if p.Choices.Yes == nil || p.Choices.No == nil {
		t.Error("choice lists must be backfilled to empty slices")
	}
}

func TestCheckLimits(t *testing.T) {
	tests := []struct {
		name    string
		maxYes  *int
		maxNo   *int
		yes     []string
		no      []string
		wantErr error
	}{
		{"no limits configured", nil, nil, []string{"a", "b", "c"}, []string{"d"}, nil},
		{"yes at the limit", intPtr(2), nil, []string{"a", "b"}, nil, nil},
		{"yes over the limit", intPtr(2), nil, []string{"a", "b", "c"}, nil, apperror.ErrLimitExceeded},
		{"no over the limit", nil, intPtr(1), nil, []string{"a", "b"}, apperror.ErrLimitExceeded},
		{"zero limit forbids any selection", intPtr(0), nil, []string{"a"}, nil, apperror.ErrLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkLimits(model.TripConfig{MaxYesPerUser: tt.maxYes, MaxNoPerUser: tt.maxNo}, tt.yes, tt.no)
			if tt.wantErr == nil && err != nil {
				t.Errorf("checkLimits() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("checkLimits() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCleanList(t *testing.T) {
	got := cleanList([]string{"  Lisbon ", "", "Rome", "   "})
	if len(got) != 2 || got[0] != "Lisbon" || got[1] != "Rome" {
		t.Errorf("cleanList() = %v", got)
	}
	if cleanList(nil) == nil {
		t.Error("cleanList(nil) must return an empty slice, not nil")
	}
}
