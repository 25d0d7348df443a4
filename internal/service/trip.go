// Package service contains the business logic layer of the application.
//
// Every operation follows the same cycle: load the whole document from the
// store, find the trip by code, mutate the in-memory copy, and save the
// whole document back only when everything succeeded. A failed validation
// therefore never becomes durable, even when it happens after an identity
// mutation (see reconcile.go). Two concurrent requests against the same
// trip still race at the store level — last writer wins — which is the
// store's documented model, not something this layer compensates for.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/sevillaa/Travel-bros/internal/apperror"
	"github.com/sevillaa/Travel-bros/internal/code"
	"github.com/sevillaa/Travel-bros/internal/model"
	"github.com/sevillaa/Travel-bros/internal/repository"
)

// TripService handles trip and participant business logic.
type TripService struct {
	store  repository.TripStore
	logger *slog.Logger
	rand   *rand.Rand
}

// NewTripService creates a TripService over the given store.
func NewTripService(store repository.TripStore, logger *slog.Logger) *TripService {
	return &TripService{
		store:  store,
		logger: logger,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Create builds a new trip from a voting date and a roster of names.
// Each name becomes an unassigned placeholder participant; the first one
// is flagged as the trip admin and mirrored into the trip's admin block.
func (s *TripService) Create(ctx context.Context, votingDate string, participantNames []string, maxYes, maxNo *int) (*model.Trip, error) {
	votingDate = strings.TrimSpace(votingDate)
	if votingDate == "" {
		return nil, apperror.ValidationFailed("votingDate", "voting date and at least one participant are required")
	}

	names := cleanList(participantNames)
	if len(names) == 0 {
		return nil, apperror.ValidationFailed("participants", "voting date and at least one participant are required")
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading trips: %w", err)
	}

	existing := make(map[string]bool, len(doc.Trips))
	for _, t := range doc.Trips {
		existing[strings.ToUpper(t.Code)] = true
	}

	now := time.Now().UTC()
	participants := make([]*model.Participant, len(names))
	for i, name := range names {
		participants[i] = &model.Participant{
			ID:       fmt.Sprintf("p%d", i+1),
			Name:     name,
			JoinedAt: now,
			IsAdmin:  i == 0,
			Choices:  model.Choices{Yes: []string{}, No: []string{}},
		}
	}

	trip := &model.Trip{
		Code:         code.Generate(s.rand, code.DefaultLength, existing),
		VotingDate:   votingDate,
		CreatedAt:    now,
		Admin:        model.Admin{Name: participants[0].Name},
		Config:       model.TripConfig{MaxYesPerUser: maxYes, MaxNoPerUser: maxNo},
		Participants: participants,
	}

	doc.Trips = append(doc.Trips, trip)
	if err := s.store.Save(ctx, doc); err != nil {
		s.logger.Error("failed to save new trip",
			slog.String("code", trip.Code),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("saving trips: %w", err)
	}

	s.logger.Info("trip created",
		slog.String("code", trip.Code),
		slog.Int("participants", len(participants)),
	)
	return trip, nil
}

// GetByCode retrieves a trip by its shareable code, case-insensitively.
func (s *TripService) GetByCode(ctx context.Context, tripCode string) (*model.Trip, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading trips: %w", err)
	}

	trip := doc.FindTrip(tripCode)
	if trip == nil {
		return nil, apperror.NotFound("trip", strings.ToUpper(tripCode))
	}
	return trip, nil
}

// Join reconciles the incoming identity against the trip's roster and
// commits the preference lists. Returns the updated trip and the id of the
// participant that was claimed or created.
func (s *TripService) Join(ctx context.Context, tripCode, name, email string, choicesYes, choicesNo []string) (*model.Trip, string, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return nil, "", apperror.ValidationFailed("name", "name and email are required")
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("loading trips: %w", err)
	}

	trip := doc.FindTrip(tripCode)
	if trip == nil {
		return nil, "", apperror.NotFound("trip", strings.ToUpper(tripCode))
	}

	participant, err := reconcile(trip, name, email, cleanList(choicesYes), cleanList(choicesNo), time.Now().UTC())
	if err != nil {
		// The reconciler may have claimed a slot before failing a limit
		// check; skipping the save discards that in-memory mutation.
		return nil, "", err
	}

	if err := s.store.Save(ctx, doc); err != nil {
		s.logger.Error("failed to save join",
			slog.String("code", trip.Code),
			slog.String("error", err.Error()),
		)
		return nil, "", fmt.Errorf("saving trips: %w", err)
	}

	s.logger.Info("participant joined",
		slog.String("code", trip.Code),
		slog.String("participant", participant.ID),
	)
	return trip, participant.ID, nil
}

// UpdateParticipant overwrites a known participant's choices, applying the
// same limit checks as Join, and optionally renames them.
func (s *TripService) UpdateParticipant(ctx context.Context, tripCode, participantID string, choicesYes, choicesNo []string, name string) (*model.Trip, *model.Participant, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading trips: %w", err)
	}

	trip := doc.FindTrip(tripCode)
	if trip == nil {
		return nil, nil, apperror.NotFound("trip", strings.ToUpper(tripCode))
	}

	participant := trip.FindParticipant(participantID)
	if participant == nil {
		return nil, nil, apperror.NotFound("participant", participantID)
	}

	yesList := cleanList(choicesYes)
	noList := cleanList(choicesNo)
	if err := checkLimits(trip.Config, yesList, noList); err != nil {
		return nil, nil, err
	}

	participant.Choices = model.Choices{Yes: yesList, No: noList}
	if name = strings.TrimSpace(name); name != "" {
		participant.Name = name
	}

	if err := s.store.Save(ctx, doc); err != nil {
		return nil, nil, fmt.Errorf("saving trips: %w", err)
	}

	s.logger.Info("participant updated",
		slog.String("code", trip.Code),
		slog.String("participant", participant.ID),
	)
	return trip, participant, nil
}

// RemoveParticipant withdraws a participant from a trip. The trip itself
// is never deleted, even when its roster empties out.
func (s *TripService) RemoveParticipant(ctx context.Context, tripCode, participantID string) error {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading trips: %w", err)
	}

	trip := doc.FindTrip(tripCode)
	if trip == nil {
		return apperror.NotFound("trip", strings.ToUpper(tripCode))
	}

	kept := trip.Participants[:0]
	for _, p := range trip.Participants {
		if p.ID != participantID {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(trip.Participants) {
		return apperror.NotFound("participant", participantID)
	}
	trip.Participants = kept

	if err := s.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("saving trips: %w", err)
	}

	s.logger.Info("participant removed",
		slog.String("code", trip.Code),
		slog.String("participant", participantID),
	)
	return nil
}

// TripsForEmail lists every trip in which a participant carries the given
// email, case-insensitively. Always succeeds; unknown emails yield an
// empty list.
func (s *TripService) TripsForEmail(ctx context.Context, email string) ([]model.TripSummary, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading trips: %w", err)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	summaries := []model.TripSummary{}
	for _, trip := range doc.Trips {
		for _, p := range trip.Participants {
			if p.Email != "" && strings.ToLower(p.Email) == email {
				summaries = append(summaries, model.TripSummary{
					Code:          trip.Code,
					VotingDate:    trip.VotingDate,
					CreatedAt:     trip.CreatedAt,
					ParticipantID: p.ID,
					Name:          p.Name,
				})
			}
		}
	}
	return summaries, nil
}

// AttachPresentation records the stored file path on a participant. The
// file is already on disk by the time this runs, so a failed lookup leaves
// an orphaned file behind — an accepted limitation of the upload flow.
func (s *TripService) AttachPresentation(ctx context.Context, tripCode, participantID, filePath string) error {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading trips: %w", err)
	}

	trip := doc.FindTrip(tripCode)
	if trip == nil {
		return apperror.NotFound("trip", strings.ToUpper(tripCode))
	}

	participant := trip.FindParticipant(participantID)
	if participant == nil {
		return apperror.NotFound("participant", participantID)
	}

	participant.PresentationFile = filePath
	if err := s.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("saving trips: %w", err)
	}

	s.logger.Info("presentation attached",
		slog.String("code", trip.Code),
		slog.String("participant", participantID),
		slog.String("file", filePath),
	)
	return nil
}

// cleanList trims every entry and drops empties. Never returns nil, so
// the stored JSON always carries arrays rather than nulls.
func cleanList(list []string) []string {
	out := []string{}
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
