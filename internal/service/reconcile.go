package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sevillaa/Travel-bros/internal/apperror"
	"github.com/sevillaa/Travel-bros/internal/model"
)

// reconcile matches an incoming identity (name + email) against a trip's
// roster and commits the preference lists on success.
//
// Matching order:
//  1. stored email equals the incoming email (case-insensitive). If that
//     participant is already assigned the email is taken and the call
//     fails before any mutation. An unassigned email match is claimed —
//     not expected in the normal flow, but old records can carry one.
//  2. a participant with no email whose name matches case-insensitively:
//     a placeholder seeded at trip creation, claimed by this join.
//  3. no match at all: a brand-new participant is appended.
//
// The limit checks run after identity resolution, so a failed check can
// leave a claimed slot mutated on the in-memory trip. That mutation only
// becomes durable if the caller saves, which it must not do on error.
func reconcile(trip *model.Trip, name, email string, yesList, noList []string, now time.Time) (*model.Participant, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	lowerEmail := strings.ToLower(email)

	normalizeParticipants(trip, now)

	var participant *model.Participant
	for _, p := range trip.Participants {
		if p.Email != "" && strings.ToLower(p.Email) == lowerEmail {
			if p.Assigned {
				return nil, apperror.DuplicateEmail()
			}
			participant = p
			break
		}
	}

	if participant == nil {
		for _, p := range trip.Participants {
			if p.Email == "" && strings.EqualFold(p.Name, name) {
				participant = p
				break
			}
		}
	}

	if participant == nil {
		participant = &model.Participant{
			ID:       fmt.Sprintf("p%d", len(trip.Participants)+1),
			Name:     name,
			Email:    email,
			JoinedAt: now,
			Assigned: true,
			Choices:  model.Choices{Yes: []string{}, No: []string{}},
		}
		trip.Participants = append(trip.Participants, participant)
	} else {
		// Claim: the slot takes this identity, original email case kept.
		participant.Name = name
		participant.Email = email
		participant.Assigned = true
		participant.JoinedAt = now
	}

	if err := checkLimits(trip.Config, yesList, noList); err != nil {
		return nil, err
	}

	participant.Choices = model.Choices{Yes: yesList, No: noList}
	return participant, nil
}

// normalizeParticipants backfills fields that may be missing on records
// written before the field existed: positional ids, zero join times and
// nil choice lists. Mirrors what every mutation path of the original
// dataset did defensively on load.
func normalizeParticipants(trip *model.Trip, now time.Time) {
	for i, p := range trip.Participants {
		if p.ID == "" {
			p.ID = fmt.Sprintf("p%d", i+1)
		}
		if p.JoinedAt.IsZero() {
			p.JoinedAt = now
		}
		if p.Choices.Yes == nil {
			p.Choices.Yes = []string{}
		}
		if p.Choices.No == nil {
			p.Choices.No = []string{}
		}
	}
}

// checkLimits validates the selection counts against the trip's optional
// per-user caps. Shared by the join and update paths.
func checkLimits(cfg model.TripConfig, yesList, noList []string) error {
	if cfg.MaxYesPerUser != nil && len(yesList) > *cfg.MaxYesPerUser {
		return apperror.LimitExceeded("choicesYes", *cfg.MaxYesPerUser, "destinations you want")
	}
	if cfg.MaxNoPerUser != nil && len(noList) > *cfg.MaxNoPerUser {
		return apperror.LimitExceeded("choicesNo", *cfg.MaxNoPerUser, "destinations you do NOT want")
	}
	return nil
}
