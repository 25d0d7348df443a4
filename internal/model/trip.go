// Package model defines the data structures persisted by the trip store.
// The `json:"..."` struct tags mirror the on-disk document exactly, so a
// data file written by an earlier deployment loads without conversion.
package model

import (
	"strings"
	"time"
)

// Document is the whole persisted dataset: every trip, in one flat list.
// The store reads and writes it as a unit.
type Document struct {
	Trips []*Trip `json:"trips"`
}

// Trip is one planned trip, identified by its shareable code.
// Codes are stored upper case and compared case-insensitively.
type Trip struct {
	Code         string         `json:"code"`
	VotingDate   string         `json:"votingDate"`
	CreatedAt    time.Time      `json:"createdAt"`
	Admin        Admin          `json:"admin"`
	Config       TripConfig     `json:"config"`
	Participants []*Participant `json:"participants"`
}

// Admin mirrors the organizer's slot: the first name supplied at creation.
// Email stays empty until the organizer joins like everyone else.
type Admin struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TripConfig holds the optional per-user selection limits.
// A nil pointer means "no limit" and serializes as JSON null.
type TripConfig struct {
	MaxYesPerUser *int `json:"maxYesPerUser"`
	MaxNoPerUser  *int `json:"maxNoPerUser"`
}

// Participant is one roster entry. A participant created together with the
// trip is a placeholder (Assigned=false) until someone claims it by joining.
// Email empty means unset.
type Participant struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	JoinedAt         time.Time `json:"joinedAt"`
	IsAdmin          bool      `json:"isAdmin"`
	Assigned         bool      `json:"assigned"`
	Choices          Choices   `json:"choices"`
	PresentationFile string    `json:"presentationFile"`
}

// Choices are free-form destination lists: ones the participant wants,
// and ones they veto.
type Choices struct {
	Yes []string `json:"yes"`
	No  []string `json:"no"`
}

// TripSummary is the per-trip entry returned when listing a user's trips
// by email.
type TripSummary struct {
	Code          string    `json:"code"`
	VotingDate    string    `json:"votingDate"`
	CreatedAt     time.Time `json:"createdAt"`
	ParticipantID string    `json:"participantId"`
	Name          string    `json:"name"`
}

// FindParticipant returns the participant with the given id, or nil.
func (t *Trip) FindParticipant(id string) *Participant {
	for _, p := range t.Participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindTrip returns the trip whose code matches case-insensitively, or nil.
func (d *Document) FindTrip(code string) *Trip {
	code = strings.ToUpper(code)
	for _, t := range d.Trips {
		if strings.ToUpper(t.Code) == code {
			return t
		}
	}
	return nil
}
