package domain

import (
	"regexp"
	"strings"
	"time"
)

// emailPattern is deliberately permissive (local@domain.tld); full RFC 5322
// compliance is not a goal.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Participant is a person associated with a project, keyed by email.
// UID stays empty until the invited person signs in under that email.
type Participant struct {
	Name      string `json:"name" bson:"name"`
	Email     string `json:"email" bson:"email"`
	UID       string `json:"uid,omitempty" bson:"uid,omitempty"`
	IsCreator bool   `json:"isCreator" bson:"isCreator"`
}

// Project is the aggregate root: a titled collection of participants owning
// an expense sub-collection. The creator is always participants[0].
type Project struct {
	ID           string        `json:"id" bson:"_id,omitempty"`
	Title        string        `json:"title" bson:"title"`
	CreatedBy    string        `json:"createdBy" bson:"createdBy"`
	CreatedAt    time.Time     `json:"createdAt" bson:"createdAt"`
	Participants []Participant `json:"participants" bson:"participants"`
}

// ValidateEmail reports whether s looks like an email address.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// DeriveName returns the display name for an email: the local part before
// the first '@'.
func DeriveName(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// NewParticipant builds a participant from an email, normalizing it to lower
// case and deriving the display name from the local part.
func NewParticipant(email string, isCreator bool) Participant {
	normalized := strings.ToLower(email)
	return Participant{
		Name:      DeriveName(normalized),
		Email:     normalized,
		IsCreator: isCreator,
	}
}

// HasParticipant reports whether email is already present among participants
// (case-insensitive comparison).
func (p *Project) HasParticipant(email string) bool {
	for _, part := range p.Participants {
		if strings.EqualFold(part.Email, email) {
			return true
		}
	}
	return false
}

// HasParticipantName reports whether name matches a current participant.
func (p *Project) HasParticipantName(name string) bool {
	for _, part := range p.Participants {
		if part.Name == name {
			return true
		}
	}
	return false
}

// AddParticipant validates and appends an invited (non-creator) participant.
// Errors: empty email, malformed email, duplicate, or the email belonging to
// actorEmail (adding oneself).
func (p *Project) AddParticipant(email, actorEmail string) (Participant, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Participant{}, ErrEmptyEmail
	}
	if !ValidateEmail(email) {
		return Participant{}, ErrInvalidEmail
	}
	if strings.EqualFold(email, actorEmail) {
		return Participant{}, ErrSelfParticipant
	}
	if p.HasParticipant(email) {
		return Participant{}, ErrDuplicateParticipant
	}

	participant := NewParticipant(email, false)
	p.Participants = append(p.Participants, participant)
	return participant, nil
}

// RemoveParticipant deletes the participant with the given email. Removing
// the creator is refused, so exactly one isCreator participant survives any
// sequence of add/remove operations.
func (p *Project) RemoveParticipant(email string) error {
	for i, part := range p.Participants {
		if !strings.EqualFold(part.Email, email) {
			continue
		}
		if part.IsCreator {
			return ErrCreatorRemoval
		}
		p.Participants = append(p.Participants[:i], p.Participants[i+1:]...)
		return nil
	}
	return ErrParticipantNotFound
}

// IsCreator reports whether userID created the project.
func (p *Project) IsCreator(userID string) bool {
	return p.CreatedBy == userID
}

// IsMember reports whether the actor may see the project: creator by id, or
// listed as a participant by email.
func (p *Project) IsMember(userID, userEmail string) bool {
	return p.IsCreator(userID) || p.HasParticipant(userEmail)
}

// VisibleProjects filters projects down to those where the actor is creator
// or participant. The filter is order-preserving and stable with respect to
// the input.
func VisibleProjects(all []*Project, userID, userEmail string) []*Project {
	visible := make([]*Project, 0, len(all))
	for _, project := range all {
		if project.IsMember(userID, userEmail) {
			visible = append(visible, project)
		}
	}
	return visible
}
