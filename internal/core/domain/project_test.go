package domain

import (
	"errors"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"bob@example.com", "a.b+c@sub.domain.org", "USER@EXAMPLE.COM"}
	for _, s := range valid {
		if !ValidateEmail(s) {
			t.Errorf("ValidateEmail(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "bob", "bob@", "@example.com", "bob@example", "bob @example.com"}
	for _, s := range invalid {
		if ValidateEmail(s) {
			t.Errorf("ValidateEmail(%q) = true, want false", s)
		}
	}
}

func TestDeriveName(t *testing.T) {
	if got := DeriveName("bob@example.com"); got != "bob" {
		t.Fatalf("DeriveName = %q, want %q", got, "bob")
	}
	if got := DeriveName("no-at-sign"); got != "no-at-sign" {
		t.Fatalf("DeriveName = %q, want input unchanged", got)
	}
}

func TestNewParticipant_NormalizesEmail(t *testing.T) {
	p := NewParticipant("Alice@Example.COM", false)
	if p.Email != "alice@example.com" {
		t.Fatalf("email = %q, want lowercased", p.Email)
	}
	if p.Name != "alice" {
		t.Fatalf("name = %q, want %q", p.Name, "alice")
	}
	if p.UID != "" {
		t.Fatalf("uid = %q, want empty for invited participants", p.UID)
	}
	if p.IsCreator {
		t.Fatal("IsCreator = true, want false")
	}
}

func newTestProject() *Project {
	creator := NewParticipant("owner@example.com", true)
	creator.UID = "uid-owner"
	return &Project{
		ID:           "p1",
		Title:        "Trip",
		CreatedBy:    "uid-owner",
		Participants: []Participant{creator},
	}
}

func TestAddParticipant_DuplicateIsCaseInsensitive(t *testing.T) {
	p := newTestProject()

	if _, err := p.AddParticipant("A@x.com", "owner@example.com"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := p.AddParticipant("a@x.com", "owner@example.com"); !errors.Is(err, ErrDuplicateParticipant) {
		t.Fatalf("second add err = %v, want ErrDuplicateParticipant", err)
	}
	if len(p.Participants) != 2 {
		t.Fatalf("participants = %d, want 2", len(p.Participants))
	}
}

func TestAddParticipant_Validation(t *testing.T) {
	p := newTestProject()

	if _, err := p.AddParticipant("", "owner@example.com"); !errors.Is(err, ErrEmptyEmail) {
		t.Fatalf("empty email err = %v, want ErrEmptyEmail", err)
	}
	if _, err := p.AddParticipant("not-an-email", "owner@example.com"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("malformed email err = %v, want ErrInvalidEmail", err)
	}
	if _, err := p.AddParticipant("Owner@Example.com", "owner@example.com"); !errors.Is(err, ErrSelfParticipant) {
		t.Fatalf("self add err = %v, want ErrSelfParticipant", err)
	}
	if len(p.Participants) != 1 {
		t.Fatalf("participants = %d, want list unchanged", len(p.Participants))
	}
}

func TestRemoveParticipant_RefusesCreator(t *testing.T) {
	p := newTestProject()
	if _, err := p.AddParticipant("bob@x.com", "owner@example.com"); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := p.RemoveParticipant("OWNER@example.com"); !errors.Is(err, ErrCreatorRemoval) {
		t.Fatalf("remove creator err = %v, want ErrCreatorRemoval", err)
	}
	if err := p.RemoveParticipant("bob@x.com"); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if err := p.RemoveParticipant("bob@x.com"); !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("remove twice err = %v, want ErrParticipantNotFound", err)
	}

	// exactly one creator after any sequence of add/remove operations
	creators := 0
	for _, part := range p.Participants {
		if part.IsCreator {
			creators++
		}
	}
	if creators != 1 {
		t.Fatalf("creators = %d, want exactly 1", creators)
	}
}

func TestIsMember(t *testing.T) {
	p := newTestProject()
	if _, err := p.AddParticipant("bob@x.com", "owner@example.com"); err != nil {
		t.Fatalf("add: %v", err)
	}

	if !p.IsMember("uid-owner", "owner@example.com") {
		t.Fatal("creator should be a member")
	}
	if !p.IsMember("uid-bob", "BOB@X.COM") {
		t.Fatal("participant email match should be case-insensitive")
	}
	if p.IsMember("uid-stranger", "stranger@x.com") {
		t.Fatal("stranger should not be a member")
	}
}

func TestVisibleProjects_FiltersAndPreservesOrder(t *testing.T) {
	mine := newTestProject()
	shared := &Project{
		ID:        "p2",
		CreatedBy: "uid-other",
		Participants: []Participant{
			{Name: "other", Email: "other@x.com", IsCreator: true},
			{Name: "owner", Email: "owner@example.com"},
		},
	}
	foreign := &Project{
		ID:        "p3",
		CreatedBy: "uid-other",
		Participants: []Participant{
			{Name: "other", Email: "other@x.com", IsCreator: true},
		},
	}

	visible := VisibleProjects([]*Project{mine, foreign, shared}, "uid-owner", "owner@example.com")
	if len(visible) != 2 {
		t.Fatalf("visible = %d, want 2", len(visible))
	}
	if visible[0].ID != "p1" || visible[1].ID != "p2" {
		t.Fatalf("order = [%s %s], want [p1 p2]", visible[0].ID, visible[1].ID)
	}
	for _, p := range visible {
		if !p.IsMember("uid-owner", "owner@example.com") {
			t.Fatalf("project %s visible without membership", p.ID)
		}
	}
}
