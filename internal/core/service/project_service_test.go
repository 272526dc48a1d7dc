package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripsplit/expenses-system/internal/core/domain"
	"github.com/tripsplit/expenses-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubProjectRepo struct {
	byID    map[string]*domain.Project
	order   []string
	nextID  int
	failErr error // if set, every call returns this error
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{byID: make(map[string]*domain.Project)}
}

func cloneProject(p *domain.Project) *domain.Project {
	clone := *p
	clone.Participants = append([]domain.Participant(nil), p.Participants...)
	return &clone
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) (string, error) {
	if r.failErr != nil {
		return "", r.failErr
	}
	r.nextID++
	id := fmt.Sprintf("proj-%d", r.nextID)
	clone := cloneProject(p)
	clone.ID = id
	r.byID[id] = clone
	r.order = append(r.order, id)
	return id, nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return cloneProject(p), nil
}

func (r *stubProjectRepo) List(_ context.Context) ([]*domain.Project, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	out := make([]*domain.Project, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneProject(r.byID[id]))
	}
	return out, nil
}

func (r *stubProjectRepo) UpdateTitle(_ context.Context, id, title string) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	p.Title = title
	return nil
}

func (r *stubProjectRepo) ReplaceParticipants(_ context.Context, id string, participants []domain.Participant) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	p.Participants = append([]domain.Participant(nil), participants...)
	return nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type stubExpenseRepo struct {
	byID   map[string]*domain.Expense
	order  []string
	nextID int
}

func newStubExpenseRepo() *stubExpenseRepo {
	return &stubExpenseRepo{byID: make(map[string]*domain.Expense)}
}

func cloneExpense(e *domain.Expense) *domain.Expense {
	clone := *e
	clone.SplitAmong = append([]string(nil), e.SplitAmong...)
	return &clone
}

func (r *stubExpenseRepo) Create(_ context.Context, e *domain.Expense) (string, error) {
	r.nextID++
	id := fmt.Sprintf("exp-%d", r.nextID)
	clone := cloneExpense(e)
	clone.ID = id
	r.byID[id] = clone
	r.order = append(r.order, id)
	return id, nil
}

func (r *stubExpenseRepo) FindByID(_ context.Context, projectID, expenseID string) (*domain.Expense, error) {
	e, ok := r.byID[expenseID]
	if !ok || e.ProjectID != projectID {
		return nil, domain.ErrExpenseNotFound
	}
	return cloneExpense(e), nil
}

func (r *stubExpenseRepo) ListByProject(_ context.Context, projectID string) ([]*domain.Expense, error) {
	var out []*domain.Expense
	for _, id := range r.order {
		if e := r.byID[id]; e != nil && e.ProjectID == projectID {
			out = append(out, cloneExpense(e))
		}
	}
	return out, nil
}

func (r *stubExpenseRepo) Update(_ context.Context, e *domain.Expense) error {
	current, ok := r.byID[e.ID]
	if !ok || current.ProjectID != e.ProjectID {
		return domain.ErrExpenseNotFound
	}
	r.byID[e.ID] = cloneExpense(e)
	return nil
}

func (r *stubExpenseRepo) Delete(_ context.Context, projectID, expenseID string) error {
	e, ok := r.byID[expenseID]
	if !ok || e.ProjectID != projectID {
		return domain.ErrExpenseNotFound
	}
	delete(r.byID, expenseID)
	return nil
}

func (r *stubExpenseRepo) DeleteByProject(_ context.Context, projectID string) error {
	for id, e := range r.byID {
		if e.ProjectID == projectID {
			delete(r.byID, id)
		}
	}
	return nil
}

// stubFeed records enqueued change events.
type stubFeed struct {
	events []domain.ChangeEvent
}

func (f *stubFeed) Enqueue(event domain.ChangeEvent) {
	f.events = append(f.events, event)
}

func (f *stubFeed) kinds() []string {
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, string(e.Kind))
	}
	return out
}

// ---------------------------------------------------------------------------

var testSession = ports.Session{UserID: "uid-owner", Email: "owner@example.com", Name: "owner"}

func newProjectService(repo *stubProjectRepo, expenses *stubExpenseRepo, feed *stubFeed) *ProjectService {
	return NewProjectService(repo, expenses, feed, zerolog.Nop())
}

func TestCreateProject_CreatorIsFirstParticipant(t *testing.T) {
	repo := newStubProjectRepo()
	svc := newProjectService(repo, newStubExpenseRepo(), &stubFeed{})

	detail, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{
		Session:           testSession,
		Title:             "Trip",
		ParticipantEmails: []string{"Bob@X.com", "carol@x.com"},
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	if detail.Title != "Trip" {
		t.Fatalf("title = %q", detail.Title)
	}
	if detail.CreatedBy != "uid-owner" {
		t.Fatalf("createdBy = %q", detail.CreatedBy)
	}
	if len(detail.Participants) != 3 {
		t.Fatalf("participants = %d, want 3", len(detail.Participants))
	}

	creator := detail.Participants[0]
	if !creator.IsCreator || creator.UID != "uid-owner" || creator.Email != "owner@example.com" {
		t.Fatalf("participants[0] = %+v, want flagged creator with owner uid", creator)
	}
	if detail.Participants[1].Email != "bob@x.com" {
		t.Fatalf("invited email = %q, want lowercased", detail.Participants[1].Email)
	}
	if !detail.IsCreator {
		t.Fatal("IsCreator = false for the creating session")
	}
}

func TestCreateProject_Validation(t *testing.T) {
	svc := newProjectService(newStubProjectRepo(), newStubExpenseRepo(), &stubFeed{})

	if _, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{
		Session: testSession,
		Title:   "   ",
	}); !errors.Is(err, domain.ErrEmptyTitle) {
		t.Fatalf("empty title err = %v, want ErrEmptyTitle", err)
	}

	if _, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{
		Session:           testSession,
		Title:             "Trip",
		ParticipantEmails: []string{"bob@x.com", "BOB@x.com"},
	}); !errors.Is(err, domain.ErrDuplicateParticipant) {
		t.Fatalf("duplicate invite err = %v, want ErrDuplicateParticipant", err)
	}

	if _, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{
		Session:           testSession,
		Title:             "Trip",
		ParticipantEmails: []string{"owner@example.com"},
	}); !errors.Is(err, domain.ErrSelfParticipant) {
		t.Fatalf("self invite err = %v, want ErrSelfParticipant", err)
	}
}

func TestListProjects_OnlyVisible(t *testing.T) {
	repo := newStubProjectRepo()
	svc := newProjectService(repo, newStubExpenseRepo(), &stubFeed{})

	if _, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{Session: testSession, Title: "Mine"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	other := ports.Session{UserID: "uid-other", Email: "other@x.com"}
	if _, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{
		Session:           other,
		Title:             "Shared",
		ParticipantEmails: []string{"owner@example.com"},
	}); err != nil {
		t.Fatalf("create shared: %v", err)
	}
	if _, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{Session: other, Title: "Foreign"}); err != nil {
		t.Fatalf("create foreign: %v", err)
	}

	summaries, err := svc.ListProjects(context.Background(), testSession)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("visible = %d, want 2", len(summaries))
	}
	if summaries[0].Title != "Mine" || summaries[1].Title != "Shared" {
		t.Fatalf("order = [%s %s], want [Mine Shared]", summaries[0].Title, summaries[1].Title)
	}
	if !summaries[0].IsCreator || summaries[1].IsCreator {
		t.Fatal("IsCreator flags wrong")
	}
}

func TestGetProject_NonMemberForbidden(t *testing.T) {
	repo := newStubProjectRepo()
	svc := newProjectService(repo, newStubExpenseRepo(), &stubFeed{})

	detail, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{Session: testSession, Title: "Trip"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stranger := ports.Session{UserID: "uid-stranger", Email: "stranger@x.com"}
	if _, err := svc.GetProject(context.Background(), stranger, detail.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger err = %v, want ErrForbidden", err)
	}
	if _, err := svc.GetProject(context.Background(), testSession, "missing"); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("missing err = %v, want ErrProjectNotFound", err)
	}
}

func TestRenameProject_CreatorOnly(t *testing.T) {
	repo := newStubProjectRepo()
	feed := &stubFeed{}
	svc := newProjectService(repo, newStubExpenseRepo(), feed)

	detail, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{
		Session:           testSession,
		Title:             "Trip",
		ParticipantEmails: []string{"bob@x.com"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	member := ports.Session{UserID: "uid-bob", Email: "bob@x.com"}
	err = svc.RenameProject(context.Background(), ports.RenameProjectInput{Session: member, ProjectID: detail.ID, Title: "Hijacked"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("member rename err = %v, want ErrForbidden", err)
	}

	if err := svc.RenameProject(context.Background(), ports.RenameProjectInput{Session: testSession, ProjectID: detail.ID, Title: "Holiday"}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	stored, _ := repo.FindByID(context.Background(), detail.ID)
	if stored.Title != "Holiday" {
		t.Fatalf("title = %q, want Holiday", stored.Title)
	}
	if len(feed.events) != 1 || feed.events[0].Kind != domain.ChangeProjectUpdated {
		t.Fatalf("feed kinds = %v, want [project.updated]", feed.kinds())
	}
}

func TestDeleteProject_CascadesExpenses(t *testing.T) {
	repo := newStubProjectRepo()
	expenses := newStubExpenseRepo()
	feed := &stubFeed{}
	svc := newProjectService(repo, expenses, feed)

	detail, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{Session: testSession, Title: "Trip"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := expenses.Create(context.Background(), &domain.Expense{ProjectID: detail.ID, Concept: "dinner", Amount: 30}); err != nil {
		t.Fatalf("seed expense: %v", err)
	}

	if err := svc.DeleteProject(context.Background(), testSession, detail.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := repo.FindByID(context.Background(), detail.ID); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("project still present: %v", err)
	}
	remaining, _ := expenses.ListByProject(context.Background(), detail.ID)
	if len(remaining) != 0 {
		t.Fatalf("expenses remaining = %d, want cascade delete", len(remaining))
	}
	if len(feed.events) != 1 || feed.events[0].Kind != domain.ChangeProjectDeleted {
		t.Fatalf("feed kinds = %v, want [project.deleted]", feed.kinds())
	}
}

func TestAddParticipant_SelfRejectedAndListUnchanged(t *testing.T) {
	repo := newStubProjectRepo()
	svc := newProjectService(repo, newStubExpenseRepo(), &stubFeed{})

	detail, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{Session: testSession, Title: "Trip"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.AddParticipant(context.Background(), ports.ParticipantInput{
		Session:   testSession,
		ProjectID: detail.ID,
		Email:     "Owner@Example.com",
	})
	if !errors.Is(err, domain.ErrSelfParticipant) {
		t.Fatalf("self add err = %v, want ErrSelfParticipant", err)
	}

	stored, _ := repo.FindByID(context.Background(), detail.ID)
	if len(stored.Participants) != 1 {
		t.Fatalf("participants = %d, want list unchanged", len(stored.Participants))
	}
}

func TestRemoveParticipant_HistoricalExpensesUntouched(t *testing.T) {
	repo := newStubProjectRepo()
	expenses := newStubExpenseRepo()
	svc := newProjectService(repo, expenses, &stubFeed{})

	detail, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{
		Session:           testSession,
		Title:             "Trip",
		ParticipantEmails: []string{"bob@x.com"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	id, err := expenses.Create(context.Background(), &domain.Expense{
		ProjectID:       detail.ID,
		Concept:         "dinner",
		Amount:          60,
		PaidBy:          "owner",
		SplitAmong:      []string{"owner", "bob"},
		AmountPerPerson: 30,
		CreatedAt:       time.Now(),
	})
	if err != nil {
		t.Fatalf("seed expense: %v", err)
	}

	err = svc.RemoveParticipant(context.Background(), ports.ParticipantInput{
		Session:   testSession,
		ProjectID: detail.ID,
		Email:     "bob@x.com",
	})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}

	stored, _ := expenses.FindByID(context.Background(), detail.ID, id)
	if stored.AmountPerPerson != 30 {
		t.Fatalf("amountPerPerson = %v, want unchanged 30", stored.AmountPerPerson)
	}
	if strings.Join(stored.SplitAmong, ",") != "owner,bob" {
		t.Fatalf("splitAmong = %v, want unchanged [owner bob]", stored.SplitAmong)
	}
}

func TestRemoveParticipant_CreatorRefused(t *testing.T) {
	repo := newStubProjectRepo()
	svc := newProjectService(repo, newStubExpenseRepo(), &stubFeed{})

	detail, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{Session: testSession, Title: "Trip"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.RemoveParticipant(context.Background(), ports.ParticipantInput{
		Session:   testSession,
		ProjectID: detail.ID,
		Email:     "owner@example.com",
	})
	if !errors.Is(err, domain.ErrCreatorRemoval) {
		t.Fatalf("err = %v, want ErrCreatorRemoval", err)
	}
}
