package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripsplit/expenses-system/internal/core/domain"
	"github.com/tripsplit/expenses-system/internal/core/ports"
)

type ProjectService struct {
	projects ports.ProjectRepository
	expenses ports.ExpenseRepository
	feed     ports.ChangeFeed
	logger   zerolog.Logger
}

func NewProjectService(
	projects ports.ProjectRepository,
	expenses ports.ExpenseRepository,
	feed ports.ChangeFeed,
	logger zerolog.Logger,
) *ProjectService {
	return &ProjectService{projects: projects, expenses: expenses, feed: feed, logger: logger}
}

// CreateProject creates a project with the session user as creator and
// participants[0]. Invited emails are validated, lowercased, and deduplicated
// case-insensitively; the creator's own email among the invitations is
// rejected.
func (s *ProjectService) CreateProject(ctx context.Context, input ports.CreateProjectInput) (*ports.ProjectDetail, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}

	creator := domain.NewParticipant(input.Session.Email, true)
	creator.UID = input.Session.UserID
	if input.Session.Name != "" {
		creator.Name = input.Session.Name
	}

	project := &domain.Project{
		Title:        title,
		CreatedBy:    input.Session.UserID,
		CreatedAt:    time.Now().UTC(),
		Participants: []domain.Participant{creator},
	}

	for _, email := range input.ParticipantEmails {
		if _, err := project.AddParticipant(email, input.Session.Email); err != nil {
			return nil, err
		}
	}

	id, err := s.projects.Create(ctx, project)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create project")
		return nil, err
	}
	project.ID = id

	s.logger.Info().Str("project_id", id).Str("created_by", input.Session.UserID).Msg("project created")

	return toDetail(project, input.Session), nil
}

// ListProjects returns the projects visible to the session user: those they
// created or are listed in as a participant.
func (s *ProjectService) ListProjects(ctx context.Context, session ports.Session) ([]ports.ProjectSummary, error) {
	all, err := s.projects.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list projects")
		return nil, err
	}

	visible := domain.VisibleProjects(all, session.UserID, session.Email)
	summaries := make([]ports.ProjectSummary, 0, len(visible))
	for _, p := range visible {
		summaries = append(summaries, ports.ProjectSummary{
			ID:               p.ID,
			Title:            p.Title,
			CreatedBy:        p.CreatedBy,
			CreatedAt:        p.CreatedAt,
			ParticipantCount: len(p.Participants),
			IsCreator:        p.IsCreator(session.UserID),
		})
	}
	return summaries, nil
}

// GetProject returns the full project view. Non-members get
// domain.ErrForbidden regardless of the project's existence being known.
func (s *ProjectService) GetProject(ctx context.Context, session ports.Session, projectID string) (*ports.ProjectDetail, error) {
	project, err := s.memberProject(ctx, session, projectID)
	if err != nil {
		return nil, err
	}
	return toDetail(project, session), nil
}

// RenameProject updates the title via a partial-field merge. Creator only.
func (s *ProjectService) RenameProject(ctx context.Context, input ports.RenameProjectInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.ErrEmptyTitle
	}

	project, err := s.creatorProject(ctx, input.Session, input.ProjectID)
	if err != nil {
		return err
	}

	if err := s.projects.UpdateTitle(ctx, project.ID, title); err != nil {
		s.logger.Error().Err(err).Str("project_id", project.ID).Msg("failed to rename project")
		return err
	}

	s.emit(domain.ChangeProjectUpdated, project.ID, "")
	return nil
}

// DeleteProject removes the project and cascades the delete to its expense
// sub-collection.
func (s *ProjectService) DeleteProject(ctx context.Context, session ports.Session, projectID string) error {
	project, err := s.creatorProject(ctx, session, projectID)
	if err != nil {
		return err
	}

	if err := s.expenses.DeleteByProject(ctx, project.ID); err != nil {
		s.logger.Error().Err(err).Str("project_id", project.ID).Msg("failed to cascade expense delete")
		return err
	}
	if err := s.projects.Delete(ctx, project.ID); err != nil {
		s.logger.Error().Err(err).Str("project_id", project.ID).Msg("failed to delete project")
		return err
	}

	s.logger.Info().Str("project_id", project.ID).Msg("project deleted")
	s.emit(domain.ChangeProjectDeleted, project.ID, "")
	return nil
}

// AddParticipant invites a participant by email. Creator only.
func (s *ProjectService) AddParticipant(ctx context.Context, input ports.ParticipantInput) (*domain.Participant, error) {
	project, err := s.creatorProject(ctx, input.Session, input.ProjectID)
	if err != nil {
		return nil, err
	}

	participant, err := project.AddParticipant(input.Email, input.Session.Email)
	if err != nil {
		return nil, err
	}

	if err := s.projects.ReplaceParticipants(ctx, project.ID, project.Participants); err != nil {
		s.logger.Error().Err(err).Str("project_id", project.ID).Msg("failed to add participant")
		return nil, err
	}

	s.logger.Info().Str("project_id", project.ID).Str("email", participant.Email).Msg("participant added")
	s.emit(domain.ChangeParticipantAdded, project.ID, participant.Email)
	return &participant, nil
}

// RemoveParticipant removes a participant by email. The creator cannot be
// removed, and stored expenses referencing the removed name stay untouched.
func (s *ProjectService) RemoveParticipant(ctx context.Context, input ports.ParticipantInput) error {
	project, err := s.creatorProject(ctx, input.Session, input.ProjectID)
	if err != nil {
		return err
	}

	if err := project.RemoveParticipant(input.Email); err != nil {
		return err
	}

	if err := s.projects.ReplaceParticipants(ctx, project.ID, project.Participants); err != nil {
		s.logger.Error().Err(err).Str("project_id", project.ID).Msg("failed to remove participant")
		return err
	}

	s.logger.Info().Str("project_id", project.ID).Str("email", input.Email).Msg("participant removed")
	s.emit(domain.ChangeParticipantRemoved, project.ID, strings.ToLower(input.Email))
	return nil
}

// memberProject loads a project and enforces membership.
func (s *ProjectService) memberProject(ctx context.Context, session ports.Session, projectID string) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsMember(session.UserID, session.Email) {
		return nil, domain.ErrForbidden
	}
	return project, nil
}

// creatorProject loads a project and enforces that the session user created it.
func (s *ProjectService) creatorProject(ctx context.Context, session ports.Session, projectID string) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsCreator(session.UserID) {
		return nil, domain.ErrForbidden
	}
	return project, nil
}

func (s *ProjectService) emit(kind domain.ChangeKind, projectID, entityID string) {
	if s.feed == nil {
		return
	}
	s.feed.Enqueue(domain.ChangeEvent{
		ProjectID: projectID,
		Kind:      kind,
		EntityID:  entityID,
		At:        time.Now().UTC(),
	})
}

func toDetail(p *domain.Project, session ports.Session) *ports.ProjectDetail {
	return &ports.ProjectDetail{
		ID:           p.ID,
		Title:        p.Title,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		Participants: p.Participants,
		IsCreator:    p.IsCreator(session.UserID),
	}
}
