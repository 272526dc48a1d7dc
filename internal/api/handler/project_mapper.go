package handler

import (
	"github.com/tripsplit/expenses-system/internal/core/domain"
	"github.com/tripsplit/expenses-system/internal/core/ports"
)

// --- Service result → HTTP response ---

func linksFor(projectID string) projectLinks {
	return projectLinks{
		Self:     "/v1/projects/" + projectID,
		Expenses: "/v1/projects/" + projectID + "/expenses",
		Watch:    "/v1/projects/" + projectID + "/watch",
	}
}

func toSummaryResponse(s ports.ProjectSummary) projectSummaryResponse {
	return projectSummaryResponse{
		ID:               s.ID,
		Title:            s.Title,
		CreatedBy:        s.CreatedBy,
		CreatedAt:        s.CreatedAt.UTC(),
		ParticipantCount: s.ParticipantCount,
		IsCreator:        s.IsCreator,
		Links:            linksFor(s.ID),
	}
}

func toDetailResponse(d *ports.ProjectDetail) projectDetailResponse {
	participants := make([]participantResponse, 0, len(d.Participants))
	for _, p := range d.Participants {
		participants = append(participants, toParticipantResponse(p))
	}
	return projectDetailResponse{
		ID:           d.ID,
		Title:        d.Title,
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt.UTC(),
		Participants: participants,
		IsCreator:    d.IsCreator,
		Links:        linksFor(d.ID),
	}
}

func toParticipantResponse(p domain.Participant) participantResponse {
	return participantResponse{
		Name:      p.Name,
		Email:     p.Email,
		UID:       p.UID,
		IsCreator: p.IsCreator,
	}
}

func toExpenseResponse(e *domain.Expense) expenseResponse {
	return expenseResponse{
		ID:              e.ID,
		Concept:         e.Concept,
		Amount:          e.Amount,
		PaidBy:          e.PaidBy,
		SplitAmong:      e.SplitAmong,
		AmountPerPerson: e.AmountPerPerson,
		CreatedAt:       e.CreatedAt.UTC(),
	}
}
