package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createProjectRequest struct {
	Title             string   `json:"title"              validate:"required"`
	ParticipantEmails []string `json:"participant_emails" validate:"omitempty,dive,required"`
}

type renameProjectRequest struct {
	Title string `json:"title" validate:"required"`
}

type addParticipantRequest struct {
	Email string `json:"email" validate:"required"`
}

// --- Response types ---
// Response-only types owned by the transport layer. These are intentionally
// separate from ports/domain types so the JSON contract is not coupled to
// internal service changes.

type participantResponse struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	UID       string `json:"uid,omitempty"`
	IsCreator bool   `json:"isCreator"`
}

type projectLinks struct {
	Self     string `json:"self"`
	Expenses string `json:"expenses"`
	Watch    string `json:"watch"`
}

type projectSummaryResponse struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	CreatedBy        string       `json:"createdBy"`
	CreatedAt        time.Time    `json:"createdAt"`
	ParticipantCount int          `json:"participant_count"`
	IsCreator        bool         `json:"is_creator"`
	Links            projectLinks `json:"_links"`
}

type projectDetailResponse struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	CreatedBy    string                `json:"createdBy"`
	CreatedAt    time.Time             `json:"createdAt"`
	Participants []participantResponse `json:"participants"`
	IsCreator    bool                  `json:"is_creator"`
	Links        projectLinks          `json:"_links"`
}

type listProjectsResponse struct {
	Data []projectSummaryResponse `json:"data"`
}
