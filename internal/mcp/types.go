package mcp

import (
	"time"

	"github.com/rpggio/bidboard/internal/domain/history"
	"github.com/rpggio/bidboard/internal/domain/project"
)

type CreateProjectParams struct {
	Title       string `json:"title" jsonschema:"project title"`
	Description string `json:"description" jsonschema:"project description"`
	Skills      string `json:"skills" jsonschema:"comma separated skill tags"`
	PriceLow    int64  `json:"price_low" jsonschema:"lower bound of the budget in the smallest currency unit"`
	PriceHigh   int64  `json:"price_high" jsonschema:"upper bound of the budget, at least price_low"`
	DueDate     int64  `json:"due_date" jsonschema:"deadline as unix seconds, not in the past"`
}

type UpdateProjectParams struct {
	ProjectID   int64  `json:"project_id" jsonschema:"id of the project to overwrite"`
	Title       string `json:"title" jsonschema:"project title"`
	Description string `json:"description" jsonschema:"project description"`
	Skills      string `json:"skills" jsonschema:"comma separated skill tags"`
	PriceLow    int64  `json:"price_low" jsonschema:"lower bound of the budget in the smallest currency unit"`
	PriceHigh   int64  `json:"price_high" jsonschema:"upper bound of the budget, at least price_low"`
	DueDate     int64  `json:"due_date" jsonschema:"deadline as unix seconds, not in the past"`
}

type ProjectIDParams struct {
	ProjectID int64 `json:"project_id" jsonschema:"project id"`
}

type ListProjectsParams struct {
	Skill  string `json:"skill,omitempty" jsonschema:"only projects tagged with this skill"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

type ClientCountParams struct{}

type GetProjectHistoryParams struct {
	ProjectID int64  `json:"project_id,omitempty" jsonschema:"restrict to one project"`
	Type      string `json:"type,omitempty" jsonschema:"project_created, project_updated or project_deleted"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

type GetBidProjectStoreParams struct{}

type WhoAmIParams struct{}

type ProjectResponse struct {
	ProjectID   int64  `json:"project_id"`
	Owner       string `json:"owner"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Skills      string `json:"skills"`
	PriceLow    int64  `json:"price_low"`
	PriceHigh   int64  `json:"price_high"`
	DueDate     int64  `json:"due_date"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

type DeleteProjectResponse struct {
	ProjectID int64 `json:"project_id"`
	Deleted   bool  `json:"deleted"`
}

type ClientCountResponse struct {
	Owner string `json:"owner"`
	Count int64  `json:"count"`
}

type HistoryEntryResponse struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	ProjectID int64  `json:"project_id"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
}

type ProjectHistoryResponse struct {
	Entries []HistoryEntryResponse `json:"entries"`
}

type BidProjectStoreResponse struct {
	ProjectStore string `json:"project_store"`
}

type WhoAmIResponse struct {
	Owner        string `json:"owner"`
	Kind         string `json:"kind"`
	IsClient     bool   `json:"is_client"`
	IsFreelancer bool   `json:"is_freelancer"`
}

func projectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:   p.ID,
		Owner:       p.Owner,
		Title:       p.Title,
		Description: p.Description,
		Skills:      p.Skills,
		PriceLow:    p.PriceLow,
		PriceHigh:   p.PriceHigh,
		DueDate:     p.DueDate,
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

func historyEntryResponse(e history.Entry) HistoryEntryResponse {
	return HistoryEntryResponse{
		Timestamp: formatTime(e.CreatedAt),
		Type:      string(e.Type),
		ProjectID: e.ProjectID,
		Summary:   e.Summary,
		Details:   e.Details,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
