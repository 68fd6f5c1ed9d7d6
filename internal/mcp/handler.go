package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/bidboard/internal/domain/account"
	"github.com/rpggio/bidboard/internal/domain/history"
	"github.com/rpggio/bidboard/internal/domain/project"
	"github.com/rpggio/bidboard/internal/transport"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, owner string, req project.CreateRequest) (*project.Project, error)
	Update(ctx context.Context, owner string, req project.UpdateRequest) (*project.Project, error)
	Delete(ctx context.Context, owner string, id int64) (bool, error)
	Get(ctx context.Context, owner string, id int64) (*project.Project, error)
	List(ctx context.Context, owner string, opts project.ListOptions) ([]project.Project, error)
	ClientCount(ctx context.Context, owner string) (int64, error)
}

// BidService defines bid store operations needed by MCP.
type BidService interface {
	Project() project.Handle
}

// HistoryService defines history operations needed by MCP.
type HistoryService interface {
	Recent(ctx context.Context, owner string, opts history.ListOptions) ([]history.Entry, error)
}

// Handler dispatches MCP commands.
type Handler struct {
	projects ProjectService
	bids     BidService
	history  HistoryService
}

// NewHandler creates a new MCP handler.
func NewHandler(projects ProjectService, bids BidService, historySvc HistoryService) *Handler {
	return &Handler{
		projects: projects,
		bids:     bids,
		history:  historySvc,
	}
}

// Handle dispatches MCP requests to domain services.
func (h *Handler) Handle(ctx context.Context, owner, method string, params json.RawMessage) (any, error) {
	switch method {
	case "create_project":
		var req CreateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.createProject(ctx, owner, req)
	case "update_project":
		var req UpdateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.updateProject(ctx, owner, req)
	case "delete_project":
		var req ProjectIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.deleteProject(ctx, owner, req)
	case "get_project":
		var req ProjectIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.getProject(ctx, owner, req)
	case "list_projects":
		var req ListProjectsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.listProjects(ctx, owner, req)
	case "client_project_count":
		return h.clientCount(ctx, owner)
	case "get_project_history":
		var req GetProjectHistoryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projectHistory(ctx, owner, req)
	case "get_bid_project_store":
		return h.bidProjectStore(), nil
	case "whoami":
		return h.whoAmI(ctx, owner), nil
	default:
		return nil, fmt.Errorf("%w: %s", transport.ErrUnknownMethod, method)
	}
}

func (h *Handler) createProject(ctx context.Context, owner string, req CreateProjectParams) (ProjectResponse, error) {
	proj, err := h.projects.Create(ctx, owner, project.CreateRequest{
		Title:       req.Title,
		Description: req.Description,
		Skills:      req.Skills,
		PriceLow:    req.PriceLow,
		PriceHigh:   req.PriceHigh,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return ProjectResponse{}, mapError(err)
	}
	return projectResponse(proj), nil
}

func (h *Handler) updateProject(ctx context.Context, owner string, req UpdateProjectParams) (ProjectResponse, error) {
	proj, err := h.projects.Update(ctx, owner, project.UpdateRequest{
		ID: req.ProjectID,
		Fields: project.Fields{
			Title:       req.Title,
			Description: req.Description,
			Skills:      req.Skills,
			PriceLow:    req.PriceLow,
			PriceHigh:   req.PriceHigh,
			DueDate:     req.DueDate,
		},
	})
	if err != nil {
		return ProjectResponse{}, mapError(err)
	}
	return projectResponse(proj), nil
}

func (h *Handler) deleteProject(ctx context.Context, owner string, req ProjectIDParams) (DeleteProjectResponse, error) {
	ok, err := h.projects.Delete(ctx, owner, req.ProjectID)
	if err != nil {
		return DeleteProjectResponse{}, mapError(err)
	}
	return DeleteProjectResponse{ProjectID: req.ProjectID, Deleted: ok}, nil
}

func (h *Handler) getProject(ctx context.Context, owner string, req ProjectIDParams) (ProjectResponse, error) {
	proj, err := h.projects.Get(ctx, owner, req.ProjectID)
	if err != nil {
		return ProjectResponse{}, mapError(err)
	}
	return projectResponse(proj), nil
}

func (h *Handler) listProjects(ctx context.Context, owner string, req ListProjectsParams) (ListProjectsResponse, error) {
	projects, err := h.projects.List(ctx, owner, project.ListOptions{
		Skill:  req.Skill,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return ListProjectsResponse{}, mapError(err)
	}
	resp := ListProjectsResponse{Projects: make([]ProjectResponse, 0, len(projects))}
	for i := range projects {
		resp.Projects = append(resp.Projects, projectResponse(&projects[i]))
	}
	return resp, nil
}

func (h *Handler) clientCount(ctx context.Context, owner string) (ClientCountResponse, error) {
	count, err := h.projects.ClientCount(ctx, owner)
	if err != nil {
		return ClientCountResponse{}, mapError(err)
	}
	return ClientCountResponse{Owner: owner, Count: count}, nil
}

func (h *Handler) projectHistory(ctx context.Context, owner string, req GetProjectHistoryParams) (ProjectHistoryResponse, error) {
	opts := history.ListOptions{
		ProjectID: req.ProjectID,
		Limit:     req.Limit,
		Offset:    req.Offset,
	}
	if req.Type != "" {
		typ := project.EventType(req.Type)
		opts.Type = &typ
	}
	entries, err := h.history.Recent(ctx, owner, opts)
	if err != nil {
		return ProjectHistoryResponse{}, mapError(err)
	}
	resp := ProjectHistoryResponse{Entries: make([]HistoryEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, historyEntryResponse(entry))
	}
	return resp, nil
}

func (h *Handler) bidProjectStore() BidProjectStoreResponse {
	return BidProjectStoreResponse{ProjectStore: string(h.bids.Project())}
}

// whoAmI reports the caller's identity. Owners placed in context without a
// kind report as DefaultKind.
func (h *Handler) whoAmI(ctx context.Context, owner string) WhoAmIResponse {
	id, ok := account.FromContext(ctx)
	if !ok || id.Owner != owner {
		id = account.Identity{Owner: owner, Kind: account.DefaultKind}
	}
	return WhoAmIResponse{
		Owner:        id.Owner,
		Kind:         string(id.Kind),
		IsClient:     id.IsClient(),
		IsFreelancer: id.IsFreelancer(),
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %v", transport.ErrBadParams, err)
	}
	return nil
}
