package mcp

import (
	"context"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var errNoOwner = errors.New("unauthorized: no owner in context")

// registerTools exposes every handler operation as a typed MCP tool.
func registerTools(server *sdkmcp.Server, h *Handler) {
	addTool(server, "create_project",
		"Publish a new project. The project_id is assigned from the caller's running project count.",
		h.createProject)
	addTool(server, "update_project",
		"Overwrite every field of an existing project. The project_id is kept.",
		h.updateProject)
	addTool(server, "delete_project",
		"Delete a project. Its project_id is never reused.",
		h.deleteProject)
	addTool(server, "get_project",
		"Get one of the caller's projects by project_id.",
		h.getProject)
	addTool(server, "list_projects",
		"List the caller's projects ordered by project_id, optionally filtered by skill.",
		h.listProjects)
	addTool(server, "client_project_count",
		"Number of projects the caller has ever created, including deleted ones.",
		func(ctx context.Context, owner string, _ ClientCountParams) (ClientCountResponse, error) {
			return h.clientCount(ctx, owner)
		})
	addTool(server, "get_project_history",
		"Recent project lifecycle events for the caller, newest first.",
		h.projectHistory)
	addTool(server, "get_bid_project_store",
		"Address of the project store the bid store is linked to.",
		func(_ context.Context, _ string, _ GetBidProjectStoreParams) (BidProjectStoreResponse, error) {
			return h.bidProjectStore(), nil
		})
	addTool(server, "whoami",
		"The caller's owner id and account kind (client or freelancer).",
		func(ctx context.Context, owner string, _ WhoAmIParams) (WhoAmIResponse, error) {
			return h.whoAmI(ctx, owner), nil
		})
}

func addTool[In, Out any](server *sdkmcp.Server, name, description string, fn func(context.Context, string, In) (Out, error)) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
			var zero Out
			owner := ownerFromContext(ctx)
			if owner == "" {
				return nil, zero, errNoOwner
			}
			out, err := fn(ctx, owner, in)
			if err != nil {
				return nil, zero, err
			}
			return nil, out, nil
		})
}
