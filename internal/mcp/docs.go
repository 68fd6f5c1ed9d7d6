package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `bidboard is a registry of client projects open for bids.

Core concepts:
- Project: title, description, skills (comma separated tags), price_low/price_high budget range in the
  smallest currency unit, due_date as unix seconds.
- Owner: the authenticated caller. Every project belongs to exactly one owner and is invisible to others.
  Each owner is a client or a freelancer account (whoami).
- project_id: per-owner sequence starting at 1. It equals the owner's running project count at creation
  and is never reused after a delete.
- Bid store: linked to the project store by address (get_bid_project_store). Bid placement is not available.

Rules:
- create_project and update_project reject empty text fields, non-positive prices, price_high < price_low
  and due dates in the past (INVALID_INPUT).
- update_project and delete_project on an unknown project_id fail with PROJECT_NOT_FOUND before any
  validation happens.
- update_project overwrites every field; send the full project.

Docs:
- bidboard://docs/index
- bidboard://docs/projects
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "bidboard://docs/index",
		Name:        "docs_index",
		Title:       "bidboard docs index",
		Description: "Entry point: available tools and what to read next.",
		Content: `# bidboard: Docs Index

## Tools

- create_project, update_project, delete_project: mutate your projects.
- get_project, list_projects: read your projects. list_projects accepts skill, limit and offset.
- client_project_count: how many projects you have ever created.
- get_project_history: created/updated/deleted events, newest first.
- get_bid_project_store: address of the project store the bid store uses.
- whoami: your owner id and account kind (client or freelancer).

## Read next

- bidboard://docs/projects for field rules and error codes.
`,
	},
	{
		URI:         "bidboard://docs/projects",
		Name:        "docs_projects",
		Title:       "Project rules",
		Description: "Field validation, id assignment and error codes.",
		Content: `# Projects

## Fields

| field | rule |
| --- | --- |
| title, description, skills | non-empty |
| price_low | > 0 |
| price_high | > 0 and >= price_low |
| due_date | unix seconds, not earlier than now |

## Ids

Your first project is 1, the next is 2, and so on. Deleting a project does not free its id:
after creating 1 and 2 and deleting 2, the next project is 3.

## Errors

- INVALID_INPUT: a field rule failed. Nothing was stored.
- PROJECT_NOT_FOUND: no project with that id exists for you.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
