// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the relationship graph tools for LLM integration via
// stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ElsonGrn/sims-explorer/internal/gallery"
	"github.com/ElsonGrn/sims-explorer/internal/graphstore"
	"github.com/ElsonGrn/sims-explorer/internal/models"
	"github.com/ElsonGrn/sims-explorer/internal/simservice"
)

// Server wraps the MCP server with graph tools.
type Server struct {
	mcp *server.MCPServer
	svc *simservice.Service
}

// New creates a new MCP server with all graph tools registered.
func New(svc *simservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Sims Explorer",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_persons",
		mcp.WithDescription("List every person in the graph with id, label and alive flag."),
	), s.listPersons)

	s.mcp.AddTool(mcp.NewTool("get_person",
		mcp.WithDescription("Read a single person including all attributes and their relationships."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Person id (e.g. antonia)")),
	), s.getPerson)

	s.mcp.AddTool(mcp.NewTool("add_person",
		mcp.WithDescription("Add a person to the graph. Attributes MUST follow the canonical "+
			"graph format (see the get_graph_contract tool or the sims://graph-format resource)."),
		mcp.WithString("label", mcp.Required(), mcp.Description("Display name; the id is derived from it")),
		mcp.WithString("attributes", mcp.Description("Optional JSON array of attribute objects")),
	), s.addPerson)

	s.mcp.AddTool(mcp.NewTool("update_person",
		mcp.WithDescription("Partially update a person. Only the provided fields change."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Person id")),
		mcp.WithString("label", mcp.Description("New display name")),
		mcp.WithBoolean("alive", mcp.Description("New alive flag")),
		mcp.WithString("attributes", mcp.Description("JSON array replacing all attributes")),
	), s.updatePerson)

	s.mcp.AddTool(mcp.NewTool("remove_person",
		mcp.WithDescription("Remove a person and every relationship touching them."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Person id")),
	), s.removePerson)

	s.mcp.AddTool(mcp.NewTool("upsert_relationship",
		mcp.WithDescription("Create a relationship between two persons, or update its strength "+
			"if the pair already has one of this kind (in either direction)."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Source person id")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Target person id")),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Relationship kind (use list_kinds)")),
		mcp.WithNumber("strength", mcp.Description("Strength in [0,1], defaults to 0.5")),
	), s.upsertRelationship)

	s.mcp.AddTool(mcp.NewTool("remove_relationship",
		mcp.WithDescription("Remove a relationship by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Relationship id")),
	), s.removeRelationship)

	s.mcp.AddTool(mcp.NewTool("resolve_neighborhood",
		mcp.WithDescription("Compute which persons and relationships are visible, emphasized, "+
			"dimmed or hidden around a focused person."),
		mcp.WithString("focus", mcp.Required(), mcp.Description("Focused person id")),
		mcp.WithNumber("depth", mcp.Description("Hop bound 1-3, defaults to 1")),
		mcp.WithBoolean("only_neighborhood", mcp.Description("Hide everything outside the neighborhood (default true)")),
	), s.resolveNeighborhood)

	s.mcp.AddTool(mcp.NewTool("search_gallery",
		mcp.WithDescription("Filter and sort the people list the way the gallery view does."),
		mcp.WithString("search", mcp.Description("Free-text search over labels and attribute values")),
		mcp.WithString("status", mcp.Description("all, alive or dead")),
		mcp.WithString("sort", mcp.Description("name_asc, name_desc, age_asc, age_desc, alive_first or occult_name")),
	), s.searchGallery)

	s.mcp.AddTool(mcp.NewTool("list_kinds",
		mcp.WithDescription("List every relationship kind with its group, emoji and visual style."),
	), s.listKinds)

	s.mcp.AddTool(mcp.NewTool("get_graph_contract",
		mcp.WithDescription("Returns the canonical graph document contract. "+
			"Call this before bulk-editing or importing graph data."),
	), s.getGraphContract)

	// Resource: graph format contract.
	s.mcp.AddResource(
		mcp.NewResource("sims://graph-format", "Graph Format Contract",
			mcp.WithResourceDescription("Canonical JSON graph document that imports must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGraphFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listPersons(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g := s.svc.Graph(ctx).Graph
	var lines []string
	for _, p := range g.People {
		status := "alive"
		if !p.Alive {
			status = "dead"
		}
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", p.ID, p.Label, status))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("graph is empty"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getPerson(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g := s.svc.Graph(ctx).Graph
	p, ok := g.Person(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	var rels []models.Relationship
	for _, r := range g.Relationships {
		if r.Touches(id) {
			rels = append(rels, r)
		}
	}
	out, _ := json.MarshalIndent(map[string]any{
		"person":        p,
		"relationships": rels,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addPerson(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, err := req.RequireString("label")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p := models.Person{Label: label, Alive: true}
	if raw := req.GetString("attributes", ""); raw != "" {
		if jerr := json.Unmarshal([]byte(raw), &p.Attributes); jerr != nil {
			return mcp.NewToolResultError("attributes: " + jerr.Error()), nil
		}
	}
	added, err := s.svc.AddPerson(ctx, p)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", added.ID)), nil
}

func (s *Server) updatePerson(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var patch graphstore.PersonPatch
	if label := req.GetString("label", ""); label != "" {
		patch.Label = &label
	}
	if req.GetArguments()["alive"] != nil {
		alive := req.GetBool("alive", true)
		patch.Alive = &alive
	}
	if raw := req.GetString("attributes", ""); raw != "" {
		if jerr := json.Unmarshal([]byte(raw), &patch.Attributes); jerr != nil {
			return mcp.NewToolResultError("attributes: " + jerr.Error()), nil
		}
	}
	updated, err := s.svc.UpdatePerson(ctx, id, patch)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(updated, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) removePerson(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !s.svc.RemovePerson(ctx, id) {
		return mcp.NewToolResultText(fmt.Sprintf("no such person: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed: %s", id)), nil
}

func (s *Server) upsertRelationship(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rel := models.Relationship{
		Source:   source,
		Target:   target,
		Kind:     models.Kind(kind),
		Strength: req.GetFloat("strength", 0.5),
	}
	stored, err := s.svc.UpsertRelationship(ctx, rel)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(stored, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) removeRelationship(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !s.svc.RemoveRelationship(ctx, id) {
		return mcp.NewToolResultText(fmt.Sprintf("no such relationship: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed: %s", id)), nil
}

func (s *Server) resolveNeighborhood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	focus, err := req.RequireString("focus")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	view := s.svc.Neighborhood(ctx, graphstore.NeighborhoodRequest{
		FocusID:          focus,
		Depth:            req.GetInt("depth", 1),
		OnlyNeighborhood: req.GetBool("only_neighborhood", true),
	})
	persons := make(map[string]string, len(view.Persons))
	for id, v := range view.Persons {
		persons[id] = v.String()
	}
	edges := make(map[string]string, len(view.Edges))
	for id, v := range view.Edges {
		edges[id] = v.String()
	}
	out, _ := json.MarshalIndent(map[string]any{
		"focus":   view.FocusID,
		"persons": persons,
		"edges":   edges,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchGallery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c := gallery.Criteria{
		Search: req.GetString("search", ""),
		Status: gallery.Status(req.GetString("status", "")),
		Sort:   gallery.SortKey(req.GetString("sort", "")),
	}
	persons := s.svc.Gallery(ctx, c)
	out, _ := json.MarshalIndent(persons, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listKinds(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(models.KindCatalog, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getGraphContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(GraphFormatContract), nil
}

func (s *Server) readGraphFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "sims://graph-format",
			MIMEType: "text/markdown",
			Text:     GraphFormatContract,
		},
	}, nil
}
