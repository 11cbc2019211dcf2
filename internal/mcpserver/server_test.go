package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ElsonGrn/sims-explorer/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	svc, _ := testutil.TestService(t, testutil.TriangleGraph())
	return New(svc)
}

func callReq(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListAndGetPerson(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()

	r, err := srv.listPersons(ctx, callReq("list_persons", nil))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(r)
	if !strings.Contains(text, "ann\tAnn\talive") {
		t.Errorf("list output = %q", text)
	}

	r, err = srv.getPerson(ctx, callReq("get_person", map[string]interface{}{"id": "bob"}))
	if err != nil {
		t.Fatal(err)
	}
	text = resultText(r)
	if !strings.Contains(text, `"id": "bob"`) {
		t.Errorf("get output = %q", text)
	}
	// Both relationships touch bob.
	if !strings.Contains(text, `"r1"`) || !strings.Contains(text, `"r2"`) {
		t.Errorf("relationships missing from %q", text)
	}
}

func TestAddAndRemovePerson(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()

	r, err := srv.addPerson(ctx, callReq("add_person", map[string]interface{}{"label": "Don Lothario"}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(r); got != "created: don-lothario" {
		t.Errorf("add result = %q", got)
	}

	r, err = srv.removePerson(ctx, callReq("remove_person", map[string]interface{}{"id": "don-lothario"}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(r); got != "removed: don-lothario" {
		t.Errorf("remove result = %q", got)
	}

	r, _ = srv.removePerson(ctx, callReq("remove_person", map[string]interface{}{"id": "don-lothario"}))
	if got := resultText(r); got != "no such person: don-lothario" {
		t.Errorf("second remove result = %q", got)
	}
}

func TestUpsertRelationshipTool(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()

	r, err := srv.upsertRelationship(ctx, callReq("upsert_relationship", map[string]interface{}{
		"source": "ann", "target": "cleo", "kind": "neighbor",
	}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(r)
	if !strings.Contains(text, `"ann-cleo-neighbor"`) {
		t.Errorf("upsert result = %q", text)
	}
	if !strings.Contains(text, `"strength": 0.5`) {
		t.Errorf("default strength missing from %q", text)
	}

	// Unknown kind surfaces as a tool error, not a Go error.
	r, err = srv.upsertRelationship(ctx, callReq("upsert_relationship", map[string]interface{}{
		"source": "ann", "target": "cleo", "kind": "nemesis",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !r.IsError {
		t.Error("unknown kind did not produce a tool error")
	}
}

func TestResolveNeighborhoodTool(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()

	r, err := srv.resolveNeighborhood(ctx, callReq("resolve_neighborhood", map[string]interface{}{
		"focus": "ann",
	}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(r)
	if !strings.Contains(text, `"ann": "emphasized"`) {
		t.Errorf("focus not emphasized in %q", text)
	}
	if !strings.Contains(text, `"cleo": "hidden"`) {
		t.Errorf("cleo not hidden in %q", text)
	}
}

func TestSearchGalleryTool(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()

	r, err := srv.searchGallery(ctx, callReq("search_gallery", map[string]interface{}{
		"search": "bob",
	}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(r)
	if !strings.Contains(text, `"id": "bob"`) || strings.Contains(text, `"id": "ann"`) {
		t.Errorf("gallery result = %q", text)
	}
}

func TestGraphContract(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()

	r, err := srv.getGraphContract(ctx, callReq("get_graph_contract", nil))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(r), `"nodes"`) {
		t.Error("contract missing document shape")
	}

	contents, err := srv.readGraphFormatResource(ctx, mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("resource contents = %d", len(contents))
	}
}
