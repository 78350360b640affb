package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/packlist/internal/mcp"
	"github.com/rpggio/packlist/internal/testserver"
)

func connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	app := testserver.NewApp(t, testserver.Options{})
	server := mcp.NewServer(mcp.Config{Handler: app.Handler})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func decodeStructured(t *testing.T, result *sdkmcp.CallToolResult, out any) {
	t.Helper()
	data, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func errorText(result *sdkmcp.CallToolResult) string {
	for _, content := range result.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

func TestServer_ListsToolsAndDocs(t *testing.T) {
	ctx := context.Background()
	session := connect(t)

	init := session.InitializeResult()
	require.NotNil(t, init)
	require.Equal(t, "packlist", init.ServerInfo.Name)
	require.Contains(t, init.Instructions, "generate_list")

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make(map[string]bool, len(tools.Tools))
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, name := range []string{
		"generate_list", "get_checklist", "toggle_item", "get_progress", "set_locale",
		"add_custom_item", "edit_custom_item", "delete_custom_item", "list_custom_items",
		"save_template", "load_template", "delete_template", "list_templates",
		"export_checklist", "get_recent_activity",
	} {
		require.True(t, names[name], "missing tool %s", name)
	}

	resources, err := session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, resources.Resources, 3)

	doc, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "packlist://docs/rules"})
	require.NoError(t, err)
	require.Len(t, doc.Contents, 1)
	require.Contains(t, doc.Contents[0].Text, "List generation rules")
}

func TestServer_CallTools(t *testing.T) {
	ctx := context.Background()
	session := connect(t)

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "get_checklist"})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, errorText(result), mcp.CodeNoList)

	result, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name: "generate_list",
		Arguments: map[string]any{
			"nights":  10,
			"weather": "cold",
			"hiking":  true,
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, errorText(result))

	var list mcp.ChecklistResult
	decodeStructured(t, result, &list)
	require.Equal(t, 10, list.Parameters.Nights)
	require.NotEmpty(t, list.Categories)

	result, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "toggle_item",
		Arguments: map[string]any{"key": "hikingStick"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, errorText(result))

	var toggled mcp.ToggleItemResult
	decodeStructured(t, result, &toggled)
	require.True(t, toggled.Packed)
	require.Equal(t, 1, toggled.Progress.Packed)

	result, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "generate_list",
		Arguments: map[string]any{"weather": "tropical"},
	})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, errorText(result), mcp.CodeValidationFailed)
}
