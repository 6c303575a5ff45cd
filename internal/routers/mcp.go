package routers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IxSyZ/my-life-diary/internal/app"
	"github.com/IxSyZ/my-life-diary/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MountMCP exposes the journal as MCP tools on the private listener. The
// private listener is expected to be loopback or network restricted, so the
// tools address users by uid without a token.
// MountMCP 在私有监听上以 MCP 工具暴露日记。私有监听默认仅限回环或内网，
// 工具直接以 uid 定位用户，不做 token 认证。
func MountMCP(r *gin.Engine, appContainer *app.App) {

	s := server.NewMCPServer(
		app.Name,
		appContainer.Version().Version,
		server.WithToolCapabilities(false),
	)

	searchTool := mcp.NewTool("journal_search",
		mcp.WithDescription("Search a user's journal entries by case-insensitive substring. Returns matching entries newest first."),
		mcp.WithNumber("uid",
			mcp.Required(),
			mcp.Description("User id owning the journal"),
		),
		mcp.WithString("term",
			mcp.Description("Search term; empty returns the newest entries"),
		),
	)
	s.AddTool(searchTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		uid, err := request.RequireInt("uid")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		term := request.GetString("term", "")

		list, err := appContainer.EntryService.List(ctx, int64(uid), term, 1, 50)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("journal search failed: %v", err)), nil
		}

		payload, err := json.Marshal(list)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(payload)), nil
	})

	appendTool := mcp.NewTool("journal_append",
		mcp.WithDescription("Append a text entry to a user's journal. The entry timestamp is assigned server-side."),
		mcp.WithNumber("uid",
			mcp.Required(),
			mcp.Description("User id owning the journal"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Entry text"),
		),
	)
	s.AddTool(appendTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		uid, err := request.RequireInt("uid")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		_, entry, err := appContainer.EntryService.ModifyOrCreate(ctx, int64(uid), &dto.EntryModifyRequest{Text: text})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("journal append failed: %v", err)), nil
		}
		// 全空白文本静默忽略
		if entry == nil {
			return mcp.NewToolResultText(`{"created":false}`), nil
		}

		payload, err := json.Marshal(entry)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(payload)), nil
	})

	httpServer := server.NewStreamableHTTPServer(s, server.WithEndpointPath("/mcp"))
	r.Any("/mcp", gin.WrapH(httpServer))
}
