package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/monkmode/monkmode/client"
	"github.com/monkmode/monkmode/habit"
)

// ─── WriteLogTool ───────────────────────────────────────────────────────────

// WriteLogTool handles the habit_write_log MCP tool.
// It replaces the whole entry for the date.
type WriteLogTool struct {
	engine *client.Engine
}

// NewWriteLogTool creates a WriteLogTool.
func NewWriteLogTool(engine *client.Engine) *WriteLogTool {
	return &WriteLogTool{engine: engine}
}

// Definition returns the MCP tool definition for habit_write_log.
func (t *WriteLogTool) Definition() mcp.Tool {
	return mcp.NewTool("habit_write_log",
		mcp.WithDescription(
			"Write the journal entry for a day. The text replaces any existing entry for that date. "+
				"Blank text is ignored.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Full journal entry, markdown allowed"),
		),
		mcp.WithString("date",
			mcp.Description("Day as YYYY-MM-DD (default: today)"),
		),
	)
}

// Handle processes the habit_write_log tool call.
func (t *WriteLogTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultText("Nothing saved: the entry is blank."), nil
	}
	startDay(ctx, t.engine, "habit_write_log")

	date := t.engine.Today()
	if raw := req.GetString("date", ""); raw != "" {
		d, err := habit.ParseDate(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		date = d
	}

	if err := t.engine.SaveLog(ctx, date, text); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save log: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Log saved for %s (%d characters).", date, len([]rune(text)))), nil
}

// ─── AddRuleTool ────────────────────────────────────────────────────────────

// AddRuleTool handles the habit_add_rule MCP tool.
type AddRuleTool struct {
	engine *client.Engine
}

// NewAddRuleTool creates an AddRuleTool.
func NewAddRuleTool(engine *client.Engine) *AddRuleTool {
	return &AddRuleTool{engine: engine}
}

// Definition returns the MCP tool definition for habit_add_rule.
func (t *AddRuleTool) Definition() mcp.Tool {
	return mcp.NewTool("habit_add_rule",
		mcp.WithDescription("Append a personal rule or lesson learned. Rules are never edited or removed."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The rule, e.g. 'Never skip twice'"),
		),
	)
}

// Handle processes the habit_add_rule tool call.
func (t *AddRuleTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")

	rules, err := t.engine.AddRule(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add rule: %v", err)), nil
	}
	if rules == nil {
		return mcp.NewToolResultText("Nothing saved: the rule is blank."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rule added. %d rules:\n\n", len(rules))
	for i, r := range rules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Text)
	}
	return mcp.NewToolResultText(b.String()), nil
}
