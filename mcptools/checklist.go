package mcptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/monkmode/monkmode/client"
	"github.com/monkmode/monkmode/habit"
)

// ─── TodayTool ──────────────────────────────────────────────────────────────

// TodayTool handles the habit_today MCP tool.
type TodayTool struct {
	engine *client.Engine
}

// NewTodayTool creates a TodayTool.
func NewTodayTool(engine *client.Engine) *TodayTool {
	return &TodayTool{engine: engine}
}

// Definition returns the MCP tool definition for habit_today.
func (t *TodayTool) Definition() mcp.Tool {
	return mcp.NewTool("habit_today",
		mcp.WithDescription("Show today's routine checklist, completion percentage and current streak."),
	)
}

// Handle processes the habit_today tool call.
func (t *TodayTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	startDay(ctx, t.engine, "habit_today")
	routines := t.engine.Routines()

	response := fmt.Sprintf("# %s\n\nStreak: %d days\nProgress: %d / %d completed - %d%%\n\n%s",
		t.engine.Today(),
		t.engine.Streak(),
		t.engine.CompletedCount(), len(routines), t.engine.Percent(),
		checklist(routines),
	)
	return mcp.NewToolResultText(response), nil
}

// ─── ToggleTool ─────────────────────────────────────────────────────────────

// ToggleTool handles the habit_toggle MCP tool.
type ToggleTool struct {
	engine *client.Engine
}

// NewToggleTool creates a ToggleTool.
func NewToggleTool(engine *client.Engine) *ToggleTool {
	return &ToggleTool{engine: engine}
}

// Definition returns the MCP tool definition for habit_toggle.
func (t *ToggleTool) Definition() mcp.Tool {
	return mcp.NewTool("habit_toggle",
		mcp.WithDescription("Flip one routine of today's checklist between done and not done."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Routine name as shown by habit_today (e.g. 'Gym')"),
		),
	)
}

// Handle processes the habit_toggle tool call.
func (t *ToggleTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}
	startDay(ctx, t.engine, "habit_toggle")

	r, err := t.engine.ToggleByName(ctx, name)
	if errors.Is(err, habit.ErrInvalidInput) {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state := "not done"
	if r.Completed {
		state = "done"
	}
	response := fmt.Sprintf("%s: %s\nProgress: %d%%", r.Name, state, t.engine.Percent())
	if err != nil {
		response += syncNote(err)
	}
	return mcp.NewToolResultText(response), nil
}

// ─── AddRoutineTool ─────────────────────────────────────────────────────────

// AddRoutineTool handles the habit_add_routine MCP tool.
type AddRoutineTool struct {
	engine *client.Engine
}

// NewAddRoutineTool creates an AddRoutineTool.
func NewAddRoutineTool(engine *client.Engine) *AddRoutineTool {
	return &AddRoutineTool{engine: engine}
}

// Definition returns the MCP tool definition for habit_add_routine.
func (t *AddRoutineTool) Definition() mcp.Tool {
	return mcp.NewTool("habit_add_routine",
		mcp.WithDescription("Add a custom routine to today's checklist. Names must be unique for the day."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the new routine"),
		),
	)
}

// Handle processes the habit_add_routine tool call.
func (t *AddRoutineTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	startDay(ctx, t.engine, "habit_add_routine")

	err := t.engine.Add(ctx, name)
	if habit.IsClientError(err) {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := "Routine added.\n\n" + checklist(t.engine.Routines())
	if err != nil {
		response += syncNote(err)
	}
	return mcp.NewToolResultText(response), nil
}
