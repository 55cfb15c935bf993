package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/monkmode/monkmode/client"
	"github.com/monkmode/monkmode/habit"
)

// ProgressTool handles the habit_progress MCP tool: the monthly
// completion trend for one task.
type ProgressTool struct {
	engine *client.Engine
}

// NewProgressTool creates a ProgressTool.
func NewProgressTool(engine *client.Engine) *ProgressTool {
	return &ProgressTool{engine: engine}
}

// Definition returns the MCP tool definition for habit_progress.
func (t *ProgressTool) Definition() mcp.Tool {
	return mcp.NewTool("habit_progress",
		mcp.WithDescription(
			"Monthly completion rate for one task over all recorded days. "+
				"A day counts when the task appears in it. For '"+habit.CustomTasks+"' a day is done only when every custom routine is done.",
		),
		mcp.WithString("task",
			mcp.Description("One of: "+strings.Join(habit.TaskOptions(), ", ")+" (default: "+habit.TaskOptions()[0]+")"),
		),
	)
}

// Handle processes the habit_progress tool call.
func (t *ProgressTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	startDay(ctx, t.engine, "habit_progress")
	task := req.GetString("task", habit.TaskOptions()[0])
	if !validTask(task) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown task %q; choose one of: %s",
			task, strings.Join(habit.TaskOptions(), ", "))), nil
	}

	rates := habit.MonthlyRates(t.engine.Days(), task)
	if len(rates) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No recorded days for %s yet.", task)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", task)
	for _, r := range rates {
		fmt.Fprintf(&b, "- %s: %d / %d days - %d%%\n", r.Month.Label(), r.CompletedDays, r.TrackedDays, r.CompletionRate)
	}
	fmt.Fprintf(&b, "\nCurrent streak: %d days\n", t.engine.Streak())
	return mcp.NewToolResultText(b.String()), nil
}

func validTask(task string) bool {
	for _, opt := range habit.TaskOptions() {
		if opt == task {
			return true
		}
	}
	return false
}
