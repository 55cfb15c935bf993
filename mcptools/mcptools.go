// Package mcptools exposes the habit engine as MCP tools.
//
// Each tool follows the same pattern:
// - A struct holding the client.Engine, injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Engine calls that change state persist through the engine's API, so
// an agent and the TUI see the same document.
package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/monkmode/monkmode/client"
	"github.com/monkmode/monkmode/habit"
)

// NewServer creates an MCP server with every habit tool registered.
// The engine must already be loaded.
func NewServer(engine *client.Engine, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"monkmode",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	today := NewTodayTool(engine)
	s.AddTool(today.Definition(), today.Handle)

	toggle := NewToggleTool(engine)
	s.AddTool(toggle.Definition(), toggle.Handle)

	add := NewAddRoutineTool(engine)
	s.AddTool(add.Definition(), add.Handle)

	writeLog := NewWriteLogTool(engine)
	s.AddTool(writeLog.Definition(), writeLog.Handle)

	addRule := NewAddRuleTool(engine)
	s.AddTool(addRule.Definition(), addRule.Handle)

	progress := NewProgressTool(engine)
	s.AddTool(progress.Definition(), progress.Handle)

	return s
}

const instructions = `MonkMode tracks a daily checklist of routines, a journal entry per day and a list of personal rules.
Call habit_today first to see today's checklist. Routine names are matched after trimming whitespace.`

// checklist renders routines as a markdown task list.
func checklist(routines []habit.Routine) string {
	var b strings.Builder
	for _, r := range routines {
		box := " "
		if r.Completed {
			box = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s", box, r.Name)
		if !r.IsDefault {
			b.WriteString(" (custom)")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// startDay moves the engine to the current calendar day before a tool
// reads or edits it. The server can stay up across midnight.
func startDay(ctx context.Context, engine *client.Engine, tool string) {
	if engine.CheckRollover(ctx) {
		engine.Logger.Info("rollover detected", "tool", tool)
	}
}

// syncNote explains a failed save after a local edit went through.
func syncNote(err error) string {
	return fmt.Sprintf("\n\nWarning: the change is kept in this session but could not be saved: %v", err)
}
