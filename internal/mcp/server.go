// Package mcp exposes the time-tracking engine as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/timeharbor/timeharbor/internal/rpc"
)

// Config configures the MCP server.
type Config struct {
	Handler      *rpc.Handler
	Resolver     ActorResolver
	AuthEnabled  bool
	DefaultActor string
	Logger       *slog.Logger
}

// NewServer creates an MCP server with every engine operation
// registered as a tool.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "timeharbor",
		Version: "1.0.0",
	}, nil)

	if cfg.AuthEnabled && cfg.Resolver != nil {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(defaultActorMiddleware(cfg.DefaultActor))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger))

	registerTools(server, cfg.Handler)
	return server
}

func registerTools(server *sdkmcp.Server, handler *rpc.Handler) {
	addTool[rpc.ClockInParams](server, handler, "clock_in",
		"Start a work session for a worker; fails if one is already active. Optionally begins ticket attribution at the same instant.")
	addTool[rpc.ClockOutParams](server, handler, "clock_out",
		"End an active work session, flushing any open ticket attribution into the ticket's totals.")
	addTool[rpc.GetActiveSessionParams](server, handler, "get_active_session",
		"Return the worker's active session, or null when the worker is clocked out.")
	addTool[rpc.StartTrackingParams](server, handler, "start_ticket_tracking",
		"Begin attributing session time to a ticket. Totals update only when tracking stops.")
	addTool[rpc.StopTrackingParams](server, handler, "stop_ticket_tracking",
		"Stop the current ticket attribution and flush the elapsed interval into the ticket. No-op when nothing is tracked.")
	addTool[rpc.SwitchTrackingParams](server, handler, "switch_ticket_tracking",
		"Atomically stop the current ticket attribution and start tracking another ticket.")
	addTool[rpc.UpdateNoteParams](server, handler, "update_session_note",
		"Attach a free-text note to a session.")
	addTool[rpc.UpdateTimesParams](server, handler, "update_session_times",
		"Correct a session's recorded start/end times. An end before the start is discarded and the session reverts to active.")
	addTool[rpc.DashboardStatsParams](server, handler, "get_dashboard_stats",
		"Compute a worker's dashboard: today's and this week's tracked seconds, open ticket count, and team size.")
	addTool[rpc.TeamActivityParams](server, handler, "get_team_activity",
		"Produce the team activity report: one row per session, newest first, windowed and filtered.")
	addTool[rpc.RecentSessionsParams](server, handler, "get_recent_sessions",
		"List a worker's most recent sessions, newest first.")
}

// addTool registers one engine method as a typed MCP tool routed
// through the shared dispatcher. The tool name doubles as the method
// name.
func addTool[In any](server *sdkmcp.Server, handler *rpc.Handler, name, description string) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        name,
		Description: description,
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
		params, err := json.Marshal(in)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding params: %w", err)
		}

		result, err := handler.Handle(ctx, getActorID(ctx), name, params)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}
