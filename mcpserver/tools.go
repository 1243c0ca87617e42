package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	internalstrings "github.com/amonks/tix/internal/strings"
	"github.com/amonks/tix/ticket"
	"github.com/amonks/tix/tracker"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type tool struct {
	def    mcp.Tool
	handle server.ToolHandlerFunc
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}

func (s *Server) tools() []tool {
	statuses := enumStrings(ticket.ValidStatuses())
	priorities := enumStrings(ticket.ValidPriorities())
	types := enumStrings(ticket.ValidTypes())
	privacies := enumStrings(ticket.ValidPrivacies())
	idParam := mcp.WithString("id", mcp.Required(), mcp.Description("Ticket ID or unique ID prefix"))

	return []tool{
		{
			def: mcp.NewTool("create_ticket",
				mcp.WithDescription("Create a ticket. Unset fields take the configured defaults."),
				mcp.WithString("title", mcp.Required(), mcp.Description("Short summary")),
				mcp.WithString("description", mcp.Description("Longer free-form details")),
				mcp.WithString("status", mcp.Enum(statuses...), mcp.Description("Initial status; defaults to pending")),
				mcp.WithString("priority", mcp.Enum(priorities...)),
				mcp.WithString("type", mcp.Enum(types...)),
				mcp.WithString("privacy", mcp.Enum(privacies...)),
			),
			handle: s.createTicket,
		},
		{
			def: mcp.NewTool("get_ticket",
				mcp.WithDescription("Fetch one ticket."),
				mcp.WithReadOnlyHintAnnotation(true),
				idParam,
			),
			handle: s.getTicket,
		},
		{
			def: mcp.NewTool("search_tickets",
				mcp.WithDescription("List tickets matching every given filter, in creation order."),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithString("status", mcp.Enum(statuses...)),
				mcp.WithString("priority", mcp.Enum(priorities...)),
				mcp.WithString("type", mcp.Enum(types...)),
				mcp.WithString("privacy", mcp.Enum(privacies...)),
				mcp.WithString("query", mcp.Description("Case-insensitive text to find in title or description")),
				mcp.WithString("fields", mcp.Description("Comma-separated fields the query applies to: title, description")),
				mcp.WithNumber("limit", mcp.Min(0), mcp.Description("Maximum number of tickets to return")),
			),
			handle: s.searchTickets,
		},
		{
			def: mcp.NewTool("update_ticket",
				mcp.WithDescription("Change a ticket's title and/or description."),
				idParam,
				mcp.WithString("title", mcp.Description("New title")),
				mcp.WithString("description", mcp.Description("New description")),
			),
			handle: s.updateTicket,
		},
		{
			def: mcp.NewTool("update_ticket_priority",
				mcp.WithDescription("Change a ticket's priority."),
				idParam,
				mcp.WithString("priority", mcp.Required(), mcp.Enum(priorities...)),
			),
			handle: s.updateEnum("priority", s.svc.UpdateTicketPriority),
		},
		{
			def: mcp.NewTool("update_ticket_type",
				mcp.WithDescription("Change a ticket's type."),
				idParam,
				mcp.WithString("type", mcp.Required(), mcp.Enum(types...)),
			),
			handle: s.updateEnum("type", s.svc.UpdateTicketType),
		},
		{
			def: mcp.NewTool("update_ticket_privacy",
				mcp.WithDescription("Change a ticket's privacy."),
				idParam,
				mcp.WithString("privacy", mcp.Required(), mcp.Enum(privacies...)),
			),
			handle: s.updateEnum("privacy", s.svc.UpdateTicketPrivacy),
		},
		{
			def: mcp.NewTool("update_ticket_status",
				mcp.WithDescription("Move a ticket to another status. Illegal transitions are rejected."),
				idParam,
				mcp.WithString("status", mcp.Required(), mcp.Enum(statuses...)),
			),
			handle: s.updateEnum("status", s.svc.UpdateTicketStatus),
		},
		{
			def: mcp.NewTool("start_ticket",
				mcp.WithDescription("Move a pending ticket to in_progress."),
				idParam,
			),
			handle: s.transition(s.svc.StartTicket),
		},
		{
			def: mcp.NewTool("complete_ticket",
				mcp.WithDescription("Mark a pending or in-progress ticket completed."),
				idParam,
			),
			handle: s.transition(s.svc.CompleteTicket),
		},
		{
			def: mcp.NewTool("archive_ticket",
				mcp.WithDescription("Archive a ticket. Archived tickets cannot change status again."),
				idParam,
			),
			handle: s.transition(s.svc.ArchiveTicket),
		},
		{
			def: mcp.NewTool("delete_ticket",
				mcp.WithDescription("Delete a ticket permanently."),
				mcp.WithDestructiveHintAnnotation(true),
				idParam,
			),
			handle: s.deleteTicket,
		},
		{
			def: mcp.NewTool("ticket_stats",
				mcp.WithDescription("Count tickets by status, priority, type, and privacy."),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			handle: s.ticketStats,
		},
	}
}

// logged wraps a handler with a debug record of the call and its outcome.
func (s *Server) logged(name string, handle server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		result, err := handle(ctx, req)
		failed := err != nil || (result != nil && result.IsError)
		s.logger.Debug("tool call", "tool", name, "error", failed, "duration", time.Since(start))
		return result, err
	}
}

func (s *Server) createTicket(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	created, err := s.svc.CreateTicket(tracker.CreateRequest{
		Title:       title,
		Description: req.GetString("description", ""),
		Status:      req.GetString("status", ""),
		Priority:    req.GetString("priority", ""),
		Type:        req.GetString("type", ""),
		Privacy:     req.GetString("privacy", ""),
	})
	return jsonResult(created, err)
}

func (s *Server) getTicket(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, ok, err := s.svc.GetTicketByID(id)
	if err == nil && !ok {
		err = fmt.Errorf("%w: %s", ticket.ErrNotFound, id)
	}
	return jsonResult(t, err)
}

func (s *Server) searchTickets(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	search := tracker.SearchRequest{
		Status:   req.GetString("status", ""),
		Priority: req.GetString("priority", ""),
		Type:     req.GetString("type", ""),
		Privacy:  req.GetString("privacy", ""),
		Query:    req.GetString("query", ""),
		Fields:   internalstrings.SplitList(req.GetString("fields", "")),
	}
	if _, ok := req.GetArguments()["limit"]; ok {
		limit := req.GetInt("limit", 0)
		search.Limit = &limit
	}
	tickets, err := s.svc.SearchTickets(search)
	return jsonResult(tickets, err)
}

func (s *Server) updateTicket(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var update tracker.FieldUpdate
	args := req.GetArguments()
	if _, ok := args["title"]; ok {
		title := req.GetString("title", "")
		update.Title = &title
	}
	if _, ok := args["description"]; ok {
		description := req.GetString("description", "")
		update.Description = &description
	}
	updated, err := s.svc.UpdateTicketField(id, update)
	return jsonResult(updated, err)
}

// updateEnum handles tools that set one enumerated field named param.
func (s *Server) updateEnum(param string, fn func(id, value string) (ticket.Ticket, error)) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := s.resolveID(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		value, err := req.RequireString(param)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		updated, err := fn(id, value)
		return jsonResult(updated, err)
	}
}

func (s *Server) transition(fn func(id string) (ticket.Ticket, error)) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := s.resolveID(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		updated, err := fn(id)
		return jsonResult(updated, err)
	}
}

func (s *Server) deleteTicket(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.DeleteTicket(id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{"deleted": id}, nil)
}

func (s *Server) ticketStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.GetTicketStats()
	return jsonResult(stats, err)
}

func (s *Server) resolveID(req mcp.CallToolRequest) (string, error) {
	prefix, err := req.RequireString("id")
	if err != nil {
		return "", err
	}
	return s.svc.ResolveID(prefix)
}

// jsonResult turns a use-case outcome into a tool result. Errors become
// isError results carrying the error text.
func jsonResult(v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
