// Package mcp exposes team memory as tools for MCP-capable agents over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/pkg/log"
)

const (
	ToolAsk    = "ask_team_memory"
	ToolSave   = "save_team_memory"
	ToolRecent = "recent_team_memories"

	defaultRecentLimit = 5
	maxRecentLimit     = 50
	defaultSaveContext = "mcp (manual save)"
)

const instructions = `Team memory stores decisions, blockers, status updates, milestones,
questions and answers captured from team chats. Use ask_team_memory before answering
questions about past team decisions, and save_team_memory when the user states one.`

type Server struct {
	memory core.MemoryService
	mcp    *server.MCPServer
	now    func() time.Time
}

func NewServer(memory core.MemoryService) *Server {
	s := &Server{
		memory: memory,
		now:    time.Now,
		mcp: server.NewMCPServer(
			core.AppName,
			core.AppVersion,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
			server.WithInstructions(instructions),
		),
	}

	s.mcp.AddTool(askTool(), s.handleAsk)
	s.mcp.AddTool(saveTool(), s.handleSave)
	s.mcp.AddTool(recentTool(), s.handleRecent)

	return s
}

// MCPServer returns the underlying server, mainly for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Serve speaks JSON-RPC on in/out until ctx is done or in is closed.
// Nothing else may write to out while serving.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	logger := log.FromCtx(ctx)
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(stdlog.New(logger, "", 0))

	logger.Info().Msg("serving mcp over stdio")
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp stdio server failed: %w", err)
	}
	return nil
}

func askTool() mcp.Tool {
	return mcp.NewTool(ToolAsk,
		mcp.WithDescription("Answer a question from the team's stored memories."),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Natural language question, e.g. \"What did we decide about the database?\""),
		),
	)
}

func saveTool() mcp.Tool {
	return mcp.NewTool(ToolSave,
		mcp.WithDescription("Save a piece of team knowledge."),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Memory type: "+core.MemoryTypeNames()),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("What to remember, one or two sentences."),
		),
		mcp.WithString("context",
			mcp.Description("Where this came from, e.g. a channel or meeting name."),
		),
	)
}

func recentTool() mcp.Tool {
	return mcp.NewTool(ToolRecent,
		mcp.WithDescription("List the most recent team memories, newest first."),
		mcp.WithString("type",
			mcp.Description("Optional memory type filter: "+core.MemoryTypeNames()),
		),
		mcp.WithNumber("limit",
			mcp.Description("How many items to return (1-50, default 5)."),
		),
	)
}

func (s *Server) handleAsk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil || strings.TrimSpace(question) == "" {
		return mcp.NewToolResultError("question is required"), nil
	}
	return mcp.NewToolResultText(s.memory.Ask(ctx, question)), nil
}

func (s *Server) handleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type is required"), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content is required"), nil
	}

	memCtx := strings.TrimSpace(req.GetString("context", ""))
	if memCtx == "" {
		memCtx = defaultSaveContext
	}

	rec, err := s.memory.Save(ctx, core.NewMemory{
		Type:       typ,
		Summary:    content,
		Timestamp:  s.now().UTC().Format(time.RFC3339Nano),
		Context:    memCtx,
		RawContent: content,
	})
	if errors.Is(err, core.ErrInvalidMemoryType) {
		return mcp.NewToolResultError("Invalid memory type. Please use one of: " + core.MemoryTypeNames()), nil
	}
	if err != nil {
		if !errors.Is(err, core.ErrValidation) {
			log.FromCtx(ctx).Error().Err(err).Str("tool", ToolSave).Msg("tool call failed")
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Saved %s memory %s: %s", rec.Type, rec.ID, rec.Summary)), nil
}

func (s *Server) handleRecent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var typ *core.MemoryType
	if raw := strings.TrimSpace(req.GetString("type", "")); raw != "" {
		t, err := core.ParseMemoryType(raw)
		if err != nil {
			return mcp.NewToolResultError("Invalid memory type. Please use one of: " + core.MemoryTypeNames()), nil
		}
		typ = &t
	}

	limit := req.GetInt("limit", defaultRecentLimit)
	if limit < 1 || limit > maxRecentLimit {
		return mcp.NewToolResultError("limit must be between 1 and 50"), nil
	}

	text, err := s.memory.FormatRecent(ctx, typ, limit)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("tool", ToolRecent).Msg("tool call failed")
		return mcp.NewToolResultError("failed to load recent memories"), nil
	}
	return mcp.NewToolResultText(text), nil
}
