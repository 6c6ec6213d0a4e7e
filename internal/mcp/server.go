package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jlagedo/capivara-mcp/internal/envelope"
	"github.com/jlagedo/capivara-mcp/internal/tools"
)

// Name is the server name announced to MCP clients.
const Name = "capivara-mcp"

// Server exposes the BCB tools over the Model Context Protocol.
type Server struct {
	mcp    *server.MCPServer
	svc    *tools.Service
	logger *slog.Logger
}

type handler func(ctx context.Context, req mcp.CallToolRequest) string

// New registers every tool of svc on a fresh MCP server.
func New(svc *tools.Service, logger *slog.Logger, version string) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{svc: svc, logger: logger}
	s.mcp = server.NewMCPServer(
		Name,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	for _, def := range s.definitions() {
		if err := s.register(def.tool, def.call); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Server) register(tool mcp.Tool, call handler) error {
	validator, err := NewSchemaValidator(tool.InputSchema)
	if err != nil {
		return fmt.Errorf("tool %s: %w", tool.Name, err)
	}
	s.mcp.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		if args == nil {
			args = map[string]any{}
		}
		if err := validator.Validate(args); err != nil {
			s.logger.Debug("tool_arguments_rejected", "tool", tool.Name, "error", err)
			return mcp.NewToolResultText(envelope.Error("Parâmetros inválidos: " + err.Error())), nil
		}
		return mcp.NewToolResultText(call(ctx, req)), nil
	})
	return nil
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// ServeStdio serves the protocol on stdin/stdout until the input closes or
// the process is signalled.
func (s *Server) ServeStdio() error {
	s.logger.Info("mcp_server_listening", "transport", "stdio")
	return server.ServeStdio(s.mcp)
}

// HTTPHandler returns the streamable HTTP transport, to be mounted on a router.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

// Call invokes a tool in-process through the JSON-RPC layer and returns the
// text of its result.
func (s *Server) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": mcp.JSONRPC_VERSION,
		"id":      1,
		"method":  string(mcp.MethodToolsCall),
		"params":  map[string]any{"name": name, "arguments": args},
	})
	if err != nil {
		return "", fmt.Errorf("encoding call: %w", err)
	}

	raw, err := json.Marshal(s.mcp.HandleMessage(ctx, msg))
	if err != nil {
		return "", fmt.Errorf("encoding response: %w", err)
	}
	var resp struct {
		Result *struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("tool %s: %s (code %d)", name, resp.Error.Message, resp.Error.Code)
	}
	if resp.Result == nil || len(resp.Result.Content) == 0 {
		return "", fmt.Errorf("tool %s: empty result", name)
	}
	return resp.Result.Content[0].Text, nil
}
