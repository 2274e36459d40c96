// Package mcp exposes the workout analysis as Model Context Protocol tools
// over stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/liftwatch/internal/report"
	"github.com/blackwell-systems/liftwatch/internal/workout"
)

// Source supplies the dataset each tool call analyzes.
type Source interface {
	Dataset(ctx context.Context) (workout.Dataset, error)
}

// New creates an MCP server with all analysis tools registered. opts is the
// base report configuration; tool arguments narrow it per call.
func New(src Source, opts report.Options, version string) *server.MCPServer {
	s := server.NewMCPServer("liftwatch", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("liftwatch strength-training analytics. Query per-muscle-group metrics, "+
			"antagonist balance, whole-history strength progress and ranked training suggestions. "+
			"Dates accept YYYY-MM-DD or RFC 3339."),
	)

	h := &handlers{src: src, opts: opts}
	s.AddTools(
		server.ServerTool{Tool: toolGetCategoryMetrics, Handler: h.getCategoryMetrics},
		server.ServerTool{Tool: toolGetMuscleBalance, Handler: h.getMuscleBalance},
		server.ServerTool{Tool: toolGetStrengthProgress, Handler: h.getStrengthProgress},
		server.ServerTool{Tool: toolGetSuggestions, Handler: h.getSuggestions},
	)
	return s
}

// Serve runs s on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	logrus.Debug("mcp server listening on stdio")
	return server.ServeStdio(s)
}

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	src  Source
	opts report.Options
}
