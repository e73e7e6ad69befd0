package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/hfstol"
	"github.com/aretw0/hfstol/internal/logging"
	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/ports"
	"github.com/aretw0/hfstol/pkg/runner"
)

// AnalyzersURI is the resource listing the served analyzers.
const AnalyzersURI = "hfstol://analyzers"

// Registry is the set of analyzers exposed as tools.
type Registry interface {
	Get(name string) (ports.Analyzer, error)
	Specs() []domain.AnalyzerSpec
}

// LookupArgs are the arguments of the lookup and lookup_affixes tools.
type LookupArgs struct {
	Analyzer string `json:"analyzer"`
	Word     string `json:"word"`
}

// LookupResponse is the structured result of the lookup tool.
type LookupResponse struct {
	Analyzer string            `json:"analyzer" jsonschema_description:"The analyzer used"`
	Input    string            `json:"input" jsonschema_description:"The word looked up"`
	Analyses []domain.Analysis `json:"analyses" jsonschema_description:"Analyses in output order, empty when the word is not recognised"`
}

// AffixesResponse is the structured result of the lookup_affixes tool.
type AffixesResponse struct {
	Analyzer string           `json:"analyzer" jsonschema_description:"The analyzer used"`
	Input    string           `json:"input" jsonschema_description:"The word looked up"`
	Analyses []domain.Affixes `json:"analyses" jsonschema_description:"Each analysis split into prefixes, lemma and suffixes"`
}

// Server exposes the registry as an MCP server.
type Server struct {
	analyzers Registry
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. logger may be nil.
func NewServer(reg Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		analyzers: reg,
		logger:    logger,
		mcpServer: server.NewMCPServer("hfstol-mcp", strings.TrimSpace(hfstol.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, e.g. to mount it on another transport.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_analyzers
	s.mcpServer.AddTool(mcp.NewTool("list_analyzers",
		mcp.WithDescription("List the morphological analyzers this server can use."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(s.analyzers.Specs()), nil
	})

	// TOOL: lookup
	lookupTool := mcp.NewTool("lookup",
		mcp.WithDescription("Analyse a word form: returns every analysis (lemma and tags) the analyzer produces."),
		mcp.WithString("analyzer", mcp.Required(), mcp.Description("Analyzer name, see list_analyzers")),
		mcp.WithString("word", mcp.Required(), mcp.Description("A single word form")),
		mcp.WithOutputSchema[LookupResponse](),
	)
	s.mcpServer.AddTool(lookupTool, mcp.NewStructuredToolHandler(s.handleLookup))

	// TOOL: lookup_affixes
	affixTool := mcp.NewTool("lookup_affixes",
		mcp.WithDescription("Analyse a word form and split each analysis into prefixes, lemma and suffixes."),
		mcp.WithString("analyzer", mcp.Required(), mcp.Description("Analyzer name, see list_analyzers")),
		mcp.WithString("word", mcp.Required(), mcp.Description("A single word form")),
		mcp.WithOutputSchema[AffixesResponse](),
	)
	s.mcpServer.AddTool(affixTool, mcp.NewStructuredToolHandler(s.handleLookupAffixes))
}

func (s *Server) prepare(args LookupArgs) (ports.Analyzer, string, error) {
	a, err := s.analyzers.Get(args.Analyzer)
	if err != nil {
		return nil, "", err
	}
	clean, err := runner.SanitizeInput(strings.TrimSpace(args.Word))
	if err != nil {
		s.logger.Warn("MCP lookup: input rejected", "err", err, "size", len(args.Word))
		return nil, "", fmt.Errorf("input rejected: %w", err)
	}
	if clean == "" {
		return nil, "", fmt.Errorf("%w: empty word", domain.ErrInvalidInput)
	}
	return a, clean, nil
}

func (s *Server) handleLookup(ctx context.Context, request mcp.CallToolRequest, args LookupArgs) (LookupResponse, error) {
	a, word, err := s.prepare(args)
	if err != nil {
		return LookupResponse{}, err
	}
	res, err := a.Lookup(ctx, word)
	if err != nil {
		return LookupResponse{}, fmt.Errorf("lookup failed: %w", err)
	}
	return LookupResponse{Analyzer: a.Name(), Input: word, Analyses: append(domain.Result{}, res...)}, nil
}

func (s *Server) handleLookupAffixes(ctx context.Context, request mcp.CallToolRequest, args LookupArgs) (AffixesResponse, error) {
	a, word, err := s.prepare(args)
	if err != nil {
		return AffixesResponse{}, err
	}
	aff, err := a.LookupLemmaWithAffixes(ctx, word)
	if err != nil {
		return AffixesResponse{}, fmt.Errorf("lookup failed: %w", err)
	}
	return AffixesResponse{Analyzer: a.Name(), Input: word, Analyses: append([]domain.Affixes{}, aff...)}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: hfstol://analyzers
	s.mcpServer.AddResource(mcp.NewResource(AnalyzersURI, "Available analyzers",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.analyzers.Specs())
		if err != nil {
			return nil, fmt.Errorf("failed to encode analyzers: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      AnalyzersURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err))
	}
	return mcp.NewToolResultText(string(jsonBytes))
}
