// Package mcp exposes tree analysis as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aretw0/dtree"
	diagram "github.com/aretw0/dtree/internal/presentation/graph"
	"github.com/aretw0/dtree/pkg/policy"
	"github.com/aretw0/dtree/pkg/treefile"
	"github.com/aretw0/dtree/pkg/utility"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"
)

// EvaluateResponse is the structured output of evaluate_tree.
type EvaluateResponse struct {
	Start     string             `json:"start" jsonschema_description:"Node the optimal path starts from"`
	Utility   string             `json:"utility" jsonschema_description:"Utility transform applied to terminal payoffs"`
	Label     string             `json:"label" jsonschema_description:"EV for expected values, EU for expected utilities"`
	Precision int                `json:"precision" jsonschema_description:"Decimals used in formatted values"`
	Values    map[string]float64 `json:"values" jsonschema_description:"Full-precision value of every node"`
	Formatted map[string]string  `json:"formatted" jsonschema_description:"Display value of every node"`
	Path      []string           `json:"path" jsonschema_description:"Optimal path node ids"`
}

// Step is one node on an optimal path.
type Step struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// PathResponse is the structured output of optimal_path.
type PathResponse struct {
	Goal  string `json:"goal" jsonschema_description:"max or min"`
	Label string `json:"label" jsonschema_description:"EV or EU"`
	Steps []Step `json:"steps" jsonschema_description:"Nodes along the path; chance steps follow the first outcome and are illustrative"`
}

// UtilityInfo describes one preset accepted by the utility argument.
type UtilityInfo struct {
	Name      string `json:"name"`
	Transform string `json:"transform"`
}

// Server wraps the dtree facade and exposes it as an MCP server.
type Server struct {
	defaults  dtree.Defaults
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server. defaults fill what a posted tree leaves
// unset; tool arguments override both.
func NewServer(logger *slog.Logger, defaults dtree.Defaults) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		defaults:  defaults,
		logger:    logger,
		mcpServer: server.NewMCPServer("dtree-mcp", dtree.Version, server.WithToolCapabilities(false)),
	}
	s.mcpServer.AddTools(s.Tools()...)
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Tools lists the tools registered by NewServer.
func (s *Server) Tools() []server.ServerTool {
	treeArgs := []mcp.ToolOption{
		mcp.WithString("tree", mcp.Required(), mcp.Description("Tree document in YAML or JSON: nodes [{id, name, type, payoff}], edges [{from, to, probability}]")),
		mcp.WithString("utility", mcp.Description("Preset name (see list_utilities) or an expression over x, e.g. 1 - exp(-x/100)")),
		mcp.WithString("goal", mcp.Description("max (default) or min")),
		mcp.WithString("start", mcp.Description("Start node id; defaults to the document start or the first node")),
		mcp.WithNumber("precision", mcp.Description("Fixed number of decimals for formatted values")),
	}

	return []server.ServerTool{
		{
			Tool: mcp.NewTool("evaluate_tree", append([]mcp.ToolOption{
				mcp.WithDescription("Evaluate a decision tree by backward induction and return every node's expected value or utility."),
				mcp.WithOutputSchema[EvaluateResponse](),
			}, treeArgs...)...),
			Handler: mcp.NewStructuredToolHandler(s.handleEvaluate),
		},
		{
			Tool: mcp.NewTool("optimal_path", append([]mcp.ToolOption{
				mcp.WithDescription("Return the optimal path through a decision tree."),
				mcp.WithOutputSchema[PathResponse](),
			}, treeArgs...)...),
			Handler: mcp.NewStructuredToolHandler(s.handlePath),
		},
		{
			Tool: mcp.NewTool("mermaid_diagram", append([]mcp.ToolOption{
				mcp.WithDescription("Render a decision tree as a Mermaid flowchart with values and the optimal path highlighted."),
			}, treeArgs...)...),
			Handler: s.handleMermaid,
		},
		{
			Tool: mcp.NewTool("list_utilities",
				mcp.WithDescription("List the named utility presets."),
			),
			Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				jsonBytes, _ := json.Marshal(ListUtilities())
				return mcp.NewToolResultText(string(jsonBytes)), nil
			},
		},
	}
}

// ListUtilities returns the presets in name order.
func ListUtilities() []UtilityInfo {
	var out []UtilityInfo
	for _, name := range utility.Presets() {
		u, _ := utility.Lookup(name)
		out = append(out, UtilityInfo{Name: name, Transform: u.String()})
	}
	return out
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EvaluateResponse, error) {
	report, err := s.analyze(args)
	if err != nil {
		return EvaluateResponse{}, err
	}
	return EvaluateResponse{
		Start:     report.Start,
		Utility:   report.Utility,
		Label:     report.Label,
		Precision: report.Precision,
		Values:    report.Values,
		Formatted: report.Formatted,
		Path:      report.Path,
	}, nil
}

func (s *Server) handlePath(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PathResponse, error) {
	doc, opts, err := s.decode(args)
	if err != nil {
		return PathResponse{}, err
	}
	report, g, err := dtree.New(opts...).AnalyzeDocument(doc)
	if err != nil {
		return PathResponse{}, fmt.Errorf("analyze: %w", err)
	}

	resp := PathResponse{Goal: report.Goal, Label: report.Label, Steps: make([]Step, 0, len(report.Path))}
	for _, id := range report.Path {
		n, _ := g.Node(id)
		resp.Steps = append(resp.Steps, Step{ID: id, Name: n.Label(), Kind: n.Kind.String(), Value: report.Formatted[id]})
	}
	return resp, nil
}

func (s *Server) handleMermaid(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, opts, err := s.decode(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, g, err := dtree.New(opts...).AnalyzeDocument(doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analyze: %v", err)), nil
	}
	overlay := &diagram.Overlay{Values: report.Values, Label: report.Label, Precision: report.Precision, Path: report.Path}
	return mcp.NewToolResultText(diagram.GenerateMermaid(g.Nodes(), g.Edges(), overlay)), nil
}

func (s *Server) analyze(args map[string]interface{}) (*dtree.Report, error) {
	doc, opts, err := s.decode(args)
	if err != nil {
		return nil, err
	}
	report, _, err := dtree.New(opts...).AnalyzeDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	return report, nil
}

// decode parses the tree argument and turns the remaining arguments into
// facade options layered over the server defaults.
func (s *Server) decode(args map[string]interface{}) (*treefile.Document, []dtree.Option, error) {
	source, err := cast.ToStringE(args["tree"])
	if err != nil || source == "" {
		return nil, nil, fmt.Errorf("tree: a YAML or JSON document is required")
	}
	doc, err := treefile.Parse([]byte(source))
	if err != nil {
		return nil, nil, err
	}

	opts := append([]dtree.Option{dtree.WithLogger(s.logger)}, s.defaults.Options(doc)...)

	if raw, ok := args["utility"]; ok && raw != nil {
		spec, err := cast.ToStringE(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("utility: %w", err)
		}
		if spec != "" {
			u, err := utility.Parse(spec)
			if err != nil {
				return nil, nil, err
			}
			opts = append(opts, dtree.WithUtility(u))
		}
	}
	if raw, ok := args["goal"]; ok && raw != nil {
		goal, err := policy.ParseGoal(cast.ToString(raw))
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, dtree.WithGoal(goal))
	}
	if raw, ok := args["precision"]; ok && raw != nil {
		decimals, err := cast.ToIntE(raw)
		if err != nil || decimals < 0 {
			return nil, nil, fmt.Errorf("precision: invalid value %v", raw)
		}
		opts = append(opts, dtree.WithPrecision(decimals))
	}
	if start := cast.ToString(args["start"]); start != "" {
		doc.Start = start
	}

	s.logger.Debug("MCP tool call", "nodes", len(doc.Nodes), "start", doc.Start)
	return doc, opts, nil
}
