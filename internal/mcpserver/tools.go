package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/internal/history"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names
const (
	ToolKinds          = "kinds"
	ToolCalculate      = "calculate"
	ToolHistory        = "history"
	ToolToggleFavorite = "toggle_favorite"
	ToolClearHistory   = "clear_history"
	ToolExportHistory  = "export_history"
)

func familyOption() mcp.ToolOption {
	names := make([]string, 0, len(calculator.Families()))
	for _, f := range calculator.Families() {
		names = append(names, f.String())
	}
	return mcp.WithString("family",
		mcp.Required(),
		mcp.Description("Calculator family"),
		mcp.Enum(names...),
	)
}

func parseFamily(req mcp.CallToolRequest) (calculator.Family, *mcp.CallToolResult) {
	raw := mcp.ParseString(req, "family", "")
	if raw == "" {
		return 0, mcp.NewToolResultError("family parameter is required")
	}
	family, err := calculator.ParseFamily(raw)
	if err != nil {
		return 0, mcp.NewToolResultError(err.Error())
	}
	return family, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// KindsTool lists the calculation kinds and their operands.
type KindsTool struct{}

// NewKindsTool creates the kinds tool.
func NewKindsTool() *KindsTool {
	return &KindsTool{}
}

// GetTool returns the MCP tool definition
func (t *KindsTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolKinds,
		mcp.WithDescription("List calculation kinds with their family and positional operands"),
	)
}

// Handle processes the tool request
func (t *KindsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(calculator.Catalog())
}

// CalculateTool executes one calculation.
type CalculateTool struct {
	calc *calculator.Orchestrator
}

// NewCalculateTool creates the calculate tool.
func NewCalculateTool(calc *calculator.Orchestrator) *CalculateTool {
	return &CalculateTool{calc: calc}
}

// GetTool returns the MCP tool definition
func (t *CalculateTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolCalculate,
		mcp.WithDescription("Run a financial or grade calculation and record it in the family history"),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Calculation kind, e.g. compound-interest (see the kinds tool)")),
		mcp.WithArray("operands",
			mcp.Required(),
			mcp.Description("Operands in positional order as strings; list operands are comma separated"),
			mcp.Items(map[string]interface{}{"type": "string"}),
		),
		mcp.WithNumber("precision", mcp.Description("Decimal places for the displayed result (0-10)")),
	)
}

// Handle processes the tool request
func (t *CalculateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := calculator.ParseKind(mcp.ParseString(req, "kind", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	operands, err := parseOperands(mcp.ParseArgument(req, "operands", nil))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	precision := mcp.ParseInt(req, "precision", t.calc.DefaultPrecision())
	result := t.calc.Execute(ctx, calculator.Request{Kind: kind, Operands: operands, Precision: precision})
	if result.Failed() {
		return mcp.NewToolResultError(fmt.Sprintf("%s error: %v", result.Stage(), result.Err)), nil
	}
	return mcp.NewToolResultText(renderResult(result)), nil
}

func parseOperands(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []interface{}:
		operands := make([]string, 0, len(v))
		for i, item := range v {
			switch s := item.(type) {
			case string:
				operands = append(operands, s)
			case float64:
				operands = append(operands, fmt.Sprint(s))
			default:
				return nil, fmt.Errorf("operand %d must be a string", i+1)
			}
		}
		return operands, nil
	case string:
		return nil, fmt.Errorf("operands must be an array with one string per operand")
	default:
		return nil, fmt.Errorf("operands parameter is required")
	}
}

func renderResult(result calculator.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s = %s\n", result.Kind, result.Display)
	fmt.Fprintf(&b, "Formula: %s\n", result.Formula)
	fmt.Fprintf(&b, "%s\n", result.Explanation)
	for _, d := range result.Details {
		fmt.Fprintf(&b, "- %s: %s\n", d.Label, d.Value)
	}
	if result.Degenerate() {
		fmt.Fprintf(&b, "Note: %v\n", result.Err)
	}
	if result.Entry != nil {
		fmt.Fprintf(&b, "History timestamp: %d\n", result.Entry.Timestamp)
	}
	if result.HistoryErr != nil {
		fmt.Fprintf(&b, "Warning: history not saved: %v\n", result.HistoryErr)
	}
	return b.String()
}

// HistoryTool lists a family's history.
type HistoryTool struct {
	calc *calculator.Orchestrator
}

// NewHistoryTool creates the history tool.
func NewHistoryTool(calc *calculator.Orchestrator) *HistoryTool {
	return &HistoryTool{calc: calc}
}

// GetTool returns the MCP tool definition
func (t *HistoryTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolHistory,
		mcp.WithDescription("List recent calculations of a family, newest first"),
		familyOption(),
		mcp.WithBoolean("favorites", mcp.Description("Only list favorite entries")),
	)
}

// Handle processes the tool request
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	family, errResult := parseFamily(req)
	if errResult != nil {
		return errResult, nil
	}

	store := t.calc.History(family)
	entries := store.Entries()
	if mcp.ParseBoolean(req, "favorites", false) {
		entries = store.Favorites()
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	return jsonResult(entries)
}

// ToggleFavoriteTool flips the favorite flag of one entry.
type ToggleFavoriteTool struct {
	calc *calculator.Orchestrator
}

// NewToggleFavoriteTool creates the toggle_favorite tool.
func NewToggleFavoriteTool(calc *calculator.Orchestrator) *ToggleFavoriteTool {
	return &ToggleFavoriteTool{calc: calc}
}

// GetTool returns the MCP tool definition
func (t *ToggleFavoriteTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolToggleFavorite,
		mcp.WithDescription("Mark or unmark a history entry as favorite"),
		familyOption(),
		mcp.WithNumber("timestamp", mcp.Required(), mcp.Description("Entry timestamp in milliseconds")),
	)
}

// Handle processes the tool request
func (t *ToggleFavoriteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	family, errResult := parseFamily(req)
	if errResult != nil {
		return errResult, nil
	}
	timestamp := mcp.ParseInt64(req, "timestamp", 0)

	store := t.calc.History(family)
	found, err := store.ToggleFavorite(timestamp)
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %d", history.ErrNotFound, timestamp)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to persist favorite: %v", err)), nil
	}

	entry, err := store.Entry(timestamp)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(entry)
}

// ClearHistoryTool empties a family's history.
type ClearHistoryTool struct {
	calc *calculator.Orchestrator
}

// NewClearHistoryTool creates the clear_history tool.
func NewClearHistoryTool(calc *calculator.Orchestrator) *ClearHistoryTool {
	return &ClearHistoryTool{calc: calc}
}

// GetTool returns the MCP tool definition
func (t *ClearHistoryTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolClearHistory,
		mcp.WithDescription("Delete every history entry of a family"),
		familyOption(),
	)
}

// Handle processes the tool request
func (t *ClearHistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	family, errResult := parseFamily(req)
	if errResult != nil {
		return errResult, nil
	}
	if err := t.calc.History(family).Clear(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to clear history: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Cleared %s history.", family)), nil
}

// ExportHistoryTool serializes a family's history.
type ExportHistoryTool struct {
	calc *calculator.Orchestrator
}

// NewExportHistoryTool creates the export_history tool.
func NewExportHistoryTool(calc *calculator.Orchestrator) *ExportHistoryTool {
	return &ExportHistoryTool{calc: calc}
}

// GetTool returns the MCP tool definition
func (t *ExportHistoryTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolExportHistory,
		mcp.WithDescription("Export a family's history as JSON or CSV text"),
		familyOption(),
		mcp.WithString("format",
			mcp.Description("Export format (default json)"),
			mcp.Enum(constants.ExportFormatJSON, constants.ExportFormatCSV),
		),
	)
}

// Handle processes the tool request
func (t *ExportHistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	family, errResult := parseFamily(req)
	if errResult != nil {
		return errResult, nil
	}

	snapshot, err := t.calc.History(family).ExportSnapshot(mcp.ParseString(req, "format", constants.ExportFormatJSON))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n%s", snapshot.Name, snapshot.Data)), nil
}
