package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/finance-calculators/internal/analytics"
	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/internal/config"
	"github.com/iwvelando/finance-calculators/internal/history"
	"github.com/iwvelando/finance-calculators/internal/mcpserver"
	"github.com/iwvelando/finance-calculators/internal/server"
	"github.com/iwvelando/finance-calculators/internal/storage"
	"github.com/iwvelando/finance-calculators/pkg/testutil"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stack is the application wired the way the serve and mcp commands wire it.
type stack struct {
	conf     *config.Configuration
	backend  storage.Backend
	registry *prometheus.Registry
	calc     *calculator.Orchestrator
	http     *httptest.Server
	mcp      *mcpserver.Server
}

func loadConfig(t *testing.T, dataDir string) *config.Configuration {
	t.Helper()
	t.Setenv("FINCALC_STORAGE_PATH", filepath.Join(dataDir, "history.db"))

	conf, err := config.LoadConfiguration("../test_config.yaml")
	require.NoError(t, err)
	return conf
}

func newStack(t *testing.T, conf *config.Configuration) *stack {
	t.Helper()
	logger := zap.NewNop()

	backend, err := storage.Open(conf.Storage.Backend, conf.Storage.Path)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	sink, err := analytics.NewPrometheus(registry)
	require.NoError(t, err)

	calc := calculator.New(backend,
		calculator.WithLogger(logger),
		calculator.WithSink(sink),
		calculator.WithHistoryCapacity(conf.History.Capacity),
		calculator.WithDefaultPrecision(conf.Format.Precision),
	)

	handler := server.NewHandler(calc, server.Options{
		Logger:      logger,
		MaxBodySize: conf.Server.MaxBodySizeBytes(),
		Version:     "integration",
		Metrics:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	return &stack{
		conf:     conf,
		backend:  backend,
		registry: registry,
		calc:     calc,
		http:     httptest.NewServer(handler),
		mcp:      mcpserver.New(calc, "integration", logger),
	}
}

func (s *stack) close(t *testing.T) {
	t.Helper()
	s.http.Close()
	require.NoError(t, s.backend.Close())
}

func (s *stack) post(t *testing.T, path string, body interface{}) map[string]interface{} {
	t.Helper()
	var payload io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(data)
	}

	resp, err := http.Post(s.http.URL+path, "application/json", payload)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, path)

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

func (s *stack) callTool(t *testing.T, name string, args map[string]interface{}) string {
	t.Helper()
	for _, tool := range s.mcp.Tools() {
		if tool.GetTool().Name != name {
			continue
		}
		req := mcp.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = args
		result, err := tool.Handle(context.Background(), req)
		require.NoError(t, err)
		require.False(t, result.IsError, "tool %s failed", name)
		require.NotEmpty(t, result.Content)
		return result.Content[0].(mcp.TextContent).Text
	}
	t.Fatalf("tool %s is not registered", name)
	return ""
}

func TestConfigurationFromFile(t *testing.T) {
	conf := loadConfig(t, t.TempDir())

	assert.Equal(t, "bolt", conf.Storage.Backend)
	assert.Equal(t, 5, conf.History.Capacity)
	assert.Equal(t, int64(16*1024), conf.Server.MaxBodySizeBytes())
	assert.True(t, conf.Metrics.Enabled)
}

// TestHistoryAcrossSurfaces records through HTTP, reads and toggles through
// MCP, then reopens the database to check the history was persisted.
func TestHistoryAcrossSurfaces(t *testing.T) {
	conf := loadConfig(t, t.TempDir())
	s := newStack(t, conf)

	resp := s.post(t, "/api/calculate", map[string]interface{}{
		"kind":     "loan-payment",
		"operands": []string{"200000", "6", "30"},
	})
	assert.Equal(t, "1199.10", resp["display"])
	assert.Equal(t, "loan", resp["family"])

	text := s.callTool(t, mcpserver.ToolHistory, map[string]interface{}{"family": "loan"})
	var entries []history.Entry
	require.NoError(t, json.Unmarshal([]byte(text), &entries))
	entry := testutil.FindEntry(entries, "loan-payment")
	require.NotNil(t, entry)
	assert.Equal(t, "1199.10", entry.ResultDisplay)
	assert.Equal(t, []string{"200000", "6", "30"}, entry.Operands())

	text = s.callTool(t, mcpserver.ToolToggleFavorite, map[string]interface{}{
		"family":    "loan",
		"timestamp": float64(entry.Timestamp),
	})
	assert.Contains(t, text, `"favorite": true`)

	text = s.callTool(t, mcpserver.ToolCalculate, map[string]interface{}{
		"kind":      "gpa",
		"operands":  []interface{}{"3,4", "A,B+"},
		"precision": float64(3),
	})
	assert.Contains(t, text, "gpa = 3.600")

	s.close(t)

	reopened := newStack(t, conf)
	defer reopened.close(t)

	favorites := reopened.calc.History(calculator.FamilyLoan).Favorites()
	require.Len(t, favorites, 1)
	assert.Equal(t, entry.Timestamp, favorites[0].Timestamp)

	grades := reopened.calc.History(calculator.FamilyGrade).Entries()
	require.Len(t, grades, 1)
	assert.Equal(t, "3.600", grades[0].ResultDisplay)
}

func TestCapacityAndDedupThroughHTTP(t *testing.T) {
	s := newStack(t, loadConfig(t, t.TempDir()))
	defer s.close(t)

	for i := 1; i <= 7; i++ {
		s.post(t, "/api/calculate", map[string]interface{}{
			"kind":     "markup",
			"operands": []string{fmt.Sprint(i * 10), "25"},
		})
	}
	// Same key as the newest entry, different precision.
	s.post(t, "/api/calculate", map[string]interface{}{
		"kind":      "markup",
		"operands":  []string{"70", "25"},
		"precision": 0,
	})

	resp, err := http.Get(s.http.URL + "/api/history/percentage")
	require.NoError(t, err)
	defer resp.Body.Close()

	var listing struct {
		Capacity int             `json:"capacity"`
		Entries  []history.Entry `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	assert.Equal(t, 5, listing.Capacity)
	require.Len(t, listing.Entries, 5)
	assert.Equal(t, "88", listing.Entries[0].ResultDisplay)
	assert.Equal(t, "60", listing.Entries[1].Operand1)
	assert.Equal(t, "30", listing.Entries[4].Operand1)
}

func TestExportAndMetrics(t *testing.T) {
	s := newStack(t, loadConfig(t, t.TempDir()))
	defer s.close(t)

	s.post(t, "/api/calculate", map[string]interface{}{"kind": "commission", "operands": []string{"50000", "5"}})
	s.post(t, "/api/calculate", map[string]interface{}{"kind": "commission", "operands": []string{"abc", "5"}})

	text := s.callTool(t, mcpserver.ToolExportHistory, map[string]interface{}{"family": "commission", "format": "csv"})
	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "commission-calculations-"), lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "commission,50000,5,,,2500.00,"), lines[2])

	resp, err := http.Get(s.http.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `calculator_calculations_total{family="commission",kind="commission",outcome="success"} 1`)
	assert.Contains(t, string(body), `calculator_calculations_total{family="commission",kind="commission",outcome="parse_error"} 1`)
	assert.Contains(t, string(body), `calculator_history_writes_total{family="commission",result="written"} 1`)
}
