package analytics

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	eventStartup   = "MCP_STARTUP"
	eventTools     = "MCP_TOOL_CALL"
	eventIngestion = "MCP_INGESTION"
)

// TrackEvent is the payload posted to the telemetry endpoint.
type TrackEvent struct {
	Event      string         `json:"event"`
	Properties map[string]any `json:"properties"`
}

type StartupEventInfo struct {
	DatabaseName string
	Transport    string
	ReadOnly     bool
	ToolCount    int
}

type IngestionEventInfo struct {
	Kind     string
	Inserted int
	Updated  int
	Errors   int
}

// Analytics posts usage events as JSON to a single HTTP endpoint.
// An empty endpoint leaves the service permanently disabled.
type Analytics struct {
	mu         sync.RWMutex
	enabled    bool
	endpoint   string
	client     HTTPClient
	distinctID string
	version    string
}

func NewAnalytics(endpoint, version string, client HTTPClient) *Analytics {
	return &Analytics{
		enabled:    endpoint != "",
		endpoint:   endpoint,
		client:     client,
		distinctID: uuid.NewString(),
		version:    version,
	}
}

func (a *Analytics) Disable() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = false
}

func (a *Analytics) Enable() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.endpoint == "" {
		slog.Debug("telemetry endpoint not configured, analytics stays disabled")
		return
	}
	a.enabled = true
}

func (a *Analytics) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// EmitEvent sends event if analytics is enabled. Failures are logged and
// never surface to the caller.
func (a *Analytics) EmitEvent(event TrackEvent) {
	if !a.IsEnabled() {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		slog.Debug("error marshalling analytics event", "event", event.Event, "error", err)
		return
	}

	resp, err := a.client.Post(a.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Debug("error sending analytics event", "event", event.Event, "error", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		slog.Debug("analytics endpoint rejected event", "event", event.Event, "status", resp.StatusCode)
	}
}

func (a *Analytics) NewStartupEvent(info StartupEventInfo) TrackEvent {
	props := a.baseProperties()
	props["database"] = info.DatabaseName
	props["transport"] = info.Transport
	props["read_only"] = info.ReadOnly
	props["tool_count"] = info.ToolCount
	props["os"] = runtime.GOOS
	props["arch"] = runtime.GOARCH
	return TrackEvent{Event: eventStartup, Properties: props}
}

func (a *Analytics) NewToolsEvent(toolsUsed string) TrackEvent {
	props := a.baseProperties()
	props["tool"] = toolsUsed
	return TrackEvent{Event: eventTools, Properties: props}
}

func (a *Analytics) NewIngestionEvent(info IngestionEventInfo) TrackEvent {
	props := a.baseProperties()
	props["kind"] = info.Kind
	props["inserted"] = info.Inserted
	props["updated"] = info.Updated
	props["errors"] = info.Errors
	return TrackEvent{Event: eventIngestion, Properties: props}
}

func (a *Analytics) baseProperties() map[string]any {
	return map[string]any{
		"distinct_id": a.distinctID,
		"version":     a.version,
		"time":        time.Now().Unix(),
	}
}
