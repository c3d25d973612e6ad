package intel

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/metrics"
)

const (
	AnomalySIMSwap       = "sim_swap"
	AnomalyDeviceHop     = "device_hop"
	AnomalyCallBurst     = "call_burst"
	AnomalyMoneyMovement = "money_movement"
)

// DetectAnomalies applies the behavioural threshold rules to the entity's
// timeline.
func (e *Engine) DetectAnomalies(ctx context.Context, entityID string) (anomalies []Anomaly, err error) {
	defer metrics.ObserveOperation("detect-anomalies", time.Now(), &err)
	ctx, span := tracer.Start(ctx, "intel.DetectAnomalies")
	defer span.End()

	tl, err := e.Timeline(ctx, entityID)
	if err != nil {
		return nil, err
	}
	anomalies = EvaluateAnomalies(tl, e.timestamp())
	slog.Info("anomalies evaluated", "entity", entityID, "events", tl.EventCount, "anomalies", len(anomalies))
	return anomalies, nil
}

// EvaluateAnomalies runs every rule over tl; detectedAt stamps the results.
// Thresholds are strict: a count equal to the limit does not trigger.
// Rules are reported in the order sim_swap, device_hop, call_burst,
// money_movement. Only outgoing transactions count toward money movement.
func EvaluateAnomalies(tl *EntityTimeline, detectedAt string) []Anomaly {
	var simSwaps, deviceChanges, calls, transfers int
	var moved float64
	for _, ev := range tl.Events {
		switch ev.EventType {
		case EventSIMSwap:
			simSwaps++
		case EventDeviceChange:
			deviceChanges++
		case EventCall:
			calls++
		case EventTransaction:
			if ev.Direction == DirectionOutgoing {
				transfers++
				moved += amountOf(ev)
			}
		}
	}

	anomalies := []Anomaly{}
	add := func(kind string, confidence float64, level RiskLevel, details map[string]any) {
		anomalies = append(anomalies, Anomaly{
			EntityID:    tl.EntityID,
			AnomalyType: kind,
			Confidence:  math.Min(1, confidence),
			RiskLevel:   level,
			Timestamp:   detectedAt,
			Details:     details,
		})
	}

	if simSwaps > 2 {
		add(AnomalySIMSwap, float64(simSwaps)/5, RiskHigh, map[string]any{"swap_count": simSwaps})
	}
	if deviceChanges > 3 {
		add(AnomalyDeviceHop, float64(deviceChanges)/6, RiskHigh, map[string]any{"device_change_count": deviceChanges})
	}
	if calls > 100 {
		add(AnomalyCallBurst, float64(calls)/500, RiskMedium, map[string]any{"call_count": calls})
	}
	if moved > 500000 {
		add(AnomalyMoneyMovement, moved/1000000, RiskHigh, map[string]any{"total_amount": moved, "transaction_count": transfers})
	}
	return anomalies
}

func amountOf(ev TimelineEvent) float64 {
	switch v := ev.Details["amount"].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}
