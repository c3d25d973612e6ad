package intel

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/metrics"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const (
	DirectionOutgoing = "outgoing"
	DirectionIncoming = "incoming"

	EventCall         = "call"
	EventTransaction  = "transaction"
	EventSIMSwap      = "sim_swap"
	EventDeviceChange = "device_change"
	EventIPChange     = "ip_change"
)

const timelineColumns = `RETURN type(r) AS relation,
       startNode(r) = n AS outgoing,
       %s AS counterpart,
       r.timestamp AS timestamp,
       r.duration AS duration,
       r.amount AS amount,
       r.call_id AS call_id,
       r.transaction_id AS transaction_id`

var timelineQuery = "MATCH (n:Phone {phone_number: $entity_id})-[r]-(m)\n" +
	fmt.Sprintf(timelineColumns, fmt.Sprintf(canonicalKey, "m")) +
	"\nUNION ALL\nMATCH (n:BankAccount {account_number: $entity_id})-[r]-(m)\n" +
	fmt.Sprintf(timelineColumns, fmt.Sprintf(canonicalKey, "m"))

// Timeline returns every relationship touching the phone or account with the
// given key, newest first. Events without a usable timestamp are stamped
// with the retrieval time.
func (e *Engine) Timeline(ctx context.Context, entityID string) (tl *EntityTimeline, err error) {
	defer metrics.ObserveOperation("entity-timeline", time.Now(), &err)
	ctx, span := tracer.Start(ctx, "intel.Timeline")
	defer span.End()

	records, err := e.db.ExecuteReadQuery(ctx, timelineQuery, map[string]any{"entity_id": entityID})
	if err != nil {
		return nil, fmt.Errorf("timeline query for %q: %w", entityID, err)
	}

	now := e.now().UTC()
	type stamped struct {
		at    time.Time
		event TimelineEvent
	}
	events := make([]stamped, 0, len(records))
	for _, rec := range records {
		at, ts := eventTime(rec, now)
		events = append(events, stamped{at: at, event: toEvent(entityID, ts, rec)})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].at.After(events[j].at) })

	tl = &EntityTimeline{
		EntityID:   entityID,
		EntityType: EntityType(entityID),
		Events:     make([]TimelineEvent, len(events)),
		EventCount: len(events),
	}
	for i, s := range events {
		tl.Events[i] = s.event
	}

	slog.Debug("timeline reconstructed", "entity", entityID, "events", tl.EventCount)
	return tl, nil
}

// eventTime parses the stored timestamp, falling back to now.
func eventTime(rec *neo4j.Record, now time.Time) (time.Time, string) {
	v, _ := rec.Get("timestamp")
	switch t := v.(type) {
	case time.Time:
		return t, t.UTC().Format(time.RFC3339)
	case string:
		if parsed, err := dateparse.ParseIn(t, time.UTC); err == nil {
			return parsed, t
		}
	}
	return now, now.Format(time.RFC3339)
}

func toEvent(entityID, ts string, rec *neo4j.Record) TimelineEvent {
	relation := stringValue(rec, "relation")
	counterpart := stringValue(rec, "counterpart")
	if counterpart == "" {
		counterpart = "unknown"
	}

	ev := TimelineEvent{
		Timestamp:  ts,
		Direction:  DirectionIncoming,
		FromEntity: counterpart,
		ToEntity:   entityID,
	}
	if boolValue(rec, "outgoing") {
		ev.Direction = DirectionOutgoing
		ev.FromEntity, ev.ToEntity = entityID, counterpart
	}

	switch relation {
	case "MADE":
		ev.EventType = EventCall
		ev.Details = map[string]any{"call_id": rawValue(rec, "call_id"), "duration_seconds": rawValue(rec, "duration")}
	case "SENT":
		ev.EventType = EventTransaction
		ev.Details = map[string]any{"transaction_id": rawValue(rec, "transaction_id"), "amount": rawValue(rec, "amount")}
	case "HAS_SIM":
		ev.EventType = EventSIMSwap
		ev.Details = map[string]any{"sim_id": counterpart}
	case "RUNS_ON":
		ev.EventType = EventDeviceChange
		ev.Details = map[string]any{"device_id": counterpart}
	case "CONNECTS_VIA":
		ev.EventType = EventIPChange
		ev.Details = map[string]any{"ip_address": counterpart}
	default:
		ev.EventType = strings.ToLower(relation)
		ev.Details = map[string]any{}
	}
	return ev
}
