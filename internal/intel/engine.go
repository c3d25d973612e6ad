// Package intel derives investigative artifacts from the stored graph:
// snapshots, fraud rings, kingpins, timelines, risk and anomalies.
//
// Every call re-queries the store and rebuilds its working structures; the
// Engine keeps no results between calls.
package intel

import (
	"strings"
	"time"

	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/database"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("crimegraph/intel")

// canonicalKey is the Cypher expression picking a node's natural identifier.
const canonicalKey = "coalesce(%[1]s.phone_number, %[1]s.account_number, %[1]s.device_id, %[1]s.sim_number, %[1]s.id, %[1]s.ip_address, %[1]s.complaint_id)"

type Engine struct {
	db  database.Service
	now func() time.Time
}

func NewEngine(db database.Service) *Engine {
	return &Engine{db: db, now: time.Now}
}

// EntityType guesses the kind of a canonical key from its shape. A leading
// "+" means a phone number; anything else is reported as an account.
func EntityType(key string) string {
	if strings.HasPrefix(key, "+") {
		return "phone"
	}
	return "account"
}

func (e *Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339)
}
