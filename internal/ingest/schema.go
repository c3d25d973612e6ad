package ingest

import (
	"context"
	"log/slog"

	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/database"
)

// SchemaStatements are the uniqueness constraints backing merge-on-write.
var SchemaStatements = []string{
	"CREATE CONSTRAINT person_id IF NOT EXISTS FOR (n:Person) REQUIRE n.id IS UNIQUE",
	"CREATE CONSTRAINT phone_number IF NOT EXISTS FOR (n:Phone) REQUIRE n.phone_number IS UNIQUE",
	"CREATE CONSTRAINT sim_number IF NOT EXISTS FOR (n:SIM) REQUIRE n.sim_number IS UNIQUE",
	"CREATE CONSTRAINT device_id IF NOT EXISTS FOR (n:Device) REQUIRE n.device_id IS UNIQUE",
	"CREATE CONSTRAINT ip_address IF NOT EXISTS FOR (n:IP) REQUIRE n.ip_address IS UNIQUE",
	"CREATE CONSTRAINT account_number IF NOT EXISTS FOR (n:BankAccount) REQUIRE n.account_number IS UNIQUE",
	"CREATE CONSTRAINT complaint_id IF NOT EXISTS FOR (n:Complaint) REQUIRE n.complaint_id IS UNIQUE",
	"CREATE CONSTRAINT made_call_id IF NOT EXISTS FOR ()-[r:MADE]-() REQUIRE r.call_id IS UNIQUE",
	"CREATE CONSTRAINT sent_transaction_id IF NOT EXISTS FOR ()-[r:SENT]-() REQUIRE r.transaction_id IS UNIQUE",
}

// EnsureSchema applies SchemaStatements and returns how many succeeded.
// A failing statement is logged and skipped; older servers reject the
// relationship constraints.
func EnsureSchema(ctx context.Context, db database.Service) int {
	applied := 0
	for _, stmt := range SchemaStatements {
		if _, err := db.ExecuteWriteQuery(ctx, stmt, nil); err != nil {
			slog.Warn("schema statement failed", "statement", stmt, "error", err)
			continue
		}
		applied++
	}
	slog.Info("schema constraints ensured", "applied", applied, "total", len(SchemaStatements))
	return applied
}
