package database

//go:generate mockgen -destination=mocks/mock_database.go -package=database_mocks -typed github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/database Service
import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Service is the graph store used by ingestion and the intelligence engine.
type Service interface {
	// VerifyConnectivity checks that the configured database is reachable.
	VerifyConnectivity(ctx context.Context) error

	// ExecuteReadQuery runs a read-only Cypher query and returns all records.
	ExecuteReadQuery(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)

	// ExecuteWriteQuery runs a Cypher query that may mutate the graph.
	ExecuteWriteQuery(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)

	// Neo4jRecordsToJSON serializes records as a JSON array of objects.
	Neo4jRecordsToJSON(records []*neo4j.Record) (string, error)

	// GetDatabaseName returns the name of the database queries run against.
	GetDatabaseName() string
}
