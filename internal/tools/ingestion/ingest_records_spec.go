package ingestion

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// IngestRecordsInput defines the input parameters for the ingest-records tool
type IngestRecordsInput struct {
	Kind     string `json:"kind" jsonschema:"description=Record kind: calls, transactions, devices, sims or complaints (required)"`
	FilePath string `json:"filePath,omitempty" jsonschema:"description=CSV file path relative to the server upload directory"`
	Content  string `json:"content,omitempty" jsonschema:"description=Inline CSV content with a header row"`
}

func IngestRecordsSpec() mcp.Tool {
	return mcp.NewTool("ingest-records",
		mcp.WithDescription(`Load a CSV batch of telecom or banking records into the crime graph.

Provide exactly one of filePath (relative to the server upload directory) or content (inline CSV).
Header names are case-insensitive. Required columns per kind:
- calls: from_phone, to_phone (optional call_id, duration, timestamp, call_type)
- transactions: from_account, to_account (optional transaction_id, amount, timestamp, transaction_type)
- devices: device_id, ip_address (optional phone_number, device_type, imei)
- sims: sim_number (optional phone_number, provider, activation_date)
- complaints: no required columns (optional complaint_id, person_id, description, timestamp)

Phone numbers are normalised to E.164 (+91 default), accounts and device ids are upper-cased.
Every row is merged on its natural key, so re-ingesting the same batch updates rather than duplicates.
Bad rows are counted in the errors field and do not abort the batch.`),
		mcp.WithInputSchema[IngestRecordsInput](),
		mcp.WithTitleAnnotation("Ingest Records"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
