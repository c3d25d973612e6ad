package intelligence

import (
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// EntityInput is shared by the per-entity tools.
type EntityInput struct {
	EntityID string `json:"entityId" jsonschema:"description=Canonical phone number (E.164, e.g. +919876543210) or bank account number (required)"`
}

// bindEntity parses and checks the entity id. A non-nil result is an error
// to return to the caller.
func bindEntity(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	var args EntityInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return "", mcp.NewToolResultError(err.Error())
	}
	id := strings.TrimSpace(args.EntityID)
	if id == "" {
		errMessage := "entityId parameter is required"
		slog.Error(errMessage)
		return "", mcp.NewToolResultError(errMessage)
	}
	return id, nil
}
