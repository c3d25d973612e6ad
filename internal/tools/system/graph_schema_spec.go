package system

import "github.com/mark3labs/mcp-go/mcp"

func GraphSchemaSpec() mcp.Tool {
	return mcp.NewTool("get-graph-schema",
		mcp.WithDescription(`Describe the live graph schema: node labels with their property types, and every
(label)-[TYPE]->(label) pattern with relationship property types.

Use it to adapt the reference Cypher in the investigation playbooks to the data actually loaded.`),
		mcp.WithTitleAnnotation("Get Graph Schema"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
