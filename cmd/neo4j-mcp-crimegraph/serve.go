package main

import (
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/server"
	"github.com/spf13/cobra"
)

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	db, closeDB, err := openDatabase(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	srv := server.NewNeo4jMCPServer(version, a.cfg, db, newAnalytics(a.cfg))
	return srv.Start(ctx)
}
