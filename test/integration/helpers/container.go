//go:build integration

package helpers

import (
	"context"
	"fmt"
	"time"

	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/database"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	neo4jImage    = "neo4j:5"
	neo4jPassword = "crimegraph-test"
)

// Neo4jContainer is a throwaway Neo4j instance shared by one test binary.
type Neo4jContainer struct {
	container testcontainers.Container
	driver    neo4j.DriverWithContext
	URI       string
}

// StartNeo4j starts the container and connects a driver to it.
func StartNeo4j(ctx context.Context) (*Neo4jContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        neo4jImage,
		ExposedPorts: []string{"7687/tcp"},
		Env: map[string]string{
			"NEO4J_AUTH": "neo4j/" + neo4jPassword,
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("Bolt enabled"),
			wait.ForListeningPort("7687/tcp"),
		).WithDeadline(3 * time.Minute),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("starting neo4j container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(c)
		return nil, err
	}
	port, err := c.MappedPort(ctx, "7687/tcp")
	if err != nil {
		_ = testcontainers.TerminateContainer(c)
		return nil, err
	}
	uri := fmt.Sprintf("bolt://%s:%s", host, port.Port())

	driver, err := database.NewDriver(uri, "neo4j", neo4jPassword)
	if err != nil {
		_ = testcontainers.TerminateContainer(c)
		return nil, err
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		_ = testcontainers.TerminateContainer(c)
		return nil, fmt.Errorf("connecting to neo4j: %w", err)
	}
	return &Neo4jContainer{container: c, driver: driver, URI: uri}, nil
}

func (n *Neo4jContainer) GetDriver() neo4j.DriverWithContext {
	return n.driver
}

// Stop closes the driver and removes the container.
func (n *Neo4jContainer) Stop(ctx context.Context) {
	_ = n.driver.Close(ctx)
	_ = testcontainers.TerminateContainer(n.container)
}
