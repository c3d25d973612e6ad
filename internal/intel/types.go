package intel

// RiskLevel is the coarse tier attached to nodes, kingpins, assessments and
// anomalies.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type GraphNode struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	EntityID  string         `json:"entity_id"`
	RiskLevel RiskLevel      `json:"risk_level"`
	Degree    int            `json:"degree"`
	Metadata  map[string]any `json:"metadata"`
}

type GraphEdge struct {
	Source   string         `json:"source"`
	Target   string         `json:"target"`
	Relation string         `json:"relation"`
	Weight   float64        `json:"weight"`
	Metadata map[string]any `json:"metadata"`
}

type GraphSnapshot struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

type FraudRing struct {
	RingID          string   `json:"ring_id"`
	MemberCount     int      `json:"member_count"`
	Members         []string `json:"members"`
	TotalCalls      int      `json:"total_calls"`
	TotalMoneyMoved float64  `json:"total_money_moved"`
	RiskScore       float64  `json:"risk_score"`
	RingType        string   `json:"ring_type"`
	Confidence      float64  `json:"confidence"`
}

type Kingpin struct {
	EntityID              string    `json:"entity_id"`
	EntityType            string    `json:"entity_type"`
	InfluenceScore        float64   `json:"influence_score"`
	PageRankScore         float64   `json:"pagerank_score"`
	BetweennessCentrality float64   `json:"betweenness_centrality"`
	InDegree              int       `json:"in_degree"`
	OutDegree             int       `json:"out_degree"`
	Connections           int       `json:"connections"`
	RiskLevel             RiskLevel `json:"risk_level"`
	ConnectedRings        []string  `json:"connected_rings"`
}

type TimelineEvent struct {
	Timestamp  string         `json:"timestamp"`
	EventType  string         `json:"event_type"`
	Direction  string         `json:"direction"`
	FromEntity string         `json:"from_entity"`
	ToEntity   string         `json:"to_entity"`
	Details    map[string]any `json:"details"`
}

type EntityTimeline struct {
	EntityID   string          `json:"entity_id"`
	EntityType string          `json:"entity_type"`
	Events     []TimelineEvent `json:"events"`
	EventCount int             `json:"event_count"`
}

type RiskAssessment struct {
	EntityID        string             `json:"entity_id"`
	EntityType      string             `json:"entity_type"`
	RiskLevel       RiskLevel          `json:"risk_level"`
	RiskScore       float64            `json:"risk_score"`
	Factors         map[string]float64 `json:"factors"`
	Recommendations []string           `json:"recommendations"`
	LastUpdated     string             `json:"last_updated"`
}

type Anomaly struct {
	EntityID    string         `json:"entity_id"`
	AnomalyType string         `json:"anomaly_type"`
	Confidence  float64        `json:"confidence"`
	RiskLevel   RiskLevel      `json:"risk_level"`
	Timestamp   string         `json:"timestamp"`
	Details     map[string]any `json:"details"`
}

type GraphStats struct {
	TotalNodes            int64            `json:"total_nodes"`
	TotalRelationships    int64            `json:"total_relationships"`
	NodeBreakdown         map[string]int64 `json:"node_breakdown"`
	RelationshipBreakdown map[string]int64 `json:"relationship_breakdown"`
	Density               float64          `json:"density"`
}

type HealthCheck struct {
	Status         string `json:"status"`
	Neo4jConnected bool   `json:"neo4j_connected"`
	Database       string `json:"database"`
	Message        string `json:"message"`
}
