package dynamic

// Playbook is the YAML definition of an investigation guidance tool.
type Playbook struct {
	// Name is the unique tool identifier (e.g., "investigate-sim-mule-ring")
	Name string `yaml:"name"`

	// Description provides the operational description of the tool
	Description string `yaml:"description"`

	// Intent tells an agent WHEN to reach for this playbook
	Intent string `yaml:"intent,omitempty"`

	// Indicators are the signals that point at this kind of activity
	Indicators []IndicatorConfig `yaml:"indicators,omitempty"`

	// Steps is the ordered investigation procedure
	Steps []StepConfig `yaml:"steps,omitempty"`

	// ReferenceCypher is a canonical query an agent can adapt
	ReferenceCypher string `yaml:"reference_cypher,omitempty"`

	// ReferenceSchema lists the labels and relationships involved
	ReferenceSchema *ReferenceSchemaConfig `yaml:"reference_schema,omitempty"`

	// Parameters defines typed input parameters for the reference query
	Parameters []ParameterConfig `yaml:"parameters,omitempty"`

	// Category is derived from the folder structure (e.g., "rings", "entities")
	Category string `yaml:"-"`
}

// IndicatorConfig describes one suspicious signal
type IndicatorConfig struct {
	// Entity is the node type the signal is observed on (e.g., "Phone", "BankAccount")
	Entity string `yaml:"entity"`

	// Signal describes what makes the entity suspicious
	Signal string `yaml:"signal"`

	// Threshold is the level the built-in detectors use, when one exists
	Threshold string `yaml:"threshold,omitempty"`
}

// StepConfig is one investigation step, optionally backed by a built-in tool
type StepConfig struct {
	Action string `yaml:"action"`
	Tool   string `yaml:"tool,omitempty"`
}

// ReferenceSchemaConfig provides hints about common graph elements
type ReferenceSchemaConfig struct {
	Labels        []string `yaml:"labels,omitempty"`
	Relationships []string `yaml:"relationships,omitempty"`
}

// ParameterConfig defines a typed input parameter
type ParameterConfig struct {
	// Name is the parameter identifier
	Name string `yaml:"name"`

	// Type is the JSON Schema type (string, integer, number, boolean, array, object)
	Type string `yaml:"type"`

	Description string `yaml:"description,omitempty"`

	// Default value (type depends on Type field)
	Default any `yaml:"default,omitempty"`

	Required bool `yaml:"required,omitempty"`
}
