package dynamic

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCategory is used for playbooks placed at the root of the tree.
const DefaultCategory = "general"

// WalkPlaybooks loads every YAML playbook under fsys. The first directory
// component of a file's path is its category. Results are ordered by name.
func WalkPlaybooks(fsys fs.FS) ([]*Playbook, error) {
	var playbooks []*Playbook
	seen := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(d.Name()) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		pb, err := parsePlaybook(data, p)
		if err != nil {
			slog.Error("failed to parse playbook", "path", p, "error", err)
			return err
		}
		if prev, dup := seen[pb.Name]; dup {
			return fmt.Errorf("playbook %q defined in both %s and %s", pb.Name, prev, p)
		}
		seen[pb.Name] = p

		playbooks = append(playbooks, pb)
		slog.Debug("loaded playbook", "tool", pb.Name, "category", pb.Category, "path", p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk playbooks: %w", err)
	}

	sort.Slice(playbooks, func(i, j int) bool { return playbooks[i].Name < playbooks[j].Name })
	return playbooks, nil
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// parsePlaybook parses and validates a YAML playbook
func parsePlaybook(data []byte, p string) (*Playbook, error) {
	var pb Playbook
	if err := yaml.Unmarshal(data, &pb); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	pb.Category = categoryFromPath(p)

	if pb.Name == "" {
		return nil, fmt.Errorf("playbook name is required in %s", p)
	}
	if pb.Description == "" {
		return nil, fmt.Errorf("playbook description is required in %s", p)
	}
	for i, s := range pb.Steps {
		if strings.TrimSpace(s.Action) == "" {
			return nil, fmt.Errorf("step[%d] action is required in %s", i, p)
		}
	}
	if err := validateParameters(pb.Parameters); err != nil {
		return nil, fmt.Errorf("invalid parameters in %s: %w", p, err)
	}
	return &pb, nil
}

func validateParameters(params []ParameterConfig) error {
	validTypes := map[string]bool{
		"string": true, "integer": true, "number": true,
		"boolean": true, "array": true, "object": true,
	}
	names := make(map[string]bool)

	for i, param := range params {
		if param.Name == "" {
			return fmt.Errorf("parameter[%d] name is required", i)
		}
		if names[param.Name] {
			return fmt.Errorf("duplicate parameter name '%s'", param.Name)
		}
		names[param.Name] = true

		if param.Type != "" && !validTypes[param.Type] {
			return fmt.Errorf("parameter '%s' has invalid type '%s'", param.Name, param.Type)
		}
	}
	return nil
}

// categoryFromPath maps "rings/sim-mule.yaml" to "rings".
func categoryFromPath(p string) string {
	dir := path.Dir(path.Clean(p))
	if dir == "." || dir == "/" {
		return DefaultCategory
	}
	return strings.SplitN(dir, "/", 2)[0]
}
