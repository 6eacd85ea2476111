package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Role describes one agent slot in the pipeline as configured on disk.
type Role struct {
	// Name is the registry name of the agent filling this role.
	Name string `yaml:"name"`
	// Objective is the default objective handed to the agent.
	Objective string `yaml:"objective"`
	// Required marks roles whose total failure aborts a run.
	Required bool `yaml:"required"`
	// Params are role-specific settings passed through to the agent.
	Params map[string]string `yaml:"params,omitempty"`
}

// RolesFile is the top-level shape of the agents YAML file.
type RolesFile struct {
	Roles []Role `yaml:"roles"`
}

// LoadRoles reads role definitions from a YAML file.
func LoadRoles(path string) ([]Role, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roles file: %w", err)
	}

	var f RolesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse roles file %s: %w", path, err)
	}
	if len(f.Roles) == 0 {
		return nil, fmt.Errorf("roles file %s defines no roles", path)
	}

	seen := make(map[string]bool, len(f.Roles))
	for i, r := range f.Roles {
		if r.Name == "" {
			return nil, fmt.Errorf("roles file %s: role %d has no name", path, i)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("roles file %s: duplicate role %q", path, r.Name)
		}
		seen[r.Name] = true
	}

	return f.Roles, nil
}

// DefaultRoles returns the built-in pipeline roles, used when no roles
// file is present.
func DefaultRoles() []Role {
	return []Role{
		{Name: "discovery", Objective: "locate candidate documents in the records corpus"},
		{Name: "parser", Objective: "extract text from located documents"},
		{Name: "researcher", Objective: "find passages relevant to the request"},
		{Name: "synthesizer", Objective: "draft the response document", Required: true},
	}
}

// RoleParams returns the per-role parameter maps, keyed by role name.
func RoleParams(roles []Role) map[string]map[string]string {
	params := make(map[string]map[string]string)
	for _, r := range roles {
		if len(r.Params) > 0 {
			params[r.Name] = r.Params
		}
	}
	return params
}

// RequiredNames returns the names of roles marked required.
func RequiredNames(roles []Role) []string {
	var names []string
	for _, r := range roles {
		if r.Required {
			names = append(names, r.Name)
		}
	}
	return names
}
