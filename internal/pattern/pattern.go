// Package pattern loads structural motifs from YAML files and turns them
// into query graphs that internal/engine can match against a live schema.
package pattern

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alexanderritik/dbiso/internal/graph"
	"gopkg.in/yaml.v3"
)

// NodeSpec names one node of a pattern and, optionally, the schema object
// type it must match.
type NodeSpec struct {
	ID   string        `yaml:"id"`
	Type graph.NodeType `yaml:"type,omitempty"`
}

// EdgeSpec names a dependency edge between two pattern node ids.
type EdgeSpec struct {
	From string               `yaml:"from"`
	To   string               `yaml:"to"`
	Type graph.DependencyType `yaml:"type,omitempty"`
}

// Pattern is one structural motif: a small query graph to search for
// within a schema dependency graph.
type Pattern struct {
	Name  string     `yaml:"name"`
	Nodes []NodeSpec `yaml:"nodes"`
	Edges []EdgeSpec `yaml:"edges"`

	// SourcePath is the file the pattern was loaded from, set by Load; the
	// zero value means the pattern was constructed in-process.
	SourcePath string `yaml:"-"`
}

// Load parses a single pattern file.
func Load(path string) (*Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pattern file %s: %w", path, err)
	}

	var p Pattern
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing pattern file %s: %w", path, err)
	}
	p.SourcePath = path

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", path, err)
	}
	return &p, nil
}

// LoadDir parses every *.yaml/*.yml file directly inside dir, sorted by
// filename for deterministic ordering.
func LoadDir(dir string) ([]*Pattern, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading pattern directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	patterns := make([]*Pattern, 0, len(names))
	for _, name := range names {
		p, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// Validate reports a descriptive error if the pattern is malformed: no
// name, no nodes, a duplicate node id, or an edge referencing an unknown
// node id.
func (p *Pattern) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("pattern has no name")
	}
	if len(p.Nodes) == 0 {
		return fmt.Errorf("pattern %q has no nodes", p.Name)
	}

	seen := make(map[string]bool, len(p.Nodes))
	for _, n := range p.Nodes {
		if n.ID == "" {
			return fmt.Errorf("pattern %q has a node with no id", p.Name)
		}
		if seen[n.ID] {
			return fmt.Errorf("pattern %q has duplicate node id %q", p.Name, n.ID)
		}
		seen[n.ID] = true
	}
	for _, e := range p.Edges {
		if !seen[e.From] {
			return fmt.Errorf("pattern %q edge references unknown node %q", p.Name, e.From)
		}
		if !seen[e.To] {
			return fmt.Errorf("pattern %q edge references unknown node %q", p.Name, e.To)
		}
	}
	return nil
}

// Graph builds the query graph.Graph this pattern describes, using raw
// node ids so pattern graphs never collide with a schema graph's
// schema-qualified ids.
func (p *Pattern) Graph() *graph.Graph {
	g := graph.NewGraph()
	for _, n := range p.Nodes {
		nodeType := n.Type
		if nodeType == "" {
			nodeType = graph.Table
		}
		g.AddRawNode(n.ID, nodeType)
	}
	for _, e := range p.Edges {
		depType := e.Type
		if depType == "" {
			depType = graph.ForeignKey
		}
		g.AddRawEdge(e.From, e.To, depType)
	}
	return g
}
