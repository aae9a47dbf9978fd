package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"unilang/internal/data/embedded"
	"unilang/pkg/unitypes"
)

// catalogFile is the document layout of a catalog file:
//
//	commands:
//	  - name: .math.add
//	    arguments:
//	      - name: a
//	        kind: Integer
//
// A bare list of commands is accepted as well.
type catalogFile struct {
	Commands []*unitypes.CommandDefinition `yaml:"commands"`
}

// Parse decodes the command definitions held in YAML or JSON data.
func Parse(data []byte) ([]*unitypes.CommandDefinition, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var defs []*unitypes.CommandDefinition
		if err := root.Decode(&defs); err != nil {
			return nil, fmt.Errorf("failed to decode command list: %w", err)
		}
		return defs, nil
	case yaml.MappingNode:
		var file catalogFile
		if err := root.Decode(&file); err != nil {
			return nil, fmt.Errorf("failed to decode catalog: %w", err)
		}
		return file.Commands, nil
	default:
		return nil, fmt.Errorf("catalog must be a list of commands or a mapping with a 'commands' key")
	}
}

// LoadBytes parses data and registers every command it declares.
// It stops at the first definition that fails to register.
func (c *Catalog) LoadBytes(data []byte) (int, error) {
	defs, err := Parse(data)
	if err != nil {
		return 0, err
	}
	for i, def := range defs {
		if err := c.Register(def); err != nil {
			return i, err
		}
	}
	return len(defs), nil
}

// LoadFile registers the commands declared in one YAML or JSON file.
func (c *Catalog) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	n, err := c.LoadBytes(data)
	if err != nil {
		return n, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// LoadDir registers the commands of every *.yaml, *.yml and *.json file in dir,
// in file name order. Subdirectories are not visited.
func (c *Catalog) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	total := 0
	for _, name := range files {
		n, err := c.LoadFile(filepath.Join(dir, name))
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Load registers commands from a file or a directory.
func (c *Catalog) Load(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to access catalog %s: %w", path, err)
	}
	if info.IsDir() {
		return c.LoadDir(path)
	}
	return c.LoadFile(path)
}

// LoadFS registers the commands of every file in fsys matching pattern,
// in file name order.
func (c *Catalog) LoadFS(fsys fs.FS, pattern string) (int, error) {
	files, err := fs.Glob(fsys, pattern)
	if err != nil {
		return 0, fmt.Errorf("invalid catalog pattern %q: %w", pattern, err)
	}
	sort.Strings(files)

	total := 0
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return total, fmt.Errorf("failed to read catalog file %s: %w", name, err)
		}
		n, err := c.LoadBytes(data)
		total += n
		if err != nil {
			return total, fmt.Errorf("%s: %w", name, err)
		}
	}
	return total, nil
}

// LoadBuiltin registers the command catalog compiled into the binary.
func (c *Catalog) LoadBuiltin() (int, error) {
	return c.LoadFS(embedded.BuiltinFS, embedded.BuiltinPattern)
}
