// Package catalog stores command definitions and serves read-only lookups to
// the semantic analyzer. Definitions are validated when registered and are
// never mutated afterwards.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"unilang/internal/logger"
	"unilang/internal/suggest"
	"unilang/pkg/unitypes"
)

// Catalog manages command registration and lookup.
// It provides thread-safe registration and retrieval of definitions by canonical path or alias path.
type Catalog struct {
	mu       sync.RWMutex
	commands map[string]*unitypes.CommandDefinition
	// aliases maps an alias path to the canonical path it stands for.
	aliases map[string]string
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		commands: make(map[string]*unitypes.CommandDefinition),
		aliases:  make(map[string]string),
	}
}

// Register validates def and adds it to the catalog. It fails when the
// definition is inconsistent or when its name or an alias path is already taken.
func (c *Catalog) Register(def *unitypes.CommandDefinition) error {
	if def == nil {
		return fmt.Errorf("command definition cannot be nil")
	}
	if err := ValidateDefinition(def); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.taken(def.Name) {
		return fmt.Errorf("command %s already registered", def.Name)
	}
	for _, alias := range def.Aliases {
		if c.taken(alias) {
			return fmt.Errorf("alias %s of command %s is already registered", alias, def.Name)
		}
	}

	c.commands[def.Name] = def
	for _, alias := range def.Aliases {
		c.aliases[alias] = def.Name
	}
	logger.CatalogOperation("register", def.Name, "aliases", def.Aliases)
	return nil
}

// MustRegister is Register that panics on error. It is meant for static
// definitions whose validity is a programming concern.
func (c *Catalog) MustRegister(defs ...*unitypes.CommandDefinition) {
	for _, def := range defs {
		if err := c.Register(def); err != nil {
			panic(err)
		}
	}
}

func (c *Catalog) taken(path string) bool {
	if _, ok := c.commands[path]; ok {
		return true
	}
	_, ok := c.aliases[path]
	return ok
}

// Unregister removes a command and its alias paths.
// It does nothing when the command is not registered.
func (c *Catalog) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	def, ok := c.commands[name]
	if !ok {
		return
	}
	for _, alias := range def.Aliases {
		delete(c.aliases, alias)
	}
	delete(c.commands, name)
	logger.CatalogOperation("unregister", name)
}

// Get returns the command registered under a canonical or alias path.
func (c *Catalog) Get(path string) (*unitypes.CommandDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if def, ok := c.commands[path]; ok {
		return def, true
	}
	if canonical, ok := c.aliases[path]; ok {
		return c.commands[canonical], true
	}
	return nil, false
}

// Lookup implements unitypes.Catalog.
func (c *Catalog) Lookup(name *unitypes.InternedName) (*unitypes.CommandDefinition, bool) {
	return c.Get(name.String())
}

// GetAll returns every registered definition sorted by name.
// The returned slice is a copy and can be safely modified.
func (c *Catalog) GetAll() []*unitypes.CommandDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	defs := make([]*unitypes.CommandDefinition, 0, len(c.commands))
	for _, def := range c.commands {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Names returns the canonical names of every registered command, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered commands.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.commands)
}

// Suggest returns the registered canonical or alias path closest to name.
func (c *Catalog) Suggest(name string) (string, bool) {
	c.mu.RLock()
	candidates := make([]string, 0, len(c.commands)+len(c.aliases))
	for n := range c.commands {
		candidates = append(candidates, n)
	}
	for a := range c.aliases {
		candidates = append(candidates, a)
	}
	c.mu.RUnlock()

	sort.Strings(candidates)
	return suggest.Closest(name, candidates)
}

// GlobalCatalog is the process-wide catalog used by the CLI and the REPL.
var GlobalCatalog = New()
