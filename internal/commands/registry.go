package commands

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// DefaultCommand runs when hbexport is invoked without a command.
const DefaultCommand = "export"

// ErrUnknownCommand is returned by Resolve for a name nobody registered.
var ErrUnknownCommand = errors.New("unknown command")

// Registry maps command names and aliases to commands. Names and aliases
// share one namespace.
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]Command
	aliasOf  map[string]string // alias -> primary name
	fallback string
}

// NewRegistry creates a registry that resolves an empty argument list to
// the command named fallback.
func NewRegistry(fallback string) *Registry {
	return &Registry{
		byName:   make(map[string]Command),
		aliasOf:  make(map[string]string),
		fallback: fallback,
	}
}

// Register adds a command. It fails without side effects if the name or
// any alias is taken, including by another key of the same command.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{c.Name()}, c.Aliases()...)
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] || r.taken(k) {
			return fmt.Errorf("command name already registered: %s", k)
		}
		seen[k] = true
	}

	r.byName[c.Name()] = c
	for _, alias := range c.Aliases() {
		r.aliasOf[alias] = c.Name()
	}
	return nil
}

func (r *Registry) taken(key string) bool {
	_, isName := r.byName[key]
	_, isAlias := r.aliasOf[key]
	return isName || isAlias
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if primary, ok := r.aliasOf[name]; ok {
		name = primary
	}
	cmd, ok := r.byName[name]
	return cmd, ok
}

// Default returns the name of the command an empty argument list runs.
func (r *Registry) Default() string {
	return r.fallback
}

// Resolve picks the command for a raw argument list and returns the
// arguments left for it. An empty list selects the default command; a
// leading flag is never a command name.
func (r *Registry) Resolve(args []string) (Command, []string, error) {
	name, rest := r.fallback, []string(nil)
	if len(args) > 0 {
		name, rest = args[0], args[1:]
	}
	cmd, ok := r.Find(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return cmd, rest, nil
}

// All returns every command once: the default first, then the rest by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Command, 0, len(r.byName))
	if cmd, ok := r.byName[r.fallback]; ok {
		result = append(result, cmd)
	}
	for _, name := range slices.Sorted(maps.Keys(r.byName)) {
		if name != r.fallback {
			result = append(result, r.byName[name])
		}
	}
	return result
}

// DefaultRegistry holds the commands registered from init().
var DefaultRegistry = NewRegistry(DefaultCommand)

// Register adds a command to the default registry and panics on a clash.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
