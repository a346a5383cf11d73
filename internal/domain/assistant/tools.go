package assistant

import (
	"context"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/silkmart/support-assistant/pkg/errors"
)

// Capability describes a callable tool exposed to the answer generator:
// name, description and a JSON-schema style parameter map.
type Capability struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolFunc executes a tool invocation with decoded arguments.
type ToolFunc func(ctx context.Context, args map[string]any) (string, error)

// Tool pairs a capability descriptor with its invocation function.
type Tool struct {
	Capability
	Invoke ToolFunc
}

// ToolRegistry is an explicit tool table. Tools are registered once during
// wiring, never attribute-patched at runtime.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewToolRegistry constructs an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]Tool)}
}

// Register adds a tool to the table. Registering an empty or duplicate name
// is a wiring mistake and returns an error.
func (r *ToolRegistry) Register(t Tool) error {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return apperrors.Wrap(apperrors.KindInvalidInput, "tool name cannot be empty", nil)
	}
	if t.Invoke == nil {
		return apperrors.Wrap(apperrors.KindInvalidInput, "tool "+name+" has no invocation function", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return apperrors.Wrap(apperrors.KindInvalidInput, "tool "+name+" already registered", nil)
	}
	t.Name = name
	r.tools[name] = t
	return nil
}

// Lookup returns the tool registered under name.
func (r *ToolRegistry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns all registered tools sorted by name.
func (r *ToolRegistry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Invoke dispatches to the named tool.
func (r *ToolRegistry) Invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return "", apperrors.Wrap(apperrors.KindNotFound, "unknown tool "+name, nil)
	}
	return t.Invoke(ctx, args)
}
