package core

import (
	"encoding/json"
	"fmt"

	"github.com/go-drift/fiber/pkg/host"
)

// FiberInfo is a read-only view of one committed fiber, used by debug tooling.
type FiberInfo struct {
	Kind     string         `json:"kind"`
	Class    string         `json:"class"`
	Instance InstanceID     `json:"instance,omitempty"`
	Props    map[string]any `json:"props,omitempty"`
	Hooks    []any          `json:"hooks,omitempty"`
	HasNode  bool           `json:"hasNode"`
	Children []FiberInfo    `json:"children,omitempty"`
}

// Inspect returns the committed fiber tree, rooted at the container fiber.
// It reports false before the first commit.
func (e *Engine) Inspect() (FiberInfo, bool) {
	f, ok := e.arena.lookup(e.currentRoot)
	if !ok {
		return FiberInfo{}, false
	}
	return e.inspect(f), true
}

func (e *Engine) inspect(f *Fiber) FiberInfo {
	info := FiberInfo{
		Kind:     f.Kind.String(),
		Class:    f.Kind.class.String(),
		Instance: f.Instance,
		HasNode:  f.Node != nil,
	}
	for _, name := range sortedNames(f.Props) {
		if info.Props == nil {
			info.Props = make(map[string]any, len(f.Props))
		}
		info.Props[name] = inspectValue(f.Props[name])
	}
	for _, h := range f.Hooks {
		info.Hooks = append(info.Hooks, inspectValue(h.State))
	}
	for c := f.Child; c.Valid(); {
		cf, ok := e.arena.lookup(c)
		if !ok {
			break
		}
		info.Children = append(info.Children, e.inspect(cf))
		c = cf.Sibling
	}
	return info
}

// inspectValue returns v when it encodes as JSON and its type name otherwise,
// so funcs, channels and complex numbers held in props or state still show up.
func inspectValue(v any) any {
	if _, ok := v.(*host.Listener); ok {
		return "listener"
	}
	if _, err := json.Marshal(v); err != nil {
		return fmt.Sprintf("%T", v)
	}
	return v
}
