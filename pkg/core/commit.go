package core

import (
	"reflect"
	"slices"

	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/host"
)

// commitRoot applies the finished work-in-progress tree to the host in one
// uninterrupted pass: deletions first, then a pre-order walk of the new
// tree. It then promotes the tree to current.
func (e *Engine) commitRoot() {
	start := e.cfg.Now()

	for _, id := range e.deletions {
		e.commitDeletion(id)
	}
	root := e.arena.get(e.wipRoot)
	e.commitWork(root.Child)
	e.rebuildInstances()

	e.currentRoot = e.wipRoot
	e.wipRoot = NoFiber
	e.deletions = nil
	e.arena.promote()

	e.seq++
	end := e.cfg.Now()
	e.cycle.CommitDuration = end.Sub(start)
	e.cycle.Duration = end.Sub(e.cycle.Started)
	e.cycle.Fibers, _ = e.arena.size()
	e.trace.Add(e.cycle)
	e.log.Debug("render cycle committed",
		zap.Uint64("seq", e.cycle.Seq),
		zap.Int("units", e.cycle.Units),
		zap.Int("slices", e.cycle.Slices),
		zap.Int("restarts", e.cycle.Restarts),
		zap.Int("creates", e.cycle.Creates),
		zap.Int("updates", e.cycle.Updates),
		zap.Int("deletes", e.cycle.Deletes),
		zap.Duration("commit", e.cycle.CommitDuration))
}

// commitDeletion detaches the output nodes of a condemned fiber. A function
// fiber owns no node, so its children's nodes are detached instead.
func (e *Engine) commitDeletion(id FiberID) {
	e.cycle.Deletes++
	parent := e.hostParentNode(id)
	e.removeNodes(id, parent)
}

func (e *Engine) removeNodes(id FiberID, parent host.Node) {
	f := e.arena.get(id)
	if f.Node != nil {
		e.host.RemoveChild(parent, f.Node)
		e.cycle.Mutations++
		return
	}
	for c := f.Child; c.Valid(); c = e.arena.get(c).Sibling {
		e.removeNodes(c, parent)
	}
}

// hostParentNode walks up from id, past function fibers, to the nearest
// ancestor that owns an output node.
func (e *Engine) hostParentNode(id FiberID) host.Node {
	f := e.arena.get(id)
	for p := f.Parent; p.Valid(); {
		pf := e.arena.get(p)
		if pf.Node != nil {
			return pf.Node
		}
		p = pf.Parent
	}
	panic(errors.Contract("core.commit", errors.KindCommit,
		"%s (%s) has no ancestor owning an output node", id, f.Kind))
}

func (e *Engine) commitWork(id FiberID) {
	for id.Valid() {
		f := e.arena.get(id)
		e.commitFiber(id, f)
		e.commitWork(f.Child)
		id = f.Sibling
	}
}

func (e *Engine) commitFiber(id FiberID, f *Fiber) {
	switch f.Effect {
	case EffectCreate:
		e.cycle.Creates++
		if f.Kind.class == ClassFunction {
			return
		}
		if f.Node == nil {
			f.Node = e.host.CreateNode(f.Kind.tag, f.Kind.class == ClassText)
		}
		e.cycle.Mutations += e.writeProps(f.Kind, f.Node, nil, f.Props)
		e.place(id, f)
	case EffectUpdate:
		e.cycle.Updates++
		if f.Node == nil {
			return
		}
		alt := e.arena.get(f.Alternate)
		ops := e.writeProps(f.Kind, f.Node, alt.Props, f.Props)
		e.cycle.UpdateOps += ops
		e.cycle.Mutations += ops
	case EffectNone, EffectDelete:
	}
}

// place attaches a created node under its host parent, before the next
// already attached node when the host supports insertion.
func (e *Engine) place(id FiberID, f *Fiber) {
	parent := e.hostParentNode(id)
	e.cycle.Mutations++
	if e.inserter != nil {
		if ref := e.nextAttachedNode(id); ref != nil {
			e.inserter.InsertBefore(parent, f.Node, ref)
			return
		}
	}
	e.host.AppendChild(parent, f.Node)
}

// nextAttachedNode finds the first output node after id, in tree order and
// under the same host parent, that was attached before this commit.
func (e *Engine) nextAttachedNode(id FiberID) host.Node {
	for cur := id; ; {
		f := e.arena.get(cur)
		for s := f.Sibling; s.Valid(); s = e.arena.get(s).Sibling {
			if n := e.firstAttachedNode(s); n != nil {
				return n
			}
		}
		if !f.Parent.Valid() || e.arena.get(f.Parent).Node != nil {
			return nil
		}
		cur = f.Parent
	}
}

func (e *Engine) firstAttachedNode(id FiberID) host.Node {
	f := e.arena.get(id)
	if f.Node != nil {
		if f.Effect == EffectUpdate {
			return f.Node
		}
		return nil
	}
	for c := f.Child; c.Valid(); c = e.arena.get(c).Sibling {
		if n := e.firstAttachedNode(c); n != nil {
			return n
		}
	}
	return nil
}

// writeProps brings node from prev to next and returns the number of host
// calls made. Stale listeners are unbound first and new ones bound last.
func (e *Engine) writeProps(kind Kind, node host.Node, prev, next Props) int {
	if kind.class == ClassText {
		if prev != nil && sameValue(prev[TextProp], next[TextProp]) {
			return 0
		}
		e.host.SetText(node, textOf(next[TextProp]))
		return 1
	}

	ops := 0
	prevNames := sortedNames(prev)
	nextNames := sortedNames(next)

	for _, name := range prevNames {
		if !host.IsEventAttribute(name) {
			continue
		}
		if v, ok := next[name]; !ok || !sameValue(prev[name], v) {
			e.host.RemoveEventListener(node, host.EventName(name), listenerOf(name, prev[name]))
			ops++
		}
	}
	for _, name := range prevNames {
		if host.IsEventAttribute(name) {
			continue
		}
		if _, ok := next[name]; !ok {
			e.host.RemoveAttribute(node, name)
			ops++
		}
	}
	for _, name := range nextNames {
		if host.IsEventAttribute(name) {
			continue
		}
		if v, ok := prev[name]; !ok || !sameValue(v, next[name]) {
			e.host.SetAttribute(node, name, next[name])
			ops++
		}
	}
	for _, name := range nextNames {
		if !host.IsEventAttribute(name) {
			continue
		}
		if v, ok := prev[name]; !ok || !sameValue(v, next[name]) {
			e.host.AddEventListener(node, host.EventName(name), listenerOf(name, next[name]))
			ops++
		}
	}
	return ops
}

func (e *Engine) rebuildInstances() {
	clear(e.instances)
	stack := []FiberID{e.wipRoot}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		f := e.arena.get(id)
		if f.Kind.class == ClassFunction {
			e.instances[f.Instance] = id
		}
		for c := f.Child; c.Valid(); c = e.arena.get(c).Sibling {
			stack = append(stack, c)
		}
	}
}

func sortedNames(p Props) []string {
	names := make([]string, 0, len(p))
	for name := range p {
		if name == ChildrenProp {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func listenerOf(name string, v any) *host.Listener {
	l, ok := v.(*host.Listener)
	if !ok {
		panic(errors.Contract("core.commit", errors.KindContract,
			"event prop %q holds %T, want *host.Listener", name, v))
	}
	return l
}

// sameValue compares prop values: by == when the dynamic values are
// comparable (pointer identity for listeners), structurally otherwise.
// Functions never compare equal.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
