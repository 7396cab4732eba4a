package core

// reconcileChildren diffs elements against the previous children of parent,
// position by position. Matching kinds become UPDATE fibers that keep the old
// output node, unmatched elements become CREATE fibers, and unmatched old
// fibers go to the deletion list. Reordered children are therefore replaced,
// not moved.
func (e *Engine) reconcileChildren(parentID FiberID, elements []*Element) {
	parent := e.arena.get(parentID)
	parent.Child = NoFiber

	old := NoFiber
	if parent.Alternate.Valid() {
		old = e.arena.get(parent.Alternate).Child
	}

	prev := NoFiber
	for index := 0; index < len(elements) || old.Valid(); index++ {
		var el *Element
		if index < len(elements) {
			el = elements[index]
		}
		var oldFiber *Fiber
		if old.Valid() {
			oldFiber = e.arena.get(old)
		}
		sameKind := el != nil && oldFiber != nil && el.Kind == oldFiber.Kind

		next := NoFiber
		switch {
		case sameKind:
			next = e.arena.alloc(Fiber{
				Kind:      oldFiber.Kind,
				Props:     el.Props,
				Children:  el.Children,
				Node:      oldFiber.Node,
				Parent:    parentID,
				Alternate: old,
				Effect:    EffectUpdate,
				Instance:  oldFiber.Instance,
			})
		case el != nil:
			next = e.arena.alloc(Fiber{
				Kind:     el.Kind,
				Props:    el.Props,
				Children: el.Children,
				Parent:   parentID,
				Effect:   EffectCreate,
				Instance: e.newInstance(el.Kind),
			})
		}
		if oldFiber != nil && !sameKind {
			e.deletions = append(e.deletions, old)
		}

		if oldFiber != nil {
			old = oldFiber.Sibling
		}
		if next.Valid() {
			if prev.Valid() {
				e.arena.get(prev).Sibling = next
			} else {
				parent.Child = next
			}
			prev = next
		}
	}
}

func (e *Engine) newInstance(k Kind) InstanceID {
	if k.class != ClassFunction {
		return 0
	}
	e.lastInstance++
	return e.lastInstance
}
