package core

import (
	"fmt"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/host"
)

// EffectTag classifies the mutation a fiber asks the committer to perform.
type EffectTag uint8

const (
	EffectNone EffectTag = iota
	EffectCreate
	EffectUpdate
	// EffectDelete is never stored on a fiber. Condemned fibers belong to the
	// committed tree, which stays read-only; they are carried by the engine's
	// deletion list instead.
	EffectDelete
)

func (t EffectTag) String() string {
	switch t {
	case EffectCreate:
		return "CREATE"
	case EffectUpdate:
		return "UPDATE"
	case EffectDelete:
		return "DELETE"
	default:
		return "NONE"
	}
}

// InstanceID identifies a function component position across renders. It is
// assigned when the position is created and inherited by every UPDATE of it.
type InstanceID uint64

// FiberID addresses a fiber in the engine's arena. The zero value refers to
// no fiber.
type FiberID struct {
	page  uint8
	epoch uint32
	index uint32
}

// NoFiber is the absent fiber reference.
var NoFiber FiberID

// Valid reports whether id refers to a fiber.
func (id FiberID) Valid() bool { return id.epoch != 0 }

func (id FiberID) String() string {
	if !id.Valid() {
		return "fiber(-)"
	}
	return fmt.Sprintf("fiber(%d.%d#%d)", id.page, id.epoch, id.index)
}

// Fiber is the mutable work node mirroring one Element. Parent, Child and
// Sibling form the tree of one generation; Alternate points at the same
// position in the previous committed generation and is only ever read.
type Fiber struct {
	Kind     Kind
	Props    Props
	Children []*Element
	Node     host.Node

	Parent    FiberID
	Child     FiberID
	Sibling   FiberID
	Alternate FiberID

	Effect   EffectTag
	Hooks    []Hook
	Instance InstanceID

	// failed is set when the component body panicked on this render.
	failed bool
}

// page holds one generation of fibers. Fiber structs are reused across
// resets so pointers stay valid for the lifetime of a cycle.
type page struct {
	epoch  uint32
	fibers []*Fiber
	used   int
}

// arena holds two generations: the committed tree and the tree being built.
type arena struct {
	pages   [2]page
	current uint8
}

func (a *arena) wip() uint8 { return 1 - a.current }

// resetWIP discards the work-in-progress generation. Any FiberID pointing
// into it becomes stale.
func (a *arena) resetWIP() {
	p := &a.pages[a.wip()]
	p.epoch++
	if p.epoch == 0 {
		p.epoch = 1
	}
	p.used = 0
}

// promote makes the work-in-progress generation the committed one. The
// previously committed generation is discarded at once, so alternates that
// point into it are stale from here on.
func (a *arena) promote() {
	a.current = a.wip()
	a.resetWIP()
}

func (a *arena) alloc(f Fiber) FiberID {
	idx := a.wip()
	p := &a.pages[idx]
	if p.epoch == 0 {
		p.epoch = 1
	}
	if p.used < len(p.fibers) {
		*p.fibers[p.used] = f
	} else {
		nf := f
		p.fibers = append(p.fibers, &nf)
	}
	id := FiberID{page: idx, epoch: p.epoch, index: uint32(p.used)}
	p.used++
	return id
}

// get resolves id. Resolving a stale or absent reference is a contract
// violation: alternates of a discarded generation must never be followed.
func (a *arena) get(id FiberID) *Fiber {
	if !id.Valid() {
		panic(errors.Contract("core.arena", errors.KindContract, "dereferenced absent fiber"))
	}
	p := &a.pages[id.page]
	if id.epoch != p.epoch || int(id.index) >= p.used {
		panic(errors.Contract("core.arena", errors.KindContract, "dereferenced stale %s", id))
	}
	return p.fibers[id.index]
}

// lookup is get without the contract check.
func (a *arena) lookup(id FiberID) (*Fiber, bool) {
	if !id.Valid() {
		return nil, false
	}
	p := &a.pages[id.page]
	if id.epoch != p.epoch || int(id.index) >= p.used {
		return nil, false
	}
	return p.fibers[id.index], true
}

// size returns the number of live fibers per generation.
func (a *arena) size() (current, wip int) {
	return a.pages[a.current].used, a.pages[a.wip()].used
}
