package memhost

import "fmt"

// OpKind classifies a logged mutation.
type OpKind uint8

const (
	OpCreate OpKind = iota + 1
	OpSetAttribute
	OpRemoveAttribute
	OpSetText
	OpAddListener
	OpRemoveListener
	OpAppend
	OpInsert
	OpRemove
)

func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpSetAttribute:
		return "set"
	case OpRemoveAttribute:
		return "unset"
	case OpSetText:
		return "text"
	case OpAddListener:
		return "listen"
	case OpRemoveListener:
		return "unlisten"
	case OpAppend:
		return "append"
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	default:
		return "invalid"
	}
}

// Op is one logged host call. Node, Parent and Ref are node IDs.
type Op struct {
	Kind   OpKind
	Node   int
	Parent int
	Ref    int
	Name   string
	Value  any
}

func (op Op) String() string {
	switch op.Kind {
	case OpCreate:
		return fmt.Sprintf("create %s#%d", op.Name, op.Node)
	case OpSetAttribute:
		return fmt.Sprintf("set #%d %s=%v", op.Node, op.Name, op.Value)
	case OpRemoveAttribute:
		return fmt.Sprintf("unset #%d %s", op.Node, op.Name)
	case OpSetText:
		return fmt.Sprintf("text #%d %q", op.Node, op.Value)
	case OpAddListener:
		return fmt.Sprintf("listen #%d %s", op.Node, op.Name)
	case OpRemoveListener:
		return fmt.Sprintf("unlisten #%d %s", op.Node, op.Name)
	case OpAppend:
		return fmt.Sprintf("append #%d <- #%d", op.Parent, op.Node)
	case OpInsert:
		return fmt.Sprintf("insert #%d <- #%d before #%d", op.Parent, op.Node, op.Ref)
	case OpRemove:
		return fmt.Sprintf("remove #%d -> #%d", op.Parent, op.Node)
	default:
		return "invalid"
	}
}
