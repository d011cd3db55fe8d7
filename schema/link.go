package schema

import "strconv"

// LinkKind tells how a Link refers to its target.
type LinkKind uint8

const (
	LinkByIndex LinkKind = iota
	LinkImmediate
	LinkPlaceholder
	LinkIndexedPlaceholder
)

// Link is a reference from one type position to a Ty.
type Link struct {
	Immediate Ty // LinkImmediate only; always a primitive
	Index     int
	Kind      LinkKind
}

// ByIndex links to the type at index i of the schema's type list.
func ByIndex(i int) Link {
	return Link{Kind: LinkByIndex, Index: i}
}

// Immediate links to an inline primitive.
func Immediate(t Ty) Link {
	return Link{Kind: LinkImmediate, Immediate: t}
}

// Placeholder is an unresolved link left behind by schema generation.
func Placeholder() Link {
	return Link{Kind: LinkPlaceholder}
}

// IndexedPlaceholder is an unresolved link that remembers the slot it stands for.
func IndexedPlaceholder(i int) Link {
	return Link{Kind: LinkIndexedPlaceholder, Index: i}
}

func (l Link) String() string {
	switch l.Kind {
	case LinkByIndex:
		return "#" + strconv.Itoa(l.Index)
	case LinkImmediate:
		return "immediate " + Describe(l.Immediate)
	case LinkPlaceholder:
		return "placeholder"
	case LinkIndexedPlaceholder:
		return "placeholder #" + strconv.Itoa(l.Index)
	default:
		return "invalid link"
	}
}
