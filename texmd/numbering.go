package texmd

import "strconv"

// NumberPlaceholder is the number given to a node when its numbering scope can not be found
const NumberPlaceholder = "E"

// Scope is a node owning counters for the numbered nodes inside it,
// like the document or a numbered section.
type Scope interface {
	Node
	ScopeName() string
	Number() string
	Next(counter string) int
}

// LabelHolder is a node that takes ownership of the labels defined inside it
type LabelHolder interface {
	Node
	AttachLabel(s *Session, key string) string
}

// Counters implements the counting part of Scope
type Counters struct {
	counts map[string]int
}

// Next increments a counter and returns its new value
func (c *Counters) Next(counter string) int {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[counter]++
	return c.counts[counter]
}

func isScope(n Node) bool {
	_, ok := n.(Scope)
	return ok
}

func isLabelHolder(n Node) bool {
	_, ok := n.(LabelHolder)
	return ok
}

// scopeNamed returns the nearest scope of the given class around n,
// or the nearest one before n in the document when n is not inside one.
func scopeNamed(n Node, class string) Scope {
	found := Lookup(n, func(x Node) bool {
		sc, ok := x.(Scope)
		return ok && sc.ScopeName() == class
	})
	if found == nil {
		return nil
	}
	return found.(Scope)
}

// numberIn increments counter in the scope of the given class that governs n,
// and returns the number prefixed by the number of the scope.
func (s *Session) numberIn(n Node, class string, counter string) string {
	scope := scopeNamed(n, class)
	if scope == nil {
		s.log.Warnw("numbering scope not found", "scope", class, "counter", counter)
		return NumberPlaceholder
	}
	return joinNumber(scope.Number(), scope.Next(counter))
}

// sectionNumber numbers a section-like node. The counter lives in the nearest enclosing
// scope, and the number is prefixed by the first of the within classes found around it.
func (s *Session) sectionNumber(n Node, counter string, within []string) string {
	holder := Ancestor(n.tree().Parent, isScope)
	if holder == nil {
		s.log.Warnw("numbering scope not found", "counter", counter)
		return NumberPlaceholder
	}
	idx := holder.(Scope).Next(counter)

	if len(within) == 0 {
		return strconv.Itoa(idx)
	}
	for _, class := range within {
		if g := scopeNamed(n, class); g != nil {
			return joinNumber(g.Number(), idx)
		}
	}
	s.log.Warnw("numbering scope not found", "counter", counter, "within", within)
	return NumberPlaceholder
}

// equationNumber numbers an equation in the scope set by \numberwithin
func (s *Session) equationNumber(n Node) string {
	return s.numberIn(n, s.NumberWithin, "equation")
}

func joinNumber(prefix string, idx int) string {
	if len(prefix) == 0 {
		return strconv.Itoa(idx)
	}
	return prefix + "." + strconv.Itoa(idx)
}
