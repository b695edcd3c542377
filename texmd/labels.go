package texmd

import (
	"strconv"
	"strings"
)

// LabelKind says how a reference to a label has to be rendered
type LabelKind uint32

const (
	GenericLabel LabelKind = iota
	NumberedLabel
	SectionLabel
	DocumentLabel
	EquationLabel
	ProofLabel
	ItemLabel
)

func (k LabelKind) String() string {
	switch k {
	case GenericLabel:
		return "generic"
	case NumberedLabel:
		return "numbered"
	case SectionLabel:
		return "section"
	case DocumentLabel:
		return "document"
	case EquationLabel:
		return "equation"
	case ProofLabel:
		return "proof"
	case ItemLabel:
		return "item"
	default:
		return "Invalid Label (" + strconv.Itoa(int(k)) + ")"
	}
}

var referenceTemplates = map[LabelKind]string{
	GenericLabel:  "[](#{id})",
	NumberedLabel: "{prf:ref}`{id}`",
	SectionLabel:  "[](#{id})",
	DocumentLabel: "{doc}`{id}`",
	EquationLabel: "{eq}`{id}`",
	ProofLabel:    "{prf:ref}`{id}`",
	ItemLabel:     "[{number}](#{id})",
}

// Label is an entry of the label registry
type Label struct {
	Key    string
	ID     string
	Kind   LabelKind
	Number string
}

// Registry maps the label keys of the source to unique output identifiers
type Registry struct {
	byID  map[string]*Label
	byKey map[string]*Label
	count map[string]int
	order []*Label
}

func NewRegistry() *Registry {
	return &Registry{
		byID:  make(map[string]*Label),
		byKey: make(map[string]*Label),
		count: make(map[string]int),
	}
}

// Define registers a label and returns its identifier.
// A key defined more than once gets a new identifier each time, made unique with a
// numeric suffix, and later references to the key resolve to the last definition.
func (r *Registry) Define(key string, kind LabelKind, number string) string {
	key = strings.TrimSpace(key)

	id := key
	for {
		if _, taken := r.byID[id]; !taken {
			break
		}
		r.count[key]++
		id = key + "-" + strconv.Itoa(r.count[key])
	}

	l := &Label{Key: key, ID: id, Kind: kind, Number: number}
	r.byID[id] = l
	r.byKey[key] = l
	r.order = append(r.order, l)
	return id
}

// Lookup returns the last definition of a key
func (r *Registry) Lookup(key string) (Label, bool) {
	l, ok := r.byKey[strings.TrimSpace(key)]
	if !ok {
		return Label{}, false
	}
	return *l, true
}

// Labels returns all the definitions in the order they were made
func (r *Registry) Labels() []Label {
	list := make([]Label, len(r.order))
	for i, l := range r.order {
		list[i] = *l
	}
	return list
}

func (r *Registry) Len() int {
	return len(r.order)
}

// Resolve renders a reference to key. An undefined key renders as an error marker.
func (s *Session) Resolve(key string) string {
	l, ok := s.Labels.Lookup(key)
	if !ok {
		s.log.Warnw("unresolved reference", "key", key)
		return RefError + "(" + key + ")"
	}
	r := strings.NewReplacer("{id}", l.ID, "{number}", l.Number)
	return r.Replace(s.Config.ReferenceTemplate(l.Kind))
}
