package texmd

import (
	"strconv"
	"strings"
)

// List is an itemize or enumerate environment. Its children are the items.
type List struct {
	TreeNode
	Ordered bool

	// start is the number of the first item of an ordered list
	start int
	count int
}

func (n *List) Render(br *ByteRenderer) {
	br.Renderln()
	for c := n.FirstChild; c != nil; c = c.tree().NextSibling {
		item := strings.TrimSpace(RenderString(c))
		if len(item) == 0 {
			continue
		}
		br.Renderln(item)
	}
}

// nextMarker returns the marker of the next item of the list.
// Items with an explicit label do not advance the numbering.
func (n *List) nextMarker(bullet string, advance bool) string {
	if !n.Ordered {
		return bullet
	}
	number := n.start + n.count
	if advance {
		n.count++
	}
	return strconv.Itoa(number) + "."
}

// Item is an entry of a list
type Item struct {
	TreeNode
	Marker string

	// Label is the text given explicitly in \item[...], if any
	Label string

	anchors []string
	kind    LabelKind
}

// AttachLabel makes the item a reference target. A reference to a numbered item
// renders with the number of the item.
func (n *Item) AttachLabel(s *Session, key string) string {
	number := n.Label
	if len(number) == 0 {
		number = strings.TrimSuffix(n.Marker, ".")
	}
	id := s.Labels.Define(key, n.kind, number)
	n.anchors = append(n.anchors, id)
	return id
}

func (n *Item) Render(br *ByteRenderer) {
	br.Render(n.Marker, " ")
	indent := strings.Repeat(" ", len(n.Marker)+1)
	for _, a := range n.anchors {
		br.Render("(", a, ")=\n", indent)
	}
	if len(n.Label) > 0 {
		br.Render("**", n.Label, "** ")
	}
	indentContinuation(br, strings.TrimSpace(renderBody(n)), indent)
}

// listRecognizer recognizes the itemize and enumerate environments
type listRecognizer struct {
	marker
	env     string
	ordered bool
}

func newListRecognizer(env string, ordered bool) *listRecognizer {
	return &listRecognizer{
		marker:  marker{text: `\begin{` + env + `}`},
		env:     env,
		ordered: ordered,
	}
}

func (r *listRecognizer) Name() string {
	return r.env
}

func (r *listRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, content, after, ok := ExtractBalanced(text, r.text, `\end{`+r.env+`}`)
	if !ok {
		return unclosed(s, text, r.text, parent)
	}

	n := &List{Ordered: r.ordered, start: 1}
	if options, rest, ok := ExtractOptional(content); ok {
		n.start = listStart(options)
		content = rest
	}
	n.init(n, parent, content)

	s.expand(n, Pool{&itemRecognizer{}})
	return before, n, after
}

// listStart reads the start=N option of an enumerate environment
func listStart(options string) int {
	for _, opt := range strings.Split(options, ",") {
		name, value, found := strings.Cut(opt, "=")
		if !found || strings.TrimSpace(name) != "start" {
			continue
		}
		if start, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return start
		}
	}
	return 1
}

// itemRecognizer recognizes an \item of the list being expanded, with the content up
// to the next \item at the same nesting level
type itemRecognizer struct{}

func (r *itemRecognizer) Name() string {
	return `\item`
}

func (r *itemRecognizer) IsHighPriority() bool {
	return false
}

func (r *itemRecognizer) Position(text string) int {
	return LocateTopLevel(text, `\item`, listEnvironments)
}

func (r *itemRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	i := r.Position(text)
	before, rest := text[:i], text[i+len(`\item`):]

	content, after := rest, ""
	if j := LocateTopLevel(rest, `\item`, listEnvironments); j != NotFound {
		content, after = rest[:j], rest[j:]
	}

	n := &Item{kind: GenericLabel, Marker: s.Config.Bullet}
	list, _ := parent.(*List)
	if custom, rest, ok := ExtractOptional(content); ok {
		n.Label = strings.TrimSpace(custom)
		content = rest
	}
	if list != nil {
		n.Marker = list.nextMarker(s.Config.Bullet, len(n.Label) == 0)
		if list.Ordered {
			n.kind = ItemLabel
		}
	}

	n.init(n, parent, strings.TrimSpace(content))

	// A label at the start of the item names the item
	s.expand(n, Pool{&labelRecognizer{leading: true}})

	return before, n, after
}
