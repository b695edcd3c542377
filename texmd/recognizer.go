package texmd

// Recognizer detects one kind of construct in a text and builds the node for it.
//
// Position returns the offset of the first match in text, or NotFound. Consume is only
// called with a text where Position found a match, and returns the text before the
// match, the new node (created with parent as its parent but not attached) and the text
// after the consumed span. The consumed span must not be empty.
type Recognizer interface {
	Name() string
	Position(text string) int
	Consume(s *Session, text string, parent Node) (before string, node Node, after string)
	IsHighPriority() bool
}

// Pool is an ordered set of recognizers that compete for the same text
type Pool []Recognizer

// Nearest returns the recognizer of the pool with the leftmost match in text, and the
// offset of the match. On a tie, a high priority recognizer wins over the rest, and
// otherwise the first one in the pool wins.
func (p Pool) Nearest(text string) (Recognizer, int) {
	var winner Recognizer
	best := NotFound
	for _, r := range p {
		pos := r.Position(text)
		if pos == NotFound {
			continue
		}
		switch {
		case winner == nil || pos < best:
			winner, best = r, pos
		case pos == best && r.IsHighPriority() && !winner.IsHighPriority():
			winner = r
		}
	}
	return winner, best
}

// marker is the matching part shared by the recognizers triggered by a fixed string
type marker struct {
	text string
	safe bool
}

func (m marker) Position(text string) int {
	return Locate(text, m.text, m.safe)
}

func (m marker) IsHighPriority() bool {
	return false
}

// split returns the text before the marker and the text after it
func (m marker) split(text string) (string, string) {
	before, after, _ := SplitAt(text, m.text, m.safe)
	return before, after
}
