package texmd

// Expand runs one pool of recognizers over the tree under root.
//
// Nodes are expanded depth first: the pending text of a node is consumed by the pool,
// and then its children, including the ones just created, are expanded before moving on
// to the next sibling of the node. A node where nothing matches keeps its text for the
// next pools when it has no children yet.
func (s *Session) Expand(root Node, pool Pool) (err error) {
	defer recoverContract(&err)
	s.expand(root, pool)
	return nil
}

// expand is Expand for the recognizers that run nested passes in Consume.
// Contract violations propagate as panics up to the outermost Expand.
func (s *Session) expand(root Node, pool Pool) {
	work := []Node{root}
	for len(work) > 0 {
		n := work[0]
		work = work[1:]

		s.drain(n, pool)

		if children := n.tree().Children(); len(children) > 0 {
			work = append(children, work...)
		}
	}
}

// drain consumes the pending text of n with the recognizers of the pool
func (s *Session) drain(n Node, pool Pool) {
	t := n.tree()
	for t.pending != "" {
		text := t.pending

		r, offset := pool.Nearest(text)
		if r == nil {
			if t.FirstChild == nil {
				return
			}
			t.pending = ""
			t.AppendChild(NewWrapper(n, text))
			return
		}

		s.step(r, offset)

		before, node, after := r.Consume(s, text, n)
		if len(before)+len(after) >= len(text) {
			panic(&ContractError{
				Recognizer: r.Name(),
				Offset:     offset,
				Msg:        "nothing consumed",
				Err:        ErrNoProgress,
			})
		}

		t.pending = ""
		if before != "" {
			t.AppendChild(NewWrapper(n, before))
		}
		t.AppendChild(node)
		t.pending = after
	}
}

func (s *Session) step(r Recognizer, offset int) {
	s.steps++
	if s.steps > s.Config.MaxSteps {
		panic(&ContractError{
			Recognizer: r.Name(),
			Offset:     offset,
			Msg:        "too many expansion steps",
			Err:        ErrStepLimit,
		})
	}
}
