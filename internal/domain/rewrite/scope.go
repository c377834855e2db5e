package rewrite

// tracker follows the traversal position and builds the access path.
//
// The traversal is at module level until it enters a function body or a
// statement list below the program; nothing from there on is rewritten.
// Array and object literals at module level stay at module level and add one
// path segment per element or property.
type tracker struct {
	inFunction bool
	path       []string
}

// frame is the tracker state saved across a nested region.
type frame struct {
	inFunction bool
}

func (t *tracker) enterModule() frame {
	prev := frame{t.inFunction}
	t.inFunction = false
	return prev
}

// enterFunction is used for function bodies and for every statement list
// below the program: only the program's own items are module level.
func (t *tracker) enterFunction() frame {
	prev := frame{t.inFunction}
	t.inFunction = true
	return prev
}

func (t *tracker) restore(f frame) {
	t.inFunction = f.inFunction
}

func (t *tracker) moduleLevel() bool {
	return !t.inFunction
}

func (t *tracker) push(segment string) {
	t.path = append(t.path, segment)
}

func (t *tracker) pop() {
	t.path = t.path[:len(t.path)-1]
}
