package memengine

// cascadeDeleteLocked removes the row identified by hash and every row
// transitively parented by it, walking the children index breadth-first
// with a visited-set guard against cycles (same shape as
// engine.cascadeDelete, adapted to the in-memory index). Caller holds mu.
func (e *Engine) cascadeDeleteLocked(hash int64) {
	visited := map[int64]bool{}
	queue := []int64{hash}

	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if visited[h] {
			continue
		}
		visited[h] = true

		for child := range e.children[h] {
			if !visited[child] {
				queue = append(queue, child)
			}
		}
		e.removeRowLocked(h)
	}
}

// removeRowLocked deletes a single row and unlinks it from the children
// index, both as a parent (its child-set entry) and as a child (removing
// itself from each of its parents' child-sets). Caller holds mu.
func (e *Engine) removeRowLocked(hash int64) {
	r, ok := e.data[hash]
	if !ok {
		return
	}
	delete(e.data, hash)
	delete(e.children, hash)
	for _, ph := range r.parentHashes {
		if set, ok := e.children[ph]; ok {
			delete(set, hash)
			if len(set) == 0 {
				delete(e.children, ph)
			}
		}
	}
}

// linkParentsLocked registers hash as a child of every hash in resolved, so
// a future cascade delete of any parent reaches hash. Caller holds mu.
func (e *Engine) linkParentsLocked(hash int64, resolved []int64) {
	for _, ph := range resolved {
		set, ok := e.children[ph]
		if !ok {
			set = map[int64]struct{}{}
			e.children[ph] = set
		}
		set[hash] = struct{}{}
	}
}
