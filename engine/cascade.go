package engine

import (
	"context"

	"github.com/ilkerhalil/kvlite"
)

// cascadeDelete removes the row identified by hash and every row
// transitively parented by it. It walks the MaxParents parent_hash_i
// columns breadth-first, application-side, guarding against cyclic parent
// references with a visited set, since the generic CREATE TABLE template
// targets five SQL dialects that don't all express ON DELETE CASCADE
// identically.
func (e *Engine) cascadeDelete(ctx context.Context, hash int64) error {
	visited := map[int64]bool{}
	queue := []int64{hash}

	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if visited[h] {
			continue
		}
		visited[h] = true

		children, err := e.childrenOf(ctx, h)
		if err != nil {
			return err
		}
		for _, c := range children {
			if !visited[c] {
				queue = append(queue, c)
			}
		}

		if _, err := e.db.ExecContext(ctx, e.factory.Dialect().DeleteByHashSQL(e.factory.Table()), h); err != nil {
			return classifyErr(ctx, "engine.Remove", err)
		}
	}
	return nil
}

// childrenOf returns the hashes of every row with parent_hash_i = h for any
// parent slot i.
func (e *Engine) childrenOf(ctx context.Context, h int64) ([]int64, error) {
	seen := map[int64]bool{}
	var out []int64
	for i := 0; i < kvlite.MaxParents; i++ {
		rows, err := e.db.QueryContext(ctx,
			e.factory.Dialect().SelectHashByParentSQL(e.factory.Table(), i), h)
		if err != nil {
			return nil, classifyErr(ctx, "engine.Remove", err)
		}
		for rows.Next() {
			var child int64
			if err := rows.Scan(&child); err != nil {
				rows.Close()
				return nil, classifyErr(ctx, "engine.Remove", err)
			}
			if !seen[child] {
				seen[child] = true
				out = append(out, child)
			}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, classifyErr(ctx, "engine.Remove", err)
		}
	}
	return out, nil
}
