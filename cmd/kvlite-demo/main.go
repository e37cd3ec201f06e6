// Command kvlite-demo exercises both kvlite engines end to end: an
// in-memory memengine.Engine and a SQLite-backed engine.Engine, with a
// parent-cascade delete and a sliding-expiry hit.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ilkerhalil/kvlite"
	"github.com/ilkerhalil/kvlite/engine"
	"github.com/ilkerhalil/kvlite/memengine"
	"github.com/ilkerhalil/kvlite/settings"
	"github.com/ilkerhalil/kvlite/sqlstore"
)

func main() {
	ctx := context.Background()

	st := settings.New(settings.WithCacheEntriesTableName("kvl_demo_entries"))

	mem := memengine.New(st, memengine.WithCleanupInterval(2*time.Second))
	defer mem.Close()
	runDemo(ctx, "memengine", mem)

	factory := sqlstore.New(sqlstore.SQLite(), st.QualifiedTableName())
	eng, err := engine.Open(ctx, factory, "file::memory:?cache=shared", st)
	if err != nil {
		log.Fatalf("opening sqlite engine: %v", err)
	}
	defer eng.Close()
	runDemo(ctx, "engine", eng)
}

func runDemo(ctx context.Context, name string, c kvlite.Cache) {
	fmt.Printf("-- %s --\n", name)

	if err := c.AddSliding(ctx, "", "session:alice", []byte(`{"user":"alice"}`), 5); err != nil {
		log.Fatalf("AddSliding: %v", err)
	}
	parent := kvlite.ParentRef{Key: "session:alice"}
	if err := c.AddTimed(ctx, "", "session:alice:cart", []byte(`["sku-1","sku-2"]`), time.Now().Unix()+60, parent); err != nil {
		log.Fatalf("AddTimed: %v", err)
	}

	if v, ok, err := c.Get(ctx, "", "session:alice"); err != nil {
		log.Fatalf("Get: %v", err)
	} else if ok {
		fmt.Printf("session:alice = %s\n", v.Value)
	}

	n, err := c.Count(ctx, "", kvlite.ConsiderExpiry)
	if err != nil {
		log.Fatalf("Count: %v", err)
	}
	fmt.Printf("entries: %d\n", n)

	if err := c.Remove(ctx, "", "session:alice"); err != nil {
		log.Fatalf("Remove: %v", err)
	}
	if ok, err := c.Contains(ctx, "", "session:alice:cart"); err != nil {
		log.Fatalf("Contains: %v", err)
	} else if !ok {
		fmt.Println("session:alice:cart cascaded away with its parent")
	}
}
