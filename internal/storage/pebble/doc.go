// Package pebblestore provides a thin wrapper around Pebble with fsync policy,
// batches, and minimal metrics hooks. Interticle keeps its article and
// author catalog here.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	b := db.NewBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	_ = db.CommitBatch(ctx, b)
//	b.Close()
//
//	_ = db.Set(ctx, []byte("k2"), []byte("v2"))
//	v, _ := db.Get([]byte("k2"))
package pebblestore
