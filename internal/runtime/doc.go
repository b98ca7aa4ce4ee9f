// Package runtime wires storage, the id generator, and config into a single
// interticle server. It exposes Open/Close, a health check, and the shared
// generator that every transport mints ids through.
//
// Example:
//
//	cfg := config.Default()
//	cfg.DataDir = "./data"
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
//	id, _ := rt.NextID()
package runtime
