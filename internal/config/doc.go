// Package config provides loading and validation of Interticle server
// configuration: the id layout (origin or datacenter/worker), the
// epoch, listen addresses, and storage settings.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/interticle.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	gen, err := cfg.NewGenerator()
package config
