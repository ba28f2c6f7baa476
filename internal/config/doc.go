// Package config loads vcore configuration.
//
// The configuration lives in vcore.yaml (or vcore.json) at the project root.
// Missing fields keep their defaults.
//
// # Configuration File Structure
//
//	engine:
//	  production: false
//	  renderCache: true
//	  warnOnRecoveryFailure: true
//	render:
//	  pretty: true
//	  indent: "  "
//	  sanitizeRaw: false
//	dev:
//	  host: localhost
//	  port: 3000
//	  tree: tree.yaml
//	  debounce: 100ms
//	metrics:
//	  enabled: true
//	  namespace: vcore
//	export:
//	  bucket: my-site
//	  prefix: preview
//	  region: eu-west-1
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eng := engine.New(doc, cfg.EngineOptions()...)
package config
