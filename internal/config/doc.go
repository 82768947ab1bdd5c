// Package config holds run configuration for the scraper.
//
// Configuration comes from three layers, later layers overriding earlier
// ones: built-in defaults (NewConfig), an optional YAML file (LoadFile),
// and CLI flags applied by the cmd package. The resulting Config is
// validated once with Validate before any I/O and then passed to each
// component at construction. There is no process-wide mutable state.
package config
