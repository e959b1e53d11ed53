// Package defaults embeds the default label catalog for compile-time inclusion.
// Each YAML file lists domains; a domain holds its entries (name plus
// description text), adversarial fragments and base-type names. Together they
// form the collision pools patterns are synthesized against.
//
// Usage:
//
//	catalog.Load(defaults.FS, "v1", catalog.LoadOptions{})
package defaults

import "embed"

//go:embed v1/*.yaml
var FS embed.FS
