// Package embedded provides access to the command catalogs compiled into the binary.
package embedded

import "embed"

// BuiltinFS contains the built-in command catalog files.
//
//go:embed builtin/*.yaml
var BuiltinFS embed.FS

// BuiltinPattern matches every built-in catalog file inside BuiltinFS.
const BuiltinPattern = "builtin/*.yaml"
