package config

import _ "embed"

// SchemaJSON is the JSON Schema for aviutl2.toml, written by `au2 prepare:schema`
// so editors with TOML schema support can validate the manifest.
//
//go:embed aviutl2.schema.json
var SchemaJSON []byte
