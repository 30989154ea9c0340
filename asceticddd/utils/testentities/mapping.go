package testentities

import _ "embed"

// MappingYAML maps User and GrabBag for the YAML driver.
//
//go:embed mapping.yaml
var MappingYAML []byte
