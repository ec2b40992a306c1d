// Package config provides configuration loading and the server mode
// selector for Perch.
//
// Configuration comes from three layers, later layers winning:
//
//  1. An optional YAML file (default: config.yaml)
//  2. Built-in defaults
//  3. Environment variables (PORT, PERCH_SECTION_FIELD)
//
// The server mode is resolved exactly once, inside Load, from
// environment signals and the bound port (see DetectMode). Absence of
// all signals fails safe toward Production, the simpler static-serving
// path. The rest of the program reads Config.Mode and never recomputes
// it.
package config
