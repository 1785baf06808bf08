// Package config loads truncation profiles from YAML or TOML files.
//
// A Profile bundles everything the truncation pipeline is parameterized by:
// the tokenizer choice, the total budget and its per-section allocation, and
// the truncation knobs for the tree, candidate, and dialogue components.
// Watch reloads a profile file on change, and Schema exposes the profile's
// JSON schema for tooling.
package config
