// Package config loads analyzer tuning from a JSON file.
//
// All fields are pointers so a partial file only overrides what it names.
// The file path comes from the POOLTABLE_MCP_CONFIG environment variable;
// without it the built-in defaults apply.
package config
