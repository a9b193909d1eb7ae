// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config.yaml, an optional .env file and
// SCRY_-prefixed environment variables, in increasing order of precedence.
package config
