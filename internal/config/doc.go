// Package config holds the pagelang runtime configuration: defaults,
// the optional .pagelang YAML file, environment credentials, and
// validation. The resolved Config is built once at startup and passed
// explicitly into each component.
package config
