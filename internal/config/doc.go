// Package config defines the application configuration structures and
// loading logic. Configuration comes from environment variables and an
// optional YAML file, with struct-level validation applied on load.
package config
