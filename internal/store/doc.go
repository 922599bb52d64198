// Package store defines persistence interfaces for the application's
// entities along with shared store errors and the transaction helper.
// Concrete implementations live under internal/platform.
package store
