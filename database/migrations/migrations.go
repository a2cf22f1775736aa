// Package migrations contains the schema migration files. Each file
// registers itself via init(); cmd/savannah imports this package so every
// migration is known at CLI startup.
package migrations
