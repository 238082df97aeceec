// Package database opens bun connections for mysql, postgres and sqlite,
// creates the tables of registered models, and classifies driver errors.
package database
