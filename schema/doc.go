// Package schema declares the bun row types, their relationships, and the
// rows each owner writes and removes together with itself.
package schema
