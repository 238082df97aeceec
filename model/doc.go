// Package model holds the persistence-agnostic domain entities. A nil pointer
// field means the value was not provided by the caller.
package model
