// Package mapper converts domain models to storage schemas and back. Every
// entity pair has one mapper, registered under the entity tag.
package mapper
