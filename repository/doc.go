// Package repository provides a generic repository built on Bun. Each
// operation runs inside its own UnitOfWork: equality filters, nested child
// writes, pagination, and translation of driver errors into domain errors.
package repository
