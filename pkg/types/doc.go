// Package types defines the Registry and Mapper interfaces, the entity
// capability interfaces, the Student and Course entities, and the standard
// errors for the registrar persistence layer.
//
// Entities never talk to storage directly. They record lifecycle intent
// (new, dirty, removed) with the Tracker carried by a context, and the
// unit of work flushes that intent through the Registry on commit.
package types
