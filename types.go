package pgmodel

import (
	"github.com/pgmodel/pgmodel/internal/catalog"
	"github.com/pgmodel/pgmodel/internal/model"
)

// Re-export important types for external consumption

// Snapshot is the raw, denormalized catalog record set for one
// introspection run.
type Snapshot = catalog.Snapshot

// Model is the resolved output handed to downstream generators.
type Model = model.Model

// Table represents a resolved table with its attributes, references, and
// indexed columns.
type Table = model.Table

// Attribute represents a resolved column.
type Attribute = model.Attribute

// Type represents a resolved type descriptor.
type Type = model.Type

// Constraint is a typed constraint variant (primary key, unique, or
// foreign key).
type Constraint = model.Constraint

// ExternalReference is a back-reference installed on a referenced table.
type ExternalReference = model.ExternalReference

// IndexedAttribute is a filterable column.
type IndexedAttribute = model.IndexedAttribute

// Function represents a resolved stored procedure.
type Function = model.Function

// Functions partitions resolved stored procedures into computed columns,
// queries, and mutations.
type Functions = model.Functions
