// Package model resolves a raw catalog snapshot into a normalized,
// cross-referenced schema model for downstream code and query generation.
// The snapshot relates its records only by opaque oid strings; the model
// carries each table's typed attributes, constraints, inbound references,
// join candidates, filterable columns, and the stored procedures attached
// to it.
package model

import "errors"

// ErrNotFound reports an identifier with no match in the snapshot. This
// means the introspection data is corrupt or stale; the run aborts rather
// than returning a partial model.
var ErrNotFound = errors.New("not found")

// Model is the resolved output of one introspection run.
type Model struct {
	Tables    []*Table  `json:"tables"`
	EnumTypes []*Type   `json:"enum_types"`
	Functions Functions `json:"functions"`
}

// Table represents a resolved table. Attributes are sorted ascending by
// ordinal number; ExternalReferences and IndexedAttributes are always
// present (possibly empty) once resolution completes.
type Table struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name"`
	Description        string               `json:"description,omitempty"`
	Insertable         bool                 `json:"insertable"`
	Selectable         bool                 `json:"selectable"`
	Updatable          bool                 `json:"updatable"`
	Deletable          bool                 `json:"deletable"`
	Attributes         []*Attribute         `json:"attributes"`
	ExternalReferences []*ExternalReference `json:"external_references"`
	IndexedAttributes  []IndexedAttribute   `json:"indexed_attrs"`
	Names              NameVariants         `json:"table_names"`
}

// TableRef is a weak reference to a table, identifier and name only. It
// never owns the table it points at, which keeps Table and Attribute free
// of reference cycles.
type TableRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Attribute represents a resolved column. Num is the 1-based ordinal
// position within the owning table, stable across column drops, and is
// the join key against constraints and indexes.
type Attribute struct {
	Name        string       `json:"name"`
	Num         int          `json:"num"`
	Type        *Type        `json:"type"`
	Description string       `json:"description,omitempty"`
	IsNotNull   bool         `json:"is_not_null"`
	HasDefault  bool         `json:"has_default"`
	Insertable  bool         `json:"insertable"`
	Selectable  bool         `json:"selectable"`
	Updatable   bool         `json:"updatable"`
	Constraints []Constraint `json:"constraints"`
	Parent      TableRef     `json:"parent_table"`
}

// ForeignKey returns the foreign-key payload of the first foreign-key
// constraint carried by the attribute, or nil when the attribute has none.
func (a *Attribute) ForeignKey() *ForeignKeyRef {
	for _, c := range a.Constraints {
		if c.Kind == ConstraintForeignKey {
			return c.ForeignKey
		}
	}
	return nil
}

// AttributeRef names a single attribute by name and ordinal number.
type AttributeRef struct {
	Name string `json:"name"`
	Num  int    `json:"num"`
}

// ExternalReference is installed on the table being referenced by a
// foreign key. It points back at the referring table and attribute; the
// attribute still carries the full foreign-key constraint.
// ReferencedAttributes lists the local attributes on the referenced side
// that are targeted. JoinedWith is set only for join candidates: when the
// referring table exposes several outgoing foreign keys, each of its
// foreign-key attributes is paired with every other, which lets consumers
// detect junction tables.
type ExternalReference struct {
	TableID              string         `json:"table_id"`
	TableName            string         `json:"table_name"`
	Attribute            *Attribute     `json:"attribute"`
	ReferencedAttributes []AttributeRef `json:"referenced_attributes"`
	JoinedWith           *Attribute     `json:"joined_with,omitempty"`
}

// IsJoin reports whether the reference is a join candidate rather than a
// plain back-reference.
func (r *ExternalReference) IsJoin() bool {
	return r.JoinedWith != nil
}

// IndexedAttribute is a column usable for filtering, either because a
// single-column index covers it or because it is boolean-typed.
type IndexedAttribute struct {
	Name string `json:"name"`
	Type *Type  `json:"type"`
}

// TypedName pairs a name with its resolved type. It is used for function
// arguments and for the attributes of synthesized composite return types.
type TypedName struct {
	Name string `json:"name"`
	Type *Type  `json:"type"`
}

// Function represents a resolved stored procedure. A function with
// IsStable false is a mutation; a stable one is a computed column or a
// free-standing query depending on its name.
type Function struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Executable  bool        `json:"executable"`
	IsStable    bool        `json:"is_stable"`
	Args        []TypedName `json:"args"`
	ReturnType  *Type       `json:"return_type"`
	ReturnsSet  bool        `json:"returns_set"`
}

// Functions partitions the resolved stored procedures. Every table name
// has an entry in ComputedColumnsByTable, possibly empty.
type Functions struct {
	ComputedColumnsByTable map[string][]*Function `json:"computed_columns_by_table"`
	Queries                []*Function            `json:"queries"`
	Mutations              []*Function            `json:"mutations"`
}
