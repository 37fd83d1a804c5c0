package model

import (
	"fmt"

	"github.com/pgmodel/pgmodel/internal/catalog"
)

// ConstraintKind tags the constraint variants the model represents.
type ConstraintKind string

const (
	ConstraintPrimaryKey ConstraintKind = "primary_key"
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
)

// Constraint is a tagged variant. Exactly one payload is populated
// depending on Kind: KeyAttributeNums for unique constraints, ForeignKey
// for foreign keys, neither for primary keys. A constraint is carried by
// every attribute whose ordinal number appears in its key-attribute list,
// so one raw composite constraint can surface on several attributes.
type Constraint struct {
	Kind ConstraintKind `json:"kind"`

	// KeyAttributeNums lists the participating ordinal numbers of a
	// unique constraint, verbatim from the catalog.
	KeyAttributeNums []int `json:"key_attribute_nums,omitempty"`

	// ForeignKey is the resolved target of a foreign-key constraint.
	ForeignKey *ForeignKeyRef `json:"foreign_key,omitempty"`
}

// ForeignKeyRef names the referenced table and attributes of a foreign
// key. Attributes is positionally aligned with the local key-attribute
// numbers of the raw constraint.
type ForeignKeyRef struct {
	TableID    string         `json:"table_id"`
	TableName  string         `json:"table_name"`
	Attributes []AttributeRef `json:"attributes"`
}

// buildConstraint converts a raw constraint record into a typed
// constraint, resolving foreign-key targets to concrete table and
// attribute names. Only the contype codes "p", "u" and "f" occur in the
// snapshot; anything else fails fast because silently dropping an unknown
// constraint kind would corrupt the model.
func (r *resolver) buildConstraint(raw catalog.Constraint) (Constraint, error) {
	switch raw.Type {
	case "p":
		return Constraint{Kind: ConstraintPrimaryKey}, nil

	case "u":
		return Constraint{
			Kind:             ConstraintUnique,
			KeyAttributeNums: raw.KeyAttributeNums,
		}, nil

	case "f":
		tableName, ok := r.tableNames[raw.ForeignClassID]
		if !ok {
			return Constraint{}, fmt.Errorf("constraint %q: foreign table %q: %w", raw.Name, raw.ForeignClassID, ErrNotFound)
		}

		refs := make([]AttributeRef, 0, len(raw.ForeignKeyAttributeNums))
		for _, num := range raw.ForeignKeyAttributeNums {
			attr, ok := r.attrByKey[attrKey{classID: raw.ForeignClassID, num: num}]
			if !ok {
				return Constraint{}, fmt.Errorf("constraint %q: attribute %d of foreign table %q: %w", raw.Name, num, tableName, ErrNotFound)
			}
			refs = append(refs, AttributeRef{Name: attr.Name, Num: num})
		}

		return Constraint{
			Kind: ConstraintForeignKey,
			ForeignKey: &ForeignKeyRef{
				TableID:    raw.ForeignClassID,
				TableName:  tableName,
				Attributes: refs,
			},
		}, nil

	default:
		return Constraint{}, fmt.Errorf("constraint %q: unsupported type code %q", raw.Name, raw.Type)
	}
}
