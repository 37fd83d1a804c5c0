package model

import "fmt"

// Category codes from pg_type.typcategory.
const (
	categoryBoolean = "B"
)

// Type represents a resolved type descriptor. A Type with non-nil
// EnumVariants is enum-carrying and surfaces in the model's EnumTypes
// list. A Type with CompositeType true is synthesized for a function with
// explicit output arguments; Attrs then lists the output columns.
type Type struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Category      string            `json:"category"`
	Tags          map[string]string `json:"tags,omitempty"`
	EnumVariants  []string          `json:"enum_variants,omitempty"`
	CompositeType bool              `json:"composite_type,omitempty"`
	Attrs         []TypedName       `json:"attrs,omitempty"`
}

// IsEnum reports whether the type carries enum variants.
func (t *Type) IsEnum() bool {
	return t.EnumVariants != nil
}

// resolveType resolves a type identifier to its descriptor. Resolved
// descriptors are cached by identifier, so every attribute using a type
// shares one *Type instance. An unresolvable identifier is an integrity
// fault: the caller holds a type id taken from the same snapshot, so a
// miss means the snapshot is corrupt.
func (r *resolver) resolveType(id string) (*Type, error) {
	if t, ok := r.resolved[id]; ok {
		return t, nil
	}

	raw, ok := r.typesByID[id]
	if !ok {
		return nil, fmt.Errorf("type %q: %w", id, ErrNotFound)
	}

	t := &Type{
		ID:           raw.ID,
		Name:         raw.Name,
		Description:  raw.Description,
		Category:     raw.Category,
		Tags:         raw.Tags,
		EnumVariants: raw.EnumVariants,
	}
	r.resolved[id] = t
	return t, nil
}

// liftEnumTypes collects every enum-carrying type used by any attribute of
// any table, deduplicated by identity in first-seen order. A type used by
// many columns contributes exactly one entry.
func liftEnumTypes(tables []*Table) []*Type {
	enums := []*Type{}
	seen := make(map[string]bool)

	for _, table := range tables {
		for _, attr := range table.Attributes {
			if !attr.Type.IsEnum() || seen[attr.Type.ID] {
				continue
			}
			seen[attr.Type.ID] = true
			enums = append(enums, attr.Type)
		}
	}

	return enums
}
