// Package catalog reads the raw, denormalized schema snapshot out of the
// PostgreSQL system catalogs. Every record kind is flat and related to the
// others only by oid strings; cross-referencing happens later in
// internal/model.
package catalog

// Snapshot holds one introspection run's worth of raw catalog records.
type Snapshot struct {
	Classes     []Class      `json:"classes"`
	Attributes  []Attribute  `json:"attributes"`
	Constraints []Constraint `json:"constraints"`
	Types       []Type       `json:"types"`
	Indexes     []Index      `json:"indexes"`
	Procs       []Proc       `json:"procs"`
}

// Class is a raw pg_class record (table, view, materialized view).
type Class struct {
	ID          string `json:"id"` // pg_class oid
	Name        string `json:"name"`
	Namespace   string `json:"namespace"`
	Description string `json:"description"`
	Insertable  bool   `json:"insertable"`
	Selectable  bool   `json:"selectable"`
	Updatable   bool   `json:"updatable"`
	Deletable   bool   `json:"deletable"`
}

// Attribute is a raw pg_attribute record. Num is the column's 1-based
// ordinal position, stable across column drops.
type Attribute struct {
	ClassID     string `json:"class_id"`
	Num         int    `json:"num"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsNotNull   bool   `json:"is_not_null"`
	HasDefault  bool   `json:"has_default"`
	TypeID      string `json:"type_id"`
	Insertable  bool   `json:"insertable"`
	Selectable  bool   `json:"selectable"`
	Updatable   bool   `json:"updatable"`
}

// Constraint is a raw pg_constraint record. Type is the single-letter
// contype code ("p", "u", "f"). For foreign keys,
// ForeignKeyAttributeNums is positionally aligned with KeyAttributeNums.
type Constraint struct {
	ID                      string `json:"id"`
	ClassID                 string `json:"class_id"`
	Name                    string `json:"name"`
	Type                    string `json:"type"`
	KeyAttributeNums        []int  `json:"key_attribute_nums"`
	ForeignClassID          string `json:"foreign_class_id,omitempty"`
	ForeignKeyAttributeNums []int  `json:"foreign_key_attribute_nums,omitempty"`
}

// Type is a raw pg_type record. Category is the single-letter typcategory
// code ("B" boolean, "N" numeric, "E" enum, ...). EnumVariants is nil for
// non-enum types; Tags is the opaque bag parsed from smart comments on the
// type's description.
type Type struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	Tags         map[string]string `json:"tags,omitempty"`
	EnumVariants []string          `json:"enum_variants,omitempty"`
}

// Index is a raw pg_index record reduced to the covered column numbers.
type Index struct {
	ClassID       string `json:"class_id"`
	AttributeNums []int  `json:"attribute_nums"`
}

// Proc is a raw pg_proc record. ArgNames and ArgTypeIDs contain input
// arguments followed by output arguments concatenated together, one name
// per type; arguments the function declares without a name carry a
// "$<position>" placeholder. InputArgsCount is the split point.
type Proc struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Executable     bool     `json:"executable"`
	IsStable       bool     `json:"is_stable"`
	ArgNames       []string `json:"arg_names"`
	ArgTypeIDs     []string `json:"arg_type_ids"`
	InputArgsCount int      `json:"input_args_count"`
	ReturnTypeID   string   `json:"return_type_id"`
	ReturnsSet     bool     `json:"returns_set"`
}
