package model

import (
	"fmt"
	"slices"
	"sort"

	"github.com/pgmodel/pgmodel/internal/catalog"
)

// resolver holds the per-run lookup indexes over one immutable snapshot.
// Everything here is built fresh for a run and discarded with it.
type resolver struct {
	typesByID          map[string]catalog.Type
	resolved           map[string]*Type
	attrByKey          map[attrKey]catalog.Attribute
	attrsByClass       map[string][]catalog.Attribute
	constraintsByClass map[string][]catalog.Constraint
	indexesByClass     map[string][]catalog.Index
	tableNames         map[string]string
}

// attrKey joins an attribute to its owner by (class id, ordinal number).
type attrKey struct {
	classID string
	num     int
}

// refCandidate is a foreign-key-bearing attribute waiting for global
// resolution. PairedWith is set for join candidates.
type refCandidate struct {
	table      *Table
	attribute  *Attribute
	pairedWith *Attribute
}

func newResolver(snap *catalog.Snapshot) *resolver {
	r := &resolver{
		typesByID:          make(map[string]catalog.Type, len(snap.Types)),
		resolved:           make(map[string]*Type),
		attrByKey:          make(map[attrKey]catalog.Attribute, len(snap.Attributes)),
		attrsByClass:       make(map[string][]catalog.Attribute),
		constraintsByClass: make(map[string][]catalog.Constraint),
		indexesByClass:     make(map[string][]catalog.Index),
		tableNames:         make(map[string]string),
	}

	for _, t := range snap.Types {
		r.typesByID[t.ID] = t
	}
	for _, a := range snap.Attributes {
		r.attrByKey[attrKey{classID: a.ClassID, num: a.Num}] = a
		r.attrsByClass[a.ClassID] = append(r.attrsByClass[a.ClassID], a)
	}
	for _, c := range snap.Constraints {
		r.constraintsByClass[c.ClassID] = append(r.constraintsByClass[c.ClassID], c)
	}
	for _, idx := range snap.Indexes {
		r.indexesByClass[idx.ClassID] = append(r.indexesByClass[idx.ClassID], idx)
	}

	return r
}

// Resolve turns a raw catalog snapshot into the resolved model for the
// given schema. Class records outside the schema's namespace are dropped
// before processing. The pass is pure: the snapshot is never mutated, and
// any unresolvable identifier aborts the run without a partial model.
func Resolve(snap *catalog.Snapshot, schema string) (*Model, error) {
	r := newResolver(snap)

	tables := []*Table{}
	tablesByID := make(map[string]*Table)
	for _, cls := range snap.Classes {
		if cls.Namespace != schema {
			continue
		}
		t := newTable(cls)
		tables = append(tables, t)
		tablesByID[t.ID] = t
		r.tableNames[t.ID] = t.Name
	}

	// Per-table assembly runs first; back-references and join pairs need
	// the complete attribute and constraint graph of every table, so they
	// resolve only after all tables are built.
	var candidates []refCandidate
	for _, t := range tables {
		cands, err := r.assembleAttributes(t)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", t.Name, err)
		}
		candidates = append(candidates, cands...)
	}

	if err := resolveReferences(tablesByID, candidates); err != nil {
		return nil, err
	}

	for _, t := range tables {
		if err := r.attachIndexes(t); err != nil {
			return nil, fmt.Errorf("table %q: %w", t.Name, err)
		}
	}

	functions := make([]*Function, 0, len(snap.Procs))
	for _, proc := range snap.Procs {
		fn, err := r.processFunction(proc)
		if err != nil {
			return nil, fmt.Errorf("function %q: %w", proc.Name, err)
		}
		functions = append(functions, fn)
	}

	return &Model{
		Tables:    tables,
		EnumTypes: liftEnumTypes(tables),
		Functions: classifyFunctions(functions, tables),
	}, nil
}

func newTable(cls catalog.Class) *Table {
	return &Table{
		ID:                 cls.ID,
		Name:               cls.Name,
		Description:        cls.Description,
		Insertable:         cls.Insertable,
		Selectable:         cls.Selectable,
		Updatable:          cls.Updatable,
		Deletable:          cls.Deletable,
		Attributes:         []*Attribute{},
		ExternalReferences: []*ExternalReference{},
		IndexedAttributes:  []IndexedAttribute{},
		Names:              deriveNames(cls.Name),
	}
}

// assembleAttributes populates the table's owned attributes with their
// types and constraints, sorted ascending by ordinal number, and returns
// the table's reference and join candidates for global resolution.
func (r *resolver) assembleAttributes(t *Table) ([]refCandidate, error) {
	raws := r.attrsByClass[t.ID]
	rawConstraints := r.constraintsByClass[t.ID]

	attrs := make([]*Attribute, 0, len(raws))
	for _, raw := range raws {
		typ, err := r.resolveType(raw.TypeID)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", raw.Name, err)
		}

		constraints := []Constraint{}
		for _, rc := range rawConstraints {
			if !slices.Contains(rc.KeyAttributeNums, raw.Num) {
				continue
			}
			c, err := r.buildConstraint(rc)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", raw.Name, err)
			}
			constraints = append(constraints, c)
		}

		attrs = append(attrs, &Attribute{
			Name:        raw.Name,
			Num:         raw.Num,
			Type:        typ,
			Description: raw.Description,
			IsNotNull:   raw.IsNotNull,
			HasDefault:  raw.HasDefault,
			Insertable:  raw.Insertable,
			Selectable:  raw.Selectable,
			Updatable:   raw.Updatable,
			Constraints: constraints,
			Parent:      TableRef{ID: t.ID, Name: t.Name},
		})
	}

	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Num < attrs[j].Num })
	t.Attributes = attrs

	var fkAttrs []*Attribute
	for _, a := range attrs {
		if a.ForeignKey() != nil {
			fkAttrs = append(fkAttrs, a)
		}
	}

	var candidates []refCandidate
	for _, a := range fkAttrs {
		candidates = append(candidates, refCandidate{table: t, attribute: a})
	}

	// A table with several outgoing foreign keys pairs each foreign-key
	// attribute with every other, so junction tables can be detected on
	// the referenced side.
	if len(fkAttrs) > 1 {
		for _, a := range fkAttrs {
			for _, b := range fkAttrs {
				if a == b {
					continue
				}
				candidates = append(candidates, refCandidate{table: t, attribute: a, pairedWith: b})
			}
		}
	}

	return candidates, nil
}

// resolveReferences installs a back-reference on the target table of every
// candidate's foreign key, in candidate order. Candidates whose referring
// table is not selectable are dropped entirely: an inaccessible table must
// never appear as a visible relationship target.
func resolveReferences(tablesByID map[string]*Table, candidates []refCandidate) error {
	for _, cand := range candidates {
		if !cand.table.Selectable {
			continue
		}

		fk := cand.attribute.ForeignKey()
		target, ok := tablesByID[fk.TableID]
		if !ok {
			return fmt.Errorf("table %q column %q: foreign table %q: %w",
				cand.table.Name, cand.attribute.Name, fk.TableID, ErrNotFound)
		}

		target.ExternalReferences = append(target.ExternalReferences, &ExternalReference{
			TableID:              cand.table.ID,
			TableName:            cand.table.Name,
			Attribute:            cand.attribute,
			ReferencedAttributes: fk.Attributes,
			JoinedWith:           cand.pairedWith,
		})
	}

	return nil
}
