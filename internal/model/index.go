package model

import "fmt"

// attachIndexes maps the table's raw index records plus its boolean-typed
// columns onto the indexed-attribute list. Only single-column indexes are
// modeled; multi-column and expression entries are skipped. Boolean
// columns count as filterable whether indexed or not. The result is
// deduplicated by attribute name. A table with no raw index records keeps
// an empty list.
func (r *resolver) attachIndexes(t *Table) error {
	raws := r.indexesByClass[t.ID]
	if len(raws) == 0 {
		return nil
	}

	byNum := make(map[int]*Attribute, len(t.Attributes))
	for _, a := range t.Attributes {
		byNum[a.Num] = a
	}

	seen := make(map[string]bool)
	for _, idx := range raws {
		if len(idx.AttributeNums) != 1 {
			continue
		}
		num := idx.AttributeNums[0]
		if num <= 0 {
			// Expression indexes carry a zero attribute number.
			continue
		}

		attr, ok := byNum[num]
		if !ok {
			return fmt.Errorf("indexed attribute %d: %w", num, ErrNotFound)
		}
		if seen[attr.Name] {
			continue
		}
		seen[attr.Name] = true
		t.IndexedAttributes = append(t.IndexedAttributes, IndexedAttribute{Name: attr.Name, Type: attr.Type})
	}

	for _, a := range t.Attributes {
		if a.Type.Category != categoryBoolean || seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		t.IndexedAttributes = append(t.IndexedAttributes, IndexedAttribute{Name: a.Name, Type: a.Type})
	}

	return nil
}
