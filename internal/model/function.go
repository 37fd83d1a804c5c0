package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pgmodel/pgmodel/internal/catalog"
)

// processFunction resolves a raw procedure's argument and return types.
// The raw name and type-id arrays hold input arguments followed by output
// arguments; InputArgsCount is the split point. A procedure with explicit
// output arguments gets a synthesized composite return type named
// "<function>_record" carrying the output columns, instead of its declared
// scalar return type.
func (r *resolver) processFunction(raw catalog.Proc) (*Function, error) {
	if len(raw.ArgNames) > len(raw.ArgTypeIDs) {
		return nil, fmt.Errorf("%d argument names but %d argument types", len(raw.ArgNames), len(raw.ArgTypeIDs))
	}

	args := make([]TypedName, 0, raw.InputArgsCount)
	for i := 0; i < raw.InputArgsCount && i < len(raw.ArgNames); i++ {
		typ, err := r.resolveType(raw.ArgTypeIDs[i])
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", raw.ArgNames[i], err)
		}
		args = append(args, TypedName{Name: cleanArgName(raw.ArgNames[i]), Type: typ})
	}

	returnType, err := r.resolveType(raw.ReturnTypeID)
	if err != nil {
		return nil, fmt.Errorf("return type: %w", err)
	}

	if raw.InputArgsCount < len(raw.ArgNames) {
		outputs := make([]TypedName, 0, len(raw.ArgNames)-raw.InputArgsCount)
		for i := raw.InputArgsCount; i < len(raw.ArgNames); i++ {
			typ, err := r.resolveType(raw.ArgTypeIDs[i])
			if err != nil {
				return nil, fmt.Errorf("output argument %q: %w", raw.ArgNames[i], err)
			}
			outputs = append(outputs, TypedName{Name: cleanArgName(raw.ArgNames[i]), Type: typ})
		}

		// Copy before overriding; the scalar descriptor is shared with
		// every other use of the same type id.
		record := *returnType
		record.Name = raw.Name + "_record"
		record.CompositeType = true
		record.Attrs = outputs
		returnType = &record
	}

	return &Function{
		Name:        raw.Name,
		Description: raw.Description,
		Executable:  raw.Executable,
		IsStable:    raw.IsStable,
		Args:        args,
		ReturnType:  returnType,
		ReturnsSet:  raw.ReturnsSet,
	}, nil
}

// cleanArgName strips the positional placeholder marker the catalog puts
// in front of unnamed arguments.
func cleanArgName(name string) string {
	return strings.TrimPrefix(name, "$")
}

// classifyFunctions partitions functions into per-table computed columns,
// free-standing queries, and mutations. An unstable function is always a
// mutation. A stable function whose name starts with "<table>_" becomes a
// computed column of the first table in list order whose prefix matches;
// otherwise it is a query. Every table has an entry in the computed-column
// map, empty or not.
func classifyFunctions(functions []*Function, tables []*Table) Functions {
	out := Functions{
		ComputedColumnsByTable: make(map[string][]*Function, len(tables)),
		Queries:                []*Function{},
		Mutations:              []*Function{},
	}

	prefixes := make([]*regexp.Regexp, len(tables))
	for i, t := range tables {
		out.ComputedColumnsByTable[t.Name] = []*Function{}
		prefixes[i] = regexp.MustCompile("^" + regexp.QuoteMeta(t.Name) + "_")
	}

	for _, fn := range functions {
		if !fn.IsStable {
			out.Mutations = append(out.Mutations, fn)
			continue
		}

		claimed := false
		for i, t := range tables {
			if prefixes[i].MatchString(fn.Name) {
				out.ComputedColumnsByTable[t.Name] = append(out.ComputedColumnsByTable[t.Name], fn)
				claimed = true
				break
			}
		}
		if !claimed {
			out.Queries = append(out.Queries, fn)
		}
	}

	return out
}
