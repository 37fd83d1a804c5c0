package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/pgmodel/pgmodel/internal/logger"
	"golang.org/x/sync/errgroup"
)

// Introspector reads raw catalog records from a database connection.
type Introspector struct {
	db *sql.DB
}

// NewIntrospector creates a new catalog introspector.
func NewIntrospector(db *sql.DB) *Introspector {
	return &Introspector{db: db}
}

// Introspect runs all catalog queries and returns one snapshot. The record
// kinds are independent of each other, so the queries run concurrently and
// join before the snapshot is returned.
func (i *Introspector) Introspect(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	var eg errgroup.Group

	eg.Go(func() error {
		classes, err := i.queryClasses(ctx)
		if err != nil {
			return fmt.Errorf("failed to query classes: %w", err)
		}
		snap.Classes = classes
		return nil
	})

	eg.Go(func() error {
		attributes, err := i.queryAttributes(ctx)
		if err != nil {
			return fmt.Errorf("failed to query attributes: %w", err)
		}
		snap.Attributes = attributes
		return nil
	})

	eg.Go(func() error {
		constraints, err := i.queryConstraints(ctx)
		if err != nil {
			return fmt.Errorf("failed to query constraints: %w", err)
		}
		snap.Constraints = constraints
		return nil
	})

	eg.Go(func() error {
		types, err := i.queryTypes(ctx)
		if err != nil {
			return fmt.Errorf("failed to query types: %w", err)
		}
		snap.Types = types
		return nil
	})

	eg.Go(func() error {
		indexes, err := i.queryIndexes(ctx)
		if err != nil {
			return fmt.Errorf("failed to query indexes: %w", err)
		}
		snap.Indexes = indexes
		return nil
	})

	eg.Go(func() error {
		procs, err := i.queryProcs(ctx)
		if err != nil {
			return fmt.Errorf("failed to query procs: %w", err)
		}
		snap.Procs = procs
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return snap, nil
}

// logQuery reports a finished catalog query when debug logging is on.
func logQuery(kind string, start time.Time) {
	if !logger.IsDebug() {
		return
	}
	logger.Get().Debug("catalog query complete", "kind", kind, "duration", time.Since(start))
}

func (i *Introspector) queryClasses(ctx context.Context) ([]Class, error) {
	defer logQuery("classes", time.Now())
	query := `
		SELECT c.oid::text,
		       c.relname,
		       n.nspname,
		       COALESCE(obj_description(c.oid, 'pg_class'), ''),
		       pg_catalog.has_table_privilege(c.oid, 'INSERT'),
		       pg_catalog.has_table_privilege(c.oid, 'SELECT'),
		       pg_catalog.has_table_privilege(c.oid, 'UPDATE'),
		       pg_catalog.has_table_privilege(c.oid, 'DELETE')
		FROM pg_catalog.pg_class c
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relkind IN ('r', 'v', 'm', 'p')
		  AND n.nspname NOT IN ('information_schema', 'pg_catalog', 'pg_toast')
		  AND n.nspname NOT LIKE 'pg_temp_%'
		  AND n.nspname NOT LIKE 'pg_toast_temp_%'
		ORDER BY n.nspname, c.relname`

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []Class
	for rows.Next() {
		var c Class
		if err := rows.Scan(&c.ID, &c.Name, &c.Namespace, &c.Description,
			&c.Insertable, &c.Selectable, &c.Updatable, &c.Deletable); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (i *Introspector) queryAttributes(ctx context.Context) ([]Attribute, error) {
	defer logQuery("attributes", time.Now())
	query := `
		SELECT a.attrelid::text,
		       a.attnum,
		       a.attname,
		       COALESCE(col_description(a.attrelid, a.attnum), ''),
		       a.attnotnull,
		       a.atthasdef,
		       a.atttypid::text,
		       pg_catalog.has_column_privilege(a.attrelid, a.attnum, 'INSERT'),
		       pg_catalog.has_column_privilege(a.attrelid, a.attnum, 'SELECT'),
		       pg_catalog.has_column_privilege(a.attrelid, a.attnum, 'UPDATE')
		FROM pg_catalog.pg_attribute a
		JOIN pg_catalog.pg_class c ON c.oid = a.attrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE a.attnum > 0
		  AND NOT a.attisdropped
		  AND c.relkind IN ('r', 'v', 'm', 'p')
		  AND n.nspname NOT IN ('information_schema', 'pg_catalog', 'pg_toast')
		  AND n.nspname NOT LIKE 'pg_temp_%'
		  AND n.nspname NOT LIKE 'pg_toast_temp_%'
		ORDER BY a.attrelid, a.attnum`

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attributes []Attribute
	for rows.Next() {
		var a Attribute
		if err := rows.Scan(&a.ClassID, &a.Num, &a.Name, &a.Description,
			&a.IsNotNull, &a.HasDefault, &a.TypeID,
			&a.Insertable, &a.Selectable, &a.Updatable); err != nil {
			return nil, err
		}
		attributes = append(attributes, a)
	}
	return attributes, rows.Err()
}

func (i *Introspector) queryConstraints(ctx context.Context) ([]Constraint, error) {
	defer logQuery("constraints", time.Now())
	query := `
		SELECT con.oid::text,
		       con.conrelid::text,
		       con.conname,
		       con.contype::text,
		       con.conkey,
		       CASE WHEN con.contype = 'f' THEN con.confrelid::text ELSE '' END,
		       COALESCE(con.confkey, '{}')
		FROM pg_catalog.pg_constraint con
		JOIN pg_catalog.pg_class c ON c.oid = con.conrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE con.contype IN ('p', 'u', 'f')
		  AND n.nspname NOT IN ('information_schema', 'pg_catalog', 'pg_toast')
		  AND n.nspname NOT LIKE 'pg_temp_%'
		  AND n.nspname NOT LIKE 'pg_toast_temp_%'
		ORDER BY con.conrelid, con.conname`

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var constraints []Constraint
	for rows.Next() {
		var con Constraint
		var keyNums, foreignKeyNums pq.Int64Array
		if err := rows.Scan(&con.ID, &con.ClassID, &con.Name, &con.Type,
			&keyNums, &con.ForeignClassID, &foreignKeyNums); err != nil {
			return nil, err
		}
		con.KeyAttributeNums = toIntSlice(keyNums)
		con.ForeignKeyAttributeNums = toIntSlice(foreignKeyNums)
		constraints = append(constraints, con)
	}
	return constraints, rows.Err()
}

func (i *Introspector) queryTypes(ctx context.Context) ([]Type, error) {
	defer logQuery("types", time.Now())
	query := `
		SELECT t.oid::text,
		       t.typname,
		       COALESCE(obj_description(t.oid, 'pg_type'), ''),
		       t.typcategory::text,
		       (SELECT array_agg(e.enumlabel ORDER BY e.enumsortorder)
		        FROM pg_catalog.pg_enum e
		        WHERE e.enumtypid = t.oid)
		FROM pg_catalog.pg_type t
		ORDER BY t.oid`

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []Type
	for rows.Next() {
		var t Type
		var comment string
		var variants pq.StringArray
		if err := rows.Scan(&t.ID, &t.Name, &comment, &t.Category, &variants); err != nil {
			return nil, err
		}
		t.Tags, t.Description = ParseTags(comment)
		t.EnumVariants = variants
		types = append(types, t)
	}
	return types, rows.Err()
}

func (i *Introspector) queryIndexes(ctx context.Context) ([]Index, error) {
	defer logQuery("indexes", time.Now())
	query := `
		SELECT idx.indrelid::text,
		       idx.indkey::int2[]
		FROM pg_catalog.pg_index idx
		JOIN pg_catalog.pg_class c ON c.oid = idx.indrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE idx.indisvalid
		  AND n.nspname NOT IN ('information_schema', 'pg_catalog', 'pg_toast')
		  AND n.nspname NOT LIKE 'pg_temp_%'
		  AND n.nspname NOT LIKE 'pg_toast_temp_%'
		ORDER BY idx.indrelid, idx.indexrelid`

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []Index
	for rows.Next() {
		var idx Index
		var attrNums pq.Int64Array
		if err := rows.Scan(&idx.ClassID, &attrNums); err != nil {
			return nil, err
		}
		idx.AttributeNums = toIntSlice(attrNums)
		indexes = append(indexes, idx)
	}
	return indexes, rows.Err()
}

func (i *Introspector) queryProcs(ctx context.Context) ([]Proc, error) {
	defer logQuery("procs", time.Now())
	query := `
		SELECT p.proname,
		       COALESCE(obj_description(p.oid, 'pg_proc'), ''),
		       pg_catalog.has_function_privilege(p.oid, 'EXECUTE'),
		       p.provolatile IN ('i', 's'),
		       COALESCE(p.proargnames, '{}'::text[]),
		       COALESCE(p.proallargtypes, p.proargtypes::oid[])::text[],
		       p.pronargs,
		       p.prorettype::text,
		       p.proretset
		FROM pg_catalog.pg_proc p
		JOIN pg_catalog.pg_namespace n ON n.oid = p.pronamespace
		WHERE p.prokind = 'f'
		  AND n.nspname NOT IN ('information_schema', 'pg_catalog', 'pg_toast')
		  AND n.nspname NOT LIKE 'pg_temp_%'
		  AND n.nspname NOT LIKE 'pg_toast_temp_%'
		ORDER BY n.nspname, p.proname`

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var procs []Proc
	for rows.Next() {
		var p Proc
		var argNames, argTypeIDs pq.StringArray
		if err := rows.Scan(&p.Name, &p.Description, &p.Executable, &p.IsStable,
			&argNames, &argTypeIDs, &p.InputArgsCount, &p.ReturnTypeID, &p.ReturnsSet); err != nil {
			return nil, err
		}
		p.ArgNames = normalizeArgNames(argNames, len(argTypeIDs))
		p.ArgTypeIDs = argTypeIDs
		procs = append(procs, p)
	}
	return procs, rows.Err()
}

// normalizeArgNames pads the argument-name list to one entry per argument
// type and replaces missing or empty names with "$<position>" placeholders.
// pg_proc.proargnames is NULL for a function declared with no named
// arguments ("add(integer, integer)") and carries empty strings for the
// unnamed ones of a partially named signature; either way ArgNames must
// stay positionally aligned with ArgTypeIDs.
func normalizeArgNames(names []string, count int) []string {
	if len(names) < count {
		names = append(names[:len(names):len(names)], make([]string, count-len(names))...)
	}
	for i, name := range names {
		if name == "" {
			names[i] = "$" + strconv.Itoa(i+1)
		}
	}
	return names
}

func toIntSlice(nums pq.Int64Array) []int {
	if nums == nil {
		return nil
	}
	out := make([]int, len(nums))
	for i, n := range nums {
		out[i] = int(n)
	}
	return out
}
