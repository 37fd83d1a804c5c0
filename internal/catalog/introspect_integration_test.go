package catalog

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pgmodel/pgmodel/testutil"
)

const integrationDDL = `
CREATE TYPE mood AS ENUM ('sad', 'ok', 'happy');
COMMENT ON TYPE mood IS e'@behavior select\nHow a user is feeling.';

CREATE TABLE users (
	id serial PRIMARY KEY,
	email text NOT NULL UNIQUE,
	is_active boolean DEFAULT false,
	current_mood mood
);
COMMENT ON TABLE users IS 'Application users.';

CREATE TABLE posts (
	id serial PRIMARY KEY,
	author_id integer NOT NULL REFERENCES users(id),
	title text
);
CREATE INDEX posts_author_idx ON posts(author_id);

CREATE FUNCTION users_display_name(u users) RETURNS text
	AS 'SELECT u.email' LANGUAGE sql STABLE;

CREATE FUNCTION add_ints(integer, integer) RETURNS integer
	AS 'SELECT $1 + $2' LANGUAGE sql IMMUTABLE;
`

func TestIntrospectIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container := testutil.SetupPostgresContainer(ctx, t)

	if _, err := container.Conn.ExecContext(ctx, integrationDDL); err != nil {
		t.Fatalf("Failed to apply DDL: %v", err)
	}

	snap, err := NewIntrospector(container.Conn).Introspect(ctx)
	if err != nil {
		t.Fatalf("Introspect() returned error: %v", err)
	}

	users := findClass(t, snap, "users")
	if users.Namespace != "public" {
		t.Errorf("users namespace = %q; want public", users.Namespace)
	}
	if users.Description != "Application users." {
		t.Errorf("users description = %q; want table comment", users.Description)
	}
	if !users.Selectable || !users.Insertable {
		t.Error("users not selectable/insertable for the connection role")
	}

	var attrNames []string
	for _, a := range snap.Attributes {
		if a.ClassID == users.ID {
			attrNames = append(attrNames, a.Name)
		}
	}
	want := []string{"id", "email", "is_active", "current_mood"}
	if diff := cmp.Diff(want, attrNames); diff != "" {
		t.Errorf("users attributes mismatch (-want +got):\n%s", diff)
	}

	kinds := map[string]int{}
	for _, con := range snap.Constraints {
		kinds[con.Type]++
		if con.Type == "f" {
			if con.ForeignClassID != users.ID {
				t.Errorf("foreign key target = %q; want users (%s)", con.ForeignClassID, users.ID)
			}
			if diff := cmp.Diff([]int{1}, con.ForeignKeyAttributeNums); diff != "" {
				t.Errorf("foreign key attribute nums mismatch (-want +got):\n%s", diff)
			}
		}
	}
	if kinds["p"] != 2 || kinds["u"] != 1 || kinds["f"] != 1 {
		t.Errorf("constraint kind counts = %v; want 2 primary, 1 unique, 1 foreign", kinds)
	}

	mood := findType(t, snap, "mood")
	if diff := cmp.Diff([]string{"sad", "ok", "happy"}, mood.EnumVariants); diff != "" {
		t.Errorf("mood variants mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"behavior": "select"}, mood.Tags); diff != "" {
		t.Errorf("mood tags mismatch (-want +got):\n%s", diff)
	}
	if mood.Description != "How a user is feeling." {
		t.Errorf("mood description = %q; want tag lines stripped", mood.Description)
	}

	posts := findClass(t, snap, "posts")
	var indexed bool
	for _, idx := range snap.Indexes {
		if idx.ClassID == posts.ID && len(idx.AttributeNums) == 1 && idx.AttributeNums[0] == 2 {
			indexed = true
		}
	}
	if !indexed {
		t.Error("posts_author_idx not captured as a single-column index")
	}

	var proc *Proc
	for i := range snap.Procs {
		if snap.Procs[i].Name == "users_display_name" {
			proc = &snap.Procs[i]
		}
	}
	if proc == nil {
		t.Fatal("users_display_name not introspected")
	}
	if !proc.IsStable || !proc.Executable {
		t.Errorf("users_display_name stable=%v executable=%v; want both true", proc.IsStable, proc.Executable)
	}
	if proc.InputArgsCount != 1 || len(proc.ArgNames) != 1 || proc.ArgNames[0] != "u" {
		t.Errorf("users_display_name args = %v (inputs %d); want one input named u", proc.ArgNames, proc.InputArgsCount)
	}

	// pg_proc.proargnames is NULL for add_ints; the snapshot must still
	// carry one placeholder name per argument type.
	var add *Proc
	for i := range snap.Procs {
		if snap.Procs[i].Name == "add_ints" {
			add = &snap.Procs[i]
		}
	}
	if add == nil {
		t.Fatal("add_ints not introspected")
	}
	if diff := cmp.Diff([]string{"$1", "$2"}, add.ArgNames); diff != "" {
		t.Errorf("add_ints argument names mismatch (-want +got):\n%s", diff)
	}
	if len(add.ArgTypeIDs) != 2 || add.InputArgsCount != 2 {
		t.Errorf("add_ints types=%v inputs=%d; want 2/2", add.ArgTypeIDs, add.InputArgsCount)
	}
	if add.IsStable != true {
		t.Error("add_ints (immutable) not marked stable")
	}
}

func findClass(t *testing.T, snap *Snapshot, name string) Class {
	t.Helper()
	for _, c := range snap.Classes {
		if c.Name == name && c.Namespace == "public" {
			return c
		}
	}
	t.Fatalf("class %q not in snapshot", name)
	return Class{}
}

func findType(t *testing.T, snap *Snapshot, name string) Type {
	t.Helper()
	for _, typ := range snap.Types {
		if typ.Name == name {
			return typ
		}
	}
	t.Fatalf("type %q not in snapshot", name)
	return Type{}
}
