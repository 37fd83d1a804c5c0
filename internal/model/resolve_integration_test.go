package model_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pgmodel/pgmodel/internal/catalog"
	"github.com/pgmodel/pgmodel/internal/model"
	"github.com/pgmodel/pgmodel/testutil"
)

const blogDDL = `
CREATE TYPE post_status AS ENUM ('draft', 'published', 'archived');

CREATE TABLE users (
	id serial PRIMARY KEY,
	email text NOT NULL UNIQUE,
	is_active boolean DEFAULT true
);

CREATE TABLE posts (
	id serial PRIMARY KEY,
	author_id integer NOT NULL REFERENCES users(id),
	title text NOT NULL,
	status post_status NOT NULL DEFAULT 'draft'
);

CREATE TABLE tags (
	id serial PRIMARY KEY,
	label text NOT NULL UNIQUE
);

CREATE TABLE post_tags (
	post_id integer NOT NULL REFERENCES posts(id),
	tag_id integer NOT NULL REFERENCES tags(id),
	PRIMARY KEY (post_id, tag_id)
);

CREATE INDEX posts_title_idx ON posts(title);

CREATE FUNCTION posts_excerpt(p posts) RETURNS text
	AS 'SELECT left(p.title, 20)' LANGUAGE sql STABLE;

CREATE FUNCTION search_posts(query text) RETURNS SETOF posts
	AS 'SELECT * FROM posts WHERE title ILIKE query' LANGUAGE sql STABLE;

CREATE FUNCTION archive_post(post_id integer) RETURNS void
	AS 'UPDATE posts SET status = ''archived'' WHERE id = post_id' LANGUAGE sql;
`

func TestResolveIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container := testutil.SetupPostgresContainer(ctx, t)

	if _, err := container.Conn.ExecContext(ctx, blogDDL); err != nil {
		t.Fatalf("Failed to apply DDL: %v", err)
	}

	snap, err := catalog.NewIntrospector(container.Conn).Introspect(ctx)
	if err != nil {
		t.Fatalf("Introspect() returned error: %v", err)
	}

	m, err := model.Resolve(snap, "public")
	if err != nil {
		t.Fatalf("Resolve() returned error: %v", err)
	}

	tables := make(map[string]*model.Table, len(m.Tables))
	for _, table := range m.Tables {
		tables[table.Name] = table
	}
	for _, name := range []string{"users", "posts", "tags", "post_tags"} {
		if tables[name] == nil {
			t.Fatalf("table %q missing from model", name)
		}
	}

	// posts.author_id carries its foreign key and shows up as a
	// back-reference on users.
	var author *model.Attribute
	for _, attr := range tables["posts"].Attributes {
		if attr.Name == "author_id" {
			author = attr
		}
	}
	if author == nil {
		t.Fatal("posts.author_id missing")
	}
	fk := author.ForeignKey()
	if fk == nil || fk.TableName != "users" {
		t.Fatalf("posts.author_id foreign key = %+v; want users", fk)
	}
	if diff := cmp.Diff([]model.AttributeRef{{Name: "id", Num: 1}}, fk.Attributes); diff != "" {
		t.Errorf("foreign key target attributes mismatch (-want +got):\n%s", diff)
	}

	var fromPosts int
	for _, ref := range tables["users"].ExternalReferences {
		if ref.TableName == "posts" && ref.Attribute.Name == "author_id" && !ref.IsJoin() {
			fromPosts++
		}
	}
	if fromPosts != 1 {
		t.Errorf("users back-references from posts.author_id = %d; want 1", fromPosts)
	}

	// post_tags joins posts and tags.
	var joins int
	for _, ref := range tables["posts"].ExternalReferences {
		if ref.TableName == "post_tags" && ref.IsJoin() {
			joins++
			if ref.JoinedWith.Name != "tag_id" {
				t.Errorf("posts joined with %q; want tag_id", ref.JoinedWith.Name)
			}
		}
	}
	if joins != 1 {
		t.Errorf("posts join references from post_tags = %d; want 1", joins)
	}

	if len(m.EnumTypes) != 1 || m.EnumTypes[0].Name != "post_status" {
		t.Fatalf("enum types = %+v; want only post_status", m.EnumTypes)
	}
	if diff := cmp.Diff([]string{"draft", "published", "archived"}, m.EnumTypes[0].EnumVariants); diff != "" {
		t.Errorf("post_status variants mismatch (-want +got):\n%s", diff)
	}

	// posts has a title index plus no boolean columns; users has no index
	// records of its own beyond the unique/pkey ones, which do count.
	var indexedTitles []string
	for _, idx := range tables["posts"].IndexedAttributes {
		indexedTitles = append(indexedTitles, idx.Name)
	}
	if diff := cmp.Diff([]string{"id", "title"}, indexedTitles); diff != "" {
		t.Errorf("posts indexed attributes mismatch (-want +got):\n%s", diff)
	}

	fnNames := func(list []*model.Function) []string {
		out := []string{}
		for _, fn := range list {
			out = append(out, fn.Name)
		}
		return out
	}
	if diff := cmp.Diff([]string{"posts_excerpt"}, fnNames(m.Functions.ComputedColumnsByTable["posts"])); diff != "" {
		t.Errorf("posts computed columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"search_posts"}, fnNames(m.Functions.Queries)); diff != "" {
		t.Errorf("queries mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"archive_post"}, fnNames(m.Functions.Mutations)); diff != "" {
		t.Errorf("mutations mismatch (-want +got):\n%s", diff)
	}

	want := model.NameVariants{
		Singular:       "post_tag",
		Plural:         "post_tags",
		CamelSingular:  "postTag",
		CamelPlural:    "postTags",
		PascalSingular: "PostTag",
		PascalPlural:   "PostTags",
	}
	if diff := cmp.Diff(want, tables["post_tags"].Names); diff != "" {
		t.Errorf("post_tags name variants mismatch (-want +got):\n%s", diff)
	}
}
