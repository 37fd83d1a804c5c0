package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name     string
		comment  string
		wantTags map[string]string
		wantDesc string
	}{
		{
			name: "empty comment",
		},
		{
			name:     "plain description",
			comment:  "Application users.",
			wantDesc: "Application users.",
		},
		{
			name:     "single tag with value",
			comment:  "@name account_holder",
			wantTags: map[string]string{"name": "account_holder"},
		},
		{
			name:     "bare tag",
			comment:  "@omit",
			wantTags: map[string]string{"omit": ""},
		},
		{
			name:     "tags then description",
			comment:  "@omit create,update\n@name holder\nThe person owning the account.",
			wantTags: map[string]string{"omit": "create,update", "name": "holder"},
			wantDesc: "The person owning the account.",
		},
		{
			name:     "tags stop at first plain line",
			comment:  "@omit\nSee also @name below.\n@name ignored",
			wantTags: map[string]string{"omit": ""},
			wantDesc: "See also @name below.\n@name ignored",
		},
		{
			name:     "surrounding whitespace trimmed",
			comment:  "  @name  holder  \n\n  Some text.  ",
			wantTags: map[string]string{"name": "holder"},
			wantDesc: "Some text.",
		},
		{
			name:     "lone at sign is not a tag",
			comment:  "@\nreal text",
			wantDesc: "@\nreal text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, desc := ParseTags(tt.comment)
			if diff := cmp.Diff(tt.wantTags, tags); diff != "" {
				t.Errorf("tags mismatch (-want +got):\n%s", diff)
			}
			if desc != tt.wantDesc {
				t.Errorf("description = %q; want %q", desc, tt.wantDesc)
			}
		})
	}
}
