package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pgmodel/pgmodel/internal/catalog"
)

func TestBuildConstraintCompositeForeignKey(t *testing.T) {
	r := newResolver(&catalog.Snapshot{
		Attributes: []catalog.Attribute{
			{ClassID: "10", Num: 1, Name: "region"},
			{ClassID: "10", Num: 2, Name: "code"},
		},
	})
	r.tableNames["10"] = "warehouses"

	got, err := r.buildConstraint(catalog.Constraint{
		ID:                      "c1",
		ClassID:                 "20",
		Name:                    "stock_warehouse_fkey",
		Type:                    "f",
		KeyAttributeNums:        []int{3, 4},
		ForeignClassID:          "10",
		ForeignKeyAttributeNums: []int{1, 2},
	})
	if err != nil {
		t.Fatalf("buildConstraint() returned error: %v", err)
	}

	want := Constraint{
		Kind: ConstraintForeignKey,
		ForeignKey: &ForeignKeyRef{
			TableID:   "10",
			TableName: "warehouses",
			Attributes: []AttributeRef{
				{Name: "region", Num: 1},
				{Name: "code", Num: 2},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("constraint mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildConstraintCompositeUnique(t *testing.T) {
	r := newResolver(&catalog.Snapshot{})

	got, err := r.buildConstraint(catalog.Constraint{
		Name:             "stock_region_code_key",
		Type:             "u",
		KeyAttributeNums: []int{3, 4},
	})
	if err != nil {
		t.Fatalf("buildConstraint() returned error: %v", err)
	}

	want := Constraint{Kind: ConstraintUnique, KeyAttributeNums: []int{3, 4}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("constraint mismatch (-want +got):\n%s", diff)
	}
}
