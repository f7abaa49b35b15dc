package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeItemsMissingArithmetic(t *testing.T) {
	tests := []struct {
		name        string
		expected    int
		received    int
		damaged     int
		wantMissing int
	}{
		{name: "short delivery", expected: 5, received: 3, damaged: 0, wantMissing: 2},
		{name: "exact delivery with damage", expected: 4, received: 4, damaged: 1, wantMissing: 0},
		{name: "over delivery clamps to zero", expected: 2, received: 7, damaged: 1, wantMissing: 0},
		{name: "nothing received", expected: 3, received: 0, damaged: 0, wantMissing: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := ComputeItems([]ManifestLine{{
				Manufacturer:  "Acme",
				Model:         "X1",
				Room:          "101",
				ExpectedQty:   tt.expected,
				TotalReceived: tt.received,
				TotalDamaged:  tt.damaged,
			}})
			require.Len(t, items, 1)
			assert.Equal(t, tt.wantMissing, items[0].MissingQty)
			assert.GreaterOrEqual(t, items[0].MissingQty, 0)
			assert.Equal(t, tt.damaged, items[0].DamagedQty)
		})
	}
}

func TestComputeItemsDropsReconciledRows(t *testing.T) {
	rows := []ManifestLine{
		{Manufacturer: "Acme", Model: "X1", Room: "101", ExpectedQty: 5, TotalReceived: 5, TotalDamaged: 0},
		{Manufacturer: "Acme", Model: "X2", Room: "102", ExpectedQty: 0, TotalReceived: 0, TotalDamaged: 0},
		// Over-delivered and undamaged also reconciles.
		{Manufacturer: "Acme", Model: "X3", Room: "103", ExpectedQty: 1, TotalReceived: 4, TotalDamaged: 0},
	}
	assert.Empty(t, ComputeItems(rows))
}

func TestComputeItemsInclusionRule(t *testing.T) {
	rows := []ManifestLine{
		{Model: "missing-only", ExpectedQty: 2, TotalReceived: 1},
		{Model: "damaged-only", ExpectedQty: 2, TotalReceived: 2, TotalDamaged: 1},
		{Model: "clean", ExpectedQty: 2, TotalReceived: 2},
	}
	items := ComputeItems(rows)
	require.Len(t, items, 2)
	assert.Equal(t, "missing-only", items[0].Model)
	assert.Equal(t, "Missing", items[0].Issue)
	assert.Equal(t, "damaged-only", items[1].Model)
	assert.Equal(t, "Damaged", items[1].Issue)
}

func TestComputeItemsPreservesInputOrder(t *testing.T) {
	rows := []ManifestLine{
		{Model: "c", ExpectedQty: 1},
		{Model: "a", ExpectedQty: 1},
		{Model: "b", ExpectedQty: 1},
	}
	items := ComputeItems(rows)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{items[0].Model, items[1].Model, items[2].Model})
}

func TestComputeItemsZeroValueFieldsReadAsZero(t *testing.T) {
	// A row decoded from JSON with absent quantity fields.
	items := ComputeItems([]ManifestLine{{Manufacturer: "Acme", Model: "X1", Room: "101"}})
	assert.Empty(t, items)
}

func TestComputeItemsAcmeScenario(t *testing.T) {
	items := ComputeItems([]ManifestLine{{
		Manufacturer: "Acme", Model: "X1", Room: "101",
		ExpectedQty: 5, TotalReceived: 3, TotalDamaged: 1,
	}})
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].MissingQty)
	assert.Equal(t, 1, items[0].DamagedQty)
	assert.Equal(t, "Missing / Damaged", items[0].Issue)
}
