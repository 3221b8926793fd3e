package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinets/internal/domain"
)

func TestAncestorsAndDescendants(t *testing.T) {
	f := newFixture(t)
	a := f.cabinet(t, "A", nil)
	b := f.cabinet(t, "B", a)
	c := f.cabinet(t, "C", b)
	f.cabinet(t, "B2", a)
	f.cabinet(t, "C2", b)

	collect := func(seq func(func(string, error) bool)) []string {
		var out []string
		seq(func(label string, err error) bool {
			require.NoError(t, err)
			out = append(out, label)
			return true
		})
		return out
	}

	ancestors := func(yield func(string, error) bool) {
		for cabinet, err := range f.svc.Cabinets.Ancestors(f.ctx, c.ID) {
			if err != nil {
				yield("", err)
				return
			}
			if !yield(cabinet.Label, nil) {
				return
			}
		}
	}
	assert.Equal(t, []string{"B", "A"}, collect(ancestors))
	// Sequences can be ranged over again
	assert.Equal(t, []string{"B", "A"}, collect(ancestors))

	var descendants []string
	for cabinet, err := range f.svc.Cabinets.Descendants(f.ctx, a.ID) {
		require.NoError(t, err)
		descendants = append(descendants, cabinet.Label)
	}
	assert.Equal(t, []string{"B", "C", "C2", "B2"}, descendants)

	seq := f.svc.Cabinets.Descendants(f.ctx, a.ID)
	var first []string
	for cabinet, err := range seq {
		require.NoError(t, err)
		first = append(first, cabinet.Label)
		break
	}
	var again []string
	for cabinet, err := range seq {
		require.NoError(t, err)
		again = append(again, cabinet.Label)
	}
	assert.Equal(t, []string{"B"}, first)
	assert.Equal(t, descendants, again)

	for _, err := range f.svc.Cabinets.Ancestors(f.ctx, a.ID) {
		t.Fatalf("root has no ancestors, got error %v", err)
	}
}

func TestGetRoot(t *testing.T) {
	f := newFixture(t)
	a := f.cabinet(t, "A", nil)
	b := f.cabinet(t, "B", a)
	c := f.cabinet(t, "C", b)

	root, err := f.svc.Cabinets.GetRoot(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, root.ID)

	root, err = f.svc.Cabinets.GetRoot(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, root.ID)

	_, err = f.svc.Cabinets.GetRoot(f.ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIsAncestorOrSelf(t *testing.T) {
	f := newFixture(t)
	a := f.cabinet(t, "A", nil)
	b := f.cabinet(t, "B", a)
	c := f.cabinet(t, "C", b)
	d := f.cabinet(t, "D", nil)

	tests := []struct {
		name      string
		candidate string
		id        string
		want      bool
	}{
		{"self", b.ID, b.ID, true},
		{"parent", b.ID, c.ID, true},
		{"grandparent", a.ID, c.ID, true},
		{"descendant", c.ID, a.ID, false},
		{"unrelated", d.ID, c.ID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := isAncestorOrSelf(f.ctx, f.store.Cabinets, tt.candidate, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIDs(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, normalizeIDs([]string{" b", "a", "", "b", "c ", "a"}))
	assert.Empty(t, normalizeIDs(nil))
}
