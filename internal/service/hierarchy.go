package service

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"

	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
)

// Ancestors yields the parent, grandparent, ... of a cabinet up to its root.
// Each iteration re-reads the store, so the sequence can be ranged over again.
func Ancestors(ctx context.Context, repo repositories.CabinetRepository, id string) iter.Seq2[*models.Cabinet, error] {
	return func(yield func(*models.Cabinet, error) bool) {
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			yield(nil, err)
			return
		}

		seen := map[string]bool{current.ID: true}
		for current.ParentID != nil {
			parent, err := repo.GetByID(ctx, *current.ParentID)
			if err != nil {
				yield(nil, fmt.Errorf("ancestor of cabinet %s: %w", current.ID, err))
				return
			}
			if seen[parent.ID] {
				yield(nil, fmt.Errorf("cabinet %s: parent cycle at %s", id, parent.ID))
				return
			}
			seen[parent.ID] = true

			if !yield(parent, nil) {
				return
			}
			current = parent
		}
	}
}

// Descendants yields every cabinet below id, depth first, siblings in label order.
// Children are loaded one level at a time as the caller advances.
func Descendants(ctx context.Context, repo repositories.CabinetRepository, id string) iter.Seq2[*models.Cabinet, error] {
	return func(yield func(*models.Cabinet, error) bool) {
		if _, err := repo.GetByID(ctx, id); err != nil {
			yield(nil, err)
			return
		}

		children, err := repo.ListChildren(ctx, &id)
		if err != nil {
			yield(nil, err)
			return
		}

		stack := reversed(children)
		for len(stack) > 0 {
			next := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(&next, nil) {
				return
			}

			grandchildren, err := repo.ListChildren(ctx, &next.ID)
			if err != nil {
				yield(nil, err)
				return
			}
			stack = append(stack, reversed(grandchildren)...)
		}
	}
}

// Root returns the top-most ancestor of a cabinet, or the cabinet itself
func Root(ctx context.Context, repo repositories.CabinetRepository, id string) (*models.Cabinet, error) {
	root, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for ancestor, err := range Ancestors(ctx, repo, id) {
		if err != nil {
			return nil, err
		}
		root = ancestor
	}
	return root, nil
}

// isAncestorOrSelf reports whether candidate is id or one of id's ancestors
func isAncestorOrSelf(ctx context.Context, repo repositories.CabinetRepository, candidate, id string) (bool, error) {
	if candidate == id {
		return true, nil
	}
	for ancestor, err := range Ancestors(ctx, repo, id) {
		if err != nil {
			return false, err
		}
		if ancestor.ID == candidate {
			return true, nil
		}
	}
	return false, nil
}

// forest indexes a flat cabinet list for in-memory path and root lookups
type forest map[string]*models.Cabinet

func newForest(cabinets []models.Cabinet) forest {
	f := make(forest, len(cabinets))
	for i := range cabinets {
		f[cabinets[i].ID] = &cabinets[i]
	}
	return f
}

// path joins labels from the root down to id
func (f forest) path(id string) string {
	var labels []string
	seen := map[string]bool{}
	for c := f[id]; c != nil && !seen[c.ID]; {
		seen[c.ID] = true
		labels = append(labels, c.Label)
		if c.ParentID == nil {
			break
		}
		c = f[*c.ParentID]
	}
	slices.Reverse(labels)
	return strings.Join(labels, models.PathSeparator)
}

// root returns the ID of the top-most known ancestor of id
func (f forest) root(id string) string {
	rootID := id
	seen := map[string]bool{}
	for c := f[id]; c != nil && !seen[c.ID]; {
		seen[c.ID] = true
		rootID = c.ID
		if c.ParentID == nil {
			break
		}
		c = f[*c.ParentID]
	}
	return rootID
}

func reversed(cabinets []models.Cabinet) []models.Cabinet {
	out := slices.Clone(cabinets)
	slices.Reverse(out)
	return out
}
