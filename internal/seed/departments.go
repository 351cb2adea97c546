// Package seed loads the baseline records a fresh environment needs:
// the organizational departments and the bootstrap accounts.
package seed

import (
	"context"
	"errors"
	"fmt"

	"naspac/internal/store"
	"naspac/pkg/types"
)

// SeedDepartments inserts the department list below where missing.
// This file is the source of truth for departments:
// - Inserts departments that don't exist yet (matched by name)
// - Existing departments are left untouched
//
// To generate new IDs: `go run ./cmd/naspac nanoid`
func SeedDepartments(ctx context.Context, datastore store.Datastore) error {
	departments := []types.Department{
		{ID: "q7mHkT2eLcY4WvJnR8sDfG1pZxA6bNuE", Name: "Human Resource"},
		{ID: "jX3cVb9NmQ5wEr7TyU1iOp4aSdF6gHkL", Name: "Finance"},
		{ID: "zP8oI2uY6tR4eW0qAsD7fG3hJ5kLxC1v", Name: "Information Systems"},
		{ID: "bN6mK4jH2gF0dS8aQw9eRt7yUi5oPl3x", Name: "Legal"},
		{ID: "cV5xZ3lK1jH9gF7dS2aPo8iUy6tRe4wQ", Name: "Research"},
		{ID: "wE2rT8yU4iO0pA6sD1fG9hJ3kL7zXc5v", Name: "Operations"},
		{ID: "mQ9wE7rT5yU3iO1pA8sD6fG4hJ2kLz0x", Name: "Audit"},
	}

	for _, department := range departments {
		_, err := datastore.Departments().ByName(ctx, department.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("check department %s: %w", department.Name, err)
		}

		department := department
		if err := datastore.Departments().Create(ctx, &department); err != nil {
			return fmt.Errorf("seed department %s: %w", department.Name, err)
		}
	}

	return nil
}
