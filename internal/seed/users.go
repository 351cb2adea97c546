package seed

import (
	"context"
	"errors"
	"fmt"

	"naspac/internal/store"
	"naspac/internal/utils"
	"naspac/pkg/types"
)

// SeedUsers creates the bootstrap accounts for a fresh environment: one
// ADMIN, one STAFF and one demo PERSONNEL. Existing accounts (matched by
// fixed ID) are left untouched. Authentication happens upstream; these
// rows only carry the profile and role the workflow engine checks.
func SeedUsers(ctx context.Context, datastore store.Datastore) error {
	hr, err := datastore.Departments().ByName(ctx, "Human Resource")
	if err != nil {
		return fmt.Errorf("seed users needs departments seeded first: %w", err)
	}

	users := []types.User{
		{
			ID:           "aB4cD8eF2gH6iJ0kL5mN9oP3qR7sT1uV",
			Name:         "Akosua Mensah",
			Email:        "hr-admin@cocobod.gh",
			Role:         types.RoleAdmin,
			StaffID:      utils.StringPtr("CB-0001"),
			DepartmentID: &hr.ID,
		},
		{
			ID:           "xY5zA9bC3dE7fG1hI6jK0lM4nO8pQ2rS",
			Name:         "Kwame Boateng",
			Email:        "hr-staff@cocobod.gh",
			Role:         types.RoleStaff,
			StaffID:      utils.StringPtr("CB-0002"),
			DepartmentID: &hr.ID,
		},
		{
			ID:           "tU1vW5xY9zA3bC7dE2fG6hI0jK4lM8nO",
			Name:         "Ama Serwaa",
			Email:        "ama.serwaa@example.com",
			Role:         types.RolePersonnel,
			NssNumber:    utils.StringPtr("NSSGHA0012345678"),
			PhoneNumber:  utils.StringPtr("0244000000"),
			DepartmentID: &hr.ID,
		},
	}

	for _, user := range users {
		_, err := datastore.Users().ByID(ctx, user.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("check user %s: %w", user.Email, err)
		}

		user := user
		if err := datastore.Users().Create(ctx, &user); err != nil {
			return fmt.Errorf("seed user %s: %w", user.Email, err)
		}
	}

	return nil
}
