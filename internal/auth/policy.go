// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"seobuilder/internal/apperr"
	"seobuilder/internal/models"
)

// CanAccessProject reports whether the identity may view or modify the
// project: its owner, or any admin.
func CanAccessProject(id *Identity, project *models.Project) bool {
	if id == nil || project == nil {
		return false
	}
	return id.UserID == project.UserID || id.Role == models.RoleAdmin
}

// RequireProjectAccess is CanAccessProject as an error. The denial is the
// same shape regardless of whether the project exists, so probing for
// other users' project IDs reveals nothing.
func RequireProjectAccess(id *Identity, project *models.Project) error {
	if !CanAccessProject(id, project) {
		return apperr.NotFound("project")
	}
	return nil
}

// CanCreateProjects reports whether the identity may create projects.
// Viewers are read-only.
func CanCreateProjects(id *Identity) bool {
	if id == nil {
		return false
	}
	switch id.Role {
	case models.RoleOwner, models.RoleAdmin, models.RoleEditor:
		return true
	}
	return false
}
