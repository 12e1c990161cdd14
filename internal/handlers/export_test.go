// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// export_test.go exposes unexported response types to the external
// handlers_test package, which must live outside this package to avoid
// an import cycle through seobuilder/internal/router.
package handlers

type (
	TokenResponse  = tokenResponse
	ExportResponse = exportResponse
)
