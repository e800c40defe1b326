// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"strings"

	"github.com/jeranaias/certiprofile-tui/internal/model"
)

// BuildEnrichedQuery appends the active filters to a raw question as a
// bracketed trailer the backend parses. Only non-empty filters appear, always
// in domain, level, budget order. With no filters set the raw text is
// returned unchanged.
//
// Example: "Bonjour\n[Filtres: domaine: cloud, budget: 300€]"
func BuildEnrichedQuery(raw string, filters model.Filters) string {
	if filters.Empty() {
		return raw
	}

	parts := make([]string, 0, 3)
	if filters.Domain != "" {
		parts = append(parts, "domaine: "+filters.Domain)
	}
	if filters.Level != "" {
		parts = append(parts, "niveau: "+filters.Level)
	}
	if filters.Budget != "" {
		parts = append(parts, "budget: "+filters.Budget+"€")
	}

	return raw + "\n[Filtres: " + strings.Join(parts, ", ") + "]"
}
