// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns free-form assistant or user text into a safe,
// structured block list for display.
//
// Only a restricted subset of markdown is understood: heading markers are
// stripped, **bold** and *italic* become styled spans, and "- " / "• "
// lines become list items. Everything else passes through as literal
// escaped text. Render is pure: no state is kept across calls and it never
// fails.
package render
