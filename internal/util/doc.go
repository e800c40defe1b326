// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for certiprofile-tui:
// crash-safe file writes used by the session snapshot persistence, and
// rune-aware string truncation used by session titles and the UI.
package util
