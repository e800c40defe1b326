// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the application logger. Output goes to a rotated
// file only; the terminal belongs to the TUI and must stay clean.
package logging
