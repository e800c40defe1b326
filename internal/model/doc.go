// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the certification advisor:
// chat sessions and their turns, the authenticated identity that scopes
// persistence, the ephemeral query filters, and the intelligence payloads
// (skill analysis and certification recommendations) returned by the
// backend.
package model
