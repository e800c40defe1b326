// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the durable, per-identity ordered collection of chat
// sessions. Every committed mutation (turn append, create, delete, cached
// intelligence) is written through to storage as a full snapshot before
// control returns, so a reload never loses state. Exactly one session is
// active at all times and the collection is never empty after Load.
//
// Storage is a small collaborator interface with two implementations: one
// JSON file per identity with atomic writes, and a single-table SQLite
// database.
package store
