// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller orchestrates a conversation exchange: it validates user
// input, appends the optimistic user turn, enriches the outgoing query with
// the active filters, and delivers the backend's response to the session it
// was issued against.
//
// Responses target the session that was active at submission time. The user
// may switch or delete sessions while a request is in flight; the answer
// still lands on the originating session, and the intelligence bridge is
// only updated when that session is still the active one.
package controller
