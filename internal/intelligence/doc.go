// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package intelligence holds the live view-model for the active session's
// side panels: the latest skill analysis, the recommendation list and the
// backend context tag. The bridge is not persisted; session switches swap
// its whole snapshot atomically so panels never mix two sessions' data.
package intelligence
