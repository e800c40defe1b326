// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation view of the certiprofile TUI.
//
// The model wraps the conversation controller: submissions run as background
// commands so the interface stays responsive, and the response lands on the
// session it was issued against even if the user switched meanwhile.
package chat
