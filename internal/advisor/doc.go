// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package advisor provides the HTTP client for the certification advisor
// backend. It covers the RAG chat endpoint and the PDF document endpoints
// (upload and clear).
//
// Errors are categorized with ClientError so callers can distinguish an
// unreachable backend from a non-2xx response, which the conversation layer
// surfaces with different user-facing messages.
package advisor
