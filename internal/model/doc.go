// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// Messages carry the raw response text. Segments are never stored: every
// call to Message.Segments re-runs the segmentation engine over the current
// content, streaming or final.
//
// # Key Types
//
//   - Conversation: ordered messages with title and timestamps
//   - Message: role, content and streaming state
//   - Role: user, assistant or system
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("show me a loop")
//	msg := conv.AddAssistantMessage()
//	msg.AppendToken("```go\nfor {}\n")
//	segs := msg.Segments() // one incomplete code segment
//
// Transcripts on disk are loaded with LoadTranscript.
package model
