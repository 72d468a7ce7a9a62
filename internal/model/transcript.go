// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrEmptyTranscript is returned when a transcript holds no messages.
var ErrEmptyTranscript = errors.New("transcript has no messages")

// transcriptEntry is one message of a structured transcript file.
type transcriptEntry struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// transcriptFile is the on-disk shape of a structured transcript.
type transcriptFile struct {
	Title    string            `json:"title" yaml:"title"`
	Messages []transcriptEntry `json:"messages" yaml:"messages"`
}

// LoadTranscript reads a transcript from disk. ".json", ".yaml" and ".yml"
// files hold {title, messages: [{role, content}]}; any other file is a single
// raw assistant response. Message IDs are derived from content and position.
func LoadTranscript(path string) (*Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	return ParseTranscript(data, filepath.Ext(path))
}

// ParseTranscript decodes transcript data. ext selects the format the same
// way LoadTranscript does.
func ParseTranscript(data []byte, ext string) (*Conversation, error) {
	var tf transcriptFile
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &tf); err != nil {
			return nil, fmt.Errorf("failed to parse JSON transcript: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &tf); err != nil {
			return nil, fmt.Errorf("failed to parse YAML transcript: %w", err)
		}
	default:
		if len(data) == 0 {
			return nil, ErrEmptyTranscript
		}
		tf.Messages = []transcriptEntry{{Role: string(RoleAssistant), Content: string(data)}}
	}

	if len(tf.Messages) == 0 {
		return nil, ErrEmptyTranscript
	}

	conv := NewConversation()
	conv.Title = tf.Title
	for i, e := range tf.Messages {
		msg := NewMessage(ParseRole(e.Role), e.Content)
		msg.ID = transcriptMessageID(i, msg.Role, e.Content)
		conv.AddMessage(msg)
	}
	return conv, nil
}

// transcriptMessageID derives a message ID from its position and content so
// the same transcript yields the same IDs on every load.
func transcriptMessageID(index int, role Role, content string) string {
	name := fmt.Sprintf("%d/%s/%s", index, role, content)
	return "msg_" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
