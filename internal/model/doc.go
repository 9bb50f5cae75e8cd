// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Message: Single immutable turn with ID, role, content and timestamp
//   - Role: Message role enumeration (user, assistant)
//   - UserSettings: Display name and avatar chosen during onboarding
//
// # Usage
//
//	msg := model.NewUserMessage("Hello!")
//	fmt.Println(msg.Role.Label()) // "Human"
package model
