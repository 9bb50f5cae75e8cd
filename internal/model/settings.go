// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"strings"
)

// DefaultAvatar is shown for users who did not pick one during onboarding.
const DefaultAvatar = "🙂"

// ErrNameRequired is returned when onboarding completes without a name.
var ErrNameRequired = errors.New("display name is required")

// UserSettings holds the profile chosen during onboarding. It is created once
// and never changed for the rest of the session; its absence means the
// onboarding view is shown instead of the chat.
type UserSettings struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// NewUserSettings validates the onboarding input and returns the settings.
func NewUserSettings(name, avatar string) (*UserSettings, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	avatar = strings.TrimSpace(avatar)
	if avatar == "" {
		avatar = DefaultAvatar
	}
	return &UserSettings{Name: name, Avatar: avatar}, nil
}
