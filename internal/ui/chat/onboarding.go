// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/ui/components"
	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

const (
	fieldName = iota
	fieldAvatar
)

// onboarding is the first-run form asking for a display name and avatar.
type onboarding struct {
	name   textinput.Model
	avatar textinput.Model
	focus  int
	picker *components.EmojiPicker
	err    error
	theme  *styles.Theme
}

func newOnboarding(theme *styles.Theme) onboarding {
	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 40
	name.Prompt = "> "
	name.Focus()

	avatar := textinput.New()
	avatar.Placeholder = model.DefaultAvatar + "  (ctrl+e to pick)"
	avatar.CharLimit = 8
	avatar.Prompt = "> "

	return onboarding{
		name:   name,
		avatar: avatar,
		focus:  fieldName,
		picker: components.NewEmojiPicker(theme),
		theme:  theme,
	}
}

// Update handles a key. It returns the settings once the form is complete.
func (o onboarding) Update(msg tea.KeyMsg) (onboarding, *model.UserSettings, tea.Cmd) {
	if o.picker.IsOpen() {
		if glyph, closed := o.picker.Update(msg); closed {
			if glyph != "" {
				o.avatar.SetValue(glyph)
				o.avatar.CursorEnd()
			}
			return o, nil, o.setFocus(fieldAvatar)
		}
		return o, nil, nil
	}

	switch msg.String() {
	case "ctrl+e":
		o.picker.Open()
		return o, nil, nil
	case "tab", "shift+tab", "up", "down":
		return o, nil, o.setFocus(1 - o.focus)
	case "enter":
		if o.focus == fieldName && strings.TrimSpace(o.name.Value()) != "" {
			return o, nil, o.setFocus(fieldAvatar)
		}
		settings, err := model.NewUserSettings(o.name.Value(), o.avatar.Value())
		if err != nil {
			o.err = err
			return o, nil, o.setFocus(fieldName)
		}
		return o, settings, nil
	}

	var cmd tea.Cmd
	if o.focus == fieldName {
		o.name, cmd = o.name.Update(msg)
	} else {
		o.avatar, cmd = o.avatar.Update(msg)
	}
	o.err = nil
	return o, nil, cmd
}

func (o *onboarding) setFocus(field int) tea.Cmd {
	o.focus = field
	if field == fieldName {
		o.avatar.Blur()
		return o.name.Focus()
	}
	o.name.Blur()
	return o.avatar.Focus()
}

// View renders the form centered in width x height.
func (o onboarding) View(width, height int) string {
	t := o.theme
	lines := []string{
		t.OnboardingTitle.Render(components.AssistantSpeaker.Label()),
		t.OnboardingHint.Render("Before we start, how should I address you?"),
		"",
		t.OnboardingLabel.Render("Name"),
		o.name.View(),
		"",
		t.OnboardingLabel.Render("Avatar"),
		o.avatar.View(),
	}
	if o.err != nil {
		lines = append(lines, "", t.NoticeError.Render(o.err.Error()))
	}
	lines = append(lines, "", t.OnboardingHint.Render("tab switch field  enter continue  ctrl+c quit"))

	box := t.OnboardingBox.Render(strings.Join(lines, "\n"))
	if o.picker.IsOpen() {
		box = lipgloss.JoinVertical(lipgloss.Center, box, o.picker.View())
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
