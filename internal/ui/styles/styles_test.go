// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"Dark", ModeDark, false},
		{" light ", ModeLight, false},
		{"solarized", ModeAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewThemeForcedModes(t *testing.T) {
	dark := NewTheme(ModeDark)
	assert.True(t, dark.IsDark)
	assert.Equal(t, "dark", dark.GlamourStyle())

	light := NewTheme(ModeLight)
	assert.False(t, light.IsDark)
	assert.Equal(t, "light", light.GlamourStyle())

	auto := NewTheme(Mode("bogus"))
	assert.Equal(t, ModeAuto, auto.Mode)
}

func TestThemeStylesRender(t *testing.T) {
	theme := NewTheme(ModeDark)
	for name, style := range map[string]interface{ Render(...string) string }{
		"UserBubble":      theme.UserBubble,
		"AssistantBubble": theme.AssistantBubble,
		"ErrorBubble":     theme.ErrorBubble,
		"Header":          theme.Header,
		"CodeBlock":       theme.CodeBlock,
		"EmojiPicker":     theme.EmojiPicker,
	} {
		assert.Contains(t, style.Render("hello"), "hello", name)
	}
}

func TestLayoutModeAndBubbleWidth(t *testing.T) {
	theme := NewTheme(ModeDark)

	theme.SetSize(40, 20)
	assert.Equal(t, LayoutNarrow, theme.GetLayoutMode())
	assert.Equal(t, 38, theme.BubbleWidth())

	theme.SetSize(10, 20)
	assert.Equal(t, 20, theme.BubbleWidth())

	theme.SetSize(80, 20)
	assert.Equal(t, LayoutMedium, theme.GetLayoutMode())
	assert.Equal(t, 68, theme.BubbleWidth())

	theme.SetSize(120, 20)
	assert.Equal(t, LayoutWide, theme.GetLayoutMode())
	assert.Equal(t, 90, theme.BubbleWidth())
}

func TestRenderStatusLines(t *testing.T) {
	assert.Contains(t, RenderSuccess("saved"), "[OK] saved")
	assert.Contains(t, RenderError("failed"), "[X] failed")
	assert.Contains(t, RenderWarning("careful"), "[!] careful")
	assert.Contains(t, RenderInfo("note"), "[i] note")
}

func TestSpinnerConfig(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, LineSpinner.Duration())
	assert.Equal(t, time.Second, SpinnerConfig{}.Duration())

	s := DotsSpinner.Spinner()
	assert.Equal(t, DotsSpinner.Frames, s.Frames)
	assert.Equal(t, DotsSpinner.Duration(), s.FPS)

	s.Frames[0] = "x"
	assert.NotEqual(t, "x", DotsSpinner.Frames[0])
}
