// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/jarvis-tui/internal/model"
)

func history(n int) []model.Message {
	msgs := make([]model.Message, n)
	for i := range msgs {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		msgs[i] = model.NewMessage(role, fmt.Sprintf("message-%02d", i))
	}
	return msgs
}

func TestBuildContext_Empty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
	assert.Equal(t, "", BuildContext([]model.Message{}))
}

func TestBuildContext_Format(t *testing.T) {
	msgs := []model.Message{
		model.NewUserMessage("Hello"),
		model.NewAssistantMessage("Hi there"),
	}

	want := "Previous conversation context:\nHuman: Hello\nAssistant: Hi there\n\n" +
		"Please consider this context when responding, but don't explicitly reference it unless the user asks about previous messages."
	assert.Equal(t, want, BuildContext(msgs))
}

func TestBuildContext_KeepsAllUpToLimit(t *testing.T) {
	for _, n := range []int{1, 5, ContextLimit} {
		ctx := BuildContext(history(n))
		for i := 0; i < n; i++ {
			assert.Contains(t, ctx, fmt.Sprintf("message-%02d", i), "n=%d", n)
		}
	}
}

func TestBuildContext_KeepsLastTenInOrder(t *testing.T) {
	msgs := history(25)
	ctx := BuildContext(msgs)

	for i := 0; i < 15; i++ {
		assert.NotContains(t, ctx, fmt.Sprintf("message-%02d", i))
	}

	last := -1
	for i := 15; i < 25; i++ {
		idx := strings.Index(ctx, fmt.Sprintf("message-%02d", i))
		require.GreaterOrEqual(t, idx, 0, "message %d missing", i)
		assert.Greater(t, idx, last, "message %d out of order", i)
		last = idx
	}
}

func TestRecent(t *testing.T) {
	msgs := history(12)
	recent := Recent(msgs)
	require.Len(t, recent, ContextLimit)
	assert.Equal(t, msgs[2].ID, recent[0].ID)
	assert.Equal(t, msgs[11].ID, recent[ContextLimit-1].ID)

	assert.Len(t, Recent(history(3)), 3)
	assert.Empty(t, Recent(nil))
}

func TestTranscript_MultilineContentKept(t *testing.T) {
	got := Transcript([]model.Message{model.NewUserMessage("line one\nline two")})
	assert.Equal(t, "Human: line one\nline two", got)
}

func TestSystemPrompt(t *testing.T) {
	empty := SystemPrompt(nil)
	assert.True(t, strings.HasPrefix(empty, "You are a highly logical yet conversational assistant."))
	assert.Contains(t, empty, "4. Final Answer:")
	assert.NotContains(t, empty, "{{context}}")
	assert.NotContains(t, empty, "Previous conversation context")

	withCtx := SystemPrompt([]model.Message{model.NewUserMessage("What is Go?")})
	assert.Contains(t, withCtx, "Previous conversation context:\nHuman: What is Go?")
	assert.True(t, strings.HasSuffix(withCtx, "tailored to the complexity of each query."))
}
