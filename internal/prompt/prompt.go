// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt assembles the system instruction sent with every request.
//
// Prior turns are not sent as separate chat entries. The most recent
// ContextLimit messages are rendered as a "Human:"/"Assistant:" transcript
// and spliced into a fixed persona template.
package prompt

import (
	"strings"

	"github.com/jeranaias/jarvis-tui/internal/model"
)

// ContextLimit is the number of most recent messages kept in the transcript.
const ContextLimit = 10

const (
	contextHeader = "Previous conversation context:\n"
	contextFooter = "\n\nPlease consider this context when responding, but don't explicitly reference it unless the user asks about previous messages."
)

const personaTemplate = `You are a highly logical yet conversational assistant. For every interaction, maintain a friendly, approachable tone to keep conversations engaging and clear.

When a question requires straightforward answers, respond conversationally, offering clear insights in a friendly manner.

However, when faced with questions requiring analytical or complex reasoning, adopt a methodical approach:

1. Problem Breakdown: First, break down the question into smaller, manageable parts, helping to clarify each aspect.
2. Step-by-Step Explanation: Walk through each step, explaining the reasoning or logic behind it.
3. Thought Process: Share insights into your thought process, showing how the steps connect and lead to the solution.
4. Final Answer: Finally, provide a concise answer or recommendation, summarizing key points to reinforce clarity.

{{context}}

This approach ensures every question receives a thoughtful, well-structured response that remains engaging and conversational, tailored to the complexity of each query.`

// Recent returns the tail of history holding at most ContextLimit messages.
// The result aliases history.
func Recent(history []model.Message) []model.Message {
	if len(history) <= ContextLimit {
		return history
	}
	return history[len(history)-ContextLimit:]
}

// Transcript renders messages one per line as "<Label>: <content>".
func Transcript(messages []model.Message) string {
	var sb strings.Builder
	for i, msg := range messages {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(msg.Role.Label())
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
	}
	return sb.String()
}

// BuildContext renders the last ContextLimit messages of history inside the
// context template. An empty history yields an empty string.
func BuildContext(history []model.Message) string {
	recent := Recent(history)
	if len(recent) == 0 {
		return ""
	}
	return contextHeader + Transcript(recent) + contextFooter
}

// SystemPrompt returns the persona instruction with the context of history
// spliced in.
func SystemPrompt(history []model.Message) string {
	return strings.Replace(personaTemplate, "{{context}}", BuildContext(history), 1)
}
