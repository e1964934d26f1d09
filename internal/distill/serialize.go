package distill

import (
	"fmt"
	"strings"
)

// Serialize renders a trajectory's messages into the chosen dialect
// (spec.md §4.10 step 5).
func Serialize(messages []Message, dialect Dialect) []DialectMessage {
	out := make([]DialectMessage, 0, len(messages))
	for _, m := range messages {
		switch dialect {
		case DialectXMLTag:
			out = append(out, serializeXMLTag(m))
		default:
			out = append(out, serializeFunctionCall(m))
		}
	}
	return out
}

// serializeFunctionCall mirrors the OpenAI chat message shape: tool calls
// ride in a structured tool_calls field, content stays plain text.
func serializeFunctionCall(m Message) DialectMessage {
	dm := DialectMessage{
		"role":    string(m.Role),
		"content": m.Content,
	}
	if len(m.ToolCalls) > 0 {
		calls := make([]map[string]any, 0, len(m.ToolCalls))
		for _, tc := range m.ToolCalls {
			calls = append(calls, map[string]any{
				"name":      tc.Name,
				"arguments": tc.Arguments,
			})
		}
		dm["tool_calls"] = calls
		if len(m.ToolCalls) == 1 && m.ToolCalls[0].Result != "" {
			dm["tool_result"] = m.ToolCalls[0].Result
		}
	}
	return dm
}

// serializeXMLTag inlines each tool call as an XML-tagged block appended
// to the message content, the way models trained without native
// function-calling support expect tool use to appear in-line.
func serializeXMLTag(m Message) DialectMessage {
	content := m.Content
	var b strings.Builder
	b.WriteString(content)
	for _, tc := range m.ToolCalls {
		fmt.Fprintf(&b, "\n<tool_call name=%q>\n%s\n</tool_call>", tc.Name, tc.Arguments)
		if tc.Result != "" {
			fmt.Fprintf(&b, "\n<tool_result>\n%s\n</tool_result>", tc.Result)
		}
	}
	return DialectMessage{
		"role":    string(m.Role),
		"content": b.String(),
	}
}
