// Package distill implements the Trajectory/SFT Distiller: it takes agent
// trajectories recorded against kept instances, re-validates each
// trajectory's proposed patch, classifies it resolved or unresolved, and
// serializes the resolved (or, on request, every) trajectory into one
// supervised fine-tuning JSON-line record per instance.
package distill

// Dialect selects how a trajectory's tool calls are serialized into the
// emitted record's message list.
type Dialect string

const (
	// DialectFunctionCall serializes tool invocations as OpenAI-style
	// function_call/tool_calls message fields.
	DialectFunctionCall Dialect = "function_call"
	// DialectXMLTag serializes tool invocations inline as XML-tagged text
	// within the assistant message content.
	DialectXMLTag Dialect = "xml_tag"
)

// Role is a conversation participant, mirroring the OpenAI chat roles the
// original trajectories were recorded with.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is one tool invocation an assistant message made.
type ToolCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // raw JSON arguments, as the agent emitted them
	Result    string `json:"result,omitempty"`
}

// Message is one turn of a recorded agent trajectory, prior to dialect
// serialization.
type Message struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Trajectory is an agent's recorded attempt to solve one instance, as
// decoded from the JSON array of trajectories the distill command is given.
type Trajectory struct {
	InstanceID string    `json:"instance_id"`
	Messages   []Message `json:"messages"`
	ModelPatch string    `json:"model_patch"`
}

// ResolutionCounts is the original system's f2p_success/f2p_failure/
// p2p_success/p2p_failure bookkeeping, carried for dataset analytics
// alongside the boolean Resolved verdict.
type ResolutionCounts struct {
	F2PSuccess int `json:"f2p_success"`
	F2PFailure int `json:"f2p_failure"`
	P2PSuccess int `json:"p2p_success"`
	P2PFailure int `json:"p2p_failure"`
}

// Record is one distilled SFT training example.
type Record struct {
	InstanceID string           `json:"instance_id"`
	Messages   []DialectMessage `json:"messages"`
	ModelPatch string           `json:"model_patch"`
	Resolved   bool             `json:"resolved"`
	Counts     ResolutionCounts `json:"resolution_counts"`
}

// DialectMessage is a dialect-serialized message: either OpenAI-shaped
// function_call fields or an XML-tagged content string, depending on the
// Dialect the Distiller was configured with. Serialize produces these.
type DialectMessage map[string]any

// Logf is the ambient progress/diagnostic callback, matching
// internal/issuegen's and internal/dataset's.
type Logf func(format string, args ...any)
