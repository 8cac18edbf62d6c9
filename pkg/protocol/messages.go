// ABOUTME: Wire message definitions for the assistant channel
// ABOUTME: Outbound control messages and inbound envelope shapes
package protocol

import "encoding/json"

// Outbound message types
const (
	TypeImage = "image"
	TypeText  = "text"
)

// ToolName is the only tool call the client acts on
const ToolName = "update_ui"

// Tool call actions
const (
	ActionFilter    = "FILTER"
	ActionHighlight = "HIGHLIGHT"
	ActionAddToCart = "ADD_TO_CART"
	ActionNavigate  = "NAVIGATE"
)

// ImageMessage carries one base64 JPEG camera frame
type ImageMessage struct {
	Type     string `json:"type"`
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

// NewImage builds an image message
func NewImage(data, mimeType string) ImageMessage {
	return ImageMessage{Type: TypeImage, Data: data, MimeType: mimeType}
}

// TextMessage carries a typed user prompt
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewText builds a text message
func NewText(text string) TextMessage {
	return TextMessage{Type: TypeText, Text: text}
}

// envelope is the inbound JSON shape. Parts are pointers so an absent
// path can be told apart from an empty one.
type envelope struct {
	ServerContent *struct {
		ModelTurn *struct {
			Parts *[]part `json:"parts"`
		} `json:"modelTurn"`
	} `json:"serverContent"`
	Content *struct {
		Parts *[]part `json:"parts"`
	} `json:"content"`
	ToolCalls []toolCall `json:"toolCalls"`
}

type part struct {
	InlineData *inlineData `json:"inlineData"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type toolCall struct {
	FunctionCalls []functionCall `json:"functionCalls"`
}

type functionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// ToolCallArgs are the arguments of an update_ui call
type ToolCallArgs struct {
	Action  string `json:"action"`
	Target  string `json:"target"`
	Details string `json:"details,omitempty"`
}
