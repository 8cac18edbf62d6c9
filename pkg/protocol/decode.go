// ABOUTME: Inbound message decoding
// ABOUTME: Extracts audio fragments and update_ui calls from a JSON message
package protocol

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// Inbound is one item extracted from a server message
type Inbound interface {
	isInbound()
}

// AudioFragment is one inline audio payload
type AudioFragment struct {
	MIMEType string
	Data     string
}

// ToolCall is one update_ui invocation
type ToolCall struct {
	Name string
	Args ToolCallArgs
}

// Unrecognized marks a message that carried nothing the client acts on
type Unrecognized struct{}

func (AudioFragment) isInbound() {}
func (ToolCall) isInbound()      {}
func (Unrecognized) isInbound()  {}

// partsRule locates the audio parts of a message
type partsRule struct {
	name    string
	extract func(*envelope) *[]part
}

// audioRules are tried in order; the first path present wins
var audioRules = []partsRule{
	{
		name: "serverContent.modelTurn.parts",
		extract: func(e *envelope) *[]part {
			if e.ServerContent == nil || e.ServerContent.ModelTurn == nil {
				return nil
			}
			return e.ServerContent.ModelTurn.Parts
		},
	},
	{
		name: "content.parts",
		extract: func(e *envelope) *[]part {
			if e.Content == nil {
				return nil
			}
			return e.Content.Parts
		},
	},
}

// Decode parses one inbound text message. Audio fragments come first in
// part order, then update_ui calls in order. A message with neither yields
// a single Unrecognized.
func Decode(data []byte) ([]Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	var out []Inbound

	for _, rule := range audioRules {
		parts := rule.extract(&env)
		if parts == nil {
			continue
		}
		for _, p := range *parts {
			if p.InlineData == nil || !strings.HasPrefix(p.InlineData.MimeType, "audio/") {
				continue
			}
			out = append(out, AudioFragment{
				MIMEType: p.InlineData.MimeType,
				Data:     p.InlineData.Data,
			})
		}
		break
	}

	for _, tc := range env.ToolCalls {
		for _, fc := range tc.FunctionCalls {
			if fc.Name != ToolName {
				continue
			}
			var args ToolCallArgs
			if len(fc.Args) > 0 {
				if err := json.Unmarshal(fc.Args, &args); err != nil {
					log.Printf("Ignoring %s call with bad args: %v", fc.Name, err)
					continue
				}
			}
			out = append(out, ToolCall{Name: fc.Name, Args: args})
		}
	}

	if len(out) == 0 {
		return []Inbound{Unrecognized{}}, nil
	}
	return out, nil
}
