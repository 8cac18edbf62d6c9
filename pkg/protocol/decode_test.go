// ABOUTME: Tests for inbound message decoding
// ABOUTME: Covers audio path precedence, tool call ordering and ignored shapes
package protocol

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Inbound
		wantErr bool
	}{
		{
			name:  "model turn audio",
			input: `{"serverContent":{"modelTurn":{"parts":[{"inlineData":{"mimeType":"audio/pcm;rate=24000","data":"AAA="}}]}}}`,
			want:  []Inbound{AudioFragment{MIMEType: "audio/pcm;rate=24000", Data: "AAA="}},
		},
		{
			name:  "content audio",
			input: `{"content":{"parts":[{"inlineData":{"mimeType":"audio/pcm","data":"AQI="}}]}}`,
			want:  []Inbound{AudioFragment{MIMEType: "audio/pcm", Data: "AQI="}},
		},
		{
			name: "model turn wins over content",
			input: `{"serverContent":{"modelTurn":{"parts":[{"inlineData":{"mimeType":"audio/pcm","data":"A"}}]}},
				"content":{"parts":[{"inlineData":{"mimeType":"audio/pcm","data":"B"}}]}}`,
			want: []Inbound{AudioFragment{MIMEType: "audio/pcm", Data: "A"}},
		},
		{
			name: "empty model turn still wins",
			input: `{"serverContent":{"modelTurn":{"parts":[]}},
				"content":{"parts":[{"inlineData":{"mimeType":"audio/pcm","data":"B"}}]}}`,
			want: []Inbound{Unrecognized{}},
		},
		{
			name:  "non audio parts skipped",
			input: `{"serverContent":{"modelTurn":{"parts":[{"text":"hi"},{"inlineData":{"mimeType":"image/png","data":"x"}},{"inlineData":{"mimeType":"audio/pcm","data":"y"}}]}}}`,
			want:  []Inbound{AudioFragment{MIMEType: "audio/pcm", Data: "y"}},
		},
		{
			name: "tool calls in order",
			input: `{"toolCalls":[{"functionCalls":[
				{"name":"update_ui","args":{"action":"FILTER","target":"red"}},
				{"name":"other","args":{}},
				{"name":"update_ui","args":{"action":"HIGHLIGHT","target":"p1","details":"because"}}]}]}`,
			want: []Inbound{
				ToolCall{Name: ToolName, Args: ToolCallArgs{Action: ActionFilter, Target: "red"}},
				ToolCall{Name: ToolName, Args: ToolCallArgs{Action: ActionHighlight, Target: "p1", Details: "because"}},
			},
		},
		{
			name: "audio before tool calls",
			input: `{"toolCalls":[{"functionCalls":[{"name":"update_ui","args":{"action":"NAVIGATE","target":"home"}}]}],
				"serverContent":{"modelTurn":{"parts":[{"inlineData":{"mimeType":"audio/pcm","data":"z"}}]}}}`,
			want: []Inbound{
				AudioFragment{MIMEType: "audio/pcm", Data: "z"},
				ToolCall{Name: ToolName, Args: ToolCallArgs{Action: ActionNavigate, Target: "home"}},
			},
		},
		{
			name:  "unrelated shape",
			input: `{"setupComplete":{}}`,
			want:  []Inbound{Unrecognized{}},
		},
		{
			name:    "invalid json",
			input:   `{not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeBadArgsSkipsCall(t *testing.T) {
	input := `{"toolCalls":[{"functionCalls":[{"name":"update_ui","args":"oops"},{"name":"update_ui","args":{"action":"NAVIGATE","target":"checkout"}}]}]}`
	got, err := Decode([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if tc, ok := got[0].(ToolCall); !ok || tc.Args.Target != "checkout" {
		t.Errorf("unexpected item %#v", got[0])
	}
}

func TestOutboundMessages(t *testing.T) {
	tests := []struct {
		name string
		msg  interface{}
		want string
	}{
		{
			name: "image",
			msg:  NewImage("abc", "image/jpeg"),
			want: `{"type":"image","data":"abc","mimeType":"image/jpeg"}`,
		},
		{
			name: "text",
			msg:  NewText("show me red shoes"),
			want: `{"type":"text","text":"show me red shoes"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.msg)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("got %s, want %s", data, tt.want)
			}
		})
	}
}
