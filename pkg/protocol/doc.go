// ABOUTME: Protocol package for the assistant channel
// ABOUTME: Defines outbound messages and decodes inbound server messages
// Package protocol implements the JSON side of the assistant channel.
//
// Outbound audio is sent as raw binary frames and has no message type here.
// Camera frames and typed prompts are JSON:
//
//	{"type":"image","data":"<base64>","mimeType":"image/jpeg"}
//	{"type":"text","text":"..."}
//
// Inbound messages may carry synthesized speech under
// serverContent.modelTurn.parts or content.parts, and update_ui tool calls
// under toolCalls[].functionCalls[].
package protocol
