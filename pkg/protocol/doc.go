// Package protocol defines the immutable wire types of the Model Context
// Protocol: the JSON-RPC 2.0 envelope, capability negotiation structures,
// and the tool/prompt/resource/sampling/roots schema.
//
// # Package organization
//
//   - jsonrpc.go: the JSON-RPC 2.0 envelope (Request/Response/Notification)
//     and message-classification helpers used by the dispatch algorithm.
//   - mcp.go: method-name constants, capability negotiation types,
//     lifecycle request/response shapes.
//   - content.go: the Content tagged union ({text, image, resource}) and
//     ModelPreferences.
//   - tools.go, resources.go, prompts.go, sampling.go: the per-feature
//     descriptor and request/result types.
//
// # Message flow
//
//  1. Client sends initialize; server replies with its capabilities.
//  2. Client sends notifications/initialized.
//  3. Client and server exchange requests/notifications gated by the
//     capabilities each advertised.
//  4. Either peer calls close(); pending requests complete with
//     SessionClosed.
package protocol
