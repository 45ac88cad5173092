// Package client implements the MCP client feature layer (spec §4.4): the
// request/notification vocabulary built on top of pkg/session's symmetric
// JSON-RPC engine, plus the handlers for the two requests a server is
// allowed to send a client (sampling/createMessage, roots/list).
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	mcperrors "github.com/mcpkit/go-mcp/pkg/errors"
	"github.com/mcpkit/go-mcp/pkg/logging"
	"github.com/mcpkit/go-mcp/pkg/observability"
	"github.com/mcpkit/go-mcp/pkg/pagination"
	"github.com/mcpkit/go-mcp/pkg/protocol"
	"github.com/mcpkit/go-mcp/pkg/session"
	"github.com/mcpkit/go-mcp/pkg/transport"
)

// SamplingHandler answers a server-initiated sampling/createMessage
// request. A client that registers one is advertising the sampling
// capability during initialize.
type SamplingHandler func(ctx context.Context, params *protocol.CreateMessageParams) (*protocol.CreateMessageResult, error)

// ToolsChangedListener is invoked on notifications/tools/list_changed.
type ToolsChangedListener func()

// ResourcesChangedListener is invoked on notifications/resources/list_changed.
type ResourcesChangedListener func()

// PromptsChangedListener is invoked on notifications/prompts/list_changed.
type PromptsChangedListener func()

// ResourceUpdatedListener is invoked on notifications/resources/updated.
type ResourceUpdatedListener func(uri string)

// LogMessageListener is invoked on notifications/logging/message.
type LogMessageListener func(params protocol.LogMessageParams)

type clientConfig struct {
	name            string
	version         string
	capabilities    protocol.ClientCapabilities
	samplingHandler SamplingHandler
	roots           []protocol.Root
	sessionOpts     []session.Option
}

// Option configures a Client at construction time.
type Option func(*clientConfig)

// WithName sets the client's advertised implementation name.
func WithName(name string) Option {
	return func(c *clientConfig) { c.name = name }
}

// WithVersion sets the client's advertised implementation version.
func WithVersion(version string) Option {
	return func(c *clientConfig) { c.version = version }
}

// WithSampling registers handler and advertises the sampling capability
// during initialize. Without this option, a server's sampling/createMessage
// request fails locally with "Client must be configured with sampling
// capabilities" before any wire traffic (spec §4.4).
func WithSampling(handler SamplingHandler) Option {
	return func(c *clientConfig) {
		c.capabilities.Sampling = &protocol.SamplingCapability{}
		c.samplingHandler = handler
	}
}

// WithRoots seeds the client's root list and advertises the roots
// capability. listChanged controls whether the client also emits
// notifications/roots/list_changed when the list mutates after
// initialize.
func WithRoots(listChanged bool, roots ...protocol.Root) Option {
	return func(c *clientConfig) {
		c.capabilities.Roots = &protocol.RootsCapability{ListChanged: listChanged}
		c.roots = append(c.roots, roots...)
	}
}

// WithLogger wires the session's structured logger.
func WithLogger(l logging.Logger) Option {
	return func(c *clientConfig) { c.sessionOpts = append(c.sessionOpts, session.WithLogger(l)) }
}

// WithMetrics wires the session's MetricsProvider.
func WithMetrics(m observability.MetricsProvider) Option {
	return func(c *clientConfig) { c.sessionOpts = append(c.sessionOpts, session.WithMetrics(m)) }
}

// WithTracer wires the session's TracingProvider.
func WithTracer(t *observability.TracingProvider) Option {
	return func(c *clientConfig) { c.sessionOpts = append(c.sessionOpts, session.WithTracer(t)) }
}

// Client is the client half of an MCP connection: capability negotiation,
// the tool/resource/prompt/roots/logging vocabulary, and the inbound
// handlers for server-initiated sampling and roots requests.
type Client struct {
	sess *session.Session

	info         protocol.Implementation
	capabilities protocol.ClientCapabilities

	mu                 sync.RWMutex
	serverInfo         protocol.Implementation
	serverCapabilities protocol.ServerCapabilities
	roots              []protocol.Root

	samplingHandler SamplingHandler

	toolsChangedListeners     []ToolsChangedListener
	resourcesChangedListeners []ResourcesChangedListener
	promptsChangedListeners   []PromptsChangedListener
	resourceUpdatedListeners  []ResourceUpdatedListener
	logMessageListeners       []LogMessageListener
}

// New creates a Client over t. The returned Client is in session.StateUninitialized
// until Initialize succeeds.
func New(t transport.Transport, opts ...Option) *Client {
	cfg := &clientConfig{name: "go-mcp-client", version: "1.0.0"}
	for _, opt := range opts {
		opt(cfg)
	}

	c := &Client{
		info:            protocol.Implementation{Name: cfg.name, Version: cfg.version},
		capabilities:    cfg.capabilities,
		roots:           cfg.roots,
		samplingHandler: cfg.samplingHandler,
	}
	c.sess = session.New(t, session.RoleClient, cfg.sessionOpts...)

	c.sess.RegisterRequestHandler(protocol.MethodSamplingCreateMsg, c.handleCreateMessage)
	c.sess.RegisterRequestHandler(protocol.MethodRootsList, c.handleRootsList)
	c.sess.RegisterRequestHandler(protocol.MethodPing, c.handlePing)

	c.sess.RegisterNotificationHandler(protocol.MethodToolsListChanged, c.handleToolsChanged)
	c.sess.RegisterNotificationHandler(protocol.MethodResourcesChanged, c.handleResourcesChanged)
	c.sess.RegisterNotificationHandler(protocol.MethodResourcesUpdated, c.handleResourceUpdated)
	c.sess.RegisterNotificationHandler(protocol.MethodPromptsChanged, c.handlePromptsChanged)
	c.sess.RegisterNotificationHandler(protocol.MethodLoggingMessage, c.handleLogMessage)

	return c
}

// Initialize performs the handshake: sends initialize, validates the
// protocol version, and records the server's identity and capabilities.
// A version mismatch closes the session before returning (spec §3).
func (c *Client) Initialize(ctx context.Context) error {
	params := &protocol.InitializeParams{
		ProtocolVersion: protocol.ProtocolVersion,
		Capabilities:    c.capabilities,
		ClientInfo:      c.info,
	}

	raw, err := c.sess.SendRequest(ctx, protocol.MethodInitialize, params)
	if err != nil {
		return fmt.Errorf("initialize failed: %w", err)
	}

	var result protocol.InitializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("failed to parse initialize result: %w", err)
	}

	if result.ProtocolVersion != protocol.ProtocolVersion {
		_ = c.sess.Close(ctx)
		return mcperrors.VersionMismatch(protocol.ProtocolVersion, result.ProtocolVersion)
	}

	c.mu.Lock()
	c.serverInfo = result.ServerInfo
	c.serverCapabilities = result.Capabilities
	c.mu.Unlock()

	return nil
}

// Close shuts down the session and its transport.
func (c *Client) Close(ctx context.Context) error {
	return c.sess.Close(ctx)
}

// State reports the session's lifecycle state.
func (c *Client) State() session.State { return c.sess.State() }

// ServerInfo returns the peer's identity, populated after Initialize.
func (c *Client) ServerInfo() protocol.Implementation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverInfo
}

// ServerCapabilities returns the peer's advertised capabilities, populated
// after Initialize.
func (c *Client) ServerCapabilities() protocol.ServerCapabilities {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverCapabilities
}

func (c *Client) requireCapability(ctx context.Context, method string, has bool) error {
	if has {
		return nil
	}
	c.sess.RecordCapabilityRejection(ctx, method)
	return mcperrors.CapabilityRequired(method)
}

// ListTools lists the server's tools, one page at a time.
func (c *Client) ListTools(ctx context.Context, params *protocol.PaginationParams) ([]protocol.Tool, *protocol.PaginationResult, error) {
	if err := c.requireCapability(ctx, protocol.MethodToolsList, c.ServerCapabilities().Tools != nil); err != nil {
		return nil, nil, err
	}
	if params == nil {
		params = &protocol.PaginationParams{}
	}
	raw, err := c.sess.SendRequest(ctx, protocol.MethodToolsList, &protocol.ListToolsParams{PaginationParams: *params})
	if err != nil {
		return nil, nil, err
	}
	var result protocol.ListToolsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, nil, fmt.Errorf("failed to parse tools/list result: %w", err)
	}
	return result.Tools, &result.PaginationResult, nil
}

// ListAllTools walks every page of tools/list and returns the full set.
func (c *Client) ListAllTools(ctx context.Context) ([]protocol.Tool, error) {
	var all []protocol.Tool
	collector := pagination.NewCollector()
	for {
		tools, result, err := c.ListTools(ctx, collector.NextParams())
		if err != nil {
			return nil, err
		}
		all = append(all, tools...)
		collector.Update(result, len(tools))
		if collector.Done() {
			break
		}
	}
	return all, nil
}

// CallTool invokes a tool. A handler-side failure is reported in-band via
// CallToolResult.IsError rather than as a returned error (spec §4.5).
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]interface{}) (*protocol.CallToolResult, error) {
	if err := c.requireCapability(ctx, protocol.MethodToolsCall, c.ServerCapabilities().Tools != nil); err != nil {
		return nil, err
	}
	raw, err := c.sess.SendRequest(ctx, protocol.MethodToolsCall, &protocol.CallToolParams{Name: name, Arguments: arguments})
	if err != nil {
		return nil, err
	}
	var result protocol.CallToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to parse tools/call result: %w", err)
	}
	return &result, nil
}

// ListResources lists the server's resources, one page at a time.
func (c *Client) ListResources(ctx context.Context, params *protocol.PaginationParams) ([]protocol.Resource, *protocol.PaginationResult, error) {
	if err := c.requireCapability(ctx, protocol.MethodResourcesList, c.ServerCapabilities().Resources != nil); err != nil {
		return nil, nil, err
	}
	if params == nil {
		params = &protocol.PaginationParams{}
	}
	raw, err := c.sess.SendRequest(ctx, protocol.MethodResourcesList, &protocol.ListResourcesParams{PaginationParams: *params})
	if err != nil {
		return nil, nil, err
	}
	var result protocol.ListResourcesResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, nil, fmt.Errorf("failed to parse resources/list result: %w", err)
	}
	return result.Resources, &result.PaginationResult, nil
}

// ListAllResources walks every page of resources/list.
func (c *Client) ListAllResources(ctx context.Context) ([]protocol.Resource, error) {
	var all []protocol.Resource
	collector := pagination.NewCollector()
	for {
		resources, result, err := c.ListResources(ctx, collector.NextParams())
		if err != nil {
			return nil, err
		}
		all = append(all, resources...)
		collector.Update(result, len(resources))
		if collector.Done() {
			break
		}
	}
	return all, nil
}

// ReadResource fetches a resource's contents by URI.
func (c *Client) ReadResource(ctx context.Context, uri string) ([]protocol.ResourceContents, error) {
	if err := c.requireCapability(ctx, protocol.MethodResourcesRead, c.ServerCapabilities().Resources != nil); err != nil {
		return nil, err
	}
	raw, err := c.sess.SendRequest(ctx, protocol.MethodResourcesRead, &protocol.ReadResourceParams{URI: uri})
	if err != nil {
		return nil, err
	}
	var result protocol.ReadResourceResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to parse resources/read result: %w", err)
	}
	return result.Contents, nil
}

// SubscribeResource subscribes to update notifications for a resource URI.
func (c *Client) SubscribeResource(ctx context.Context, uri string) error {
	caps := c.ServerCapabilities().Resources
	if err := c.requireCapability(ctx, protocol.MethodResourcesSub, caps != nil && caps.Subscribe); err != nil {
		return err
	}
	_, err := c.sess.SendRequest(ctx, protocol.MethodResourcesSub, &protocol.SubscribeResourceParams{URI: uri})
	return err
}

// ListPrompts lists the server's prompts, one page at a time.
func (c *Client) ListPrompts(ctx context.Context, params *protocol.PaginationParams) ([]protocol.Prompt, *protocol.PaginationResult, error) {
	if err := c.requireCapability(ctx, protocol.MethodPromptsList, c.ServerCapabilities().Prompts != nil); err != nil {
		return nil, nil, err
	}
	if params == nil {
		params = &protocol.PaginationParams{}
	}
	raw, err := c.sess.SendRequest(ctx, protocol.MethodPromptsList, &protocol.ListPromptsParams{PaginationParams: *params})
	if err != nil {
		return nil, nil, err
	}
	var result protocol.ListPromptsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, nil, fmt.Errorf("failed to parse prompts/list result: %w", err)
	}
	return result.Prompts, &result.PaginationResult, nil
}

// ListAllPrompts walks every page of prompts/list.
func (c *Client) ListAllPrompts(ctx context.Context) ([]protocol.Prompt, error) {
	var all []protocol.Prompt
	collector := pagination.NewCollector()
	for {
		prompts, result, err := c.ListPrompts(ctx, collector.NextParams())
		if err != nil {
			return nil, err
		}
		all = append(all, prompts...)
		collector.Update(result, len(prompts))
		if collector.Done() {
			break
		}
	}
	return all, nil
}

// GetPrompt renders a named prompt template with the given arguments.
func (c *Client) GetPrompt(ctx context.Context, name string, arguments map[string]interface{}) (*protocol.GetPromptResult, error) {
	if err := c.requireCapability(ctx, protocol.MethodPromptsGet, c.ServerCapabilities().Prompts != nil); err != nil {
		return nil, err
	}
	raw, err := c.sess.SendRequest(ctx, protocol.MethodPromptsGet, &protocol.GetPromptParams{Name: name, Arguments: arguments})
	if err != nil {
		return nil, err
	}
	var result protocol.GetPromptResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to parse prompts/get result: %w", err)
	}
	return &result, nil
}

// SetLoggingLevel asks the server to emit notifications/logging/message at
// level or above.
func (c *Client) SetLoggingLevel(ctx context.Context, level protocol.LoggingLevel) error {
	if err := c.requireCapability(ctx, protocol.MethodLoggingSetLevel, c.ServerCapabilities().Logging != nil); err != nil {
		return err
	}
	_, err := c.sess.SendRequest(ctx, protocol.MethodLoggingSetLevel, &protocol.SetLogLevelParams{Level: level})
	return err
}

// Ping round-trips an empty ping request.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.sess.SendRequest(ctx, protocol.MethodPing, &protocol.PingParams{})
	return err
}

// AddRoot appends a root to the client's advertised root list and, if the
// client advertised roots.listChanged, notifies the server once the
// session is operating.
func (c *Client) AddRoot(ctx context.Context, root protocol.Root) {
	c.mu.Lock()
	c.roots = append(c.roots, root)
	c.mu.Unlock()
	c.announceRootsChanged(ctx)
}

// RemoveRoot drops the root with the given URI, if present, and announces
// the change under the same conditions as AddRoot.
func (c *Client) RemoveRoot(ctx context.Context, uri string) {
	c.mu.Lock()
	filtered := c.roots[:0]
	for _, r := range c.roots {
		if r.URI != uri {
			filtered = append(filtered, r)
		}
	}
	c.roots = filtered
	c.mu.Unlock()
	c.announceRootsChanged(ctx)
}

func (c *Client) announceRootsChanged(ctx context.Context) {
	if c.capabilities.Roots == nil || !c.capabilities.Roots.ListChanged {
		return
	}
	if c.sess.State() != session.StateOperating {
		return
	}
	_ = c.sess.SendNotification(ctx, protocol.MethodRootsListChanged, nil)
}

// OnToolsChanged registers a listener for notifications/tools/list_changed.
func (c *Client) OnToolsChanged(l ToolsChangedListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toolsChangedListeners = append(c.toolsChangedListeners, l)
}

// OnResourcesChanged registers a listener for notifications/resources/list_changed.
func (c *Client) OnResourcesChanged(l ResourcesChangedListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resourcesChangedListeners = append(c.resourcesChangedListeners, l)
}

// OnPromptsChanged registers a listener for notifications/prompts/list_changed.
func (c *Client) OnPromptsChanged(l PromptsChangedListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.promptsChangedListeners = append(c.promptsChangedListeners, l)
}

// OnResourceUpdated registers a listener for notifications/resources/updated.
func (c *Client) OnResourceUpdated(l ResourceUpdatedListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resourceUpdatedListeners = append(c.resourceUpdatedListeners, l)
}

// OnLogMessage registers a listener for notifications/logging/message.
func (c *Client) OnLogMessage(l LogMessageListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logMessageListeners = append(c.logMessageListeners, l)
}

func (c *Client) handleCreateMessage(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if c.samplingHandler == nil {
		return nil, mcperrors.NewError(
			mcperrors.CodeInvalidCapability,
			"Client must be configured with sampling capabilities",
			mcperrors.CategoryValidation,
			mcperrors.SeverityError,
		)
	}
	var p protocol.CreateMessageParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid sampling/createMessage params: %w", err)
	}
	return c.samplingHandler(ctx, &p)
}

func (c *Client) handleRootsList(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if c.capabilities.Roots == nil {
		return nil, mcperrors.NewError(
			mcperrors.CodeInvalidCapability,
			"Roots not supported",
			mcperrors.CategoryValidation,
			mcperrors.SeverityError,
		)
	}
	c.mu.RLock()
	roots := append([]protocol.Root(nil), c.roots...)
	c.mu.RUnlock()
	return &protocol.ListRootsResult{Roots: roots}, nil
}

func (c *Client) handlePing(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return &protocol.PingResult{}, nil
}

func (c *Client) handleToolsChanged(ctx context.Context, params json.RawMessage) error {
	c.mu.RLock()
	listeners := append([]ToolsChangedListener(nil), c.toolsChangedListeners...)
	c.mu.RUnlock()
	for _, l := range listeners {
		invokeSafely(func() { l() })
	}
	return nil
}

func (c *Client) handleResourcesChanged(ctx context.Context, params json.RawMessage) error {
	c.mu.RLock()
	listeners := append([]ResourcesChangedListener(nil), c.resourcesChangedListeners...)
	c.mu.RUnlock()
	for _, l := range listeners {
		invokeSafely(func() { l() })
	}
	return nil
}

func (c *Client) handlePromptsChanged(ctx context.Context, params json.RawMessage) error {
	c.mu.RLock()
	listeners := append([]PromptsChangedListener(nil), c.promptsChangedListeners...)
	c.mu.RUnlock()
	for _, l := range listeners {
		invokeSafely(func() { l() })
	}
	return nil
}

func (c *Client) handleResourceUpdated(ctx context.Context, params json.RawMessage) error {
	var p protocol.ResourceUpdatedParams
	if err := json.Unmarshal(params, &p); err != nil {
		return fmt.Errorf("invalid resources/updated params: %w", err)
	}
	c.mu.RLock()
	listeners := append([]ResourceUpdatedListener(nil), c.resourceUpdatedListeners...)
	c.mu.RUnlock()
	for _, l := range listeners {
		uri := p.URI
		invokeSafely(func() { l(uri) })
	}
	return nil
}

func (c *Client) handleLogMessage(ctx context.Context, params json.RawMessage) error {
	var p protocol.LogMessageParams
	if err := json.Unmarshal(params, &p); err != nil {
		return fmt.Errorf("invalid logging/message params: %w", err)
	}
	c.mu.RLock()
	listeners := append([]LogMessageListener(nil), c.logMessageListeners...)
	c.mu.RUnlock()
	for _, l := range listeners {
		msg := p
		invokeSafely(func() { l(msg) })
	}
	return nil
}

// invokeSafely runs fn, recovering a panic so one broken listener cannot
// stop the rest of a notification's listener list from running.
func invokeSafely(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}
