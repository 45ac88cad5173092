// Package server implements the MCP server feature layer (spec §4.5):
// tool/resource/prompt registries built on top of pkg/session, automatic
// list_changed notifications, and the two requests a server is allowed to
// send a client (sampling/createMessage, roots/list).
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	mcperrors "github.com/mcpkit/go-mcp/pkg/errors"
	"github.com/mcpkit/go-mcp/pkg/logging"
	"github.com/mcpkit/go-mcp/pkg/observability"
	"github.com/mcpkit/go-mcp/pkg/pagination"
	"github.com/mcpkit/go-mcp/pkg/protocol"
	"github.com/mcpkit/go-mcp/pkg/session"
	"github.com/mcpkit/go-mcp/pkg/transport"
)

// ToolHandler invokes a registered tool. A returned error is converted to
// an in-band CallToolResult{IsError:true} rather than a JSON-RPC error
// (spec §4.5, §7 HandlerError).
type ToolHandler func(ctx context.Context, arguments map[string]interface{}) (*protocol.CallToolResult, error)

// ResourceReader serves `resources/read` for a registered resource URI.
type ResourceReader func(ctx context.Context, uri string) ([]protocol.ResourceContents, error)

// PromptHandler renders a registered prompt template.
type PromptHandler func(ctx context.Context, arguments map[string]interface{}) (*protocol.GetPromptResult, error)

// RootsChangedListener is invoked after the server observes
// notifications/roots/list_changed and re-fetches the client's roots via
// roots/list. A failed re-fetch (e.g. the client doesn't support roots)
// is logged and the listener is not invoked.
type RootsChangedListener func(roots []protocol.Root)

type serverConfig struct {
	name         string
	version      string
	instructions string
	capabilities protocol.ServerCapabilities
	sessionOpts  []session.Option
}

// Option configures a Server at construction time.
type Option func(*serverConfig)

// WithName sets the server's advertised implementation name.
func WithName(name string) Option {
	return func(c *serverConfig) { c.name = name }
}

// WithVersion sets the server's advertised implementation version.
func WithVersion(version string) Option {
	return func(c *serverConfig) { c.version = version }
}

// WithInstructions sets the free-form instructions string returned in
// InitializeResult.
func WithInstructions(instructions string) Option {
	return func(c *serverConfig) { c.instructions = instructions }
}

// WithTools advertises the tools capability. listChanged controls whether
// the server emits notifications/tools/list_changed on registry mutation.
func WithTools(listChanged bool) Option {
	return func(c *serverConfig) { c.capabilities.Tools = &protocol.ToolsCapability{ListChanged: listChanged} }
}

// WithPrompts advertises the prompts capability, with the same
// listChanged semantics as WithTools.
func WithPrompts(listChanged bool) Option {
	return func(c *serverConfig) { c.capabilities.Prompts = &protocol.PromptsCapability{ListChanged: listChanged} }
}

// WithResources advertises the resources capability. subscribe controls
// whether resources/subscribe is accepted.
func WithResources(listChanged, subscribe bool) Option {
	return func(c *serverConfig) {
		c.capabilities.Resources = &protocol.ResourcesCapability{ListChanged: listChanged, Subscribe: subscribe}
	}
}

// WithLogging advertises the logging capability.
func WithLogging() Option {
	return func(c *serverConfig) { c.capabilities.Logging = &protocol.LoggingCapability{} }
}

// WithLogger wires the session's structured logger.
func WithLogger(l logging.Logger) Option {
	return func(c *serverConfig) { c.sessionOpts = append(c.sessionOpts, session.WithLogger(l)) }
}

// WithMetrics wires the session's MetricsProvider.
func WithMetrics(m observability.MetricsProvider) Option {
	return func(c *serverConfig) { c.sessionOpts = append(c.sessionOpts, session.WithMetrics(m)) }
}

// WithTracer wires the session's TracingProvider.
func WithTracer(t *observability.TracingProvider) Option {
	return func(c *serverConfig) { c.sessionOpts = append(c.sessionOpts, session.WithTracer(t)) }
}

type toolEntry struct {
	tool    protocol.Tool
	handler ToolHandler
}

type resourceEntry struct {
	resource protocol.Resource
	reader   ResourceReader
}

type promptEntry struct {
	prompt  protocol.Prompt
	handler PromptHandler
}

// Server is the server half of an MCP connection: the tool/resource/prompt
// registries, their list_changed notifications, and the inbound handlers
// for the client-originated request vocabulary.
type Server struct {
	sess *session.Session

	info         protocol.Implementation
	capabilities protocol.ServerCapabilities
	instructions string

	mu                 sync.RWMutex
	clientInfo         protocol.Implementation
	clientCapabilities protocol.ClientCapabilities

	tools       map[string]*toolEntry
	toolOrder   []string
	resources   map[string]*resourceEntry
	resOrder    []string
	prompts     map[string]*promptEntry
	promptOrder []string

	subscribedURIs map[string]struct{}

	rootsChangedListeners []RootsChangedListener
}

// New creates a Server over t. Registries are empty until Add* is called.
func New(t transport.Transport, opts ...Option) *Server {
	cfg := &serverConfig{name: "go-mcp-server", version: "1.0.0"}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Server{
		info:           protocol.Implementation{Name: cfg.name, Version: cfg.version},
		capabilities:   cfg.capabilities,
		instructions:   cfg.instructions,
		tools:          make(map[string]*toolEntry),
		resources:      make(map[string]*resourceEntry),
		prompts:        make(map[string]*promptEntry),
		subscribedURIs: make(map[string]struct{}),
	}
	s.sess = session.New(t, session.RoleServer, cfg.sessionOpts...)

	s.sess.RegisterRequestHandler(protocol.MethodInitialize, s.handleInitialize)
	s.sess.RegisterRequestHandler(protocol.MethodPing, s.handlePing)
	s.sess.RegisterRequestHandler(protocol.MethodToolsList, s.handleToolsList)
	s.sess.RegisterRequestHandler(protocol.MethodToolsCall, s.handleToolsCall)
	s.sess.RegisterRequestHandler(protocol.MethodResourcesList, s.handleResourcesList)
	s.sess.RegisterRequestHandler(protocol.MethodResourcesRead, s.handleResourcesRead)
	s.sess.RegisterRequestHandler(protocol.MethodResourcesSub, s.handleResourcesSubscribe)
	s.sess.RegisterRequestHandler(protocol.MethodPromptsList, s.handlePromptsList)
	s.sess.RegisterRequestHandler(protocol.MethodPromptsGet, s.handlePromptsGet)
	s.sess.RegisterRequestHandler(protocol.MethodLoggingSetLevel, s.handleSetLoggingLevel)

	s.sess.RegisterNotificationHandler(protocol.MethodRootsListChanged, s.handleRootsChanged)

	s.sess.GateUntilInitialized(protocol.MethodSamplingCreateMsg)
	s.sess.GateUntilInitialized(protocol.MethodRootsList)

	return s
}

// Close shuts down the session and its transport.
func (s *Server) Close(ctx context.Context) error {
	return s.sess.Close(ctx)
}

// State reports the session's lifecycle state.
func (s *Server) State() session.State { return s.sess.State() }

// ClientInfo returns the peer's identity, populated once initialize has
// been received.
func (s *Server) ClientInfo() protocol.Implementation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientInfo
}

// ClientCapabilities returns the peer's advertised capabilities, populated
// once initialize has been received.
func (s *Server) ClientCapabilities() protocol.ClientCapabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientCapabilities
}

func (s *Server) handleInitialize(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.InitializeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid initialize params: %w", err)
	}

	s.mu.Lock()
	s.clientInfo = p.ClientInfo
	s.clientCapabilities = p.Capabilities
	s.mu.Unlock()

	return &protocol.InitializeResult{
		ProtocolVersion: protocol.ProtocolVersion,
		Capabilities:    s.capabilities,
		ServerInfo:      s.info,
		Instructions:    s.instructions,
	}, nil
}

func (s *Server) handlePing(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return &protocol.PingResult{}, nil
}

// --- Tools -------------------------------------------------------------

// AddTool registers a tool. inputSchema, if non-empty, must be a
// well-formed JSON schema document; it is validated at registration time.
// Mutation schedules notifications/tools/list_changed when the server
// advertised Tools.ListChanged and the session is Operating.
func (s *Server) AddTool(tool protocol.Tool, handler ToolHandler) error {
	if len(tool.InputSchema) > 0 {
		if _, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(tool.InputSchema)); err != nil {
			return fmt.Errorf("tool %q has an invalid input schema: %w", tool.Name, err)
		}
	}

	s.mu.Lock()
	if _, exists := s.tools[tool.Name]; !exists {
		s.toolOrder = append(s.toolOrder, tool.Name)
	}
	s.tools[tool.Name] = &toolEntry{tool: tool, handler: handler}
	s.mu.Unlock()

	s.announceToolsChanged(context.Background())
	return nil
}

// RemoveTool unregisters a tool by name.
func (s *Server) RemoveTool(name string) {
	s.mu.Lock()
	if _, exists := s.tools[name]; exists {
		delete(s.tools, name)
		s.toolOrder = removeString(s.toolOrder, name)
	}
	s.mu.Unlock()
	s.announceToolsChanged(context.Background())
}

func (s *Server) announceToolsChanged(ctx context.Context) {
	if s.capabilities.Tools == nil || !s.capabilities.Tools.ListChanged {
		return
	}
	if s.sess.State() != session.StateOperating {
		return
	}
	_ = s.sess.SendNotification(ctx, protocol.MethodToolsListChanged, nil)
}

func (s *Server) handleToolsList(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.ListToolsParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("invalid tools/list params: %w", err)
		}
	}
	if err := pagination.ValidateParams(&p.PaginationParams); err != nil {
		return nil, mcperrors.InvalidPaginationLimit(p.PaginationParams.Limit, pagination.MaxLimit)
	}

	s.mu.RLock()
	all := make([]protocol.Tool, 0, len(s.toolOrder))
	for _, name := range s.toolOrder {
		all = append(all, s.tools[name].tool)
	}
	s.mu.RUnlock()

	start, end, next, err := pagination.Window(len(all), &p.PaginationParams)
	if err != nil {
		return nil, mcperrors.InvalidPaginationCursor(p.PaginationParams.Cursor, err.Error())
	}

	return &protocol.ListToolsResult{Tools: all[start:end], PaginationResult: protocol.PaginationResult{NextCursor: next}}, nil
}

func (s *Server) handleToolsCall(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.CallToolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid tools/call params: %w", err)
	}

	if p.Name == "" {
		return nil, mcperrors.MissingParameter("name")
	}

	s.mu.RLock()
	entry, ok := s.tools[p.Name]
	s.mu.RUnlock()
	if !ok {
		return nil, mcperrors.InvalidParameter("name", p.Name, "a registered tool name")
	}

	result, err := entry.handler(ctx, p.Arguments)
	if err != nil {
		r := protocol.ErrorResult(err.Error())
		return &r, nil
	}
	return result, nil
}

// --- Resources -----------------------------------------------------------

// AddResource registers a readable resource. Mutation schedules
// notifications/resources/list_changed under the same conditions as
// AddTool.
func (s *Server) AddResource(resource protocol.Resource, reader ResourceReader) {
	s.mu.Lock()
	if _, exists := s.resources[resource.URI]; !exists {
		s.resOrder = append(s.resOrder, resource.URI)
	}
	s.resources[resource.URI] = &resourceEntry{resource: resource, reader: reader}
	s.mu.Unlock()
	s.announceResourcesChanged(context.Background())
}

// RemoveResource unregisters a resource by URI.
func (s *Server) RemoveResource(uri string) {
	s.mu.Lock()
	if _, exists := s.resources[uri]; exists {
		delete(s.resources, uri)
		s.resOrder = removeString(s.resOrder, uri)
	}
	s.mu.Unlock()
	s.announceResourcesChanged(context.Background())
}

func (s *Server) announceResourcesChanged(ctx context.Context) {
	if s.capabilities.Resources == nil || !s.capabilities.Resources.ListChanged {
		return
	}
	if s.sess.State() != session.StateOperating {
		return
	}
	_ = s.sess.SendNotification(ctx, protocol.MethodResourcesChanged, nil)
}

// NotifyResourceUpdated tells a subscribed client that uri's contents
// changed. A no-op if the client never subscribed to uri.
func (s *Server) NotifyResourceUpdated(ctx context.Context, uri string) error {
	s.mu.RLock()
	_, subscribed := s.subscribedURIs[uri]
	s.mu.RUnlock()
	if !subscribed {
		return nil
	}
	if s.sess.State() != session.StateOperating {
		return nil
	}
	return s.sess.SendNotification(ctx, protocol.MethodResourcesUpdated, &protocol.ResourceUpdatedParams{URI: uri})
}

func (s *Server) handleResourcesList(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.ListResourcesParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("invalid resources/list params: %w", err)
		}
	}
	if err := pagination.ValidateParams(&p.PaginationParams); err != nil {
		return nil, mcperrors.InvalidPaginationLimit(p.PaginationParams.Limit, pagination.MaxLimit)
	}

	s.mu.RLock()
	all := make([]protocol.Resource, 0, len(s.resOrder))
	for _, uri := range s.resOrder {
		all = append(all, s.resources[uri].resource)
	}
	s.mu.RUnlock()

	start, end, next, err := pagination.Window(len(all), &p.PaginationParams)
	if err != nil {
		return nil, mcperrors.InvalidPaginationCursor(p.PaginationParams.Cursor, err.Error())
	}

	return &protocol.ListResourcesResult{Resources: all[start:end], PaginationResult: protocol.PaginationResult{NextCursor: next}}, nil
}

func (s *Server) handleResourcesRead(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.ReadResourceParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid resources/read params: %w", err)
	}
	if p.URI == "" {
		return nil, mcperrors.MissingParameter("uri")
	}

	s.mu.RLock()
	entry, ok := s.resources[p.URI]
	s.mu.RUnlock()
	if !ok {
		return nil, mcperrors.ResourceNotFoundByURI(p.URI)
	}

	contents, err := entry.reader(ctx, p.URI)
	if err != nil {
		return nil, err
	}
	return &protocol.ReadResourceResult{Contents: contents}, nil
}

func (s *Server) handleResourcesSubscribe(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if s.capabilities.Resources == nil || !s.capabilities.Resources.Subscribe {
		return nil, mcperrors.NewError(mcperrors.CodeInvalidCapability, "Resource subscriptions not supported", mcperrors.CategoryValidation, mcperrors.SeverityError)
	}
	var p protocol.SubscribeResourceParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid resources/subscribe params: %w", err)
	}

	s.mu.RLock()
	_, ok := s.resources[p.URI]
	s.mu.RUnlock()
	if !ok {
		return nil, mcperrors.ResourceNotFoundByURI(p.URI)
	}

	s.mu.Lock()
	s.subscribedURIs[p.URI] = struct{}{}
	s.mu.Unlock()

	return &protocol.SubscribeResourceResult{}, nil
}

// --- Prompts -------------------------------------------------------------

// AddPrompt registers a prompt template. Mutation schedules
// notifications/prompts/list_changed under the same conditions as AddTool.
func (s *Server) AddPrompt(prompt protocol.Prompt, handler PromptHandler) {
	s.mu.Lock()
	if _, exists := s.prompts[prompt.Name]; !exists {
		s.promptOrder = append(s.promptOrder, prompt.Name)
	}
	s.prompts[prompt.Name] = &promptEntry{prompt: prompt, handler: handler}
	s.mu.Unlock()
	s.announcePromptsChanged(context.Background())
}

// RemovePrompt unregisters a prompt by name.
func (s *Server) RemovePrompt(name string) {
	s.mu.Lock()
	if _, exists := s.prompts[name]; exists {
		delete(s.prompts, name)
		s.promptOrder = removeString(s.promptOrder, name)
	}
	s.mu.Unlock()
	s.announcePromptsChanged(context.Background())
}

func (s *Server) announcePromptsChanged(ctx context.Context) {
	if s.capabilities.Prompts == nil || !s.capabilities.Prompts.ListChanged {
		return
	}
	if s.sess.State() != session.StateOperating {
		return
	}
	_ = s.sess.SendNotification(ctx, protocol.MethodPromptsChanged, nil)
}

func (s *Server) handlePromptsList(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.ListPromptsParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("invalid prompts/list params: %w", err)
		}
	}
	if err := pagination.ValidateParams(&p.PaginationParams); err != nil {
		return nil, mcperrors.InvalidPaginationLimit(p.PaginationParams.Limit, pagination.MaxLimit)
	}

	s.mu.RLock()
	all := make([]protocol.Prompt, 0, len(s.promptOrder))
	for _, name := range s.promptOrder {
		all = append(all, s.prompts[name].prompt)
	}
	s.mu.RUnlock()

	start, end, next, err := pagination.Window(len(all), &p.PaginationParams)
	if err != nil {
		return nil, mcperrors.InvalidPaginationCursor(p.PaginationParams.Cursor, err.Error())
	}

	return &protocol.ListPromptsResult{Prompts: all[start:end], PaginationResult: protocol.PaginationResult{NextCursor: next}}, nil
}

func (s *Server) handlePromptsGet(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.GetPromptParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid prompts/get params: %w", err)
	}

	if p.Name == "" {
		return nil, mcperrors.MissingParameter("name")
	}

	s.mu.RLock()
	entry, ok := s.prompts[p.Name]
	s.mu.RUnlock()
	if !ok {
		return nil, mcperrors.InvalidParameter("name", p.Name, "a registered prompt name")
	}

	return entry.handler(ctx, p.Arguments)
}

// --- Logging ---------------------------------------------------------------

func (s *Server) handleSetLoggingLevel(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if s.capabilities.Logging == nil {
		return nil, mcperrors.NewError(mcperrors.CodeInvalidCapability, "Logging not supported", mcperrors.CategoryValidation, mcperrors.SeverityError)
	}
	var p protocol.SetLogLevelParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid logging/setLevel params: %w", err)
	}
	return &protocol.SetLogLevelResult{}, nil
}

// SendLogMessage emits notifications/logging/message to the client.
func (s *Server) SendLogMessage(ctx context.Context, level protocol.LoggingLevel, logger string, data interface{}) error {
	if s.capabilities.Logging == nil {
		return mcperrors.NewError(mcperrors.CodeInvalidCapability, "Logging not supported", mcperrors.CategoryValidation, mcperrors.SeverityError)
	}
	return s.sess.SendNotification(ctx, protocol.MethodLoggingMessage, &protocol.LogMessageParams{Level: level, Logger: logger, Data: data})
}

// --- Server-initiated requests (sampling, roots) ----------------------------

// CreateMessage asks the client to run its sampling handler. Gated on the
// client's advertised sampling capability and on the session having
// observed notifications/initialized (spec §4.5, §9 Open Question 1).
func (s *Server) CreateMessage(ctx context.Context, params *protocol.CreateMessageParams) (*protocol.CreateMessageResult, error) {
	s.mu.RLock()
	hasSampling := s.clientCapabilities.Sampling != nil
	s.mu.RUnlock()
	if !hasSampling {
		s.sess.RecordCapabilityRejection(ctx, protocol.MethodSamplingCreateMsg)
		return nil, mcperrors.NewError(
			mcperrors.CodeInvalidCapability,
			"Client must be configured with sampling capabilities",
			mcperrors.CategoryValidation,
			mcperrors.SeverityError,
		)
	}

	raw, err := s.sess.SendRequest(ctx, protocol.MethodSamplingCreateMsg, params)
	if err != nil {
		return nil, err
	}
	var result protocol.CreateMessageResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to parse sampling/createMessage result: %w", err)
	}
	return &result, nil
}

// ListRoots asks the client for its current root list. Gated on the
// client's advertised roots capability.
func (s *Server) ListRoots(ctx context.Context) ([]protocol.Root, error) {
	s.mu.RLock()
	hasRoots := s.clientCapabilities.Roots != nil
	s.mu.RUnlock()
	if !hasRoots {
		s.sess.RecordCapabilityRejection(ctx, protocol.MethodRootsList)
		return nil, mcperrors.NewError(
			mcperrors.CodeInvalidCapability,
			"Roots not supported",
			mcperrors.CategoryValidation,
			mcperrors.SeverityError,
		)
	}

	raw, err := s.sess.SendRequest(ctx, protocol.MethodRootsList, &protocol.ListRootsParams{})
	if err != nil {
		return nil, err
	}
	var result protocol.ListRootsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to parse roots/list result: %w", err)
	}
	return result.Roots, nil
}

// OnRootsChanged registers a listener invoked whenever the client announces
// notifications/roots/list_changed and the server's re-fetch via roots/list
// succeeds.
func (s *Server) OnRootsChanged(l RootsChangedListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rootsChangedListeners = append(s.rootsChangedListeners, l)
}

func (s *Server) handleRootsChanged(ctx context.Context, params json.RawMessage) error {
	// The roots/list response is delivered by the same dispatch loop that is
	// running this notification handler, so the re-fetch runs on its own
	// goroutine.
	go func() {
		roots, err := s.ListRoots(ctx)
		if err != nil {
			s.sess.Logger().Warn("roots re-fetch failed", logging.ErrorField(err))
			return
		}

		s.mu.RLock()
		listeners := append([]RootsChangedListener(nil), s.rootsChangedListeners...)
		s.mu.RUnlock()
		for _, l := range listeners {
			invokeSafely(func() { l(roots) })
		}
	}()
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

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
