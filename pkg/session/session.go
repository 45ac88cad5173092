package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	mcperrors "github.com/mcpkit/go-mcp/pkg/errors"
	"github.com/mcpkit/go-mcp/pkg/logging"
	"github.com/mcpkit/go-mcp/pkg/observability"
	"github.com/mcpkit/go-mcp/pkg/protocol"
	"github.com/mcpkit/go-mcp/pkg/transport"
)

// State is a node of the lifecycle state machine (spec §4.3).
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateOperating
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateOperating:
		return "operating"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Role distinguishes which half of the handshake a Session plays, since
// only the client may send `initialize` and only the server may accept it.
type Role int

const (
	RoleClient Role = iota
	RoleServer
)

// RequestHandler maps inbound request params to a result, or an error.
// Returning an MCPError produces a structured JSON-RPC error response
// (spec §7); any other error is wrapped as InternalError.
type RequestHandler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// NotificationHandler consumes inbound notification params; its return
// value is ignored by the caller beyond logging.
type NotificationHandler func(ctx context.Context, params json.RawMessage) error

// Config holds Session construction options, following the option-pattern
// closures the rest of this module uses for Client/Server/Transport.
type Config struct {
	Logger            logging.Logger
	Metrics           observability.MetricsProvider
	Tracer            *observability.TracingProvider
	CloseGracePeriod  time.Duration
	RequestTimeout    time.Duration
}

// Option configures a Session at construction time.
type Option func(*Config)

// WithLogger sets the structured logger every suspension point logs through.
func WithLogger(l logging.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithMetrics wires a MetricsProvider for request/notification/capability/
// panic instrumentation.
func WithMetrics(m observability.MetricsProvider) Option {
	return func(c *Config) { c.Metrics = m }
}

// WithTracer wires a TracingProvider; every sendRequest and inbound
// dispatch cycle is wrapped in a span.
func WithTracer(t *observability.TracingProvider) Option {
	return func(c *Config) { c.Tracer = t }
}

// WithCloseGracePeriod bounds how long Close waits for in-flight inbound
// messages to finish draining before forcing the transport closed.
func WithCloseGracePeriod(d time.Duration) Option {
	return func(c *Config) { c.CloseGracePeriod = d }
}

// WithDefaultRequestTimeout sets the deadline SendRequest applies to
// outbound requests whose caller context carries no deadline of its own.
func WithDefaultRequestTimeout(d time.Duration) Option {
	return func(c *Config) { c.RequestTimeout = d }
}

func defaultConfig() Config {
	return Config{
		Logger:           logging.New(io.Discard, nil),
		CloseGracePeriod: 2 * time.Second,
		RequestTimeout:   30 * time.Second,
	}
}

// Session is the symmetric JSON-RPC peer engine (spec §4.3). Both client
// and server feature layers instantiate one over their transport.
type Session struct {
	id   string
	role Role
	t    transport.Transport

	logger  logging.Logger
	metrics observability.MetricsProvider
	tracer  *observability.TracingProvider

	closeGrace     time.Duration
	requestTimeout time.Duration

	mu                   sync.Mutex
	state                State
	pending              map[interface{}]*pendingRequest
	requestHandlers      map[string]RequestHandler
	notificationHandlers map[string][]NotificationHandler
	gatedMethods         map[string]bool
	initializedObserved  bool

	nextID int64

	closeCh      chan struct{}
	closeOnce    sync.Once
	dispatchDone chan struct{}

	baseCtx    context.Context
	cancelBase context.CancelFunc
	handlersWG sync.WaitGroup
}

// New creates a Session bound to t and immediately starts draining its
// inbound stream. The caller must eventually call Close.
func New(t transport.Transport, role Role, opts ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())

	s := &Session{
		id:                   uuid.NewString(),
		role:                 role,
		t:                    t,
		logger:               cfg.Logger,
		metrics:              cfg.Metrics,
		tracer:               cfg.Tracer,
		closeGrace:           cfg.CloseGracePeriod,
		requestTimeout:       cfg.RequestTimeout,
		state:                StateUninitialized,
		pending:              make(map[interface{}]*pendingRequest),
		requestHandlers:      make(map[string]RequestHandler),
		notificationHandlers: make(map[string][]NotificationHandler),
		gatedMethods:         make(map[string]bool),
		closeCh:              make(chan struct{}),
		dispatchDone:         make(chan struct{}),
		baseCtx:              baseCtx,
		cancelBase:           cancelBase,
	}

	s.RegisterNotificationHandler(protocol.MethodInitialized, func(ctx context.Context, params json.RawMessage) error {
		s.mu.Lock()
		s.initializedObserved = true
		s.mu.Unlock()
		return nil
	})

	go s.dispatchLoop()
	return s
}

// ID is this session's opaque identifier, used for log correlation.
func (s *Session) ID() string { return s.id }

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Logger returns the configured logger, for feature layers that want to
// log through the same sink as the session.
func (s *Session) Logger() logging.Logger { return s.logger }

// RecordCapabilityRejection forwards to the configured MetricsProvider, if
// any. Feature layers call this when they refuse an operation locally for
// want of an advertised capability, before any wire traffic occurs (spec §8
// Invariant 3 / Testable Property 4).
func (s *Session) RecordCapabilityRejection(ctx context.Context, method string) {
	if s.metrics != nil {
		s.metrics.RecordCapabilityRejection(ctx, method)
	}
}

// GateUntilInitialized marks method as a server-originated request that
// must not be sent until the session has observed inbound
// notifications/initialized (spec §9 Open Question 1).
func (s *Session) GateUntilInitialized(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gatedMethods[method] = true
}

// RegisterRequestHandler installs the handler invoked for inbound requests
// of the given method. A later call for the same method replaces the
// handler.
func (s *Session) RegisterRequestHandler(method string, handler RequestHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestHandlers[method] = handler
}

// RegisterNotificationHandler appends handler to the list invoked for
// inbound notifications of the given method; all registered handlers run,
// in registration order, for every arrival.
func (s *Session) RegisterNotificationHandler(method string, handler NotificationHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notificationHandlers[method] = append(s.notificationHandlers[method], handler)
}

// SendRequest assigns a fresh id, installs a completion slot, emits the
// request, and blocks until the response arrives, the deadline expires, or
// the session closes.
func (s *Session) SendRequest(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	s.mu.Lock()
	if err := s.checkSendLocked(method); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	id := atomic.AddInt64(&s.nextID, 1)
	if existing, ok := s.pending[id]; ok && !existing.IsDone() {
		s.mu.Unlock()
		s.logger.Warn("rejecting duplicate in-flight request id", logging.String("method", method), logging.Any("id", id))
		return nil, mcperrors.ProtocolError(fmt.Sprintf("duplicate in-flight request id %d", id))
	}
	p := newPendingRequest(method)
	s.pending[id] = p

	initializing := method == protocol.MethodInitialize && s.role == RoleClient && s.state == StateUninitialized
	if initializing {
		s.state = StateInitializing
	}
	s.mu.Unlock()

	var span trace.Span
	spanCtx := ctx
	if s.tracer != nil {
		spanCtx, span = s.tracer.StartMethodSpan(ctx, method, trace.SpanKindClient)
		defer span.End()
	}
	if s.metrics != nil {
		s.metrics.RecordInFlightRequests(ctx, 1)
		defer s.metrics.RecordInFlightRequests(ctx, -1)
	}

	start := time.Now()
	s.logger.Debug("sending request", logging.String("method", method), logging.Any("id", id))

	req, err := protocol.NewRequest(id, method, params)
	if err != nil {
		s.removePending(id)
		return nil, err
	}
	data, err := json.Marshal(req)
	if err != nil {
		s.removePending(id)
		return nil, err
	}

	sendCtx := spanCtx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && s.requestTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	if err := s.t.Send(sendCtx, data); err != nil {
		s.removePending(id)
		if initializing {
			s.setState(StateClosed)
		}
		s.recordRequestResult(ctx, method, "error", time.Since(start))
		return nil, err
	}

	select {
	case <-p.done:
		result, respErr := p.result, p.err
		status := "ok"
		if respErr != nil {
			status = "error"
			if s.tracer != nil {
				s.tracer.RecordError(spanCtx, respErr)
			}
		}
		s.recordRequestResult(ctx, method, status, time.Since(start))
		if initializing {
			if respErr != nil {
				s.setState(StateClosed)
			} else {
				s.setState(StateOperating)
				_ = s.SendNotification(ctx, protocol.MethodInitialized, nil)
			}
		}
		return result, respErr

	case <-sendCtx.Done():
		s.removePending(id)
		err := mcperrors.RequestTimeout(method)
		if initializing {
			s.setState(StateClosed)
		}
		s.recordRequestResult(ctx, method, "timeout", time.Since(start))
		return nil, err

	case <-s.closeCh:
		s.removePending(id)
		err := mcperrors.SessionClosed("sendRequest")
		if initializing {
			s.setState(StateClosed)
		}
		s.recordRequestResult(ctx, method, "closed", time.Since(start))
		return nil, err
	}
}

func (s *Session) recordRequestResult(ctx context.Context, method, status string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordRequest(ctx, method, status, d)
	}
}

// checkSendLocked validates the session can accept an outbound send for
// method right now. Caller holds s.mu.
func (s *Session) checkSendLocked(method string) error {
	// Invariant 2: ping is permitted in every non-closed state, including
	// before initialize completes, so it is checked ahead of the normal
	// lifecycle gate below.
	if method == protocol.MethodPing {
		if s.state == StateClosing || s.state == StateClosed {
			return mcperrors.SessionClosed("sendRequest")
		}
		return nil
	}

	switch s.state {
	case StateClosing, StateClosed:
		return mcperrors.SessionClosed("sendRequest")
	case StateUninitialized:
		if !(method == protocol.MethodInitialize && s.role == RoleClient) {
			return mcperrors.InitializationRequired(method)
		}
	case StateInitializing:
		return mcperrors.InitializationRequired(method)
	}
	if s.gatedMethods[method] && !s.initializedObserved {
		return mcperrors.InitializationRequired(method)
	}
	return nil
}

func (s *Session) removePending(id interface{}) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// SendNotification emits a fire-and-forget message; it completes when the
// transport accepts the bytes.
func (s *Session) SendNotification(ctx context.Context, method string, params interface{}) error {
	s.mu.Lock()
	err := s.checkSendLocked(method)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	notif, err := protocol.NewNotification(method, params)
	if err != nil {
		return err
	}
	data, err := json.Marshal(notif)
	if err != nil {
		return err
	}

	start := time.Now()
	sendErr := s.t.Send(ctx, data)
	status := "ok"
	if sendErr != nil {
		status = "error"
	}
	if s.metrics != nil {
		s.metrics.RecordNotification(ctx, method, status, time.Since(start))
	}
	return sendErr
}

// Close initiates graceful shutdown: it stops accepting outbound sends,
// completes every pending request with SessionClosed, drains inbound
// traffic for a bounded grace period, and closes the transport.
func (s *Session) Close(ctx context.Context) error {
	var alreadyClosing bool
	s.mu.Lock()
	if s.state == StateClosing || s.state == StateClosed {
		alreadyClosing = true
	} else {
		s.state = StateClosing
	}
	pending := s.pending
	s.pending = make(map[interface{}]*pendingRequest)
	s.mu.Unlock()

	if alreadyClosing {
		return nil
	}

	s.closeOnce.Do(func() { close(s.closeCh) })

	for _, p := range pending {
		p.complete(nil, mcperrors.SessionClosed(p.method))
	}

	// Cancel every in-flight request handler's context so one blocked on a
	// nested server<->client request (e.g. sampling/createMessage) unwinds
	// promptly instead of riding out its full request timeout.
	s.cancelBase()

	graceCtx, cancel := context.WithTimeout(ctx, s.closeGrace)
	defer cancel()
	select {
	case <-s.dispatchDone:
	case <-graceCtx.Done():
	}

	handlersDone := make(chan struct{})
	go func() {
		s.handlersWG.Wait()
		close(handlersDone)
	}()
	select {
	case <-handlersDone:
	case <-graceCtx.Done():
	}

	err := s.t.Close(ctx)

	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()

	return err
}

// dispatchLoop drains the transport's inbound stream and implements the
// three-way dispatch algorithm (spec §4.3).
func (s *Session) dispatchLoop() {
	defer close(s.dispatchDone)

	for msg := range s.t.Receive() {
		if msg.Err != nil {
			s.logger.Warn("transport error, closing session", logging.ErrorField(msg.Err))
			s.failPending(msg.Err)
			s.setState(StateClosed)
			continue
		}
		s.handleInbound(msg.Data)
	}
}

func (s *Session) failPending(err error) {
	s.mu.Lock()
	pending := s.pending
	s.pending = make(map[interface{}]*pendingRequest)
	s.mu.Unlock()

	for _, p := range pending {
		p.complete(nil, err)
	}
}

func (s *Session) handleInbound(data []byte) {
	switch {
	case protocol.IsRequest(data):
		// Requests run off the dispatch loop (spec §5: "handlers may
		// execute concurrently"). A handler that itself blocks on a
		// server→client request (e.g. sampling/createMessage) must not
		// starve the only goroutine reading the transport's inbound
		// stream, or its own response can never be dispatched.
		s.handlersWG.Add(1)
		go func(d []byte) {
			defer s.handlersWG.Done()
			s.handleRequest(d)
		}(data)
	case protocol.IsResponse(data):
		s.handleResponse(data)
	case protocol.IsNotification(data):
		s.handleNotification(data)
	default:
		s.logger.Warn("dropping unrecognized message", logging.String("data", string(data)))
	}
}

func (s *Session) handleRequest(data []byte) {
	var req protocol.Request
	if err := json.Unmarshal(data, &req); err != nil {
		s.logger.Warn("failed to decode inbound request", logging.ErrorField(err))
		return
	}

	ctx := s.baseCtx
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.StartMethodSpan(ctx, req.Method, trace.SpanKindServer)
		defer span.End()
	}
	start := time.Now()

	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if state == StateClosing || state == StateClosed {
		s.replyError(ctx, req.ID, protocol.CodeSessionClosed, "session is closing")
		s.recordIncoming(ctx, req.Method, "rejected", time.Since(start))
		return
	}

	acceptingInitialize := s.role == RoleServer && req.Method == protocol.MethodInitialize
	acceptingPing := req.Method == protocol.MethodPing
	if state != StateOperating && !acceptingInitialize && !acceptingPing {
		s.replyError(ctx, req.ID, protocol.CodeInitializationRequired, "session is not yet initialized")
		s.recordIncoming(ctx, req.Method, "rejected", time.Since(start))
		return
	}

	s.mu.Lock()
	handler, ok := s.requestHandlers[req.Method]
	s.mu.Unlock()

	if !ok {
		s.replyError(ctx, req.ID, protocol.MethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
		s.recordIncoming(ctx, req.Method, "not_found", time.Since(start))
		return
	}

	result, err := s.invokeRequestHandler(ctx, handler, req.Method, req.Params)
	if err != nil {
		if s.tracer != nil {
			s.tracer.RecordError(ctx, err)
		}
		if mcpErr, ok := mcperrors.AsMCPError(err); ok {
			s.replyError(ctx, req.ID, protocol.ErrorCode(mcpErr.Code()), mcpErr.Message())
		} else {
			s.replyError(ctx, req.ID, protocol.InternalError, err.Error())
		}
		s.recordIncoming(ctx, req.Method, "error", time.Since(start))
		return
	}

	resp, err := protocol.NewResponse(req.ID, result)
	if err != nil {
		s.replyError(ctx, req.ID, protocol.InternalError, err.Error())
		s.recordIncoming(ctx, req.Method, "error", time.Since(start))
		return
	}

	if s.role == RoleServer && req.Method == protocol.MethodInitialize {
		s.setState(StateOperating)
	}

	if err := s.sendEncoded(ctx, resp); err != nil {
		s.logger.Warn("failed to send response", logging.ErrorField(err))
	}
	s.recordIncoming(ctx, req.Method, "ok", time.Since(start))
}

func (s *Session) recordIncoming(ctx context.Context, method, status string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordIncomingRequest(ctx, method, status, d)
	}
}

// invokeRequestHandler wraps handler invocation with panic recovery (spec
// §5): a panicking handler becomes an InternalError response instead of
// taking the session down.
func (s *Session) invokeRequestHandler(ctx context.Context, handler RequestHandler, method string, params json.RawMessage) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panic",
				logging.String("method", method),
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())))
			if s.metrics != nil {
				s.metrics.RecordHandlerPanic(ctx, method)
			}
			err = mcperrors.NewError(mcperrors.CodeInternalError, fmt.Sprintf("handler panic: %v", r), mcperrors.CategoryInternal, mcperrors.SeverityCritical)
		}
	}()
	return handler(ctx, params)
}

func (s *Session) replyError(ctx context.Context, id interface{}, code protocol.ErrorCode, message string) {
	resp, err := protocol.NewErrorResponse(id, code, message, nil)
	if err != nil {
		s.logger.Error("failed to build error response", logging.ErrorField(err))
		return
	}
	if err := s.sendEncoded(ctx, resp); err != nil {
		s.logger.Warn("failed to send error response", logging.ErrorField(err))
	}
}

func (s *Session) sendEncoded(ctx context.Context, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.t.Send(ctx, data)
}

func (s *Session) handleResponse(data []byte) {
	var resp protocol.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		s.logger.Warn("failed to decode inbound response", logging.ErrorField(err))
		return
	}

	id := normalizeID(resp.ID)

	s.mu.Lock()
	p, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	s.mu.Unlock()

	if !ok {
		s.logger.Warn("dropping response for unknown or stale request id", logging.Any("id", resp.ID))
		return
	}
	completeFromResponse(p, &resp)
}

// normalizeID collapses JSON-decoded numeric ids (float64) back to the
// int64 key space SendRequest allocates ids from, so a response's id
// matches the pending table's key.
func normalizeID(id interface{}) interface{} {
	if f, ok := id.(float64); ok {
		return int64(f)
	}
	return id
}

func (s *Session) handleNotification(data []byte) {
	var notif protocol.Notification
	if err := json.Unmarshal(data, &notif); err != nil {
		s.logger.Warn("failed to decode inbound notification", logging.ErrorField(err))
		return
	}

	ctx := context.Background()
	start := time.Now()

	s.mu.Lock()
	handlers := append([]NotificationHandler(nil), s.notificationHandlers[notif.Method]...)
	s.mu.Unlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("notification handler panic",
						logging.String("method", notif.Method),
						logging.Any("panic", r))
				}
			}()
			if err := h(ctx, notif.Params); err != nil {
				s.logger.Warn("notification handler error",
					logging.String("method", notif.Method), logging.ErrorField(err))
			}
		}()
	}

	s.recordIncomingNotification(ctx, notif.Method, time.Since(start))
}

func (s *Session) recordIncomingNotification(ctx context.Context, method string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordIncomingNotification(ctx, method, "ok", d)
	}
}
