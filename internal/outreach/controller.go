package outreach

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/outreach-forge/internal/llm"
	"github.com/jonathan/outreach-forge/internal/types"
)

// Option configures a Controller
type Option func(*Controller)

// WithObserver sets the observer notified after every generation.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithTimeout bounds each model call. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller owns one generation lifecycle. At most one generation is in flight at a time;
// a generate call while Generating is rejected rather than superseding the running one.
type Controller struct {
	id       uuid.UUID
	client   llm.Client
	observer Observer
	timeout  time.Duration
	now      func() time.Time

	mu      sync.Mutex
	state   State
	done    chan struct{}
	subs    map[int]chan State
	nextSub int
	closed  bool
}

// NewController creates a controller in the Idle state.
func NewController(client llm.Client, opts ...Option) *Controller {
	c := &Controller{
		id:       uuid.New(),
		client:   client,
		observer: NoopObserver{},
		timeout:  llm.DefaultTimeout,
		now:      time.Now,
		state:    State{Kind: StateIdle},
		subs:     make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the controller's identifier
func (c *Controller) ID() uuid.UUID {
	return c.id
}

// State returns the current lifecycle snapshot
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Generate starts a generation in the background and returns immediately.
//
// It is a no-op that leaves the state unchanged when either input is empty
// (*ValidationError), when a generation is already running (ErrAlreadyGenerating)
// or after Close (ErrClosed). The call is detached from ctx cancellation;
// only the configured timeout ends a running model call early.
func (c *Controller) Generate(ctx context.Context, req types.GenerationRequest) error {
	req, genCtx, err := c.begin(ctx, req)
	if err != nil {
		return err
	}
	go c.run(genCtx, req)
	return nil
}

// GenerateSync runs a generation inline and returns the terminal state.
// The guard is the same as Generate's.
func (c *Controller) GenerateSync(ctx context.Context, req types.GenerationRequest) (State, error) {
	req, genCtx, err := c.begin(ctx, req)
	if err != nil {
		return c.State(), err
	}
	return c.run(genCtx, req), nil
}

// Wait blocks until no generation is in flight and returns the resulting state.
func (c *Controller) Wait(ctx context.Context) (State, error) {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return c.State(), ctx.Err()
		}
	}
	return c.State(), nil
}

// Subscribe returns a channel that receives every state change. The channel holds
// only the latest undelivered snapshot, so a slow reader skips intermediate states
// but always sees the most recent one. Call the returned func to unsubscribe.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan State, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// Close releases the model client and ends all subscriptions.
// A generation still in flight finishes but its result is not published.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()

	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *Controller) begin(ctx context.Context, req types.GenerationRequest) (types.GenerationRequest, context.Context, error) {
	req = req.Normalized()
	if err := validateRequest(req); err != nil {
		return req, nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return req, nil, ErrClosed
	}
	if c.state.Kind == StateGenerating {
		return req, nil, ErrAlreadyGenerating
	}

	c.done = make(chan struct{})
	c.setStateLocked(State{
		Kind:         StateGenerating,
		GenerationID: uuid.New(),
		Tone:         req.Tone,
		StartedAt:    c.now(),
	})

	return req, context.WithoutCancel(ctx), nil
}

// run executes PromptBuilder -> GenerationClient -> ResultParser and records the outcome.
func (c *Controller) run(ctx context.Context, req types.GenerationRequest) State {
	c.mu.Lock()
	current := c.state
	done := c.done
	c.mu.Unlock()

	result, err := c.pipeline(ctx, req)

	next := State{
		GenerationID: current.GenerationID,
		Tone:         current.Tone,
		StartedAt:    current.StartedAt,
		FinishedAt:   c.now(),
	}
	if err != nil {
		next.Kind = StateFailed
		next.Err = err
		next.Stage = StageOf(err)
	} else {
		next.Kind = StateSucceeded
		next.Result = result
	}

	c.mu.Lock()
	if c.state.GenerationID == current.GenerationID {
		c.setStateLocked(next)
	}
	close(done)
	c.mu.Unlock()

	c.observer.ObserveGeneration(ctx, GenerationEvent{
		ControllerID: c.id,
		GenerationID: next.GenerationID,
		Model:        c.modelName(),
		Tone:         next.Tone,
		Duration:     next.Duration(),
		Success:      err == nil,
		Stage:        next.Stage,
		Err:          err,
	})

	return next
}

func (c *Controller) pipeline(ctx context.Context, req types.GenerationRequest) (result *types.GenerationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("generation panicked: %v", r)
		}
	}()

	if c.client == nil {
		return nil, &TransportError{Message: "no model client configured"}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(req)

	raw, err := c.client.GenerateJSON(ctx, prompt)
	if err != nil {
		message := "failed to generate content"
		if errors.Is(err, context.DeadlineExceeded) {
			message = fmt.Sprintf("no response within %s", c.timeout)
		}
		return nil, &TransportError{Message: message, Cause: err}
	}

	return ParseResult(raw)
}

// setStateLocked stores s and fans it out to subscribers. c.mu must be held.
func (c *Controller) setStateLocked(s State) {
	if c.closed {
		return
	}
	c.state = s
	for _, ch := range c.subs {
		select {
		case ch <- s:
		default:
			// Replace the undelivered snapshot with the newer one
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}

func (c *Controller) modelName() string {
	if c.client == nil {
		return ""
	}
	return c.client.Model()
}

func validateRequest(req types.GenerationRequest) error {
	if req.JobDescription == "" {
		return &ValidationError{Field: "jobDescription", Message: "job description is required"}
	}
	if req.Profile == "" {
		return &ValidationError{Field: "profile", Message: "profile is required"}
	}
	if err := req.Validate(); err != nil {
		return &ValidationError{Field: "tone", Message: fmt.Sprintf("unsupported tone %q", req.Tone), Cause: err}
	}
	return nil
}
