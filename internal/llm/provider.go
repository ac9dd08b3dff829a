package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrProviderUnavailable covers timeouts, transport failures and responses
// that cannot be decoded. It never leaves the engine.
var ErrProviderUnavailable = errors.New("provider unavailable")

const DefaultCallTimeout = 20 * time.Second

// Provider is a generative-text backend.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Chain tries providers in order until one answers with text the caller
// accepts.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	logger    *log.Logger
}

func NewChain(timeout time.Duration, logger *log.Logger, providers ...Provider) *Chain {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	ps := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return &Chain{providers: ps, timeout: timeout, logger: logger}
}

func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.providers)
}

// Run sends prompt to each provider in turn. accept decodes the raw text and
// returns an error to reject it. Run returns the name of the provider whose
// answer was accepted, ErrProviderUnavailable when every provider failed, or
// the caller's context error when ctx ends first.
func (c *Chain) Run(ctx context.Context, op, prompt string, accept func(text string) error) (string, error) {
	if c.Len() == 0 {
		return "", ErrProviderUnavailable
	}
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		start := time.Now()
		err := c.attempt(ctx, p, prompt, accept)
		took := time.Since(start).Milliseconds()

		if ctxErr := ctx.Err(); ctxErr != nil {
			c.logger.Printf("%s provider=%s status=cancelled duration_ms=%d", op, p.Name(), took)
			return "", ctxErr
		}
		if err == nil {
			c.logger.Printf("%s provider=%s status=ok duration_ms=%d", op, p.Name(), took)
			return p.Name(), nil
		}
		c.logger.Printf("%s provider=%s status=unavailable duration_ms=%d err=%v", op, p.Name(), took, err)
	}
	return "", ErrProviderUnavailable
}

type generateResult struct {
	text string
	err  error
}

func (c *Chain) attempt(ctx context.Context, p Provider, prompt string, accept func(string) error) error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan generateResult, 1)
	go func() {
		text, err := p.Generate(callCtx, prompt)
		done <- generateResult{text: text, err: err}
	}()

	var res generateResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, callCtx.Err())
	}
	if res.err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, res.err)
	}
	if accept != nil {
		if err := accept(res.text); err != nil {
			return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
	}
	return nil
}
