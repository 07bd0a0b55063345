package judge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/rs/zerolog"
)

const DefaultTimeout = 60 * time.Second

// DispatchResult is what one judge returned for one item: raw text or an error.
type DispatchResult struct {
	Judge    models.JudgeIdentity
	ItemID   string
	Text     string
	Err      error
	Duration time.Duration
}

// Response is the judge's answer as a RawJudgeResponse. ok is false when the call failed.
func (r DispatchResult) Response() (resp models.RawJudgeResponse, ok bool) {
	if r.Err != nil {
		return models.RawJudgeResponse{}, false
	}
	return models.RawJudgeResponse{JudgeKey: r.Judge.Key, ItemID: r.ItemID, Text: r.Text}, true
}

// Observer is notified of every judge call. Implementations must be safe for concurrent use.
type Observer interface {
	ObserveDispatch(judgeKey string, duration time.Duration, err error)
}

type timeoutJudge interface {
	Timeout() time.Duration
}

// Dispatcher fans a rendered prompt out to every judge of a panel.
type Dispatcher struct {
	timeout  time.Duration
	observer Observer
	logger   *zerolog.Logger
}

func NewDispatcher(timeout time.Duration, observer Observer, logger *zerolog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Dispatcher{
		timeout:  timeout,
		observer: observer,
		logger:   logger,
	}
}

// Dispatch sends the prompt to every judge in the panel with the default timeout.
func Dispatch(ctx context.Context, itemID, renderedPrompt string, panel *Panel) map[string]DispatchResult {
	return NewDispatcher(DefaultTimeout, nil, nil).Dispatch(ctx, itemID, renderedPrompt, panel)
}

// Dispatch calls every judge concurrently and returns exactly one result per judge key.
// A judge that errors, times out or panics yields a result with Err set and never
// affects its siblings.
func (d *Dispatcher) Dispatch(ctx context.Context, itemID, renderedPrompt string, panel *Panel) map[string]DispatchResult {
	judges := panel.Judges()
	results := make(chan DispatchResult, len(judges))
	var wg sync.WaitGroup

	for _, j := range judges {
		wg.Add(1)
		go func(j Judge) {
			defer wg.Done()
			results <- d.call(ctx, itemID, renderedPrompt, j)
		}(j)
	}

	wg.Wait()
	close(results)

	out := make(map[string]DispatchResult, len(judges))
	for result := range results {
		out[result.Judge.Key] = result
	}
	return out
}

func (d *Dispatcher) call(ctx context.Context, itemID, prompt string, j Judge) DispatchResult {
	start := time.Now()
	identity := j.Identity()

	timeout := d.timeout
	if tj, ok := j.(timeoutJudge); ok && tj.Timeout() > 0 {
		timeout = tj.Timeout()
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- reply{err: fmt.Errorf("judge %s panicked: %v", identity.Key, r)}
			}
		}()
		text, err := j.Infer(callCtx, prompt)
		done <- reply{text: text, err: err}
	}()

	var r reply
	select {
	case r = <-done:
	case <-callCtx.Done():
		r = reply{err: fmt.Errorf("judge %s: %w", identity.Key, callCtx.Err())}
	}

	result := DispatchResult{
		Judge:    identity,
		ItemID:   itemID,
		Text:     r.text,
		Err:      r.err,
		Duration: time.Since(start),
	}

	if d.observer != nil {
		d.observer.ObserveDispatch(identity.Key, result.Duration, result.Err)
	}

	if result.Err != nil {
		d.logger.Warn().
			Err(result.Err).
			Str("judge", identity.Key).
			Str("item_id", itemID).
			Dur("duration", result.Duration).
			Msg("judge dispatch failed")
	} else {
		d.logger.Debug().
			Str("judge", identity.Key).
			Str("item_id", itemID).
			Dur("duration", result.Duration).
			Msg("judge responded")
	}

	return result
}
