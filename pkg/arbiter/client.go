// Copyright © 2026 The Colosseum Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package arbiter is the client for the external adjudication
// authority. Requests walk an ordered ladder — primary endpoint,
// secondary endpoint, local engine — with bounded retries per network
// tier, so a flaky arbiter degrades a match's latency, never its
// outcome.
package arbiter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/backrank/colosseum/pkg/internal/clock"
)

const (
	// DefaultRetries is how often a single network endpoint is tried
	// before the ladder moves on.
	DefaultRetries = 3

	// DefaultBackoff is the delay before the first retry; it doubles
	// on every further attempt.
	DefaultBackoff = 2 * time.Second

	// DefaultKeepAlivePeriod is the interval between keep-alive pings.
	DefaultKeepAlivePeriod = 5 * time.Minute

	// DefaultRequestTimeout bounds a single HTTP request.
	DefaultRequestTimeout = 10 * time.Second
)

// Endpoints is the ordered set of network backends.
type Endpoints struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
}

// list returns the configured endpoints in fallback order, trimmed of
// trailing slashes.
func (endpoints Endpoints) list() []string {
	var list []string
	for _, endpoint := range []string{endpoints.Primary, endpoints.Secondary} {
		if endpoint != "" {
			list = append(list, strings.TrimRight(endpoint, "/"))
		}
	}

	return list
}

type Config struct {
	Endpoints Endpoints

	// LocalPath points at a local arbiter engine binary. When empty,
	// the shared engines directory and $PATH are searched once at
	// construction.
	LocalPath string

	// HTTPClient overrides the default client. Mainly useful with
	// custom transports.
	HTTPClient *http.Client

	// Clock drives backoff sleeps and the keep-alive ticker.
	Clock clock.Clock

	Retries         int
	Backoff         time.Duration
	KeepAlivePeriod time.Duration

	// MoveTime is the compute budget granted to the local fallback
	// engine per call.
	MoveTime time.Duration
}

// Client calls the arbiter service. Safe for concurrent use; the
// availability hint is the only shared state.
type Client struct {
	endpoints []string
	local     string

	client *http.Client
	clock  clock.Clock

	retries   int
	backoff   time.Duration
	keepAlive time.Duration
	movetime  time.Duration

	// available is a hint, not a guarantee: false after every network
	// backend failed, letting callers skip pathological retry ladders
	// and go straight to the local fallback.
	available atomic.Bool
}

// NewClient builds a Client and discovers the local fallback engine.
func NewClient(config Config) *Client {
	client := &Client{
		endpoints: config.Endpoints.list(),
		local:     DiscoverLocal(config.LocalPath),
		client:    config.HTTPClient,
		clock:     config.Clock,
		retries:   config.Retries,
		backoff:   config.Backoff,
		keepAlive: config.KeepAlivePeriod,
		movetime:  config.MoveTime,
	}

	if client.client == nil {
		client.client = &http.Client{Timeout: DefaultRequestTimeout}
	}
	if client.clock == nil {
		client.clock = clock.Real()
	}
	if client.retries <= 0 {
		client.retries = DefaultRetries
	}
	if client.backoff <= 0 {
		client.backoff = DefaultBackoff
	}
	if client.keepAlive <= 0 {
		client.keepAlive = DefaultKeepAlivePeriod
	}
	if client.movetime <= 0 {
		client.movetime = time.Second
	}

	client.available.Store(true)
	return client
}

// Available reports the current availability hint.
func (c *Client) Available() bool { return c.available.Load() }

// LocalPath returns the discovered local fallback engine, if any.
func (c *Client) LocalPath() string { return c.local }

// Ping health-checks the endpoints in order with a single attempt
// each, updates the availability hint, and reports whether any
// endpoint answered with the status-ok marker.
func (c *Client) Ping(ctx context.Context) bool {
	for _, endpoint := range c.endpoints {
		var health healthResponse
		err := c.getJSON(ctx, endpoint+"/", &health)

		switch {
		case err != nil:
			logrus.WithError(err).Debugf("Arbiter health check failed: %s", endpoint)
		case !health.healthy():
			logrus.Debugf("Arbiter health check rejected: %s reported %q", endpoint, health.Status)
		default:
			c.available.Store(true)
			return true
		}
	}

	c.available.Store(false)
	return false
}

// KeepWarm pings the arbiter immediately and then on every keep-alive
// tick until ctx is cancelled. A cold-starting remote service stays
// responsive that way. Failures are logged and never stop the loop.
func (c *Client) KeepWarm(ctx context.Context) {
	if len(c.endpoints) == 0 {
		return
	}

	if !c.Ping(ctx) {
		logrus.Warn("Arbiter service unreachable; will keep trying")
	}

	ticker := c.clock.NewTicker(c.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.Ping(ctx) {
				logrus.Warn("Arbiter keep-alive ping failed")
			}
		}
	}
}

// BestMove adjudicates the given move history: it returns the best
// continuation for the side to move together with the advanced
// position, or a terminal verdict. fen is the current authoritative
// position, used by the local fallback tier.
func (c *Client) BestMove(ctx context.Context, history []string, fen string) (Verdict, error) {
	call := func(ctx context.Context, endpoint string) (Verdict, error) {
		var resp bestMoveResponse
		if err := c.postJSON(ctx, endpoint+"/api/bestmove", bestMoveRequest{Moves: history}, &resp); err != nil {
			return Verdict{}, err
		}

		if !resp.meaningful() {
			return Verdict{}, &Error{Endpoint: endpoint, Message: "response carries no move or position"}
		}

		return resp.verdict(), nil
	}

	local := func(ctx context.Context) (Verdict, error) {
		return c.localCall(ctx, fen, c.movetime)
	}

	return c.ladder(ctx, call, local)
}

// Evaluate asks the arbiter for a static judgment of a position: is
// the game over, who stands to win, and what it would play.
func (c *Client) Evaluate(ctx context.Context, fen string, timeLimit time.Duration) (Verdict, error) {
	if timeLimit <= 0 {
		timeLimit = c.movetime
	}

	call := func(ctx context.Context, endpoint string) (Verdict, error) {
		var resp evaluateResponse
		request := evaluateRequest{FEN: fen, TimeLimit: timeLimit.Milliseconds()}
		if err := c.postJSON(ctx, endpoint+"/evaluate", request, &resp); err != nil {
			return Verdict{}, err
		}

		if !resp.meaningful() {
			return Verdict{}, &Error{Endpoint: endpoint, Message: "response carries no evaluation"}
		}

		return resp.verdict(), nil
	}

	local := func(ctx context.Context) (Verdict, error) {
		return c.localCall(ctx, fen, timeLimit)
	}

	return c.ladder(ctx, call, local)
}

// ladder walks the fallback order: each network endpoint with retries,
// then the local engine. The availability hint short-circuits the
// network tiers when a local fallback exists.
func (c *Client) ladder(
	ctx context.Context,
	call func(context.Context, string) (Verdict, error),
	local func(context.Context) (Verdict, error),
) (Verdict, error) {
	tryNetwork := c.available.Load() || c.local == ""

	if tryNetwork {
		for _, endpoint := range c.endpoints {
			endpoint := endpoint

			var verdict Verdict
			err := c.withRetry(ctx, func(ctx context.Context) error {
				var err error
				verdict, err = call(ctx, endpoint)
				return err
			})

			if err == nil {
				c.available.Store(true)
				return verdict, nil
			}

			if ctx.Err() != nil {
				return Verdict{}, ctx.Err()
			}

			logrus.WithError(err).Warnf("Arbiter endpoint exhausted: %s", endpoint)
		}

		if len(c.endpoints) > 0 {
			c.available.Store(false)
		}
	} else {
		logrus.Debug("Arbiter endpoints marked unavailable; using local fallback")
	}

	if c.local == "" {
		return Verdict{}, ErrUnavailable
	}

	return local(ctx)
}

// withRetry runs fn up to the configured attempt count, sleeping an
// exponentially growing delay between attempts.
func (c *Client) withRetry(ctx context.Context, fn func(context.Context) error) error {
	delay := c.backoff

	var err error
	for attempt := 0; attempt < c.retries; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		if attempt == c.retries-1 {
			break
		}

		logrus.WithError(err).Debugf("Arbiter call failed; retrying in %s", delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.clock.After(delay):
		}

		delay *= 2
	}

	return err
}

func (c *Client) postJSON(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &Error{Endpoint: url, Message: "encoding request: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &Error{Endpoint: url, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{Endpoint: url, Message: err.Error()}
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Endpoint: req.URL.String(), Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &Error{
			Endpoint:   req.URL.String(),
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(snippet)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Endpoint: req.URL.String(), Message: "malformed response: " + err.Error()}
	}

	return nil
}
