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

// Package engine owns one spawned player process: its standard
// streams, the readiness handshake, bounded move requests and
// guaranteed termination. The wire grammar itself lives in
// protocol.go.
package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultHandshakeTimeout bounds the wait for the ready token
	// after spawn.
	DefaultHandshakeTimeout = 5 * time.Second

	// DefaultMoveTimeout bounds the wait for a bestmove response,
	// independent of the compute budget granted to the engine.
	DefaultMoveTimeout = 5 * time.Second

	// DefaultMoveTime is the per-move compute budget sent with the go
	// command.
	DefaultMoveTime = time.Second
)

type Config struct {
	Name string `yaml:"name"`
	Cmd  string `yaml:"cmd"`
	Arg  string `yaml:"arg"`
	Dir  string `yaml:"dir"`

	// MoveTime overrides DefaultMoveTime when positive.
	MoveTime time.Duration `yaml:"movetime"`

	// HandshakeTimeout and MoveTimeout override the package defaults
	// when positive.
	HandshakeTimeout time.Duration `yaml:"handshake-timeout"`
	MoveTimeout      time.Duration `yaml:"move-timeout"`

	// Sandbox, when set, wraps the command in an isolation boundary
	// before it is spawned.
	Sandbox Sandbox `yaml:"-"`
}

// Start spawns the configured process and begins pumping its output.
// It does not perform the handshake; call Handshake before requesting
// moves.
func Start(config Config) (*Engine, error) {
	var engine Engine
	engine.config = config

	engine.movetime = config.MoveTime
	if engine.movetime <= 0 {
		engine.movetime = DefaultMoveTime
	}

	engine.handshakeTimeout = config.HandshakeTimeout
	if engine.handshakeTimeout <= 0 {
		engine.handshakeTimeout = DefaultHandshakeTimeout
	}

	engine.moveTimeout = config.MoveTimeout
	if engine.moveTimeout <= 0 {
		engine.moveTimeout = DefaultMoveTimeout
	}

	name, args := config.Cmd, strings.Fields(config.Arg)
	if config.Sandbox != nil {
		name, args = config.Sandbox.Wrap(name, args)
	}

	process := exec.Command(name, args...)
	process.Dir = config.Dir

	stdin, err := process.StdinPipe()
	if err != nil {
		return nil, &SpawnError{Path: config.Cmd, Err: err}
	}

	stdout, err := process.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Path: config.Cmd, Err: err}
	}

	engine.writer = bufio.NewWriter(stdin)
	engine.reader = bufio.NewReader(stdout)
	engine.lines = make(chan string)
	engine.done = make(chan struct{})

	engine.Cmd = process

	if err := engine.Cmd.Start(); err != nil {
		return nil, &SpawnError{Path: config.Cmd, Err: err}
	}

	go func() {
		for {
			line, err := engine.reader.ReadString('\n')
			if err != nil {
				engine.err = err
				engine.dead.Store(true)
				close(engine.lines)
				return
			}

			line = strings.Trim(line, " \n\t\r")
			logrus.Debugf("(%s)> %s", engine.config.Name, line)

			select {
			case engine.lines <- line:
			case <-engine.done:
				// Nobody is listening anymore; drain to EOF so the
				// process can be reaped.
			}
		}
	}()

	return &engine, nil
}

// Engine is a live player process. It is exclusively owned by the
// match driving it and must be terminated on every exit path.
type Engine struct {
	config Config

	*exec.Cmd

	writer *bufio.Writer
	reader *bufio.Reader

	lines chan string
	done  chan struct{}

	movetime         time.Duration
	handshakeTimeout time.Duration
	moveTimeout      time.Duration

	thinking atomic.Bool
	dead     atomic.Bool
	killOnce sync.Once

	err error
}

// Name returns the configured display name of the engine.
func (engine *Engine) Name() string { return engine.config.Name }

// Alive reports whether the process is still believed to be running.
func (engine *Engine) Alive() bool { return !engine.dead.Load() }

// Handshake initializes the protocol and waits for the engine to
// report readiness. On timeout the process is killed.
func (engine *Engine) Handshake() error {
	if err := engine.Write(commandUCI); err != nil {
		engine.Terminate()
		return fmt.Errorf("engine: handshake: %w", err)
	}

	if err := engine.Write(commandIsReady); err != nil {
		engine.Terminate()
		return fmt.Errorf("engine: handshake: %w", err)
	}

	_, err := engine.Await(tokenReady, engine.handshakeTimeout)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrReadTimeout):
		engine.Terminate()
		return ErrHandshakeTimeout
	default:
		engine.Terminate()
		return fmt.Errorf("engine: handshake: %w", err)
	}
}

// RequestMove feeds the engine the current position, grants it the
// configured compute budget and returns the move it settles on. Only
// one request may be in flight per engine; the protocol is not
// pipelined. On timeout the process is killed.
func (engine *Engine) RequestMove(fen string) (string, error) {
	if !engine.thinking.CompareAndSwap(false, true) {
		return "", ErrRequestInFlight
	}
	defer engine.thinking.Store(false)

	if err := engine.Write(PositionCommand(fen)); err != nil {
		return "", fmt.Errorf("engine: move request: %w", err)
	}

	if err := engine.Write(GoCommand(engine.movetime)); err != nil {
		return "", fmt.Errorf("engine: move request: %w", err)
	}

	line, err := engine.Await(tokenBestMove, engine.moveTimeout)
	switch {
	case errors.Is(err, ErrReadTimeout):
		engine.Terminate()
		return "", ErrMoveTimeout
	case err != nil:
		return "", err
	}

	move, ok := ParseBestMove(line)
	if !ok {
		return "", fmt.Errorf("engine: malformed bestmove line %q", line)
	}

	if move == NoMove {
		return "", ErrInvalidMove
	}

	return move, nil
}

// Await waits for a line matching pattern with a fixed timeout,
// discarding everything else the engine prints in the meantime.
func (engine *Engine) Await(pattern string, timeout time.Duration) (string, error) {
	regex := regexp.MustCompile(pattern)
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			return "", ErrReadTimeout

		case line, ok := <-engine.lines:
			if !ok {
				// The reader hit EOF: the process is gone.
				if engine.err != nil && !errors.Is(engine.err, io.EOF) {
					return "", fmt.Errorf("%w: %v", ErrProcessExited, engine.err)
				}
				return "", ErrProcessExited
			}

			if regex.MatchString(line) {
				return line, nil
			}
		}
	}
}

// Write sends one newline-terminated command line to the engine.
func (engine *Engine) Write(format string, a ...any) error {
	logrus.Debugf("(%s)< "+format, append([]any{engine.config.Name}, a...)...)

	if _, err := fmt.Fprintf(engine.writer, format+"\n", a...); err != nil {
		return err
	}

	return engine.writer.Flush()
}

// Terminate stops the engine: a quit command is offered first, then
// the process is killed outright and reaped. It is idempotent, safe on
// an already-dead process, and never fails.
func (engine *Engine) Terminate() {
	engine.killOnce.Do(func() {
		engine.dead.Store(true)
		close(engine.done)

		_ = engine.Write(commandQuit)

		if engine.Process != nil {
			_ = engine.Process.Kill()
		}
		_ = engine.Cmd.Wait()
	})
}
