// Package sandbox compile-checks and runs submitted JavaScript inside a
// fresh, in-process interpreter with a hard wall-clock budget.
//
// Every call builds its own runtime exposing nothing but a console that
// records output; there is no require, filesystem, network or process
// access. Evaluate is total: whatever the source does, the caller gets
// exactly one Outcome back and never an error or panic.
package sandbox

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout is the execution budget per evaluation
	DefaultTimeout = 800 * time.Millisecond

	// DefaultMaxLogs bounds the console lines kept per evaluation
	DefaultMaxLogs = 10000

	maxCallStackSize = 4096
	scriptName       = "submission.js"
)

var errTimeout = errors.New("execution time budget exceeded")

type options struct {
	timeout time.Duration
	maxLogs int
	logger  zerolog.Logger
}

// Option customises an evaluation
type Option func(*options)

// WithTimeout sets the wall-clock budget for the execution phase
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithMaxLogs caps the number of captured console lines; later lines are dropped
func WithMaxLogs(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLogs = n
		}
	}
}

// WithLogger reports phase transitions at debug level
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Evaluate compile-checks source and, if it parses, runs it under the time
// budget
func Evaluate(source string, opts ...Option) (outcome Outcome) {
	o := options{timeout: DefaultTimeout, maxLogs: DefaultMaxLogs, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger.With().Str("component", "sandbox").Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("evaluation panicked")
			outcome = RuntimeError{Message: fmt.Sprintf("sandbox failure: %v", r)}
		}
	}()

	if err := CompileCheck(source); err != nil {
		log.Debug().Err(err).Msg("compile check failed")
		return CompileError{Message: err.Error()}
	}

	start := time.Now()
	outcome = execute(source, o)
	log.Debug().
		Str("outcome", string(outcome.Kind())).
		Dur("elapsed", time.Since(start)).
		Msg("execution finished")
	return outcome
}

// CompileCheck parses source inside a function wrapper without running it
func CompileCheck(source string) error {
	_, err := goja.Compile(scriptName, wrap(source, false), false)
	return err
}

func wrap(source string, strict bool) string {
	var b strings.Builder
	b.WriteString("(function(){ ")
	if strict {
		b.WriteString(`"use strict"; `)
	}
	b.WriteString(source)
	b.WriteString("\n})();")
	return b.String()
}

func execute(source string, o options) Outcome {
	vm := goja.New()
	vm.SetMaxCallStackSize(maxCallStackSize)

	// JS String(x), so symbols and objects with custom toString print as they would in node
	stringify, ok := goja.AssertFunction(vm.Get("String"))
	if !ok {
		return RuntimeError{Message: "sandbox setup failed: String is not callable"}
	}

	logs := make([]string, 0)
	record := func(call goja.FunctionCall) goja.Value {
		if len(logs) >= o.maxLogs {
			return goja.Undefined()
		}
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			v, err := stringify(goja.Undefined(), arg)
			if err != nil {
				var exception *goja.Exception
				if errors.As(err, &exception) {
					panic(exception)
				}
				panic(vm.NewGoError(err))
			}
			parts[i] = v.String()
		}
		logs = append(logs, strings.Join(parts, " "))
		return goja.Undefined()
	}

	console := vm.NewObject()
	for _, name := range []string{"log", "info", "warn", "error", "debug"} {
		if err := console.Set(name, record); err != nil {
			return RuntimeError{Message: fmt.Sprintf("sandbox setup failed: %v", err)}
		}
	}
	if err := vm.Set("console", console); err != nil {
		return RuntimeError{Message: fmt.Sprintf("sandbox setup failed: %v", err)}
	}

	// Strict mode can reject code the sloppy compile check accepted
	program, err := goja.Compile(scriptName, wrap(source, true), true)
	if err != nil {
		return RuntimeError{Message: err.Error()}
	}

	timer := time.AfterFunc(o.timeout, func() { vm.Interrupt(errTimeout) })
	_, err = vm.RunProgram(program)
	timer.Stop()

	if err == nil {
		return Success{Logs: logs}
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return Timeout{}
	}

	var exception *goja.Exception
	if errors.As(err, &exception) {
		return RuntimeError{Message: scrubStack(exception.String())}
	}
	return RuntimeError{Message: err.Error()}
}

// scrubStack drops host frames, which only name interpreter internals
func scrubStack(stack string) string {
	lines := strings.Split(stack, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasSuffix(strings.TrimSpace(line), "(native)") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
