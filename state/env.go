// Package state holds what a single navgen invocation shares between the
// application hooks and subcommand actions.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"navgen/config"
)

type envKey struct{}

// LocalEnv is created empty in main and filled by the Before hook: the
// configuration, the debug report (nil unless --debug) and the logger.
// Subcommands record their own options here so that source loading and
// output code does not need the cli.Command.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// replace existing navigation file
	Overwrite bool
	// decoder for non UTF-8 entry names in zip sources, nil when not forced
	CodePage encoding.Encoding

	start         time.Time
	restoreStdLog func()
}

// EnvFromContext panics when ctx was not prepared by ContextWithEnv, which
// means the command line was assembled incorrectly.
func EnvFromContext(ctx context.Context) *LocalEnv {
	env, ok := ctx.Value(envKey{}).(*LocalEnv)
	if !ok {
		panic("navgen environment is missing from context")
	}
	return env
}

// ContextWithEnv attaches fresh environment to ctx and starts its clock.
func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &LocalEnv{start: time.Now()})
}

// Uptime is reported when the program ends.
func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// RedirectStdLog routes messages of libraries using standard "log" package
// into navgen log. Nothing happens before logger is set.
func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

// RestoreStdLog flushes navgen log and undoes RedirectStdLog. It is safe to
// call more than once.
func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if restore := e.restoreStdLog; restore != nil {
		e.restoreStdLog = nil
		restore()
	}
}
