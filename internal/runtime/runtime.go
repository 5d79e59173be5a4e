// Package runtime carries per-invocation process state: the root context,
// shutdown hooks and the exit-code discipline every command relies on.
package runtime

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	appconfig "github.com/crs4/seekimages/internal/apps/seekimages/config"
	"github.com/crs4/seekimages/internal/logs"
	"github.com/crs4/seekimages/internal/ui"
)

type Runtime struct {
	runID string

	ctx        context.Context
	cancelFunc context.CancelFunc

	mu sync.Mutex
	wg sync.WaitGroup

	shutdownTimeout time.Duration

	firstFailErr error
}

type runtimeKey struct{}

// NewHostRuntime builds the one Runtime of the process and threads it through
// the command context. Commands load it back with FromContext exactly once,
// at the cmd handler level; nothing below the cmd layer touches the context
// for DI.
func NewHostRuntime() *Runtime {
	baseCtx, cancel := context.WithCancel(context.Background())
	rt := &Runtime{
		runID:           strconv.FormatInt(time.Now().Unix(), 10),
		cancelFunc:      cancel,
		shutdownTimeout: 5 * time.Second,
	}
	rt.ctx = context.WithValue(baseCtx, runtimeKey{}, rt)

	if f, err := os.OpenFile(appconfig.RunLogPath(rt.runID), os.O_CREATE|os.O_RDWR, 0o644); err != nil {
		logs.Warnf("can't open run log file: %v", err)
	} else {
		logs.SetFullLogWriter(ui.NewSyncWriter(f, 200*time.Millisecond))
	}

	return rt
}

func FromContext(ctx context.Context) *Runtime {
	v := ctx.Value(runtimeKey{})
	if v == nil {
		panic("runtime not found in context")
	}
	return v.(*Runtime)
}

func (rt *Runtime) Ctx() context.Context {
	return rt.ctx
}

func (rt *Runtime) CancelCtx() {
	rt.cancelFunc()
}

func (rt *Runtime) RunID() string {
	return rt.runID
}

// GoNamed runs fn in a goroutine with panic recovery. A panic is recorded as
// the first failure and cancels the root context.
func (rt *Runtime) GoNamed(name string, fn func()) {
	if name == "" {
		name = "anonymous"
	}
	rt.wg.Go(func() {
		logs.Debugf("%s goroutine start", name)
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v\n%s", r, debug.Stack())
				rt.mu.Lock()
				if rt.firstFailErr == nil {
					rt.firstFailErr = err
					rt.cancelFunc()
				}
				rt.mu.Unlock()
			}
		}()

		fn()
		logs.Debugf("%s goroutine finish", name)
	})
}

func (rt *Runtime) Wait() error {
	rt.wg.Wait()

	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.firstFailErr
}

// OnShutdown registers fn to run once the root context is cancelled, with a
// bounded cleanup context.
func (rt *Runtime) OnShutdown(fn func(ctx context.Context)) {
	rt.GoNamed("OnShutdown", func() {
		<-rt.ctx.Done()

		cleanupCtx, cancel := context.WithTimeout(context.Background(), rt.shutdownTimeout)
		defer cancel()

		fn(cleanupCtx)
	})
}

// Finalize handles both panic and normal exit. Call it in a defer at the top
// of main. The process exit code is the authoritative success signal: any
// recorded error exits 1.
func (rt *Runtime) Finalize(appName, helpHint string, execErr *error) {
	if r := recover(); r != nil {
		fmt.Fprintf(os.Stderr, "%s panic: %v\n", appName, r)
		fmt.Fprintf(os.Stderr, "%s\n", debug.Stack())
		if helpHint != "" {
			fmt.Fprintln(os.Stderr, helpHint)
		}

		// cancel & wait so OnShutdown hooks run
		rt.CancelCtx()
		_ = rt.Wait()

		logs.Close()
		os.Exit(1)
	}

	rt.CancelCtx()
	waitErr := rt.Wait()

	failed := false
	if execErr != nil && *execErr != nil {
		failed = true
		logs.Errorf("%s error: %v", appName, *execErr)
		if helpHint != "" {
			fmt.Fprintln(os.Stderr, helpHint)
		}
	} else if waitErr != nil {
		failed = true
		logs.Errorf("%s fail reason: %v", appName, waitErr)
	}

	logs.Close()
	if failed {
		os.Exit(1)
	}
}
