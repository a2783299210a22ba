package launcher

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/MrSnakeDoc/dock/internal/domain"
)

// Dispatcher performs the OS-level effect of a resolved action.
type Dispatcher interface {
	Dispatch(ctx context.Context, a domain.Action) error
}

var errUnsupportedPlatform = errors.New("unsupported platform")

// OS dispatches actions with the platform's default handlers. Launched
// programs are detached: they outlive the request and the daemon.
type OS struct {
	goos  string
	start func(cmd *exec.Cmd) error
}

// NewOS returns a dispatcher for the running platform.
func NewOS() *OS {
	return &OS{goos: runtime.GOOS, start: startDetached}
}

// Command builds the process that carries out a.
func (o *OS) Command(a domain.Action) (*exec.Cmd, error) {
	name, args, err := commandLine(o.goos, a)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(name, args...)
	detach(cmd)
	if a.Action == domain.ActionExec {
		rawShellLine(cmd, a.Target)
	}
	return cmd, nil
}

// windowsShellLine wraps target for cmd.exe. With /s the outer quotes are
// stripped and the rest runs exactly as typed, quotes included.
func windowsShellLine(target string) string {
	return `cmd /d /s /c "` + target + `"`
}

// Dispatch starts the process for a without waiting for it to finish.
func (o *OS) Dispatch(_ context.Context, a domain.Action) error {
	cmd, err := o.Command(a)
	if err != nil {
		return err
	}
	if err := o.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", a.Action, err)
	}
	return nil
}

func commandLine(goos string, a domain.Action) (string, []string, error) {
	switch a.Action {
	case domain.ActionOpenPath, domain.ActionOpenExternal:
		switch goos {
		case "linux", "freebsd", "openbsd", "netbsd":
			return "xdg-open", []string{a.Target}, nil
		case "windows":
			return "rundll32", []string{"url.dll,FileProtocolHandler", a.Target}, nil
		case "darwin":
			return "open", []string{a.Target}, nil
		default:
			return "", nil, fmt.Errorf("%w: %s", errUnsupportedPlatform, goos)
		}
	case domain.ActionExec:
		// the command line is handed to the shell verbatim
		if goos == "windows" {
			return "cmd", []string{"/d", "/s", "/c", a.Target}, nil
		}
		return "sh", []string{"-c", a.Target}, nil
	default:
		return "", nil, fmt.Errorf("unknown action %q", a.Action)
	}
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	// reap the child once it exits
	go func() { _ = cmd.Wait() }()
	return nil
}

// Recorder is a Dispatcher that remembers actions instead of running them.
type Recorder struct {
	mu      sync.Mutex
	actions []domain.Action
	// Err, when set, is returned by every Dispatch.
	Err error
}

func (r *Recorder) Dispatch(_ context.Context, a domain.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.actions = append(r.actions, a)
	return nil
}

// Actions returns the dispatched actions in order.
func (r *Recorder) Actions() []domain.Action {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Action, len(r.actions))
	copy(out, r.actions)
	return out
}
