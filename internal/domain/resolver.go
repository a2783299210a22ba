package domain

import (
	"errors"
	"fmt"
)

// ActionKind names the OS-level effect a dispatcher performs.
type ActionKind string

const (
	// ActionOpenPath opens a file, shortcut or folder with its default handler.
	ActionOpenPath ActionKind = "openPath"
	// ActionOpenExternal hands a URL (any scheme) to the system handler.
	ActionOpenExternal ActionKind = "openExternal"
	// ActionExec runs Target as a literal command line.
	ActionExec ActionKind = "exec"
)

// Action is the dispatchable descriptor produced by Resolve.
type Action struct {
	Action ActionKind `json:"action"`
	Target string     `json:"target"`
}

// ErrUnknownShortcutType matches every *UnknownShortcutTypeError.
var ErrUnknownShortcutType = errors.New("unknown shortcut type")

// UnknownShortcutTypeError reports an item whose type Resolve does not know.
// It means the configuration data is invalid; callers must surface it.
type UnknownShortcutTypeError struct {
	Type string
}

func (e *UnknownShortcutTypeError) Error() string {
	return fmt.Sprintf("unknown shortcut type: %q", e.Type)
}

// Is makes errors.Is(err, ErrUnknownShortcutType) hold.
func (e *UnknownShortcutTypeError) Is(target error) bool {
	return target == ErrUnknownShortcutType
}

// Resolve classifies item into an Action. It has no side effects.
//
//   - exe, lnk, folder -> openPath
//   - url              -> openExternal (the scheme is not checked)
//   - shell            -> exec
func Resolve(item Item) (Action, error) {
	switch item.Type {
	case TypeExe, TypeLnk, TypeFolder:
		return Action{Action: ActionOpenPath, Target: item.Path}, nil
	case TypeURL:
		return Action{Action: ActionOpenExternal, Target: item.Path}, nil
	case TypeShell:
		return Action{Action: ActionExec, Target: item.Path}, nil
	default:
		return Action{}, &UnknownShortcutTypeError{Type: string(item.Type)}
	}
}

// Validate resolves every item and joins the failures.
// A nil result means every item can be launched.
func Validate(cfg Configuration) error {
	var errs []error
	for _, cat := range cfg.Categories {
		for _, it := range cat.Items {
			if _, err := Resolve(it); err != nil {
				errs = append(errs, fmt.Errorf("category %q, item %q: %w", cat.Name, it.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}
