package main

import (
	"sync"

	"github.com/pterm/pterm"
)

// notifier prints view-model notifications and remembers whether any failed.
type notifier struct {
	mu     sync.Mutex
	failed bool
}

func (n *notifier) Success(message string) {
	pterm.Success.Println(message)
}

func (n *notifier) Failure(message string) {
	n.mu.Lock()
	n.failed = true
	n.mu.Unlock()
	pterm.Error.Println(message)
}

// result turns a reported failure into the command's exit status.
func (n *notifier) result() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failed {
		return errReported
	}
	return nil
}
