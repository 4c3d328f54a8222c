package client

import (
	"io"
	"sync"

	"github.com/pterm/pterm"

	"github.com/devtiro/tickets/pkg/sdk"
)

// TerminalNavigator is where the CLI "sends" a user whose session the API
// rejected: it prints how to log in again, once per run.
type TerminalNavigator struct {
	out  io.Writer
	once sync.Once
}

var _ sdk.Navigator = (*TerminalNavigator)(nil)

func NewTerminalNavigator(out io.Writer) *TerminalNavigator {
	return &TerminalNavigator{out: out}
}

func (n *TerminalNavigator) Navigate(path string) {
	if path != sdk.LoginPath {
		return
	}
	n.once.Do(func() {
		pterm.Warning.WithWriter(n.out).Println("Your session was rejected by the server and has been cleared. Run `ticketctl auth login` to sign in again.")
	})
}
