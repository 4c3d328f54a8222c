package main

import "github.com/devtiro/tickets/cmd/ticketctl/cmd"

func main() {
	cmd.Execute()
}
