package main

import (
	"os"

	"github.com/jpillora/overseer"

	"github.com/benedict-erwin/auth-gateway/cmd"

	_ "github.com/benedict-erwin/auth-gateway/http/route"
)

// supervise runs the command under overseer for zero-downtime restarts
func supervise(address string) {
	overseer.Run(overseer.Config{
		Program: func(state overseer.State) {
			cmd.Execute()
		},
		Address:          address,
		RestartSignal:    overseer.SIGUSR2,
		TerminateTimeout: 30,
	})
}

// main initializes and starts the application with overseer for zero-downtime deployment
func main() {
	if len(os.Args) < 2 {
		cmd.Execute()
		return
	}

	switch os.Args[1] {
	case "serve":
		// auth-service with overseer (:3000)
		supervise(":3000")
	case "gateway":
		// gateway with overseer (:3002)
		supervise(":3002")
	case "worker":
		if len(os.Args) >= 3 && os.Args[2] == "start" {
			// Worker with overseer (:3001)
			supervise(":3001")
		} else {
			// Worker CLI commands without overseer
			cmd.Execute()
		}
	default:
		// dev and other commands without overseer
		cmd.Execute()
	}
}
