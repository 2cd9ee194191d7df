package main

import (
	"os"
	"os/signal"
)

// interruptSignals lists the OS signals that end the menu loop cleanly.
// os.Interrupt (SIGINT / Ctrl-C) is the portable baseline available on every OS.
// SIGTERM is appended by signals_unix.go on non-Windows platforms.
var interruptSignals = []os.Signal{os.Interrupt}

// notifyInterrupt runs fn once any of the interrupt signals arrives.
func notifyInterrupt(fn func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, interruptSignals...)
	go func() {
		<-ch
		fn()
	}()
}
