package main

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/term"
)

// watchForQuitKey puts stdin in raw mode (if it's a terminal) and returns a
// channel that closes the moment the user presses 'q' or Ctrl-C. Restores
// the terminal's original state before returning on any exit path. If
// stdin isn't a terminal (piped input, CI), the returned channel never
// fires and the caller falls back to its context for shutdown.
func watchForQuitKey() <-chan struct{} {
	done := make(chan struct{})

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return done
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return done
	}

	go func() {
		defer close(done)
		defer term.Restore(fd, oldState)

		buf := make([]byte, 1)
		for {
			n, err := syscall.Read(fd, buf)
			if n > 0 {
				b := buf[0]
				if b == 'q' || b == 'Q' || b == 0x03 {
					return
				}
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
		}
	}()

	return done
}
