//go:build !windows

// Package stderr redirects file descriptor 2 while the TUI owns the
// terminal. FFmpeg and ALSA write warnings straight to fd 2, bypassing
// os.Stderr, and a stray line in raw mode wrecks the layout.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"syscall"

	"github.com/saehun/mp/internal/log"
)

// Messages carries captured lines so the UI can surface them. Lines are
// dropped when nobody drains the channel.
var Messages = make(chan string, 100)

var (
	savedFd   int
	pipeR     *os.File
	pipeW     *os.File
	capturing bool
)

// Start redirects fd 2 into a pipe. Call before the native libraries are
// loaded; on error the program runs fine with stderr left alone.
func Start() error {
	if capturing {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	savedFd, err = syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(savedFd)
		r.Close()
		w.Close()
		return err
	}

	pipeR = r
	pipeW = w
	capturing = true

	go drain(pipeR)

	return nil
}

func drain(r *os.File) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		log.Debugf("native: %s", line)
		select {
		case Messages <- line:
		default:
		}
	}
}

// WriteOriginal writes to the real stderr, bypassing the capture. For
// fatal errors that must show even while the TUI is up.
func WriteOriginal(msg string) {
	if savedFd > 0 {
		_, _ = syscall.Write(savedFd, []byte(msg))
	}
}

// Stop restores fd 2 and closes the pipe.
func Stop() {
	if !capturing {
		return
	}

	_ = syscall.Dup2(savedFd, int(os.Stderr.Fd()))
	_ = syscall.Close(savedFd)

	pipeW.Close()
	pipeR.Close()

	close(Messages)
	capturing = false
}
