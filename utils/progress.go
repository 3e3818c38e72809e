package utils

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// ProgressIndicator draws a spinner next to a status message while a long
// running conversion is in progress.
type ProgressIndicator struct {
	mu         sync.Mutex
	delay      time.Duration
	writer     io.Writer
	message    string
	lastOutput string
	StopMsg    string
	stopChan   chan struct{}
	doneChan   chan struct{}
}

const (
	successColor = "\x1b[32m"
	defaultColor = "\x1b[0m"
)

var spinnerFrames = []rune(`⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏`)

// NewProgressIndicator instantiates a new progress indicator writing to w.
func NewProgressIndicator(w io.Writer, msg string, d time.Duration) *ProgressIndicator {
	return &ProgressIndicator{
		delay:    d,
		writer:   w,
		message:  msg,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start starts the progress indicator.
func (pi *ProgressIndicator) Start() {
	go func() {
		defer close(pi.doneChan)

		ticker := time.NewTicker(pi.delay)
		defer ticker.Stop()

		for i := 0; ; i++ {
			pi.mu.Lock()
			pi.clear()
			output := fmt.Sprintf("\r%s%s %c%s", pi.message, successColor,
				spinnerFrames[i%len(spinnerFrames)], defaultColor)
			fmt.Fprint(pi.writer, output)
			pi.lastOutput = output
			pi.mu.Unlock()

			select {
			case <-pi.stopChan:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Update replaces the status message shown next to the spinner.
func (pi *ProgressIndicator) Update(msg string) {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	pi.message = msg
}

// Stop stops the progress indicator and prints StopMsg, if any.
func (pi *ProgressIndicator) Stop() {
	close(pi.stopChan)
	<-pi.doneChan

	pi.mu.Lock()
	defer pi.mu.Unlock()

	pi.clear()
	if len(pi.StopMsg) > 0 {
		fmt.Fprint(pi.writer, pi.StopMsg)
	}
}

// clear deletes the last line. Caller must hold the locker.
func (pi *ProgressIndicator) clear() {
	if pi.lastOutput == "" {
		return
	}
	n := utf8.RuneCountInString(pi.lastOutput)
	if runtime.GOOS == "windows" {
		fmt.Fprint(pi.writer, "\r"+strings.Repeat(" ", n)+"\r")
		pi.lastOutput = ""
		return
	}
	fmt.Fprint(pi.writer, "\r\033[K") // clear line
	pi.lastOutput = ""
}
