package utils

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgressIndicator(t *testing.T) {
	var out syncBuffer
	ind := NewProgressIndicator(&out, "Converting...", time.Millisecond)
	ind.Start()
	time.Sleep(10 * time.Millisecond)
	ind.Update("Converting 2/2...")
	time.Sleep(10 * time.Millisecond)
	ind.StopMsg = "done\n"
	ind.Stop()

	s := out.String()
	for _, want := range []string{"Converting...", "Converting 2/2...", "done\n"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in the output %q", want, s)
		}
	}
	if !strings.HasSuffix(s, "done\n") {
		t.Errorf("the stop message should be printed last: %q", s)
	}
}
