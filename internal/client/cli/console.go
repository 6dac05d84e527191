package cli

import (
	"fmt"
	"io"
	"sync"
)

// console serializes writes to the terminal; the order feed and the
// connectivity watcher print from their own goroutines.
type console struct {
	mu sync.Mutex
	w  io.Writer
}

func newConsole(w io.Writer) *console {
	return &console{w: w}
}

func (c *console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.Write(p)
}

func (c *console) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c, format, args...)
}

func (c *console) Println(args ...any) {
	_, _ = fmt.Fprintln(c, args...)
}
