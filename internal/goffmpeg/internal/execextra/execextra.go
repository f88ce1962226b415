// Package execextra is a exec.Cmd that can connect readers and writers to
// extra file descriptors in the child process (pipe:N for ffmpeg).
package execextra

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sync"
)

// onceCloser makes a file safe to close from both a copy goroutine and Wait
type onceCloser struct {
	*os.File
	once sync.Once
	err  error
}

func (c *onceCloser) Close() error {
	c.once.Do(func() { c.err = c.File.Close() })
	return c.err
}

// Cmd wraps exec.Cmd with ExtraFiles helpers
type Cmd struct {
	*exec.Cmd

	closeAfterStart []io.Closer
	closeAfterWait  []io.Closer
	copyFns         []func() error
	copyErrCh       chan error
}

// Command see exec.Command
func Command(name string, arg ...string) *Cmd {
	return &Cmd{Cmd: exec.Command(name, arg...)}
}

// CommandContext see exec.CommandContext
func CommandContext(ctx context.Context, name string, arg ...string) *Cmd {
	return &Cmd{Cmd: exec.CommandContext(ctx, name, arg...)}
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		c.Close()
	}
}

// child fd for ExtraFiles index i is i+3
func (c *Cmd) addExtraFile(f *os.File) uintptr {
	c.ExtraFiles = append(c.ExtraFiles, f)
	return uintptr(len(c.ExtraFiles) + 2)
}

// ExtraIn connects r to a readable fd in the child process and returns
// the fd number. A *os.File is passed as is, anything else is copied
// thru a pipe.
func (c *Cmd) ExtraIn(r io.Reader) (childFD uintptr, err error) {
	if f, ok := r.(*os.File); ok {
		return c.addExtraFile(f), nil
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return 0, err
	}
	wc := &onceCloser{File: pw}
	c.closeAfterStart = append(c.closeAfterStart, pr)
	c.closeAfterWait = append(c.closeAfterWait, wc)
	c.copyFns = append(c.copyFns, func() error {
		_, err := io.Copy(wc, r)
		wc.Close()
		return err
	})

	return c.addExtraFile(pr), nil
}

// ExtraOut connects w to a writable fd in the child process and returns
// the fd number.
func (c *Cmd) ExtraOut(w io.Writer) (childFD uintptr, err error) {
	if f, ok := w.(*os.File); ok {
		return c.addExtraFile(f), nil
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return 0, err
	}
	c.closeAfterStart = append(c.closeAfterStart, pw)
	c.closeAfterWait = append(c.closeAfterWait, pr)
	c.copyFns = append(c.copyFns, func() error {
		_, err := io.Copy(w, pr)
		return err
	})

	return c.addExtraFile(pw), nil
}

// CloseAfterStart adds a closer to close after the process has started
func (c *Cmd) CloseAfterStart(closer io.Closer) {
	c.closeAfterStart = append(c.closeAfterStart, closer)
}

// CloseAfterWait adds a closer to close after the process has exited
func (c *Cmd) CloseAfterWait(closer io.Closer) {
	c.closeAfterWait = append(c.closeAfterWait, closer)
}

// Discard closes pipes of a command that will not be started
func (c *Cmd) Discard() {
	closeAll(c.closeAfterStart)
	closeAll(c.closeAfterWait)
}

// Start see exec.Cmd.Start
func (c *Cmd) Start() error {
	if err := c.Cmd.Start(); err != nil {
		closeAll(c.closeAfterStart)
		closeAll(c.closeAfterWait)
		return err
	}
	closeAll(c.closeAfterStart)

	c.copyErrCh = make(chan error, len(c.copyFns))
	for _, fn := range c.copyFns {
		go func(fn func() error) { c.copyErrCh <- fn() }(fn)
	}

	return nil
}

// Wait see exec.Cmd.Wait, also waits for all copying to finish
func (c *Cmd) Wait() error {
	err := c.Cmd.Wait()

	var copyErr error
	for range c.copyFns {
		if err := <-c.copyErrCh; err != nil && copyErr == nil {
			copyErr = err
		}
	}
	closeAll(c.closeAfterWait)

	if err != nil {
		return err
	}
	return copyErr
}

// Run see exec.Cmd.Run
func (c *Cmd) Run() error {
	if err := c.Start(); err != nil {
		return err
	}
	return c.Wait()
}
