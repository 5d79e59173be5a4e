package ui

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/moby/term"
)

// tailState is the live tail buffer for one external command's output
// (docker pull/build progress, archive packing).
type tailState struct {
	name          string
	buf           []string
	lastBoxHeight int
	closed        bool
}

// Tail is a handle for streaming lines into a live tail box.
type Tail interface {
	// Write implements io.Writer: input is split on newlines.
	Write([]byte) (int, error)
	Println(msg string)
	Printf(msg string, args ...any)
	Close()
}

type tailHandle struct {
	ui         *Logger
	iowritebuf []byte
}

// NewTail starts a new tail stream. A previous live tail, if any, is
// finalized into a static box first.
func (l *Logger) NewTail(name string) Tail {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tail != nil && !l.tail.closed {
		l.finalizeTailLocked()
	}

	l.tail = &tailState{
		name: name,
		buf:  make([]string, 0, l.tailLines),
	}

	if l.full != nil {
		fmt.Fprintf(l.full, "[tail %s] start\n", name)
	}

	return &tailHandle{ui: l}
}

func (t *tailHandle) Write(p []byte) (int, error) {
	l := t.ui
	l.mu.Lock()
	defer l.mu.Unlock()

	t.iowritebuf = append(t.iowritebuf, p...)

	for {
		i := bytes.IndexByte(t.iowritebuf, '\n')
		if i == -1 {
			break
		}

		line := t.iowritebuf[:i]
		t.iowritebuf = t.iowritebuf[i+1:]

		// Trim optional CR before LF (docker progress lines).
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}

		t.printLocked(string(line))
	}

	return len(p), nil
}

func (t *tailHandle) Printf(msg string, args ...any) {
	t.Println(fmt.Sprintf(msg, args...))
}

func (t *tailHandle) Println(msg string) {
	l := t.ui
	l.mu.Lock()
	defer l.mu.Unlock()

	t.printLocked(msg)
}

func (t *tailHandle) Close() {
	l := t.ui
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tail == nil || l.tail.closed {
		return
	}
	l.finalizeTailLocked()
}

func terminalWidth() int {
	fd, isTerm := term.GetFdInfo(os.Stdout)
	if isTerm {
		if ws, err := term.GetWinsize(fd); err == nil && ws.Width > 0 {
			return int(ws.Width)
		}
	}
	return 120
}

// printLocked appends one line to the tail buffer and redraws the live box.
// assumes l.mu is held.
func (t *tailHandle) printLocked(msg string) {
	l := t.ui

	line := msg
	widthLimit := terminalWidth() - 8
	if widthLimit > 0 && len(line) > widthLimit {
		line = line[:widthLimit-1] + "…"
	}

	// No active tail: log plainly.
	if l.tail == nil || l.tail.closed {
		if l.full != nil {
			fmt.Fprintf(l.full, "[tail] %s\n", msg)
		}
		fmt.Fprintln(l.out, line)
		return
	}

	l.tail.buf = append(l.tail.buf, line)
	if len(l.tail.buf) > l.tailLines {
		l.tail.buf = l.tail.buf[len(l.tail.buf)-l.tailLines:]
	}

	// Full log gets every tail line.
	if l.full != nil {
		fmt.Fprintf(l.full, "[tail %s] %s\n", l.tail.name, msg)
	}

	if !l.enableTail {
		fmt.Fprintln(l.out, line)
		return
	}

	if l.tail.lastBoxHeight > 0 {
		l.clearTailBoxLocked()
	}
	l.drawTailBoxLocked()
}

func renderTailBox(title string, lines []string, s styles) string {
	if title == "" {
		title = "tail"
	}

	inner := s.tailTitle.Render(title)
	if len(lines) > 0 {
		inner = inner + "\n" + strings.Join(lines, "\n")
	}
	return s.tailBox.Render(inner)
}

// clearTailBoxLocked clears the last drawn tail box from the terminal.
// assumes l.mu is held.
func (l *Logger) clearTailBoxLocked() {
	if l.tail == nil || l.tail.lastBoxHeight <= 0 {
		return
	}
	h := l.tail.lastBoxHeight

	fmt.Fprintf(l.out, "\x1b[%dF", h)
	for range h {
		fmt.Fprint(l.out, "\x1b[2K\r\n")
	}
	fmt.Fprintf(l.out, "\x1b[%dF", h)

	l.tail.lastBoxHeight = 0
}

// drawTailBoxLocked prints the tail box at the current cursor position.
// assumes l.mu is held.
func (l *Logger) drawTailBoxLocked() {
	if l.tail == nil || len(l.tail.buf) == 0 {
		return
	}
	box := renderTailBox(l.tail.name, l.tail.buf, l.style)

	fmt.Fprint(l.out, box+"\n")
	l.tail.lastBoxHeight = strings.Count(box, "\n") + 1
}

// finalizeTailLocked clears any live box, prints a static snapshot, and marks
// the tail closed. assumes l.mu is held.
func (l *Logger) finalizeTailLocked() {
	if l.tail == nil || l.tail.closed {
		return
	}

	if l.enableTail && l.tail.lastBoxHeight > 0 {
		l.clearTailBoxLocked()
	}

	if len(l.tail.buf) > 0 {
		box := renderTailBox(l.tail.name, l.tail.buf, l.style)
		fmt.Fprint(l.out, box+"\n")
	}

	if l.full != nil {
		fmt.Fprintf(l.full, "[tail %s] end\n", l.tail.name)
	}

	l.tail.closed = true
	l.tail = nil
}

// finalizeTailForPrompt makes sure no live box is on screen before an
// interactive prompt takes over the terminal.
func (l *Logger) finalizeTailForPrompt() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tail != nil && !l.tail.closed {
		l.finalizeTailLocked()
	}
}
