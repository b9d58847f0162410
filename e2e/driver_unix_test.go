//go:build e2e && unix

package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

const scrollback = 1 << 20 // keep the last 1 MiB the app wrote

var binPath = "cheatcode_e2e"

// Terminal input for the keys the tests press
const (
	KeyEnter = "\r"
	KeyCtrlC = "\x03"
	KeyCtrlS = "\x13"
	KeyUp    = "\x1b[A"
	KeyDown  = "\x1b[B"
	KeyRight = "\x1b[C"
	KeyLeft  = "\x1b[D"
)

// KonamiKeys is the konamicode preset as terminal input
var KonamiKeys = []string{
	KeyUp, KeyUp, KeyDown, KeyDown,
	KeyLeft, KeyRight, KeyLeft, KeyRight,
	"b", "a", KeyEnter,
}

// ansiRe strips CSI, OSC, charset and keypad sequences plus carriage returns
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` +
		`(?:\x1b\][^\x07]*\x07)|` +
		`(?:\x1b[\(\)][A-Za-z])|` +
		`(?:\x1b=|\x1b>)|` +
		`\r`,
)

// screen is a fixed-size ring of everything the app wrote to its terminal.
type screen struct {
	mu      sync.Mutex
	data    []byte
	next    int
	wrapped bool
}

func (s *screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range p {
		s.data[s.next] = b
		s.next++
		if s.next == len(s.data) {
			s.next = 0
			s.wrapped = true
		}
	}
	return len(p), nil
}

func (s *screen) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.wrapped {
		return string(s.data[:s.next])
	}
	return string(s.data[s.next:]) + string(s.data[:s.next])
}

// TUITestFramework runs the app in a PTY and lets tests type at it
type TUITestFramework struct {
	t         *testing.T
	pty       *os.File
	cmd       *exec.Cmd
	workspace string
	screen    *screen
}

// NewTUITest creates a driver for one app instance
func NewTUITest(t *testing.T) *TUITestFramework {
	return &TUITestFramework{
		t:      t,
		screen: &screen{data: make([]byte, scrollback)},
	}
}

// StartApp launches cheatcode with args in a 120x40 terminal
func (tf *TUITestFramework) StartApp(args ...string) error {
	tf.cmd = exec.Command(binPath, args...)
	tf.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+tf.workspace,
		"XDG_CONFIG_HOME="+tf.workspace,
		"CHEATCODE_E2E_TEST=1",
	)
	tf.cmd.Dir = tf.workspace // cheatcode.log lands in the workspace

	ptmx, err := pty.StartWithSize(tf.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("failed to start app in pty: %w", err)
	}
	tf.pty = ptmx

	go func() {
		_, _ = io.Copy(tf.screen, ptmx)
	}()
	return nil
}

// SendKeys writes raw terminal input
func (tf *TUITestFramework) SendKeys(keys string) error {
	tf.t.Helper()
	_, err := tf.pty.Write([]byte(keys))
	return err
}

// TypeSequence sends each key with a pause between them
func (tf *TUITestFramework) TypeSequence(keys []string, gap time.Duration) error {
	tf.t.Helper()
	for _, k := range keys {
		if err := tf.SendKeys(k); err != nil {
			return err
		}
		time.Sleep(gap)
	}
	return nil
}

// Toggle sends Ctrl+S to start or stop listening
func (tf *TUITestFramework) Toggle() error {
	tf.t.Helper()
	return tf.SendKeys(KeyCtrlS)
}

// Quit sends Ctrl+C, the only quit key, since every other key is a symbol
func (tf *TUITestFramework) Quit() error {
	tf.t.Helper()
	return tf.SendKeys(KeyCtrlC)
}

// Ready waits for the app to signal it's ready
func (tf *TUITestFramework) Ready() bool {
	tf.t.Helper()
	return tf.OutputContainsPlain("__READY__", 5*time.Second)
}

// SeePlain waits for text to appear in the normalized output
func (tf *TUITestFramework) SeePlain(text string) bool {
	tf.t.Helper()
	return tf.OutputContainsPlain(text, 3*time.Second)
}

// WaitForStatusMessage waits for message to show in the status line
func (tf *TUITestFramework) WaitForStatusMessage(message string) bool {
	tf.t.Helper()
	return tf.OutputContainsPlain(message, 3*time.Second)
}

// OutputContainsPlain polls the normalized output for text until timeout
func (tf *TUITestFramework) OutputContainsPlain(text string, timeout time.Duration) bool {
	tf.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if strings.Contains(tf.Plain(), text) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// Plain returns everything written so far with ANSI sequences removed
func (tf *TUITestFramework) Plain() string {
	return ansiRe.ReplaceAllString(tf.screen.String(), "")
}

// DumpTailOnFail saves the last n bytes of normalized output for debugging
func (tf *TUITestFramework) DumpTailOnFail(t *testing.T, name string, n int) {
	tf.t.Helper()
	s := tf.Plain()
	if len(s) > n {
		s = s[len(s)-n:]
	}
	p := filepath.Join(t.TempDir(), name+".txt")
	_ = os.WriteFile(p, []byte(s), 0644)
	t.Logf("Saved tail to %s", p)
}

// Cleanup closes the PTY and kills the app if it is still running
func (tf *TUITestFramework) Cleanup() {
	if tf.pty != nil {
		_ = tf.pty.Close()
		tf.pty = nil
	}
	if tf.cmd != nil && tf.cmd.Process != nil {
		_ = tf.cmd.Process.Kill()
		_, _ = tf.cmd.Process.Wait()
		tf.cmd = nil
	}
}
