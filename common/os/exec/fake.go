package exec

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"testing"

	log "github.com/sirupsen/logrus"
)

type (
	// ValidatingExecer is an OsExec implementation that instead of running Commands,
	// validates that commands would have been run against an expected set of
	// regular expressions, one per argument.
	// ValidatingExecer does not support Cmd.Process or Cmd.ProcessState overrides;
	// ProcessState always returns nil.
	ValidatingExecer struct {
		vCmd *ValidatingCmd
	}

	// ValidatingCmd implements Cmd. It does not actually run commands, but overrides
	// Run(), Start(), Wait() and Output() to validate what would have run.
	ValidatingCmd struct {
		Cmd
		t              *testing.T
		currentCmd     []string
		expectedCmdsRe [][]string
		commandIdx     int
		fakeActions    map[int]func(cmd Cmd) error
		doneCh         chan error
	}
)

// NewValidatingExecer returns a ValidatingExecer with a set of expected commands that will be called.
func NewValidatingExecer(t *testing.T, expectedCmdsRe [][]string) *ValidatingExecer {
	return &ValidatingExecer{vCmd: &ValidatingCmd{t: t, expectedCmdsRe: expectedCmdsRe, commandIdx: -1}}
}

// SetFakeActions allow the test to inject fake actions keyed by expected command index.
// Actions are only performed if command validation passes, and their return value
// replaces the return from Run(), Wait() or Output().
func (v *ValidatingExecer) SetFakeActions(fakeActions map[int]func(cmd Cmd) error) *ValidatingExecer {
	v.vCmd.fakeActions = fakeActions
	return v
}

// GetStdout provide a visibility to the stdout writer so fake actions can write test output.
func (v *ValidatingCmd) GetStdout() io.Writer {
	t, ok := v.Cmd.(*cmdAdapter)
	if !ok {
		log.Fatalf("v.Cmd is %T not *cmdAdapter.  The test is setup incorrectly", t)
	}
	return t.cmd.Stdout
}

// GetStderr provide a visibility to the stderr writer so fake actions can write test output.
func (v *ValidatingCmd) GetStderr() io.Writer {
	t, ok := v.Cmd.(*cmdAdapter)
	if !ok {
		log.Fatalf("v.Cmd is %T not *cmdAdapter.  The test is setup incorrectly", t)
	}
	return t.cmd.Stderr
}

// CurrentCmd returns the command line most recently handed to Command.
func (v *ValidatingCmd) CurrentCmd() []string {
	return append([]string(nil), v.currentCmd...)
}

// Command initializes a ValidatingExecer's Cmd object. When run, will be validated
// such that command was the next of the predefined expected commands.
func (v *ValidatingExecer) Command(cmd string, args ...string) Cmd {
	// Create a real Command mainly for interface compatibility
	v.vCmd.Cmd = NewOsExec().Command(cmd, args...)

	v.vCmd.currentCmd = []string{cmd}
	v.vCmd.currentCmd = append(v.vCmd.currentCmd, args...)
	v.vCmd.doneCh = make(chan error, 1)
	return v.vCmd
}

// run validates an exec command by comparing it with the next expected one, and executes any fake actions
func (v *ValidatingCmd) run() error {
	v.commandIdx++
	err := v.validateCmd()
	if err != nil {
		log.Error(err)
		v.doneCh <- err
		return err
	}
	if v.fakeActions != nil {
		if fn, ok := v.fakeActions[v.commandIdx]; ok {
			err = fn(v)
		}
	}
	v.doneCh <- err
	return err
}

// Start overrides Start() with validating behavior.
func (v *ValidatingCmd) Start() error {
	go v.run()
	return nil
}

// Wait overrides Wait() to return the validation/fake action result.
func (v *ValidatingCmd) Wait() error {
	return <-v.doneCh
}

// Run overrides Run() with validating behavior.
func (v *ValidatingCmd) Run() error {
	v.Start()
	return v.Wait()
}

func (v *ValidatingCmd) Output() ([]byte, error) {
	var outBuf bytes.Buffer
	v.SetStdout(&outBuf)
	v.Start()
	err := v.Wait()
	return outBuf.Bytes(), err
}

func (v *ValidatingCmd) validateCmd() error {
	if v.commandIdx >= len(v.expectedCmdsRe) {
		return fmt.Errorf("command validation failed.\n\tonly expected %d commands.\n\treceived extra command: %s\n",
			len(v.expectedCmdsRe), v.currentCmd)
	}

	commandRes := v.expectedCmdsRe[v.commandIdx]
	if len(commandRes) != len(v.currentCmd) {
		return fmt.Errorf("command validation failed.\n\tcmd index: %d\n\texpected: %d args (%s)\n\treceived: %d args (%s)\n",
			v.commandIdx, len(commandRes), strings.Join(commandRes, ","), len(v.currentCmd), strings.Join(v.currentCmd, ","))
	}
	for i, re := range commandRes {
		rec := regexp.MustCompile(re)
		if !rec.MatchString(v.currentCmd[i]) {
			return fmt.Errorf("command validation failed.\n\tcmd index: %d, entry: %d\n\texpected: %s\n\treceived: %s\n",
				v.commandIdx, i, re, v.currentCmd[i])
		}
	}
	return nil
}

// CheckAllValidated verifies that all expected commands were validated. Tests can
// `defer v.CheckAllValidated()` to use this.
func (v *ValidatingExecer) CheckAllValidated() {
	if v.vCmd.commandIdx != len(v.vCmd.expectedCmdsRe)-1 {
		v.vCmd.t.Fatalf("Number of expected commands: %d did not match validated command count: %d",
			len(v.vCmd.expectedCmdsRe), v.vCmd.commandIdx+1)
	}
}

type (
	// FlakyExecer is an OsExec implementation whose commands fail for the first
	// numCallsToFail calls and then succeed, writing output to stdout.
	FlakyExecer struct {
		mu             sync.Mutex
		numCallsToFail int
		output         []byte
		CallCount      int
	}

	flakyCmd struct {
		Cmd
		e      *FlakyExecer
		stdout io.Writer
	}
)

// NewFlakyExecer creates an execer for testing command retries.
func NewFlakyExecer(numCallsToFail int, output string) *FlakyExecer {
	return &FlakyExecer{numCallsToFail: numCallsToFail, output: []byte(output)}
}

// Command returns a Cmd that never runs anything.
func (fe *FlakyExecer) Command(cmd string, args ...string) Cmd {
	return &flakyCmd{Cmd: NewOsExec().Command(cmd, args...), e: fe}
}

// Calls returns the number of commands run so far.
func (fe *FlakyExecer) Calls() int {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.CallCount
}

func (fc *flakyCmd) SetStdout(w io.Writer) { fc.stdout = w }

func (fc *flakyCmd) Run() error {
	fc.e.mu.Lock()
	defer fc.e.mu.Unlock()
	fc.e.CallCount++
	if fc.e.CallCount <= fc.e.numCallsToFail {
		return fmt.Errorf("failing call %d", fc.e.CallCount)
	}
	if fc.stdout != nil {
		fc.stdout.Write(fc.e.output)
	}
	return nil
}

func (fc *flakyCmd) Start() error { return fc.Run() }
func (fc *flakyCmd) Wait() error  { return nil }

func (fc *flakyCmd) Output() ([]byte, error) {
	var outBuf bytes.Buffer
	fc.stdout = &outBuf
	err := fc.Run()
	return outBuf.Bytes(), err
}
