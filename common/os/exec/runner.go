package exec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	CmdSeparator = "--------------------------------------------------------------"
)

var TimeoutError = errors.New("command timeout")

// RunResult encapsulates a return from RunKillableCommand: the process state,
// the full contents of stdout and stderr, and any Start/Wait error.
type RunResult struct {
	// ProcessState contains information about an exited process.
	// A command that fails to start or run may have a nil ProcessState.
	ProcessState *os.ProcessState

	Stdout []byte
	Stderr []byte

	// Error contains any error from exec.Cmd Start() or Wait().
	Error error
}

func (rr RunResult) String() string {
	return fmt.Sprintf("Error:%s, Stdout:%s, Stderr:%s", rr.Error, rr.Stdout, rr.Stderr)
}

// Err folds the run into a single error, including stderr when there is some.
func (rr RunResult) Err() error {
	if rr.Error == nil {
		return nil
	}
	if stderr := strings.TrimSpace(string(rr.Stderr)); stderr != "" {
		return fmt.Errorf("%s: %s", rr.Error, stderr)
	}
	return rr.Error
}

func truncateCmd(cmd Cmd) string {
	args := cmd.Args()
	if len(args) > 0 {
		args[0] = filepath.Base(args[0])
	}
	return strings.Join(args, " ")
}

// RunKillableCommand runs cmd in its own session and returns its ProcessState and
// stdout/stderr contents. Combined output is also streamed to streamLog as the
// command executes.
//
// The command is stopped when killCh is readable (closed, or the Done channel
// of a cancelled context) or, if timeout > 0, when timeout elapses; the
// returned error is then TimeoutError. Stopping SIGTERMs the whole process
// group and SIGKILLs it if the command is still running after killTimeout, so
// children holding the output pipes, like an ssh ProxyCommand, cannot keep the
// call blocked.
func RunKillableCommand(
	cmd Cmd,
	killCh <-chan struct{},
	killTimeout time.Duration,
	streamLog io.Writer,
	timeout time.Duration,
) RunResult {
	var outBuf, errBuf bytes.Buffer
	syncLog := &syncWriter{w: streamLog}
	cmd.SetStdout(io.MultiWriter(&outBuf, syncLog))
	cmd.SetStderr(io.MultiWriter(&errBuf, syncLog))
	cmd.SetSession(true)

	name := truncateCmd(cmd)
	log.WithFields(log.Fields{"cmd": name}).Debug("Running command")
	fmt.Fprintf(syncLog, "\n%s\nRunning Command: %s\n", CmdSeparator, name)
	if err := cmd.Start(); err != nil {
		return RunResult{Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes(), Error: err}
	}

	var waitErr error
	doneCh := make(chan struct{})
	go func() {
		waitErr = cmd.Wait()
		close(doneCh)
	}()

	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	var stopErr error
	trailer := ""
	select {
	case <-doneCh:
		trailer = fmt.Sprintf("Exited - ExitCode: %d", cmd.ProcessState().ExitCode())
	case <-timeoutCh:
		log.WithFields(log.Fields{"cmd": name, "timeout": timeout}).Info("Command timed out, stopping it")
		stop(cmd.Process(), killTimeout, doneCh)
		stopErr = TimeoutError
		trailer = fmt.Sprintf("Timeout after %v", timeout)
	case <-killCh:
		log.WithFields(log.Fields{"cmd": name}).Info("Received kill request for command")
		stop(cmd.Process(), killTimeout, doneCh)
		trailer = "Terminated by external request"
	}
	<-doneCh
	fmt.Fprintf(syncLog, "\n%s\n%s\n", trailer, CmdSeparator)

	rr := RunResult{
		ProcessState: cmd.ProcessState(),
		Stdout:       outBuf.Bytes(),
		Stderr:       errBuf.Bytes(),
		Error:        waitErr,
	}
	if stopErr != nil {
		rr.Error = stopErr
	}
	return rr
}

// stop SIGTERMs p's process group, then SIGKILLs it if doneCh is still open
// after grace.
func stop(p *os.Process, grace time.Duration, doneCh <-chan struct{}) {
	if p == nil {
		return
	}
	if err := signalGroup(p, syscall.SIGTERM); err != nil {
		log.WithField("err", err).Error("Failed to send SIGTERM to command")
	}
	select {
	case <-doneCh:
	case <-time.After(grace):
		log.WithField("pid", p.Pid).Info("Command hasn't exited, sending SIGKILL")
		if err := signalGroup(p, syscall.SIGKILL); err != nil {
			log.WithField("err", err).Error("Failed to kill command")
		}
	}
}

// signalGroup signals every process in p's group when p leads one, and p
// alone otherwise.
func signalGroup(p *os.Process, sig syscall.Signal) error {
	if pgid, err := syscall.Getpgid(p.Pid); err == nil && pgid == p.Pid {
		return syscall.Kill(-pgid, sig)
	}
	return p.Signal(sig)
}

// syncWriter is an io.Writer wrapper around another io.Writer that supports safe concurrent Writes.
// RunKillableCommand needs to use this to safely write both stdout and stderr to streamLog.
type syncWriter struct {
	w  io.Writer
	mu sync.Mutex
}

func (b *syncWriter) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.w.Write(p)
}
