// Package solver runs the external plate solver on an image and turns its
// result file into a stored solution.
package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/litescript/ls-platesolver/internal/catalog"
	"github.com/litescript/ls-platesolver/internal/logging"
	"github.com/litescript/ls-platesolver/internal/solution"
	"github.com/litescript/ls-platesolver/internal/wcs"
)

// ExitAborted is the exit code reported for a run that was aborted before
// the solver started. It matches a process ended by SIGTERM.
const ExitAborted = 143

var (
	// ErrAborted is returned by Run after Abort.
	ErrAborted = errors.New("solver aborted")

	// ErrNoResult is returned when the solver did not write a result file.
	ErrNoResult = errors.New("solver produced no result")

	// ErrNotSolved is returned when the result file says the plate could not
	// be solved.
	ErrNotSolved = errors.New("plate not solved")
)

// Result describes one solver run.
type Result struct {
	// ExitCode is the solver's exit code. Codes above 128 mean the process
	// was ended by a signal.
	ExitCode int
	Stdout   []byte
	Stderr   []byte

	// SolutionPath and Solution are set when the run produced a solution.
	SolutionPath string
	Solution     *solution.Solution
}

// Runner runs the solver once. Abort may be called from another goroutine.
type Runner struct {
	Binary    string
	StarDBDir string
	Params    solution.Params
	Catalog   *catalog.Catalog
	Store     *solution.Store
	Logger    *logging.Logger

	// OnMessage receives solver output one line at a time. It may be nil.
	OnMessage func(line string)

	mu      sync.Mutex
	cmd     *exec.Cmd
	aborted bool

	msgMu sync.Mutex
}

// WCSPath returns where the solver writes its result for imagePath.
func WCSPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".wcs"
}

// Args returns the solver command line arguments for p.
func Args(p solution.Params, starDBDir string) []string {
	args := []string{
		"-f", p.ImagePath,
		"-d", starDBDir,
		"-fov", strconv.FormatFloat(p.FOVDeg, 'f', -1, 64),
	}
	if p.StartSearch != nil {
		args = append(args,
			"-ra", fmt.Sprintf("%f", p.StartSearch.RA),
			"-spd", fmt.Sprintf("%f", p.StartSearch.Dec+90))
	}
	return args
}

// Run starts the solver and blocks until it exits. On success the solution
// is written to the store.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	log := r.logger()
	wcsPath := WCSPath(r.Params.ImagePath)
	if err := os.Remove(wcsPath); err == nil {
		log.Debug("removed stale %s", wcsPath)
	}

	res, err := r.exec(ctx)
	if err != nil {
		return res, err
	}
	log.Debug("solver exited with code %d", res.ExitCode)

	if _, err := os.Stat(wcsPath); err != nil {
		if res.ExitCode != 0 {
			return res, fmt.Errorf("exit code %d: %w", res.ExitCode, ErrNoResult)
		}
		return res, fmt.Errorf("%s not created: %w", wcsPath, ErrNoResult)
	}

	h, err := wcs.ParseFile(wcsPath)
	if err != nil {
		return res, err
	}
	for _, l := range h.Invalid() {
		log.Warn("%s:%d: %s", filepath.Base(wcsPath), l.Number, l.Reason)
	}
	if !h.Solved() {
		return res, fmt.Errorf("%s: %w", r.Params.ImagePath, ErrNotSolved)
	}

	sol, err := solution.FromHeader(r.Params, h, r.Catalog)
	if err != nil {
		return res, fmt.Errorf("%s: %w", wcsPath, err)
	}
	log.Info("solved %s: %d objects in field", r.Params.ImagePath, len(sol.Matched))

	res.Solution = sol
	if r.Store != nil {
		path, err := r.Store.Save(sol)
		if err != nil {
			return res, err
		}
		res.SolutionPath = path
	}
	return res, nil
}

func (r *Runner) exec(ctx context.Context) (Result, error) {
	log := r.logger()
	args := Args(r.Params, r.StarDBDir)

	stdout := &lineWriter{emit: r.message}
	stderr := &lineWriter{emit: r.message}

	r.mu.Lock()
	if r.aborted {
		r.mu.Unlock()
		return Result{ExitCode: ExitAborted}, ErrAborted
	}
	bin := r.Binary
	if strings.ContainsRune(bin, filepath.Separator) {
		if abs, err := filepath.Abs(bin); err == nil {
			bin = abs
		}
	}
	// the solver looks for its support files next to the binary
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = filepath.Dir(cmd.Path)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = time.Second
	log.Debug("running %s %s", bin, strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		r.mu.Unlock()
		return Result{}, fmt.Errorf("start solver: %w", err)
	}
	r.cmd = cmd
	r.mu.Unlock()

	waitErr := cmd.Wait()
	stdout.flush()
	stderr.flush()

	r.mu.Lock()
	r.cmd = nil
	aborted := r.aborted
	r.mu.Unlock()

	res := Result{
		ExitCode: exitCode(cmd.ProcessState),
		Stdout:   stdout.buf.Bytes(),
		Stderr:   stderr.buf.Bytes(),
	}
	switch {
	case aborted:
		return res, ErrAborted
	case ctx.Err() != nil:
		return res, ctx.Err()
	}

	var ee *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &ee) {
		return res, fmt.Errorf("wait solver: %w", waitErr)
	}
	if res.ExitCode != 0 {
		log.Warn("solver exited with code %d", res.ExitCode)
	}
	return res, nil
}

// Abort stops a running solver. If the solver has not started yet, Run
// returns ErrAborted without starting it.
func (r *Runner) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aborted = true
	if r.cmd != nil && r.cmd.Process != nil {
		r.logger().Info("aborting solver (pid %d)", r.cmd.Process.Pid)
		r.cmd.Process.Kill()
	}
}

func (r *Runner) message(line string) {
	r.logger().Debug("solver: %s", line)
	if r.OnMessage == nil {
		return
	}
	r.msgMu.Lock()
	defer r.msgMu.Unlock()
	r.OnMessage(line)
}

func (r *Runner) logger() *logging.Logger {
	if r.Logger == nil {
		return logging.Discard()
	}
	return r.Logger
}

func exitCode(ps *os.ProcessState) int {
	if ps == nil {
		return -1
	}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return ps.ExitCode()
}

// lineWriter keeps everything written to it and passes complete lines to
// emit.
type lineWriter struct {
	buf     bytes.Buffer
	partial []byte
	emit    func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	w.partial = append(w.partial, p...)
	for {
		i := bytes.IndexByte(w.partial, '\n')
		if i < 0 {
			break
		}
		w.emit(strings.TrimRight(string(w.partial[:i]), "\r"))
		w.partial = w.partial[i+1:]
	}
	return len(p), nil
}

func (w *lineWriter) flush() {
	if len(w.partial) > 0 {
		w.emit(string(w.partial))
		w.partial = nil
	}
}
