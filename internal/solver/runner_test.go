package solver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/litescript/ls-platesolver/internal/astro"
	"github.com/litescript/ls-platesolver/internal/catalog"
	"github.com/litescript/ls-platesolver/internal/logging"
	"github.com/litescript/ls-platesolver/internal/solution"
)

// fakeSolver writes a shell script that behaves like the solver: it prints
// its arguments and copies $FAKE_WCS next to the image given with -f.
const fakeSolver = `#!/bin/sh
echo "args: $*"
img=""
while [ $# -gt 0 ]; do
	case "$1" in
	-f) img="$2"; shift ;;
	esac
	shift
done
echo "searching" >&2
if [ -n "$FAKE_SLEEP" ]; then
	echo "started"
	exec sleep "$FAKE_SLEEP"
fi
if [ -n "$FAKE_EXIT" ]; then
	exit "$FAKE_EXIT"
fi
cp "$FAKE_WCS" "${img%.*}.wcs"
echo "done"
`

func newRunner(t *testing.T) (*Runner, *[]string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "bin", "astap_cli")
	os.MkdirAll(filepath.Dir(bin), 0o755)
	if err := os.WriteFile(bin, []byte(fakeSolver), 0o755); err != nil {
		t.Fatal(err)
	}
	fixture, err := filepath.Abs("../wcs/testdata/m42.wcs")
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("FAKE_WCS", fixture)

	img := filepath.Join(dir, "m42.jpg")
	os.WriteFile(img, []byte("not really a jpeg"), 0o644)

	store, err := solution.NewStore(filepath.Join(dir, "solutions"), logging.Discard())
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	msgs := &[]string{}
	r := &Runner{
		Binary:    bin,
		StarDBDir: filepath.Join(dir, "stars"),
		Params:    solution.Params{ImagePath: img, ImageName: "m42.jpg", FOVDeg: 3.7, DBName: StarDBH17},
		Catalog:   catalog.Builtin(),
		Store:     store,
		Logger:    logging.Discard(),
		OnMessage: func(line string) {
			mu.Lock()
			*msgs = append(*msgs, line)
			mu.Unlock()
		},
	}
	return r, msgs
}

func TestArgs(t *testing.T) {
	p := solution.Params{ImagePath: "/img/m42.jpg", FOVDeg: 3.5}
	got := strings.Join(Args(p, "/db"), " ")
	if want := "-f /img/m42.jpg -d /db -fov 3.5"; got != want {
		t.Errorf("Args() = %q, want %q", got, want)
	}

	p.StartSearch = &astro.CelestialCoordinate{RA: 83.822, Dec: -5.391}
	got = strings.Join(Args(p, "/db"), " ")
	if want := "-f /img/m42.jpg -d /db -fov 3.5 -ra 83.822000 -spd 84.609000"; got != want {
		t.Errorf("Args() = %q, want %q", got, want)
	}
}

func TestWCSPath(t *testing.T) {
	tests := map[string]string{
		"/a/b/m42.jpg":     "/a/b/m42.wcs",
		"/a/b/m42.fit.png": "/a/b/m42.fit.wcs",
		"noext":            "noext.wcs",
	}
	for in, want := range tests {
		if got := WCSPath(in); got != want {
			t.Errorf("WCSPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRunner_Run(t *testing.T) {
	r, msgs := newRunner(t)

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v (stderr %s)", err, res.Stderr)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if !strings.Contains(string(res.Stdout), "-fov 3.7") {
		t.Errorf("Stdout = %q, want the command line echoed", res.Stdout)
	}
	if strings.TrimSpace(string(res.Stderr)) != "searching" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
	if len(*msgs) != 3 {
		t.Errorf("messages = %q, want 3 lines", *msgs)
	}

	if res.Solution == nil || len(res.Solution.Matched) == 0 {
		t.Fatal("no solution")
	}
	if res.SolutionPath != r.Store.Path(r.Params) {
		t.Errorf("SolutionPath = %s, want %s", res.SolutionPath, r.Store.Path(r.Params))
	}
	if _, ok := r.Store.Lookup(r.Params); !ok {
		t.Error("solution not in the store")
	}
}

func TestRunner_Failure(t *testing.T) {
	r, _ := newRunner(t)
	t.Setenv("FAKE_EXIT", "3")

	// a result left from an earlier run must not be picked up
	stale := WCSPath(r.Params.ImagePath)
	os.WriteFile(stale, []byte("CRPIX1 = 1\n"), 0o644)

	res, err := r.Run(context.Background())
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("Run() error = %v, want ErrNoResult", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale result file was not removed")
	}
}

func TestRunner_NotSolved(t *testing.T) {
	r, _ := newRunner(t)
	unsolved := filepath.Join(t.TempDir(), "unsolved.wcs")
	os.WriteFile(unsolved, []byte("PLTSOLVD=                    F\nEND\n"), 0o644)
	t.Setenv("FAKE_WCS", unsolved)

	if _, err := r.Run(context.Background()); !errors.Is(err, ErrNotSolved) {
		t.Errorf("Run() error = %v, want ErrNotSolved", err)
	}
}

func TestRunner_AbortBeforeStart(t *testing.T) {
	r, msgs := newRunner(t)
	r.Binary = "/does/not/exist"
	r.Abort()

	res, err := r.Run(context.Background())
	if !errors.Is(err, ErrAborted) {
		t.Errorf("Run() error = %v, want ErrAborted", err)
	}
	if res.ExitCode != ExitAborted {
		t.Errorf("ExitCode = %d, want %d", res.ExitCode, ExitAborted)
	}
	if len(*msgs) != 0 {
		t.Errorf("messages = %q, want none", *msgs)
	}
}

func TestRunner_AbortWhileRunning(t *testing.T) {
	r, _ := newRunner(t)
	t.Setenv("FAKE_SLEEP", "30")

	started := make(chan struct{})
	var once sync.Once
	r.OnMessage = func(line string) {
		if line == "started" {
			once.Do(func() { close(started) })
		}
	}

	done := make(chan struct{})
	var res Result
	var err error
	go func() {
		res, err = r.Run(context.Background())
		close(done)
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("solver never started")
	}
	r.Abort()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Abort")
	}
	if !errors.Is(err, ErrAborted) {
		t.Errorf("Run() error = %v, want ErrAborted", err)
	}
	if res.ExitCode <= 128 {
		t.Errorf("ExitCode = %d, want death by signal", res.ExitCode)
	}
}

func TestRunner_StartError(t *testing.T) {
	r, _ := newRunner(t)
	r.Binary = filepath.Join(t.TempDir(), "missing")

	if _, err := r.Run(context.Background()); err == nil || errors.Is(err, ErrNoResult) {
		t.Errorf("Run() error = %v, want a start error", err)
	}
}

func TestLineWriter(t *testing.T) {
	var got []string
	w := &lineWriter{emit: func(s string) { got = append(got, s) }}
	w.Write([]byte("one\r\ntw"))
	w.Write([]byte("o\nthree"))
	w.flush()

	want := []string{"one", "two", "three"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("lines = %q, want %q", got, want)
	}
	if w.buf.String() != "one\r\ntwo\nthree" {
		t.Errorf("buf = %q", w.buf.String())
	}
}
