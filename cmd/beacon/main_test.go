package main

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"
)

func stubExecute(t *testing.T, fn func(context.Context, []string) error, mapFn func(error) int) {
	t.Helper()
	origExec, origMap, origTerminate := executeCmd, mapExitCode, terminate
	t.Cleanup(func() {
		executeCmd, mapExitCode, terminate = origExec, origMap, origTerminate
	})
	executeCmd = fn
	mapExitCode = mapFn
}

func TestRun_Success(t *testing.T) {
	var gotArgs []string
	stubExecute(t,
		func(_ context.Context, args []string) error {
			gotArgs = slices.Clone(args)
			return nil
		},
		func(error) int {
			t.Fatal("mapExitCode should not be called on success")
			return 99
		},
	)

	if code := run([]string{"count", "--json"}); code != 0 {
		t.Fatalf("run() code = %d, want 0", code)
	}
	if !slices.Equal(gotArgs, []string{"count", "--json"}) {
		t.Fatalf("args = %v", gotArgs)
	}
}

func TestRun_ErrorUsesMappedExitCode(t *testing.T) {
	executeErr := errors.New("boom")
	stubExecute(t,
		func(context.Context, []string) error { return executeErr },
		func(err error) int {
			if !errors.Is(err, executeErr) {
				t.Fatalf("mapExitCode got err %v, want %v", err, executeErr)
			}
			return 4
		},
	)

	if code := run([]string{"user", "online", "ghost"}); code != 4 {
		t.Fatalf("run() code = %d, want 4", code)
	}
}

func TestMain_UsesTerminateWithRunCode(t *testing.T) {
	stubExecute(t,
		func(context.Context, []string) error { return errors.New("boom") },
		func(error) int { return 7 },
	)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	gotCode := -1
	terminate = func(code int) { gotCode = code }
	os.Args = []string{"beacon", "status", "--ping"}
	main()

	if gotCode != 7 {
		t.Fatalf("terminate code = %d, want 7", gotCode)
	}
}
