package main

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	testscript.RunMain(m, map[string]func() int{
		"stale": func() int {
			return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, provideComponents)
		},
	})
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   "testdata/script",
		Setup: setupScript,
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"mtime": cmdMtime,
		},
	})
}

func setupScript(env *testscript.Env) error {
	env.Setenv("NO_COLOR", "1")
	return nil
}

// cmdMtime sets the access and modification time of a path to a Unix timestamp.
//
//	mtime <path> <unix-seconds>
func cmdMtime(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("unsupported: ! mtime")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: mtime <path> <unix-seconds>")
	}

	secs, err := strconv.ParseInt(args[1], 10, 64)
	ts.Check(err)

	t := time.Unix(secs, 0)
	ts.Check(os.Chtimes(ts.MkAbs(args[0]), t, t))
}
