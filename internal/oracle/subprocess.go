package oracle

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Subprocess is an Oracle that writes each candidate to an isolated working
// directory and runs a configured external command against it, classifying
// the result by exit code: 0 is Interesting, 1 is NotInteresting, anything
// else is Unresolved — the convention used by delta, cvise, and every other
// ddmin-family tool's test-script contract.
type Subprocess struct {
	// Command and Args name the program to run; every occurrence of the
	// literal placeholder "{}" within an argument is replaced with the
	// candidate file's path before execution. If no "{}" placeholder appears, the path is
	// appended as the final argument.
	Command string
	Args    []string

	// BaseDir is the directory under which each candidate's isolated
	// working directory is created via os.MkdirTemp. Empty means the
	// system default temp directory.
	BaseDir string

	// FileName is the name given to the candidate file inside its working
	// directory. Defaults to "input" if empty.
	FileName string

	// KeepWorkDirs, when true, skips cleanup of each candidate's working
	// directory (useful for debugging a failing oracle invocation).
	KeepWorkDirs bool
}

func (s Subprocess) Test(ctx context.Context, input []byte) (Verdict, error) {
	fileName := s.FileName
	if fileName == "" {
		fileName = "input"
	}

	workDir, err := os.MkdirTemp(s.BaseDir, "picireny-"+uuid.NewString()+"-")
	if err != nil {
		return Unresolved, fmt.Errorf("creating oracle working directory: %w", err)
	}
	if !s.KeepWorkDirs {
		defer os.RemoveAll(workDir)
	}

	candidatePath := filepath.Join(workDir, fileName)
	if err := os.WriteFile(candidatePath, input, 0o644); err != nil {
		return Unresolved, fmt.Errorf("writing candidate to %q: %w", candidatePath, err)
	}

	args := make([]string, len(s.Args))
	placed := false
	for i, a := range s.Args {
		if strings.Contains(a, "{}") {
			args[i] = strings.ReplaceAll(a, "{}", candidatePath)
			placed = true
		} else {
			args[i] = a
		}
	}
	if !placed {
		args = append(args, candidatePath)
	}

	cmd := exec.CommandContext(ctx, s.Command, args...)
	cmd.Dir = workDir

	err = cmd.Run()
	if err == nil {
		return Interesting, nil
	}

	var exitErr *exec.ExitError
	if !asExitError(err, &exitErr) {
		return Unresolved, fmt.Errorf("running oracle command %q: %w", s.Command, err)
	}

	if exitErr.ExitCode() == 1 {
		return NotInteresting, nil
	}
	return Unresolved, nil
}

func asExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if ok {
		*target = ee
	}
	return ok
}
