// Command funxyfront drives SPEC_FULL.md's three front-end entry points —
// parse, convert, infer — over one or more source files, reporting every
// diagnostic collected along the way. It performs no execution, compilation,
// or module resolution (those are explicit Non-goals); it exists to exercise
// components D/F/J end to end the way a `go vet`-style frontend checker
// would.
//
// Grounded on funvibe-funxy/cmd/funxy/main.go's argument-handling and
// `fmt.Fprintf(os.Stderr, "- %s\n", err)` error-reporting style, its
// `isSourceFile`/config.SourceFileExtensions filtering, and its directory-
// expansion loop in handleTest; processing fans out across files with
// golang.org/x/sync/errgroup, mirroring the general concurrent-worker idiom
// used elsewhere in the pack's command-line drivers rather than the
// teacher's own sequential for-loop (this front end has no shared mutable
// module cache forcing sequential order).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/funxy/internal/config"
	"github.com/funvibe/funxy/internal/convert"
	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/parser"
	"github.com/funvibe/funxy/internal/symbols"
	"github.com/funvibe/funxy/internal/token"
	"github.com/funvibe/funxy/internal/types"
	"github.com/funvibe/funxy/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	files, err := expandArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s <file|dir>...\n", filepath.Base(os.Args[0]))
		return 1
	}

	sessionID := uuid.New()
	logger = logger.With("session", sessionID.String())
	logger.Info("starting frontend pass", "files", len(files))

	results := make([]*fileResult, len(files))
	g, ctx := errgroup.WithContext(context.Background())
	for i, path := range files {
		g.Go(func() error {
			results[i] = processFile(ctx, logger, sessionID, path)
			return nil
		})
	}
	_ = g.Wait() // processFile never returns an error; failures live in diagnostics

	hasErrors := false
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, d := range r.diags.Errors() {
			fmt.Fprintf(os.Stderr, "- %s\n", d.Error())
			hasErrors = true
		}
	}
	if hasErrors {
		return 1
	}
	logger.Info("frontend pass clean", "files", len(files))
	return 0
}

// expandArgs mirrors funvibe-funxy/cmd/funxy/main.go's handleTest directory-
// expansion loop: a directory argument contributes every recognized source
// file directly inside it (non-recursive), a file argument is taken as-is.
func expandArgs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if config.HasSourceExt(e.Name()) {
				out = append(out, filepath.Join(arg, e.Name()))
			}
		}
	}
	return out, nil
}

type fileResult struct {
	path  string
	diags *diagnostics.List
}

// processFile runs the full parse -> convert -> infer pipeline over one
// file. Each file gets its own substitution, scope, and converter/inferencer
// pair — this front end has no cross-file module loader (an explicit
// Non-goal), so every file is its own one-file package.
func processFile(_ context.Context, logger *slog.Logger, session uuid.UUID, path string) *fileResult {
	log := logger.With("file", path)
	diags := &diagnostics.List{}

	src, err := os.ReadFile(path)
	if err != nil {
		diags.Addf(token.NoPos, path, diagnostics.KindCannotContinue, "cannot read file: %s", err)
		return &fileResult{path: path, diags: diags}
	}

	astFile, parseDiags := parser.ParseFile(path, string(src))
	diags.Append(parseDiags)
	log.Debug("parsed", "session", session.String(), "diagnostics", parseDiags.Len())

	pkgName := utils.ExtractModuleName(path)
	if astFile.Package != nil {
		pkgName = astFile.Package.Name
	}

	subst := types.NewSubst()
	root := symbols.NewRootScope(nil)
	conv := convert.New(pkgName, subst, root)
	semFile := conv.ConvertFile(astFile)
	diags.Append(conv.Diagnostics())
	log.Debug("converted", "session", session.String())

	inferencer := infer.New(subst)
	inferencer.InferFile(semFile)
	diags.Append(inferencer.Diagnostics())
	log.Debug("inferred", "session", session.String())

	diags.Sort()
	return &fileResult{path: path, diags: diags}
}
