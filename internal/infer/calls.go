package infer

import (
	"fmt"

	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/semantic"
	"github.com/funvibe/funxy/internal/types"
)

// inferCall and inferPipe both funnel into inferCallCore, the name-based
// function-call unification protocol of SPEC_FULL.md §4.J: the callee's
// declared (Required, Optional, Pipe, Ret) is matched against the actual
// arguments by name, a pipe value is folded into whichever side names it,
// and every remaining mismatch (extra, missing, shape) is reported without
// aborting the pass.
func (inf *Inferencer) inferCall(ex *semantic.CallExpr) types.Monotype {
	return inf.inferCallCore(ex, nil, "", false)
}

// inferPipe infers the piped value once and treats it as this call's pipe
// argument, sharing the rest of the protocol with a direct call. Per
// SPEC_FULL.md §4.F, the converter deliberately leaves PipeExpr unresolved
// into a plain CallExpr because folding needs the callee's instantiated
// type — which is exactly what this function now has in hand.
func (inf *Inferencer) inferPipe(ex *semantic.PipeExpr) types.Monotype {
	leftType := inf.inferExpr(ex.Left)
	return inf.inferCallCore(ex.Call, leftType, "", true)
}

// inferCallCore implements the protocol. pipeVal/pipeName/pipeProvided
// describe a pipe value arriving via `|>`; a bare unnamed call argument
// (`f(x)`, no `|>` involved) is folded in exactly the same way, since
// SPEC_FULL.md's grammar has no other use for an unnamed call argument.
func (inf *Inferencer) inferCallCore(call *semantic.CallExpr, pipeVal types.Monotype, pipeName string, pipeProvided bool) types.Monotype {
	calleeType := types.Apply(inf.subst, inf.inferExpr(call.Callee))

	actual := map[string]types.Monotype{}
	for _, a := range call.Args {
		t := inf.inferExpr(a.Value)
		if a.Name == "" {
			if pipeProvided {
				inf.diags.Addf(call.Range().Start, call.Range().Filename, diagnostics.KindMultiplePipeArgs,
					"multiple pipe arguments")
				continue
			}
			pipeVal, pipeName, pipeProvided = t, "", true
			continue
		}
		actual[a.Name] = t
	}

	f, ok := calleeType.(types.TFunc)
	if !ok {
		if _, isErr := calleeType.(types.TError); !isErr {
			inf.diags.Addf(call.Callee.Range().Start, call.Callee.Range().Filename, diagnostics.KindCannotUnify,
				"call target is not a function: %s", calleeType)
		}
		return types.TError{}
	}

	pos := call.Range()

	// Fold the pipe value (from either `|>` or a bare unnamed argument) into
	// whichever side names it, per SPEC_FULL.md §4.J's four pipe cases.
	switch {
	case f.Pipe != nil && pipeProvided:
		if f.Pipe.Name != "" && pipeName != "" && f.Pipe.Name != pipeName {
			inf.diags.Addf(pos.Start, pos.Filename, diagnostics.KindMultiplePipeArgs,
				"multiple pipe arguments: %q and %q", pipeName, f.Pipe.Name)
		}
		name := f.Pipe.Name
		if name == "" {
			name = pipeName
		}
		if name == "" {
			name = pipeSlot
		}
		actual[name] = pipeVal
	case f.Pipe != nil && !pipeProvided:
		if f.Pipe.Name == "" {
			inf.diags.Addf(pos.Start, pos.Filename, diagnostics.KindMissingPipeArgument,
				"missing pipe argument")
		}
		// A named callee pipe with no caller value falls through to the
		// ordinary missing-required-argument check below.
	case f.Pipe == nil && pipeProvided:
		if pipeName == "" {
			inf.diags.Addf(pos.Start, pos.Filename, diagnostics.KindMissingPipeArgument,
				"function does not accept a pipe argument")
		} else {
			actual[pipeName] = pipeVal
		}
	}

	// An anonymous callee pipe with no caller value was already reported as a
	// missing pipe argument above, so it gets no required slot here.
	calleeRequired := f.Required
	if f.Pipe != nil && (f.Pipe.Name != "" || pipeProvided) {
		calleeRequired = make(map[string]types.Monotype, len(f.Required)+1)
		for k, v := range f.Required {
			calleeRequired[k] = v
		}
		name := f.Pipe.Name
		if name == "" {
			name = pipeName
		}
		if name == "" {
			name = pipeSlot
		}
		calleeRequired[name] = f.Pipe.Type
	}

	for name := range actual {
		_, isRequired := calleeRequired[name]
		_, isOptional := f.Optional[name]
		if !isRequired && !isOptional {
			inf.diags.Addf(pos.Start, pos.Filename, diagnostics.KindExtraArgument,
				"extra argument %q", name)
		}
	}

	for name, want := range calleeRequired {
		got, ok := actual[name]
		if !ok {
			inf.diags.Addf(pos.Start, pos.Filename, diagnostics.KindMissingArgument,
				"missing argument %q", name)
			continue
		}
		inf.unify.Unify(pos, fmt.Sprintf("(argument %s)", name), want, got)
	}
	for name, want := range f.Optional {
		if got, ok := actual[name]; ok {
			inf.unify.Unify(pos, fmt.Sprintf("(argument %s)", name), want, got)
		}
	}

	return types.Apply(inf.subst, f.Ret)
}

// pipeSlot names the synthetic required-argument key used to fold an
// anonymous pipe (callee `<-`, or caller `|>`/bare-argument with no name on
// either side) into the generic required-argument consumption loop above.
// It can never collide with a real parameter name, since SPEC_FULL.md's
// parameter names are parsed as plain identifiers.
const pipeSlot = "<-"
