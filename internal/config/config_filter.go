package config

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"
)

type Filter struct {
	Condition string

	once       sync.Once
	program    *vm.Program
	compileErr error
}

// FilterEntryEnv is the environment explorer filters are evaluated in.
//
// The `expr` tag is used to map the field to the corresponding variable.
// Without it, all variables start with capitalized letters.
type FilterEntryEnv struct {
	Name     string `expr:"name"`
	Path     string `expr:"path"`
	Ext      string `expr:"ext"`
	IsFolder bool   `expr:"is_folder"`
}

// Compile compiles the condition once. It is called by Evaluate.
func (f *Filter) Compile() error {
	f.once.Do(func() {
		program, err := expr.Compile(
			f.Condition,
			expr.Env(FilterEntryEnv{}),
			expr.AsBool(),
		)
		f.program, f.compileErr = program, errors.Wrap(err, "failed to compile filter program")
	})
	if f.program == nil {
		return f.compileErr
	}
	return nil
}

func (f *Filter) Evaluate(env FilterEntryEnv) (bool, error) {
	if err := f.Compile(); err != nil {
		return false, err
	}

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, errors.Wrap(err, "failed to run filter program")
	}
	return result.(bool), nil
}
