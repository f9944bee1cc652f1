package listing

import (
	"os"

	"github.com/wippyai/hax/bytecode"
	"github.com/wippyai/hax/errors"
	"github.com/wippyai/hax/isa"
	"github.com/wippyai/hax/listing/internal/codegen"
	"github.com/wippyai/hax/listing/internal/parser"
	"github.com/wippyai/hax/listing/internal/token"
)

// Compile translates listing source into one code object per def block,
// in source order. file names the source in code objects and errors.
func Compile(file, source string, format isa.Format) ([]*bytecode.Code, error) {
	if !format.Valid() {
		return nil, errors.Unsupported(errors.PhaseParse, "bytecode format "+format.String())
	}
	f, err := parser.New(token.Tokenize(source), file, source).Parse()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int)
	codes := make([]*bytecode.Code, 0, len(f.Funcs))
	for _, fn := range f.Funcs {
		if prev, ok := seen[fn.Name]; ok {
			return nil, errors.New(errors.PhaseParse, errors.KindInvalidInput).
				At(file, fn.Line).
				Detail("def %s redefined (first defined on line %d)", fn.Name, prev).
				Build()
		}
		seen[fn.Name] = fn.Line

		c, err := codegen.Func(fn, file, format)
		if err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, nil
}

// CompileFile reads and compiles the listing at path.
func CompileFile(path string, format isa.Format) ([]*bytecode.Code, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindNotFound, err, path)
	}
	return Compile(path, string(src), format)
}
