package vm

import (
	"fmt"

	"github.com/wippyai/hax/bytecode"
	"github.com/wippyai/hax/errors"
	"github.com/wippyai/hax/isa"
)

// Result summarizes a simulation.
type Result struct {
	MaxDepth int // deepest value stack reached on any path
	Paths    int // paths followed to a return, raise or back edge
	States   int // distinct (offset, depth) pairs visited
}

// slot is one value stack entry. A non-empty mnemonic marks a placeholder
// loaded by name that has not been rewritten by the assembler.
type slot struct {
	mnemonic string
}

type state struct {
	stack []slot
	pc    int
}

type stateKey struct {
	offset int
	depth  int
}

type machine struct {
	code    *bytecode.Code
	format  isa.Format
	ins     []bytecode.Instruction
	index   map[int]int
	visited map[stateKey]bool
	work    []state
	res     Result
}

// Simulate walks every control-flow path of c, tracking the value stack
// depth with branch-specific stack effects. Conditional instructions fork
// the walk, a jump to an earlier offset ends its path and a revisited
// (offset, depth) pair is not walked twice.
//
// Calling a placeholder mnemonic fails with a *errors.UsageError, the
// same way running unassembled code does.
func Simulate(c *bytecode.Code) (Result, error) {
	ins, err := bytecode.Decode(c)
	if err != nil {
		return Result{}, err
	}
	m := &machine{
		code:    c,
		format:  c.FormatOrDefault(),
		ins:     ins,
		index:   make(map[int]int, len(ins)),
		visited: make(map[stateKey]bool),
	}
	for i, in := range ins {
		m.index[in.Offset] = i
	}
	if len(ins) == 0 {
		return m.res, nil
	}

	m.work = append(m.work, state{})
	for len(m.work) > 0 {
		s := m.work[len(m.work)-1]
		m.work = m.work[:len(m.work)-1]
		if err := m.run(s); err != nil {
			return m.res, err
		}
	}
	m.res.States = len(m.visited)
	return m.res, nil
}

// run follows one path until it leaves the code, meets a back edge or
// reaches a state already walked. Branches push the taken side onto the
// work list.
func (m *machine) run(s state) error {
	for {
		if s.pc >= len(m.ins) {
			return m.fail(m.ins[len(m.ins)-1], "execution runs past the last instruction")
		}
		in := m.ins[s.pc]
		key := stateKey{in.Offset, len(s.stack)}
		if m.visited[key] {
			return nil
		}
		m.visited[key] = true

		info := isa.MustByCode(m.format, in.Opcode)
		switch {
		case in.Opcode == isa.OpCallFunction:
			n := int(in.Arg)
			if len(s.stack) < n+1 {
				return m.underflow(in, len(s.stack))
			}
			if callee := s.stack[len(s.stack)-n-1]; callee.mnemonic != "" {
				return &errors.UsageError{Mnemonic: callee.mnemonic, File: m.code.Filename, Line: in.Line}
			}
			s.stack = append(s.stack[:len(s.stack)-n-1], slot{})
			s.pc++
			continue
		case in.Opcode == isa.OpLoadGlobal || in.Opcode == isa.OpLoadName:
			name, _ := in.ArgVal.(string)
			if !isa.IsMnemonic(m.format, name) {
				name = ""
			}
			m.push(&s, slot{mnemonic: name})
			s.pc++
			continue
		}

		switch info.Flow {
		case isa.FlowStop:
			if err := m.apply(&s, in, info, isa.BranchMax); err != nil {
				return err
			}
			m.res.Paths++
			return nil
		case isa.FlowJump:
			if err := m.apply(&s, in, info, isa.BranchTaken); err != nil {
				return err
			}
			next, ok, err := m.target(in)
			if err != nil || !ok {
				m.res.Paths++
				return err
			}
			s.pc = next
		case isa.FlowBranch:
			taken := state{stack: append([]slot(nil), s.stack...)}
			if err := m.apply(&taken, in, info, isa.BranchTaken); err != nil {
				return err
			}
			next, ok, err := m.target(in)
			if err != nil {
				return err
			}
			if ok {
				taken.pc = next
				m.work = append(m.work, taken)
			} else {
				m.res.Paths++
			}
			if err := m.apply(&s, in, info, isa.BranchNotTaken); err != nil {
				return err
			}
			s.pc++
		default:
			if err := m.apply(&s, in, info, isa.BranchMax); err != nil {
				return err
			}
			s.pc++
		}
	}
}

func (m *machine) apply(s *state, in bytecode.Instruction, info isa.Info, branch isa.Branch) error {
	eff := info.Effect(in.Arg, branch)
	if eff < 0 {
		if len(s.stack) < -eff {
			return m.underflow(in, len(s.stack))
		}
		s.stack = s.stack[:len(s.stack)+eff]
		return nil
	}
	for i := 0; i < eff; i++ {
		m.push(s, slot{})
	}
	return nil
}

func (m *machine) push(s *state, v slot) {
	s.stack = append(s.stack, v)
	m.res.MaxDepth = max(m.res.MaxDepth, len(s.stack))
}

// target resolves the jump destination of in. ok is false for back edges.
func (m *machine) target(in bytecode.Instruction) (int, bool, error) {
	t, _ := in.Target()
	if t <= in.Offset {
		return 0, false, nil
	}
	i, found := m.index[t]
	if !found {
		return 0, false, m.fail(in, "jump to offset %d which is not an instruction boundary", t)
	}
	return i, true, nil
}

func (m *machine) underflow(in bytecode.Instruction, depth int) error {
	return m.fail(in, "%s needs more than %d stack entries", in.Name, depth)
}

func (m *machine) fail(in bytecode.Instruction, format string, args ...any) error {
	return errors.New(errors.PhaseRuntime, errors.KindInvalidData).
		At(m.code.Filename, in.Line).
		Value(in.Offset).
		Detail("%s at offset %d: %s", m.code.Name, in.Offset, fmt.Sprintf(format, args...)).
		Build()
}
