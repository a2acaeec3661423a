// Package codegen lowers a parsed syntax tree into register-machine
// bytecode in a single forward pass. It resolves lexical scoping against a
// shared scope table, allocates registers with scope-exit reclamation, and
// threads expected-value counts through expressions so multi-value
// constructs emit exactly the code their context needs.
package codegen

import (
	"github.com/selene-lang/selene/pkg/ast"
	"github.com/selene-lang/selene/pkg/bytecode"
	"github.com/selene-lang/selene/pkg/gc"
)

// EnvUpvalueIndex is the upvalue slot every closure reserves for the
// global environment table; free names compile to indexed reads through
// this slot.
const EnvUpvalueIndex = 0

// Generator walks the syntax tree once, emitting instructions into the
// current function prototype. Function and closure objects are allocated
// through the collector; the generator itself never triggers collection.
type Generator struct {
	heap   *gc.Collector
	env    *gc.Table
	scopes scopeNameList
	states stateStack

	// current function and its compile state; mirrors states' top
	fn *gc.Function
	fs *funcState
}

// Generate compiles a module chunk against the given global environment
// table and returns the resulting top-level closure. Malformed trees panic
// with *InternalError; they are parser bugs, not compile errors.
func Generate(heap *gc.Collector, env *gc.Table, chunk *ast.Chunk) *gc.Closure {
	g := &Generator{heap: heap, env: env}
	return g.genChunk(chunk)
}

// genChunk compiles one function nesting level: a fresh prototype linked
// to its enclosing function, a fresh compile state, the body, and finally
// a closure that captures the global environment as its first upvalue.
func (g *Generator) genChunk(chunk *ast.Chunk) *gc.Closure {
	fn := g.heap.NewFunction(gc.GenOld)
	fn.SetBaseInfo(chunk.Module, 0)
	fn.SetSuperior(g.fn)

	prevFn, prevFs := g.fn, g.fs
	g.fn = fn
	g.fs = g.states.push()

	g.genBlock(chunk.Block)

	g.states.pop()
	g.fn, g.fs = prevFn, prevFs

	cl := g.heap.NewClosure(gc.GenYoung)
	cl.SetPrototype(fn)
	g.heap.AddClosureUpvalue(cl, gc.ObjectRef(g.env))
	return cl
}

// genBlock opens a lexical scope owned by the current function, compiles
// the statements and optional trailing return, then reclaims the block's
// registers: the next-free-register cursor is restored to its value at
// block entry and a settop resets the frame at runtime.
func (g *Generator) genBlock(block *ast.Block) {
	g.scopes.enter(g.fn)
	defer g.scopes.leave()

	reg := g.fn.NextRegister()

	for _, stmt := range block.Statements {
		g.genStatement(stmt)
	}
	if block.Return != nil {
		g.genStatement(block.Return)
	}

	g.fn.SetNextRegister(reg)
	g.fn.AddInstruction(bytecode.ACode(bytecode.OpSetTop, reg), 0)
}

func (g *Generator) genStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LocalNameListStatement:
		g.genLocalNameList(s)

	case *ast.NormalFuncCall:
		// As a statement the call has no consumer; popExpCount inside
		// genNormalCall yields zero expected results.
		g.genNormalCall(s)

	case *ast.ReturnStatement, *ast.BreakStatement, *ast.DoStatement,
		*ast.WhileStatement, *ast.RepeatStatement, *ast.IfStatement,
		*ast.ElseIfStatement, *ast.ElseStatement,
		*ast.NumericForStatement, *ast.GenericForStatement,
		*ast.FunctionStatement, *ast.LocalFunctionStatement,
		*ast.AssignmentStatement, *ast.MemberFuncCall:
		// Statement kinds accepted by the tree walk whose code
		// generation is not yet implemented; they emit nothing.

	default:
		internalf("unexpected statement node %T", s)
	}
}

func (g *Generator) genExpression(exp ast.Expression) {
	switch e := exp.(type) {
	case *ast.Terminator:
		g.genTerminator(e)

	case *ast.NormalFuncCall:
		g.genNormalCall(e)

	case *ast.BinaryExpression, *ast.UnaryExpression, *ast.FunctionBody,
		*ast.TableDefine, *ast.IndexAccessor, *ast.MemberAccessor,
		*ast.MemberFuncCall:
		// Expression kinds without code generation yet. The expected
		// count pushed by the consumer is still popped so the count
		// stacks stay balanced across the subtree.
		g.fs.popExpCount()

	default:
		internalf("unexpected expression node %T", e)
	}
}

// genLocalNameList compiles `local a, b = e1, e2`: all declared names are
// bound first, the initializer list is evaluated into fresh registers with
// an expected count equal to the number of names, and the values are then
// moved into the names' registers left to right. The scratch registers are
// reclaimed afterwards.
func (g *Generator) genLocalNameList(s *ast.LocalNameListStatement) {
	g.genNameList(s.NameList)

	reg := g.fn.NextRegister()
	names := len(g.fs.pending)

	if s.ExpList != nil {
		g.fs.pushListCount(Exactly(names))
		g.genExpressionList(s.ExpList)
	}

	expReg := reg
	for i := 0; i < names; i++ {
		nr := g.fs.pending[i]
		g.fn.AddInstruction(bytecode.ABCode(bytecode.OpMove, nr.register, expReg), nr.token.Line)
		expReg++
	}
	g.fs.pending = g.fs.pending[:0]

	g.fn.SetNextRegister(reg)
	g.fn.AddInstruction(bytecode.ACode(bytecode.OpSetTop, reg), 0)
}

// genNameList binds each declared name in the current scope. A name
// already bound in this same scope reuses its register instead of
// allocating a new one. The (register, token) pairs are buffered for the
// initializer wiring that follows.
func (g *Generator) genNameList(list *ast.NameList) {
	for _, tok := range list.Names {
		if tok.Kind != ast.TokenName {
			internalf("name list holds %s token %q", tok.Kind, tok.Str)
		}
		reg := g.fn.NextRegister()
		reg, fresh := g.scopes.current.add(tok.Str, reg)
		if fresh {
			g.fn.AllocNextRegister()
		}
		g.fs.pending = append(g.fs.pending, nameReg{register: reg, token: tok})
	}
}

// genTerminator compiles a leaf expression. When the popped expected count
// is zero the value is provably unused and no instruction is emitted; the
// constant pool is still interned so diagnostics see the literal.
func (g *Generator) genTerminator(term *ast.Terminator) {
	t := term.Token
	count := g.fs.popExpCount()

	switch t.Kind {
	case ast.TokenNumber, ast.TokenString:
		var idx int
		if t.Kind == ast.TokenNumber {
			idx = g.fn.AddConstNumber(t.Num)
		} else {
			idx = g.fn.AddConstString(t.Str)
		}
		if !count.IsZero() {
			reg := g.fn.AllocNextRegister()
			g.fn.AddInstruction(bytecode.ABCode(bytecode.OpLoadConst, reg, idx), t.Line)
		}

	case ast.TokenName:
		scope, owner := g.scopes.current.resolve(t.Str)
		switch {
		case scope == nil:
			// Free name: defined behavior, not an error. Load the name
			// string and read it out of the environment table upvalue.
			idx := g.fn.AddConstString(t.Str)
			if !count.IsZero() {
				reg := g.fn.AllocNextRegister()
				g.fn.AddInstruction(bytecode.ABCode(bytecode.OpLoadConst, reg, idx), t.Line)
				g.fn.AddInstruction(bytecode.ABCCode(bytecode.OpGetUpTable, reg, EnvUpvalueIndex, reg), t.Line)
			}

		case owner == g.scopes.current.owner:
			src, ok := scope.lookup(t.Str)
			if !ok {
				internalf("resolved scope lost binding for %q", t.Str)
			}
			if !count.IsZero() {
				dst := g.fn.AllocNextRegister()
				g.fn.AddInstruction(bytecode.ABCode(bytecode.OpMove, dst, src), t.Line)
			}

		default:
			panic(&InternalError{
				Reason: "name " + t.Str + " is owned by an enclosing function",
				Err:    ErrUpvalueNotSupported,
			})
		}

	default:
		internalf("unexpected terminator token kind %s", t.Kind)
	}
}

// genExpressionList distributes the popped expected total across the list:
// every element but the last requests exactly one value, the last requests
// whatever remains (possibly all). A zero total visits every element for
// side effects only.
func (g *Generator) genExpressionList(list *ast.ExpressionList) {
	count := g.fs.popListCount()

	last := len(list.Exprs) - 1
	for i, exp := range list.Exprs {
		if count.IsZero() {
			g.fs.pushExpCount(Exactly(0))
		} else {
			want := Exactly(1)
			if i == last {
				want = count
			}
			g.fs.pushExpCount(want)
			if !count.IsAll() && !want.IsAll() {
				count = Exactly(count.Count() - want.Count())
			}
		}
		g.genExpression(exp)
	}
}

// genNormalCall compiles `caller(args)`. The callee is always evaluated
// for exactly one value regardless of how many results the call's own
// context expects; the call instruction carries that expected result
// count, with -1 meaning all results.
func (g *Generator) genNormalCall(call *ast.NormalFuncCall) {
	reg := g.fn.NextRegister()
	resultCount := g.fs.popExpCount()

	g.fs.pushExpCount(Exactly(1))
	g.genExpression(call.Caller)

	g.genFuncCallArgs(call.Args)

	g.fn.AddInstruction(bytecode.AsBxCode(bytecode.OpCall, reg, resultCount.operand()), 0)
}

// genFuncCallArgs compiles a call's arguments. The string and
// table-constructor shorthands supply a single value; a parenthesized
// expression list is evaluated with the unbounded count so a trailing call
// or vararg expands into all its values.
func (g *Generator) genFuncCallArgs(args *ast.FuncCallArgs) {
	switch args.Kind {
	case ast.ArgString, ast.ArgTable:
		g.fs.pushExpCount(Exactly(1))
		g.genExpression(args.Arg)

	case ast.ArgExpList:
		if args.ExpList != nil {
			g.fs.pushListCount(AllRemaining())
			g.genExpressionList(args.ExpList)
		}

	default:
		internalf("unexpected call argument kind %d", args.Kind)
	}
}
