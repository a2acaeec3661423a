// Package ast declares the syntax-tree node types produced by the external
// parser and consumed by the code generator. The tree is immutable from the
// compiler's perspective; node fields are populated once by the parser.
package ast

// Node is implemented by every syntax-tree node.
type Node interface {
	node()
}

// Statement is a node that can appear in a block's statement list.
type Statement interface {
	Node
	stmt()
}

// Expression is a node that produces zero or more values.
type Expression interface {
	Node
	expr()
}

// Chunk is the root of a compiled module: one top-level block plus the
// module name used for diagnostics.
type Chunk struct {
	Block  *Block
	Module string
}

// Block is a brace of statements with an optional trailing return.
type Block struct {
	Statements []Statement
	Return     *ReturnStatement
}

// ReturnStatement returns the values of ExpList (which may be nil) from the
// enclosing function.
type ReturnStatement struct {
	ExpList *ExpressionList
	Line    int
}

// BreakStatement exits the innermost enclosing loop.
type BreakStatement struct {
	Line int
}

// DoStatement introduces a nested block scope.
type DoStatement struct {
	Block *Block
}

// WhileStatement loops Body while Condition holds.
type WhileStatement struct {
	Condition Expression
	Body      *Block
}

// RepeatStatement runs Body at least once, until Condition holds.
type RepeatStatement struct {
	Body      *Block
	Condition Expression
}

// IfStatement branches on Condition; Else is an *ElseIfStatement, an
// *ElseStatement, or nil.
type IfStatement struct {
	Condition Expression
	TrueBlock *Block
	Else      Statement
}

// ElseIfStatement is a chained alternative of an IfStatement.
type ElseIfStatement struct {
	Condition Expression
	TrueBlock *Block
	Else      Statement
}

// ElseStatement is the final alternative of an IfStatement.
type ElseStatement struct {
	Block *Block
}

// NumericForStatement is `for name = init, limit[, step] do body end`.
type NumericForStatement struct {
	Name  Token
	Init  Expression
	Limit Expression
	Step  Expression
	Body  *Block
}

// GenericForStatement is `for names in exps do body end`.
type GenericForStatement struct {
	NameList *NameList
	ExpList  *ExpressionList
	Body     *Block
}

// FunctionStatement binds a function body to a (possibly dotted) name.
type FunctionStatement struct {
	Name *FunctionName
	Body *FunctionBody
}

// FunctionName is the target of a FunctionStatement: a head name, optional
// member path, and optional method name.
type FunctionName struct {
	Names  []Token
	Method Token
}

// LocalFunctionStatement declares a local name bound to a function body.
type LocalFunctionStatement struct {
	Name Token
	Body *FunctionBody
}

// LocalNameListStatement declares locals with an optional initializer list:
// `local a, b = e1, e2`.
type LocalNameListStatement struct {
	NameList *NameList
	ExpList  *ExpressionList
	Line     int
}

// AssignmentStatement assigns ExpList's values to VarList's targets.
type AssignmentStatement struct {
	VarList *VarList
	ExpList *ExpressionList
	Line    int
}

// VarList is the left-hand side of an assignment.
type VarList struct {
	Vars []Expression
}

// NameList is a comma-separated run of declared names.
type NameList struct {
	Names []Token
}

// Terminator is a leaf expression: a literal, a name, or vararg.
type Terminator struct {
	Token Token
}

// BinaryExpression applies the operator token to Left and Right.
type BinaryExpression struct {
	Left  Expression
	Right Expression
	Op    Token
}

// UnaryExpression applies the operator token to its operand.
type UnaryExpression struct {
	Operand Expression
	Op      Token
}

// FunctionBody is a function literal: parameter list plus body block.
type FunctionBody struct {
	Params *ParamList
	Block  *Block
	Line   int
}

// ParamList declares a function's parameters.
type ParamList struct {
	Names  []Token
	VarArg bool
}

// TableDefine is a table constructor expression.
type TableDefine struct {
	Fields []Expression
	Line   int
}

// TableIndexField is `[key] = value` inside a table constructor.
type TableIndexField struct {
	Index Expression
	Value Expression
}

// TableNameField is `name = value` inside a table constructor.
type TableNameField struct {
	Name  Token
	Value Expression
}

// TableArrayField is a positional value inside a table constructor.
type TableArrayField struct {
	Value Expression
}

// IndexAccessor is `table[index]`.
type IndexAccessor struct {
	Table Expression
	Index Expression
}

// MemberAccessor is `table.member`.
type MemberAccessor struct {
	Table  Expression
	Member Token
}

// NormalFuncCall is `caller(args)`.
type NormalFuncCall struct {
	Caller Expression
	Args   *FuncCallArgs
}

// MemberFuncCall is `receiver:member(args)`.
type MemberFuncCall struct {
	Receiver Expression
	Member   Token
	Args     *FuncCallArgs
}

// ArgKind distinguishes the three call-argument shorthands.
type ArgKind uint8

const (
	// ArgExpList is a parenthesized expression list.
	ArgExpList ArgKind = iota
	// ArgTable is the single table-constructor shorthand `f{...}`.
	ArgTable
	// ArgString is the single string-literal shorthand `f"s"`.
	ArgString
)

// FuncCallArgs carries a call's arguments. For ArgExpList, ExpList holds the
// (possibly nil) list; for ArgTable and ArgString, Arg holds the single
// argument expression.
type FuncCallArgs struct {
	Kind    ArgKind
	Arg     Expression
	ExpList *ExpressionList
}

// ExpressionList is a comma-separated run of expressions.
type ExpressionList struct {
	Exprs []Expression
}

func (*Chunk) node()                  {}
func (*Block) node()                  {}
func (*ReturnStatement) node()        {}
func (*BreakStatement) node()         {}
func (*DoStatement) node()            {}
func (*WhileStatement) node()         {}
func (*RepeatStatement) node()        {}
func (*IfStatement) node()            {}
func (*ElseIfStatement) node()        {}
func (*ElseStatement) node()          {}
func (*NumericForStatement) node()    {}
func (*GenericForStatement) node()    {}
func (*FunctionStatement) node()      {}
func (*FunctionName) node()           {}
func (*LocalFunctionStatement) node() {}
func (*LocalNameListStatement) node() {}
func (*AssignmentStatement) node()    {}
func (*VarList) node()                {}
func (*NameList) node()               {}
func (*Terminator) node()             {}
func (*BinaryExpression) node()       {}
func (*UnaryExpression) node()        {}
func (*FunctionBody) node()           {}
func (*ParamList) node()              {}
func (*TableDefine) node()            {}
func (*TableIndexField) node()        {}
func (*TableNameField) node()         {}
func (*TableArrayField) node()        {}
func (*IndexAccessor) node()          {}
func (*MemberAccessor) node()         {}
func (*NormalFuncCall) node()         {}
func (*MemberFuncCall) node()         {}
func (*FuncCallArgs) node()           {}
func (*ExpressionList) node()         {}

func (*ReturnStatement) stmt()        {}
func (*BreakStatement) stmt()         {}
func (*DoStatement) stmt()            {}
func (*WhileStatement) stmt()         {}
func (*RepeatStatement) stmt()        {}
func (*IfStatement) stmt()            {}
func (*ElseIfStatement) stmt()        {}
func (*ElseStatement) stmt()          {}
func (*NumericForStatement) stmt()    {}
func (*GenericForStatement) stmt()    {}
func (*FunctionStatement) stmt()      {}
func (*LocalFunctionStatement) stmt() {}
func (*LocalNameListStatement) stmt() {}
func (*AssignmentStatement) stmt()    {}
func (*NormalFuncCall) stmt()         {}
func (*MemberFuncCall) stmt()         {}

func (*Terminator) expr()       {}
func (*BinaryExpression) expr() {}
func (*UnaryExpression) expr()  {}
func (*FunctionBody) expr()     {}
func (*TableDefine) expr()      {}
func (*IndexAccessor) expr()    {}
func (*MemberAccessor) expr()   {}
func (*NormalFuncCall) expr()   {}
func (*MemberFuncCall) expr()   {}
func (*TableIndexField) expr()  {}
func (*TableNameField) expr()   {}
func (*TableArrayField) expr()  {}
