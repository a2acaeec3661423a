// Package gc implements the generational garbage collector that owns every
// Selene heap object: strings, tables, function prototypes and closures.
// Objects live in per-generation slot arenas; a write barrier queue lets a
// minor cycle collect the young generation without scanning the whole heap.
package gc

// Generation is the age class of a heap object. Younger generations are
// collected more frequently and cheaply.
type Generation uint8

const (
	GenYoung Generation = iota
	GenMiddle
	GenOld
)

var generationNames = [...]string{
	GenYoung:  "young",
	GenMiddle: "middle",
	GenOld:    "old",
}

// String returns a human-readable name for the generation.
func (g Generation) String() string {
	return generationNames[g]
}

// Color is the mark state of a heap object. Between cycles every live
// object is White; a mark phase blackens the reachable set.
type Color uint8

const (
	White Color = iota
	Black
)

// header is embedded in every heap object kind. slot is the object's index
// in its generation's arena; age counts survived cycles toward promotion.
type header struct {
	gen   Generation
	color Color
	age   uint8
	slot  int
}

// Visitor is invoked by the mark phases with one method per concrete heap
// object kind. A true return means the object's references were not yet
// fully traversed and its members must be descended into; false means the
// object was already handled and traversal stops there.
type Visitor interface {
	VisitString(*String) bool
	VisitTable(*Table) bool
	VisitFunction(*Function) bool
	VisitClosure(*Closure) bool
}

// Object is the common interface of all heap object kinds. The kind set is
// closed: only types in this package can implement it.
type Object interface {
	// Accept dispatches to the visitor method for the concrete kind and,
	// when it returns true, recursively visits the object's members.
	Accept(v Visitor) bool

	hdr() *header
}

// ValueKind tags a Value.
type ValueKind uint8

const (
	ValueNil ValueKind = iota
	ValueBool
	ValueNumber
	ValueObject
)

// Value is one Selene value: nil, a boolean, a number, or a reference to a
// heap object. Values are comparable and usable as table keys.
type Value struct {
	Kind ValueKind
	Bool bool
	Num  float64
	Obj  Object
}

// Nil returns the nil value.
func Nil() Value { return Value{} }

// Boolean wraps a bool.
func Boolean(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// Number wraps a float64.
func Number(n float64) Value { return Value{Kind: ValueNumber, Num: n} }

// ObjectRef wraps a heap object reference.
func ObjectRef(o Object) Value { return Value{Kind: ValueObject, Obj: o} }

// Accept visits the value's object, if it holds one.
func (v Value) Accept(visitor Visitor) {
	if v.Kind == ValueObject && v.Obj != nil {
		v.Obj.Accept(visitor)
	}
}

// String is an immutable heap-allocated string.
type String struct {
	header
	Text string
}

// Accept implements Object. Strings have no members to descend into.
func (s *String) Accept(v Visitor) bool {
	return v.VisitString(s)
}

func (s *String) hdr() *header { return &s.header }

// Table is the Selene record type: a dense array part plus a hash part.
type Table struct {
	header
	arr  []Value
	hash map[Value]Value
}

// Get returns the value bound to key, or nil if absent.
func (t *Table) Get(key Value) Value {
	if t.hash == nil {
		return Nil()
	}
	return t.hash[key]
}

// Set binds key to val without any barrier bookkeeping. Mutations that may
// store a young reference into an older table must go through
// Collector.SetTableField instead.
func (t *Table) Set(key, val Value) {
	if t.hash == nil {
		t.hash = make(map[Value]Value)
	}
	t.hash[key] = val
}

// Append pushes val onto the array part.
func (t *Table) Append(val Value) {
	t.arr = append(t.arr, val)
}

// ArrayLen returns the length of the array part.
func (t *Table) ArrayLen() int {
	return len(t.arr)
}

// ArrayAt returns the array element at index i.
func (t *Table) ArrayAt(i int) Value {
	return t.arr[i]
}

// Accept implements Object, descending into keys and values when the
// visitor asks for traversal.
func (t *Table) Accept(v Visitor) bool {
	if !v.VisitTable(t) {
		return false
	}
	for _, el := range t.arr {
		el.Accept(v)
	}
	for k, el := range t.hash {
		k.Accept(v)
		el.Accept(v)
	}
	return true
}

func (t *Table) hdr() *header { return &t.header }

// Closure pairs a function prototype with its captured upvalues. Every
// closure's first upvalue is the global environment table.
type Closure struct {
	header
	proto    *Function
	upvalues []Value
}

// SetPrototype sets the function prototype the closure instantiates.
func (c *Closure) SetPrototype(f *Function) {
	c.proto = f
}

// Prototype returns the closure's function prototype.
func (c *Closure) Prototype() *Function {
	return c.proto
}

// AddUpvalue appends a captured value and returns its upvalue index.
func (c *Closure) AddUpvalue(v Value) int {
	c.upvalues = append(c.upvalues, v)
	return len(c.upvalues) - 1
}

// Upvalue returns the captured value at index i.
func (c *Closure) Upvalue(i int) Value {
	return c.upvalues[i]
}

// UpvalueCount returns the number of captured values.
func (c *Closure) UpvalueCount() int {
	return len(c.upvalues)
}

// Accept implements Object, descending into the prototype and upvalues.
func (c *Closure) Accept(v Visitor) bool {
	if !v.VisitClosure(c) {
		return false
	}
	if c.proto != nil {
		c.proto.Accept(v)
	}
	for _, uv := range c.upvalues {
		uv.Accept(v)
	}
	return true
}

func (c *Closure) hdr() *header { return &c.header }
