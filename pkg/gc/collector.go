package gc

import (
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("selene.gc")

// Default per-generation collection thresholds and the floor below which an
// adaptive threshold is never allowed to fall.
const (
	DefaultYoungThreshold  = 512
	DefaultMiddleThreshold = 512
	DefaultOldThreshold    = 512
	DefaultThresholdFloor  = 64
)

// promoteAge is the number of cycles an object must survive in its current
// generation before it is promoted to the next older one.
const promoteAge = 2

// Config carries the initial collection thresholds. Zero fields take the
// package defaults.
type Config struct {
	YoungThreshold  int
	MiddleThreshold int
	OldThreshold    int
	ThresholdFloor  int
}

func (c Config) withDefaults() Config {
	if c.YoungThreshold <= 0 {
		c.YoungThreshold = DefaultYoungThreshold
	}
	if c.MiddleThreshold <= 0 {
		c.MiddleThreshold = DefaultMiddleThreshold
	}
	if c.OldThreshold <= 0 {
		c.OldThreshold = DefaultOldThreshold
	}
	if c.ThresholdFloor <= 0 {
		c.ThresholdFloor = DefaultThresholdFloor
	}
	return c
}

// RootSet supplies the collector's two root-enumeration callbacks. Minor is
// run by minor cycles and may omit objects only reachable through
// old-generation containers; the barrier queue covers that gap. Major must
// enumerate the entire root set. A nil callback enumerates nothing.
type RootSet struct {
	Minor func(Visitor)
	Major func(Visitor)
}

// CycleKind distinguishes minor from major collection cycles.
type CycleKind uint8

const (
	CycleMinor CycleKind = iota
	CycleMajor
)

// String returns "minor" or "major".
func (k CycleKind) String() string {
	if k == CycleMinor {
		return "minor"
	}
	return "major"
}

// CycleStats summarizes one completed collection cycle.
type CycleStats struct {
	Kind      CycleKind
	Swept     int
	Survived  int
	Promoted  int
	Duration  time.Duration
	Timestamp time.Time
}

// Collector owns the three generation stores, the barrier queue, and the
// root-enumeration callbacks. It is single-threaded: allocation, barrier
// recording and collection all happen on the caller's goroutine, and a
// cycle runs to completion once started.
type Collector struct {
	gens  [3]store
	floor int
	roots RootSet

	// Middle/Old objects mutated to reference a young object since the
	// last minor cycle. Not deduplicated; marking an already-black entry
	// is a no-op.
	barriered []Object

	// Non-young objects blackened by a minor mark, recolored white at the
	// end of the cycle so the next mark phase sees a clean heap.
	markedElder []Object

	cycleCount uint64
	lastStats  *CycleStats
}

// NewCollector creates a collector with the given thresholds and root
// callbacks.
func NewCollector(cfg Config, roots RootSet) *Collector {
	cfg = cfg.withDefaults()
	c := &Collector{floor: cfg.ThresholdFloor, roots: roots}
	c.gens[GenYoung].threshold = cfg.YoungThreshold
	c.gens[GenMiddle].threshold = cfg.MiddleThreshold
	c.gens[GenOld].threshold = cfg.OldThreshold
	return c
}

// NewString allocates a string object into the given generation.
func (c *Collector) NewString(gen Generation, text string) *String {
	s := &String{Text: text}
	c.link(s, gen)
	return s
}

// NewTable allocates an empty table into the given generation.
func (c *Collector) NewTable(gen Generation) *Table {
	t := &Table{}
	c.link(t, gen)
	return t
}

// NewFunction allocates a function prototype. Top-level prototypes are
// conventionally allocated straight into the old generation: they live as
// long as the module that defined them.
func (c *Collector) NewFunction(gen Generation) *Function {
	f := &Function{}
	c.link(f, gen)
	return f
}

// NewClosure allocates a closure into the given generation.
func (c *Collector) NewClosure(gen Generation) *Closure {
	cl := &Closure{}
	c.link(cl, gen)
	return cl
}

func (c *Collector) link(o Object, gen Generation) {
	o.hdr().gen = gen
	c.gens[gen].add(o)
}

// CheckBarrier reports whether a store into obj needs a barrier record,
// i.e. whether obj belongs to an older generation.
func CheckBarrier(obj Object) bool {
	return obj.hdr().gen != GenYoung
}

// RecordBarrier queues obj for enumeration by the next minor mark phase.
// Callers invoke it whenever a mutation stores a possibly-younger reference
// into obj; young objects are skipped.
func (c *Collector) RecordBarrier(obj Object) {
	if !CheckBarrier(obj) {
		return
	}
	c.barriered = append(c.barriered, obj)
}

// SetTableField stores key→val into t and records the write barrier when t
// belongs to an older generation. Every runtime mutation path that can
// store a younger reference into a table must come through here (or call
// RecordBarrier itself in the same operation).
func (c *Collector) SetTableField(t *Table, key, val Value) {
	t.Set(key, val)
	c.RecordBarrier(t)
}

// AppendTableElem appends val to t's array part with barrier bookkeeping.
func (c *Collector) AppendTableElem(t *Table, val Value) {
	t.Append(val)
	c.RecordBarrier(t)
}

// AddClosureUpvalue captures val into cl with barrier bookkeeping.
func (c *Collector) AddClosureUpvalue(cl *Closure, val Value) int {
	idx := cl.AddUpvalue(val)
	c.RecordBarrier(cl)
	return idx
}

// CheckGC runs a minor cycle when the young generation exceeds its
// threshold and, independently, a major cycle when the old generation
// exceeds its own. Callers invoke it at allocation safe points; it either
// completes a full cycle or does nothing.
func (c *Collector) CheckGC() {
	if c.gens[GenYoung].live > c.gens[GenYoung].threshold {
		c.CollectMinor()
	}
	if c.gens[GenOld].live > c.gens[GenOld].threshold {
		c.CollectMajor()
	}
}

// CollectMinor runs one minor cycle: mark from the minor roots plus the
// barrier queue, then sweep the young generation only.
func (c *Collector) CollectMinor() *CycleStats {
	start := time.Now()
	stats := &CycleStats{Kind: CycleMinor, Timestamp: start}

	m := &marker{collector: c, trackElder: true}
	if c.roots.Minor != nil {
		c.roots.Minor(m)
	}
	for _, obj := range c.barriered {
		obj.Accept(m)
	}

	c.sweepGeneration(GenYoung, GenMiddle, stats)

	// Blackened middle/old objects keep their references alive for this
	// cycle only; recolor them so the next mark phase starts clean.
	for _, obj := range c.markedElder {
		obj.hdr().color = White
	}
	c.markedElder = c.markedElder[:0]
	c.barriered = c.barriered[:0]

	c.finishCycle(stats, start)
	return stats
}

// CollectMajor runs one major cycle: mark exhaustively from the major
// roots, then sweep all three generations. The barrier queue is subsumed
// by the full scan and cleared.
func (c *Collector) CollectMajor() *CycleStats {
	start := time.Now()
	stats := &CycleStats{Kind: CycleMajor, Timestamp: start}

	m := &marker{collector: c}
	if c.roots.Major != nil {
		c.roots.Major(m)
	}

	// Oldest first: a survivor promoted out of a younger store must land
	// in a store whose sweep has already finished.
	c.sweepGeneration(GenOld, GenOld, stats)
	c.sweepGeneration(GenMiddle, GenOld, stats)
	c.sweepGeneration(GenYoung, GenMiddle, stats)

	c.barriered = c.barriered[:0]

	c.finishCycle(stats, start)
	return stats
}

// sweepGeneration frees every white object in gen, recolors survivors
// white, promotes survivors that have aged enough into next, and
// recomputes gen's threshold from its survivor count. Promotion is not an
// allocation: it moves the object between stores directly.
func (c *Collector) sweepGeneration(gen, next Generation, stats *CycleStats) {
	s := &c.gens[gen]
	for _, obj := range s.slots {
		if obj == nil {
			continue
		}
		h := obj.hdr()
		if h.color != Black {
			s.remove(obj)
			stats.Swept++
			continue
		}
		h.color = White
		stats.Survived++
		if next != gen {
			h.age++
			if h.age >= promoteAge {
				s.remove(obj)
				h.age = 0
				c.link(obj, next)
				stats.Promoted++
			}
		}
	}
	s.adjustThreshold(c.floor)
}

func (c *Collector) finishCycle(stats *CycleStats, start time.Time) {
	stats.Duration = time.Since(start)
	c.cycleCount++
	c.lastStats = stats
	log.Debugf("%s cycle: swept=%d survived=%d promoted=%d in %s",
		stats.Kind, stats.Swept, stats.Survived, stats.Promoted, stats.Duration)
}

// CycleCount returns the number of completed collection cycles.
func (c *Collector) CycleCount() uint64 { return c.cycleCount }

// LastStats returns statistics from the most recent cycle, or nil if no
// cycle has run yet.
func (c *Collector) LastStats() *CycleStats { return c.lastStats }

// LiveCount returns the number of live objects in a generation.
func (c *Collector) LiveCount(gen Generation) int { return c.gens[gen].live }

// Threshold returns a generation's current collection threshold.
func (c *Collector) Threshold(gen Generation) int { return c.gens[gen].threshold }

// marker is the mark-phase visitor. It blackens each white object it sees
// and asks Accept to descend into its members; already-black objects stop
// traversal. With trackElder set it records blackened middle/old objects
// for end-of-cycle recoloring.
type marker struct {
	collector  *Collector
	trackElder bool
}

func (m *marker) mark(h *header, obj Object) bool {
	if h.color == Black {
		return false
	}
	h.color = Black
	if m.trackElder && h.gen != GenYoung {
		m.collector.markedElder = append(m.collector.markedElder, obj)
	}
	return true
}

func (m *marker) VisitString(s *String) bool     { return m.mark(s.hdr(), s) }
func (m *marker) VisitTable(t *Table) bool       { return m.mark(t.hdr(), t) }
func (m *marker) VisitFunction(f *Function) bool { return m.mark(f.hdr(), f) }
func (m *marker) VisitClosure(cl *Closure) bool  { return m.mark(cl.hdr(), cl) }
