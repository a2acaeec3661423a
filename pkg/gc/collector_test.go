package gc

import (
	"fmt"
	"testing"
)

// rootList is a test root set: a plain slice of objects enumerated by both
// traveller callbacks.
type rootList struct {
	objs []Object
}

func (r *rootList) traverse(v Visitor) {
	for _, o := range r.objs {
		o.Accept(v)
	}
}

func newTestCollector(roots *rootList, cfg Config) *Collector {
	return NewCollector(cfg, RootSet{
		Minor: roots.traverse,
		Major: roots.traverse,
	})
}

// checkStores verifies the generation invariant: every object linked into
// a store carries that store's generation tag, and live counts match the
// linked objects.
func checkStores(t *testing.T, c *Collector) {
	t.Helper()
	for gen := GenYoung; gen <= GenOld; gen++ {
		linked := 0
		for _, obj := range c.gens[gen].slots {
			if obj == nil {
				continue
			}
			linked++
			if got := obj.hdr().gen; got != gen {
				t.Errorf("object in %s store tagged %s", gen, got)
			}
		}
		if linked != c.gens[gen].live {
			t.Errorf("%s store: live count %d, but %d objects linked", gen, c.gens[gen].live, linked)
		}
	}
}

func TestMinorSweepsUnreachableYoung(t *testing.T) {
	roots := &rootList{}
	c := newTestCollector(roots, Config{YoungThreshold: 4, ThresholdFloor: 8})

	for i := 0; i < 10; i++ {
		c.NewString(GenYoung, fmt.Sprintf("s%d", i))
	}
	if got := c.LiveCount(GenYoung); got != 10 {
		t.Fatalf("LiveCount(GenYoung) = %d, want 10", got)
	}

	c.CheckGC()

	if got := c.LiveCount(GenYoung); got != 0 {
		t.Errorf("LiveCount(GenYoung) after minor cycle = %d, want 0", got)
	}
	if got := c.Threshold(GenYoung); got != 8 {
		t.Errorf("Threshold(GenYoung) = %d, want floor 8", got)
	}
	if c.CycleCount() != 1 {
		t.Errorf("CycleCount() = %d, want 1", c.CycleCount())
	}

	stats := c.LastStats()
	if stats == nil {
		t.Fatal("LastStats() is nil after a cycle")
	}
	if stats.Kind != CycleMinor {
		t.Errorf("stats.Kind = %s, want minor", stats.Kind)
	}
	if stats.Swept != 10 {
		t.Errorf("stats.Swept = %d, want 10", stats.Swept)
	}
	checkStores(t, c)
}

func TestMinorKeepsRootedObjects(t *testing.T) {
	roots := &rootList{}
	c := newTestCollector(roots, Config{ThresholdFloor: 4})

	kept := c.NewString(GenYoung, "kept")
	roots.objs = append(roots.objs, kept)
	c.NewString(GenYoung, "garbage")
	c.NewString(GenYoung, "garbage2")

	stats := c.CollectMinor()

	if got := c.LiveCount(GenYoung); got != 1 {
		t.Errorf("LiveCount(GenYoung) = %d, want 1", got)
	}
	if stats.Swept != 2 || stats.Survived != 1 {
		t.Errorf("stats = swept %d survived %d, want 2/1", stats.Swept, stats.Survived)
	}
	if kept.color != White {
		t.Error("survivor not recolored white after sweep")
	}
	checkStores(t, c)
}

func TestMinorReachesMembersThroughRootedTable(t *testing.T) {
	roots := &rootList{}
	c := newTestCollector(roots, Config{})

	tbl := c.NewTable(GenYoung)
	roots.objs = append(roots.objs, tbl)
	elem := c.NewString(GenYoung, "element")
	tbl.Set(Number(1), ObjectRef(elem))

	c.CollectMinor()

	if got := c.LiveCount(GenYoung); got != 2 {
		t.Errorf("LiveCount(GenYoung) = %d, want table and element to survive", got)
	}
}

func TestBarrierKeepsYoungReachableFromOld(t *testing.T) {
	roots := &rootList{}
	c := newTestCollector(roots, Config{})

	old := c.NewTable(GenOld)
	young := c.NewString(GenYoung, "young")
	c.SetTableField(old, Number(1), ObjectRef(young))

	c.CollectMinor()

	if got := c.LiveCount(GenYoung); got != 1 {
		t.Errorf("LiveCount(GenYoung) = %d, want 1: barrier must keep the young object", got)
	}
	if young.color != White {
		t.Error("barrier-kept object not recolored white")
	}
	if old.color != White {
		t.Error("barriered old object left black after minor cycle")
	}
	checkStores(t, c)
}

func TestMissingBarrierLosesYoungObject(t *testing.T) {
	roots := &rootList{}
	c := newTestCollector(roots, Config{})

	old := c.NewTable(GenOld)
	young := c.NewString(GenYoung, "young")
	// Raw Set skips RecordBarrier: the minor cycle cannot see the edge.
	old.Set(Number(1), ObjectRef(young))

	c.CollectMinor()

	if got := c.LiveCount(GenYoung); got != 0 {
		t.Errorf("LiveCount(GenYoung) = %d, want 0: unbarriered edge is invisible to minor GC", got)
	}
}

func TestPromotionAfterSurvivingCycles(t *testing.T) {
	roots := &rootList{}
	c := newTestCollector(roots, Config{})

	s := c.NewString(GenYoung, "durable")
	roots.objs = append(roots.objs, s)

	c.CollectMinor()
	if s.gen != GenYoung {
		t.Fatalf("object promoted after one cycle, generation = %s", s.gen)
	}

	stats := c.CollectMinor()
	if s.gen != GenMiddle {
		t.Fatalf("object generation after two survived cycles = %s, want middle", s.gen)
	}
	if stats.Promoted != 1 {
		t.Errorf("stats.Promoted = %d, want 1", stats.Promoted)
	}
	if got := c.LiveCount(GenYoung); got != 0 {
		t.Errorf("LiveCount(GenYoung) = %d, want 0 after promotion", got)
	}
	if got := c.LiveCount(GenMiddle); got != 1 {
		t.Errorf("LiveCount(GenMiddle) = %d, want 1 after promotion", got)
	}
	checkStores(t, c)
}

func TestMajorSweepsAllGenerations(t *testing.T) {
	roots := &rootList{}
	c := newTestCollector(roots, Config{})

	keptOld := c.NewTable(GenOld)
	roots.objs = append(roots.objs, keptOld)
	c.NewString(GenYoung, "y")
	c.NewString(GenMiddle, "m")
	c.NewString(GenOld, "o")

	stats := c.CollectMajor()

	if stats.Kind != CycleMajor {
		t.Errorf("stats.Kind = %s, want major", stats.Kind)
	}
	if stats.Swept != 3 {
		t.Errorf("stats.Swept = %d, want 3", stats.Swept)
	}
	total := c.LiveCount(GenYoung) + c.LiveCount(GenMiddle) + c.LiveCount(GenOld)
	if total != 1 {
		t.Errorf("total live after major cycle = %d, want 1", total)
	}
	checkStores(t, c)
}

func TestMajorPromotesAgedMiddleToOld(t *testing.T) {
	roots := &rootList{}
	c := newTestCollector(roots, Config{})

	s := c.NewString(GenMiddle, "aging")
	roots.objs = append(roots.objs, s)

	c.CollectMajor()
	c.CollectMajor()

	if s.gen != GenOld {
		t.Errorf("generation after two survived major cycles = %s, want old", s.gen)
	}
	checkStores(t, c)
}

func TestThresholdNeverBelowFloor(t *testing.T) {
	roots := &rootList{}
	c := newTestCollector(roots, Config{ThresholdFloor: 16})

	for i := 0; i < 100; i++ {
		c.NewString(GenYoung, "g")
	}
	c.CollectMinor()
	c.CollectMajor()

	for gen := GenYoung; gen <= GenOld; gen++ {
		if got := c.Threshold(gen); got < 16 {
			t.Errorf("Threshold(%s) = %d, below floor 16", gen, got)
		}
	}
}

func TestThresholdGrowsWithSurvivors(t *testing.T) {
	roots := &rootList{}
	c := newTestCollector(roots, Config{ThresholdFloor: 4})

	for i := 0; i < 40; i++ {
		s := c.NewString(GenYoung, "kept")
		roots.objs = append(roots.objs, s)
	}
	c.CollectMinor()

	if got := c.Threshold(GenYoung); got != 80 {
		t.Errorf("Threshold(GenYoung) = %d, want 2x the 40 survivors", got)
	}
}

func TestCheckGCMajorTrigger(t *testing.T) {
	roots := &rootList{}
	c := newTestCollector(roots, Config{OldThreshold: 2, ThresholdFloor: 2})

	for i := 0; i < 5; i++ {
		c.NewString(GenOld, "o")
	}
	c.CheckGC()

	if got := c.LiveCount(GenOld); got != 0 {
		t.Errorf("LiveCount(GenOld) = %d, want 0 after triggered major cycle", got)
	}
	if c.LastStats().Kind != CycleMajor {
		t.Errorf("last cycle kind = %s, want major", c.LastStats().Kind)
	}
}

func TestRecordBarrierIgnoresYoungObjects(t *testing.T) {
	c := newTestCollector(&rootList{}, Config{})

	young := c.NewTable(GenYoung)
	c.RecordBarrier(young)
	if len(c.barriered) != 0 {
		t.Errorf("barrier queue holds %d entries, want young objects skipped", len(c.barriered))
	}

	old := c.NewTable(GenOld)
	c.RecordBarrier(old)
	c.RecordBarrier(old)
	if len(c.barriered) != 2 {
		t.Errorf("barrier queue holds %d entries, want 2 (duplicates are allowed)", len(c.barriered))
	}

	c.CollectMinor()
	if len(c.barriered) != 0 {
		t.Error("barrier queue not cleared by minor cycle")
	}
}

func TestClosureTraversalKeepsPrototype(t *testing.T) {
	roots := &rootList{}
	c := newTestCollector(roots, Config{})

	fn := c.NewFunction(GenYoung)
	cl := c.NewClosure(GenYoung)
	cl.SetPrototype(fn)
	cl.AddUpvalue(ObjectRef(c.NewTable(GenYoung)))
	roots.objs = append(roots.objs, cl)

	c.CollectMinor()

	if got := c.LiveCount(GenYoung); got != 3 {
		t.Errorf("LiveCount(GenYoung) = %d, want closure, prototype and upvalue table", got)
	}
}
