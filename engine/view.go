package engine

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns or mutates the caller's records. It reads through
// this interface.
//
// Implementations:
//   SliceView — wraps []Record
//   SubView   — filtered or partitioned subset (indices into parent)
//
// Values come back normalized (see Scalar) with an explicit presence flag,
// so "field missing" is a branch, never an accident.
// ============================================================================

// RecordView provides indexed access to a record sequence.
type RecordView interface {
	Len() int
	Value(index int, key string) (interface{}, bool)
}

// ============================================================================
// SLICE VIEW — wraps []Record
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
}

// NewSliceView creates a RecordView from a []Record slice.
func NewSliceView(records []Record) RecordView {
	return &SliceView{records: records}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Value(i int, key string) (interface{}, bool) {
	if i < 0 || i >= len(v.records) {
		return nil, false
	}
	raw, ok := v.records[i].Lookup(key)
	if !ok {
		return nil, false
	}
	return Scalar(raw), true
}

// ============================================================================
// SUB VIEW — subset (zero-copy)
// ============================================================================

// SubView is a subset of a parent RecordView in parent order.
// Holds indices into the parent — no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Value(i int, key string) (interface{}, bool) {
	if i < 0 || i >= len(v.indices) {
		return nil, false
	}
	return v.parent.Value(v.indices[i], key)
}

// ============================================================================
// FIELD ACCESSORS
// ============================================================================

// valueAt returns the normalized value, nil when the field is absent.
func valueAt(view RecordView, i int, key string) interface{} {
	v, _ := view.Value(i, key)
	return v
}

// numberAt returns the numeric value of a field, 0 when absent or non-numeric.
func numberAt(view RecordView, i int, key string) float64 {
	return Numeric(view.Value(i, key))
}

// textAt returns the text form of a field, "" when absent.
func textAt(view RecordView, i int, key string) string {
	return Text(view.Value(i, key))
}
