package layout

// CurveKind distinguishes why a line bends.
type CurveKind uint8

const (
	// CurveMerge is the bend out of a multi-parent commit for a non-first
	// parent edge.
	CurveMerge CurveKind = iota
	// CurveCheckout is the bend a line takes when it shifts into its final
	// lane, e.g. after an unrelated lane freed space to its left.
	CurveCheckout
)

func (k CurveKind) String() string {
	switch k {
	case CurveMerge:
		return "merge"
	case CurveCheckout:
		return "checkout"
	default:
		return "unknown"
	}
}

// SegmentKind tags one leg of a line's path.
type SegmentKind uint8

const (
	SegmentStraight SegmentKind = iota
	SegmentCurve
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentStraight:
		return "straight"
	case SegmentCurve:
		return "curve"
	default:
		return "unknown"
	}
}

// Segment is one finalized leg of a Line. A Straight segment runs vertically
// down to EndRow in the line's current column; a Curve segment bends into
// ToColumn, landing on EndRow.
type Segment struct {
	Kind     SegmentKind
	EndRow   int
	ToColumn int       // Curve only
	Curve    CurveKind // Curve only
}

// Line is the finalized connector for one child→parent edge, covering rows
// [StartRow, EndRow]. Immutable once produced. Its segment chain starts at
// ChildColumn and its curves compose to the parent's lane at EndRow.
type Line struct {
	Child       Oid
	Parent      Oid
	ChildColumn int
	StartRow    int // the child's row
	EndRow      int // the parent's row
	ColorIdx    int
	Segments    []Segment
}

// FirstVisibleSegment returns the index of the first segment whose end lands
// at or after firstVisibleRow, together with the column the line occupies
// entering it. This lets a renderer resume mid-line instead of replaying the
// path from its origin. It returns the line's start when the viewport begins
// above the line, and ok=false when the line ends above the viewport.
func (l *Line) FirstVisibleSegment(firstVisibleRow int) (segIdx, column int, ok bool) {
	if firstVisibleRow > l.EndRow {
		return 0, 0, false
	}
	if firstVisibleRow <= l.StartRow {
		return 0, l.ChildColumn, true
	}
	column = l.ChildColumn
	for i, seg := range l.Segments {
		if seg.EndRow >= firstVisibleRow {
			return i, column, true
		}
		if seg.Kind == SegmentCurve {
			column = seg.ToColumn
		}
	}
	return 0, 0, false
}
