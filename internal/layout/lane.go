package layout

// pos marks a row or column in the layout grid that may not be known yet.
// The zero value is unresolved.
type pos struct {
	index    int
	resolved bool
}

func posAt(index int) pos { return pos{index: index, resolved: true} }

// pendingSegment is a segment still under construction inside a lane.
// Unknown rows and columns carry unresolved marks, never sentinel values.
type pendingSegment struct {
	kind     SegmentKind
	endRow   pos // Straight: final row; Curve: the row the bend lands on
	toColumn pos // Curve only
	curve    CurveKind
}

func pendingStraight() pendingSegment {
	return pendingSegment{kind: SegmentStraight}
}

func pendingMergeCurve() pendingSegment {
	return pendingSegment{kind: SegmentCurve, curve: CurveMerge}
}

// sealed converts a fully-resolved pending segment into its immutable form.
func (s pendingSegment) sealed() Segment {
	seg := Segment{Kind: s.kind, EndRow: s.endRow.index, Curve: s.curve}
	if s.kind == SegmentCurve {
		seg.ToColumn = s.toColumn.index
	}
	return seg
}

// lane tracks one in-flight child→parent edge occupying a column. The zero
// value is an empty, reusable lane.
type lane struct {
	active   bool
	child    Oid
	parent   Oid
	colorIdx int
	hasColor bool
	startRow int
	startCol int
	dest     pos
	segments []pendingSegment
}

func straightTo(row int) pendingSegment {
	return pendingSegment{kind: SegmentStraight, endRow: posAt(row)}
}

func checkoutTo(column, row int) pendingSegment {
	return pendingSegment{
		kind:     SegmentCurve,
		toColumn: posAt(column),
		endRow:   posAt(row),
		curve:    CurveCheckout,
	}
}

// finalize transitions an active lane to empty and returns the immutable
// Line for its edge, resolving whatever trailing segment is still open.
// Lines only bend when the destination lane actually differs from the
// current one, and only as late as geometrically required. Returns false
// when the lane is already empty.
func (l *lane) finalize(endRow, laneCol, parentCol, parentColor int) (Line, bool) {
	if !l.active {
		return Line{}, false
	}
	st := *l
	*l = lane{}

	finalDest := parentCol
	if st.dest.resolved {
		finalDest = st.dest.index
	}
	finalColor := parentColor
	if st.hasColor {
		finalColor = st.colorIdx
	}

	segs := st.segments
	if n := len(segs); n > 0 {
		last := &segs[n-1]
		switch {
		case last.kind == SegmentStraight && !last.endRow.resolved:
			if finalDest != laneCol {
				last.endRow = posAt(endRow - 1)
				if endRow-1 == st.startRow {
					// Zero-length run: the curve replaces it outright.
					segs[n-1] = checkoutTo(finalDest, endRow)
				} else {
					segs = append(segs, checkoutTo(finalDest, endRow))
				}
			} else {
				last.endRow = posAt(endRow)
			}

		case last.kind == SegmentCurve && !last.endRow.resolved:
			if !last.toColumn.resolved {
				last.toColumn = posAt(finalDest)
			}
			if last.curve == CurveMerge {
				last.endRow = posAt(st.startRow + 1)
				switch {
				case st.startRow+1 < endRow && last.toColumn.index != finalDest:
					segs = append(segs, straightTo(endRow-1), checkoutTo(finalDest, endRow))
				case st.startRow+1 < endRow:
					segs = append(segs, straightTo(endRow))
				case last.toColumn.index != finalDest:
					segs = append(segs, checkoutTo(finalDest, endRow))
				}
			} else {
				last.endRow = posAt(endRow)
				if last.toColumn.index != finalDest {
					segs = append(segs, straightTo(endRow), checkoutTo(finalDest, endRow))
				}
			}

		case last.kind == SegmentCurve:
			// The lane was extended across earlier batches; its trailing
			// curve is already resolved.
			switch {
			case last.endRow.index < endRow && last.toColumn.index != finalDest:
				segs = append(segs, straightTo(endRow-1), checkoutTo(finalDest, endRow))
			case last.endRow.index < endRow:
				segs = append(segs, straightTo(endRow))
			case last.toColumn.index != finalDest:
				segs = append(segs, checkoutTo(finalDest, endRow))
			}
		}
	}

	line := Line{
		Child:       st.child,
		Parent:      st.parent,
		ChildColumn: st.startCol,
		StartRow:    st.startRow,
		EndRow:      endRow,
		ColorIdx:    finalColor,
		Segments:    make([]Segment, len(segs)),
	}
	for i, s := range segs {
		line.Segments[i] = s.sealed()
	}
	return line, true
}
