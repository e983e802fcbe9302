// Package layout converts a reverse-topologically-ordered stream of commits
// into a renderable graph: a lane and color per commit plus connector
// geometry (straight runs and curves) per parent edge, in the manner of
// `git log --graph`.
//
// The algorithm is a greedy streaming heuristic. It reuses freed lanes
// deterministically and only bends a line when its destination lane differs
// from its current one, but it does not minimize crossings globally and
// places no bound on lane count.
package layout

// Oid is an opaque commit identifier. The git adapter converts real object
// hashes at the boundary so the engine stays backend-agnostic.
type Oid string

// CommitRecord is one input commit. Parents[0] is the first parent. RefNames
// are decoration labels carried through to the output unmodified.
type CommitRecord struct {
	SHA      Oid
	Parents  []Oid
	RefNames []string
}

// CommitEntry is the finalized per-commit output. Entries are append-only
// and their index in Commits() is the display row.
type CommitEntry struct {
	Record   CommitRecord
	Lane     int
	ColorIdx int
}

// Graph owns all lane state, the commit list, and the line list. It is not
// internally synchronized: one logical owner at a time, with external mutual
// exclusion if calls can race.
type Graph struct {
	lanes       []lane
	laneColors  map[int]int
	parentLanes map[Oid][]int
	nextColor   int
	paletteSize int
	commits     []CommitEntry
	lines       []Line
	maxLanes    int
}

// New returns an empty graph. paletteSize is the length of the cyclic accent
// color palette and is clamped to at least 1.
func New(paletteSize int) *Graph {
	if paletteSize < 1 {
		paletteSize = 1
	}
	return &Graph{
		laneColors:  map[int]int{},
		parentLanes: map[Oid][]int{},
		paletteSize: paletteSize,
	}
}

// Commits returns the finalized entries, indexed by display row.
func (g *Graph) Commits() []CommitEntry { return g.commits }

// Lines returns the finalized connectors, one per parent edge whose parent
// has been ingested.
func (g *Graph) Lines() []Line { return g.lines }

// MaxLanes returns the widest lane count seen so far.
func (g *Graph) MaxLanes() int { return g.maxLanes }

// Clear drops all lanes, commits, lines, and indices back to the New state.
// It is always safe to call between AddCommits calls, e.g. when switching
// the viewed repository.
func (g *Graph) Clear() {
	g.lanes = g.lanes[:0]
	clear(g.laneColors)
	clear(g.parentLanes)
	g.nextColor = 0
	g.commits = nil
	g.lines = nil
	g.maxLanes = 0
}

// AddCommits ingests the next batch of the commit stream. The batch,
// concatenated with all previously supplied batches, must form a valid
// reverse-topological ordering with no duplicate oids: every commit appears
// before all of its parents. Violating that precondition is not detected.
func (g *Graph) AddCommits(batch []CommitRecord) {
	for _, commit := range batch {
		row := len(g.commits)

		var commitLane int
		if waiting := g.parentLanes[commit.SHA]; len(waiting) > 0 {
			// Earliest-registered waiting lane wins.
			commitLane = waiting[0]
		} else {
			commitLane = g.firstEmptyLane()
		}
		commitColor := g.laneColor(commitLane)

		if waiting, ok := g.parentLanes[commit.SHA]; ok {
			delete(g.parentLanes, commit.SHA)
			for _, laneCol := range waiting {
				st := &g.lanes[laneCol]
				g.avoidNodeOverlap(st, laneCol, commitLane, row)
				if line, ok := st.finalize(row, laneCol, commitLane, commitColor); ok {
					g.lines = append(g.lines, line)
				}
			}
		}

		for parentIdx, parent := range commit.Parents {
			if parentIdx == 0 {
				// The first parent keeps the commit's lane so first-parent
				// history stays vertical.
				g.lanes[commitLane] = lane{
					active:   true,
					child:    commit.SHA,
					parent:   parent,
					colorIdx: commitColor,
					hasColor: true,
					startRow: row,
					startCol: commitLane,
					segments: []pendingSegment{pendingStraight()},
				}
				g.parentLanes[parent] = append(g.parentLanes[parent], commitLane)
			} else {
				newLane := g.firstEmptyLane()
				g.lanes[newLane] = lane{
					active:   true,
					child:    commit.SHA,
					parent:   parent,
					startRow: row,
					startCol: commitLane,
					segments: []pendingSegment{pendingMergeCurve()},
				}
				g.parentLanes[parent] = append(g.parentLanes[parent], newLane)
			}
		}

		if len(g.lanes) > g.maxLanes {
			g.maxLanes = len(g.lanes)
		}
		g.commits = append(g.commits, CommitEntry{
			Record:   commit,
			Lane:     commitLane,
			ColorIdx: commitColor,
		})
	}
}

// avoidNodeOverlap redirects a pending merge curve back to its own lane when
// bending straight into commitLane would run the line through another
// commit's node before reaching row.
func (g *Graph) avoidNodeOverlap(st *lane, laneCol, commitLane, row int) {
	if !st.active || len(st.segments) == 0 {
		return
	}
	first := &st.segments[0]
	if first.kind != SegmentCurve || first.curve != CurveMerge {
		return
	}
	curveRow := st.startRow + 1
	if laneCol == commitLane || curveRow >= row {
		return
	}
	for _, c := range g.commits[curveRow:row] {
		if c.Lane == commitLane {
			first.toColumn = posAt(laneCol)
			return
		}
	}
}

// firstEmptyLane returns the lowest-index reusable lane, appending a new one
// when every lane is active.
func (g *Graph) firstEmptyLane() int {
	for i := range g.lanes {
		if !g.lanes[i].active {
			return i
		}
	}
	g.lanes = append(g.lanes, lane{})
	return len(g.lanes) - 1
}

// laneColor memoizes a palette index per lane, handing out palette slots
// round-robin on first use.
func (g *Graph) laneColor(laneIdx int) int {
	if c, ok := g.laneColors[laneIdx]; ok {
		return c
	}
	c := g.nextColor
	g.nextColor = (g.nextColor + 1) % g.paletteSize
	g.laneColors[laneIdx] = c
	return c
}
