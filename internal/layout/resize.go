package layout

// Split inserts a new pane leaf as a sibling of target, splitting along
// dir. If target's parent is already of the matching split type, the new
// leaf is appended as a sibling; otherwise a new internal node replaces
// target in the tree, holding target and the new leaf as its two children
// (spec §4.5 "Splitting a pane inserts a new internal node if the parent's
// type does not match the split direction, else appends a sibling").
//
// size is how many columns (LeftRight) or rows (TopBottom) the new pane
// takes from target; the remainder (minus one border) stays with target.
func Split(target *Cell, dir Type, newPaneID uint32, size int) (*Cell, error) {
	if dir == Pane {
		return nil, &ParseError{"invalid layout: split direction must be LeftRight or TopBottom"}
	}

	axis := target.SX
	if dir == TopBottom {
		axis = target.SY
	}
	if size < PaneMinimum || axis-size-1 < PaneMinimum {
		return nil, &ParseError{"invalid layout: pane too small to split"}
	}

	if target.Parent != nil && target.Parent.Type == dir {
		return splitAppend(target, dir, newPaneID, size)
	}
	return splitWrap(target, dir, newPaneID, size)
}

func splitAppend(target *Cell, dir Type, newPaneID uint32, size int) (*Cell, error) {
	parent := target.Parent
	var newLeaf *Cell
	if dir == LeftRight {
		oldSX := target.SX
		target.SX = oldSX - size - 1
		newLeaf = NewPane(newPaneID, size, target.SY, target.XOff+target.SX+1, target.YOff)
	} else {
		oldSY := target.SY
		target.SY = oldSY - size - 1
		newLeaf = NewPane(newPaneID, target.SX, size, target.XOff, target.YOff+target.SY+1)
	}
	idx := indexOf(parent.Children, target)
	parent.Children = insertAt(parent.Children, idx+1, newLeaf)
	newLeaf.Parent = parent
	return newLeaf, nil
}

// splitWrap replaces target in the tree with a new internal node holding
// target itself (resized in place, so any external reference to the
// pointer keeps working) and a freshly created sibling leaf.
func splitWrap(target *Cell, dir Type, newPaneID uint32, size int) (*Cell, error) {
	parent := target.Parent
	var idx int
	if parent != nil {
		idx = indexOf(parent.Children, target)
	}

	origSX, origSY, origXOff, origYOff := target.SX, target.SY, target.XOff, target.YOff
	wrapper := NewSplit(dir, origSX, origSY, origXOff, origYOff)

	var second *Cell
	if dir == LeftRight {
		target.SX = origSX - size - 1
		second = NewPane(newPaneID, size, origSY, origXOff+target.SX+1, origYOff)
	} else {
		target.SY = origSY - size - 1
		second = NewPane(newPaneID, origSX, size, origXOff, origYOff+target.SY+1)
	}

	wrapper.AddChild(target) // reassigns target.Parent to wrapper
	wrapper.AddChild(second)

	if parent == nil {
		return second, nil
	}
	parent.Children[idx] = wrapper
	wrapper.Parent = parent
	return second, nil
}

// Close removes target's leaf from the tree, collapsing its former
// parent into its grandparent if the parent would be left with a single
// child (spec §4.5 "Closing a pane removes its leaf and collapses a
// now-single-child internal node into its parent"). Returns the new root
// (unchanged unless target was the root's only sibling).
func Close(root, target *Cell) *Cell {
	parent := target.Parent
	if parent == nil {
		return root // closing the sole pane leaves an empty window; caller's problem
	}

	idx := indexOf(parent.Children, target)
	redistribute(parent, idx)
	parent.Children = removeAt(parent.Children, idx)

	if len(parent.Children) != 1 {
		return root
	}
	// Collapse the now-single-child node into its own parent.
	survivor := parent.Children[0]
	survivor.XOff, survivor.YOff = parent.XOff, parent.YOff
	survivor.SX, survivor.SY = parent.SX, parent.SY
	grandparent := parent.Parent
	if grandparent == nil {
		survivor.Parent = nil
		return survivor
	}
	gidx := indexOf(grandparent.Children, parent)
	grandparent.Children[gidx] = survivor
	survivor.Parent = grandparent
	return root
}

// redistribute grows the sibling adjacent to the cell about to be removed
// at idx by its size plus one border, so the remaining tree stays
// gap-free without a full Resize pass.
func redistribute(parent *Cell, idx int) {
	removed := parent.Children[idx]
	var grow *Cell
	if idx > 0 {
		grow = parent.Children[idx-1]
	} else if idx+1 < len(parent.Children) {
		grow = parent.Children[idx+1]
	} else {
		return
	}
	if parent.Type == LeftRight {
		if idx > 0 && grow == parent.Children[idx-1] {
			grow.SX += removed.SX + 1
		} else {
			delta := removed.SX + 1
			grow.SX += delta
			grow.XOff -= delta
			shiftSubtree(grow, -delta, 0)
		}
	} else {
		if idx > 0 && grow == parent.Children[idx-1] {
			grow.SY += removed.SY + 1
		} else {
			delta := removed.SY + 1
			grow.SY += delta
			grow.YOff -= delta
			shiftSubtree(grow, 0, -delta)
		}
	}
}

func shiftSubtree(c *Cell, dx, dy int) {
	for _, ch := range c.Children {
		ch.XOff += dx
		ch.YOff += dy
		shiftSubtree(ch, dx, dy)
	}
}

// Resize changes root's overall size to newSX x newSY, distributing the
// delta proportionally across siblings along each split's axis, never
// shrinking a leaf below PaneMinimum (spec §4.5 resize algebra).
func Resize(root *Cell, newSX, newSY int) {
	resizeAxis(root, newSX, true)
	resizeAxis(root, newSY, false)
	reflow(root, root.XOff, root.YOff)
}

func resizeAxis(c *Cell, newSize int, isX bool) {
	cur := c.SX
	if !isX {
		cur = c.SY
	}
	if newSize == cur {
		if !c.IsLeaf() {
			for _, ch := range c.Children {
				resizeAxis(ch, newSize, isX)
			}
		}
		return
	}
	if isX {
		c.SX = newSize
	} else {
		c.SY = newSize
	}
	if c.IsLeaf() {
		return
	}

	matching := (isX && c.Type == LeftRight) || (!isX && c.Type == TopBottom)
	if matching {
		distributeAlongAxis(c, newSize, isX)
	} else {
		for _, ch := range c.Children {
			resizeAxis(ch, newSize, isX)
		}
	}
}

// distributeAlongAxis spreads newSize across c's children proportionally to
// their current share, respecting PaneMinimum, along the split's own axis.
func distributeAlongAxis(c *Cell, newSize int, isX bool) {
	n := len(c.Children)
	if n == 0 {
		return
	}
	avail := newSize - (n - 1) // minus borders between children
	oldTotal := 0
	for _, ch := range c.Children {
		if isX {
			oldTotal += ch.SX
		} else {
			oldTotal += ch.SY
		}
	}
	if oldTotal <= 0 {
		oldTotal = n
	}

	remaining := avail
	for i, ch := range c.Children {
		var share int
		if i == n-1 {
			share = remaining
		} else {
			old := ch.SX
			if !isX {
				old = ch.SY
			}
			share = avail * old / oldTotal
			if share < PaneMinimum {
				share = PaneMinimum
			}
			remaining -= share
		}
		if share < PaneMinimum {
			share = PaneMinimum
		}
		if isX {
			resizeAxis(ch, share, true)
		} else {
			resizeAxis(ch, share, false)
		}
	}
}

// reflow recomputes every node's XOff/YOff from its parent's chain after a
// Resize pass has fixed up sizes.
func reflow(c *Cell, xoff, yoff int) {
	c.XOff, c.YOff = xoff, yoff
	if c.IsLeaf() {
		return
	}
	x, y := xoff, yoff
	for _, ch := range c.Children {
		reflow(ch, x, y)
		if c.Type == LeftRight {
			x += ch.SX + 1
		} else {
			y += ch.SY + 1
		}
	}
}

func indexOf(cells []*Cell, target *Cell) int {
	for i, c := range cells {
		if c == target {
			return i
		}
	}
	return -1
}

func insertAt(cells []*Cell, idx int, c *Cell) []*Cell {
	cells = append(cells, nil)
	copy(cells[idx+1:], cells[idx:])
	cells[idx] = c
	return cells
}

func removeAt(cells []*Cell, idx int) []*Cell {
	return append(cells[:idx], cells[idx+1:]...)
}
