package rbtree

// Delete removes the node identified by h. The handle must not be reused
// afterwards.
func (t *Tree) Delete(h NodeHandle) {
	z := int(h)

	t.covered.Sub(t.covered, t.arcLength(t.nodes[z].key, t.nodes[z].end, t.nodes[z].wrap))

	if t.nodes[z].wrap {
		t.lastIdx = nilIdx
	}

	y := z
	yOrigColor := t.nodes[y].color
	var x, xParent int

	switch {
	case t.nodes[z].left == nilIdx:
		x = t.nodes[z].right
		xParent = t.nodes[z].parent
		t.transplant(z, t.nodes[z].right)
	case t.nodes[z].right == nilIdx:
		x = t.nodes[z].left
		xParent = t.nodes[z].parent
		t.transplant(z, t.nodes[z].left)
	default:
		y = t.min(t.nodes[z].right)
		yOrigColor = t.nodes[y].color
		x = t.nodes[y].right

		if t.nodes[y].parent == z {
			xParent = y
		} else {
			xParent = t.nodes[y].parent
			t.transplant(y, t.nodes[y].right)
			t.nodes[y].right = t.nodes[z].right
			t.nodes[t.nodes[y].right].parent = y
		}

		t.transplant(z, y)
		t.nodes[y].left = t.nodes[z].left
		t.nodes[t.nodes[y].left].parent = y
		t.nodes[y].color = t.nodes[z].color
	}

	if xParent != nilIdx {
		t.propagateSize(xParent)
	}

	if yOrigColor == black {
		t.deleteFixup(x, xParent)
	}

	t.free = append(t.free, z)
}

// transplant replaces the subtree rooted at u with the subtree rooted at v.
func (t *Tree) transplant(u, v int) {
	p := t.nodes[u].parent

	switch {
	case p == nilIdx:
		t.root = v
	case u == t.nodes[p].left:
		t.nodes[p].left = v
	default:
		t.nodes[p].right = v
	}

	if v != nilIdx {
		t.nodes[v].parent = p
	}
}

// deleteFixup restores red-black invariants after a black node was removed.
// x may be nilIdx, in which case xParent identifies its logical parent.
func (t *Tree) deleteFixup(x, xParent int) {
	for x != t.root && t.colorOf(x) == black {
		if xParent == nilIdx {
			break
		}

		if x == t.nodes[xParent].left {
			w := t.nodes[xParent].right

			if t.colorOf(w) == red {
				t.nodes[w].color = black
				t.nodes[xParent].color = red
				t.rotateLeft(xParent)
				w = t.nodes[xParent].right
			}

			if t.colorOf(t.nodes[w].left) == black && t.colorOf(t.nodes[w].right) == black {
				t.nodes[w].color = red
				x = xParent
				xParent = t.nodes[x].parent

				continue
			}

			if t.colorOf(t.nodes[w].right) == black {
				t.setColorIfValid(t.nodes[w].left, black)
				t.nodes[w].color = red
				t.rotateRight(w)
				w = t.nodes[xParent].right
			}

			t.nodes[w].color = t.nodes[xParent].color
			t.nodes[xParent].color = black
			t.setColorIfValid(t.nodes[w].right, black)
			t.rotateLeft(xParent)
			x = t.root
			xParent = nilIdx
		} else {
			w := t.nodes[xParent].left

			if t.colorOf(w) == red {
				t.nodes[w].color = black
				t.nodes[xParent].color = red
				t.rotateRight(xParent)
				w = t.nodes[xParent].left
			}

			if t.colorOf(t.nodes[w].right) == black && t.colorOf(t.nodes[w].left) == black {
				t.nodes[w].color = red
				x = xParent
				xParent = t.nodes[x].parent

				continue
			}

			if t.colorOf(t.nodes[w].left) == black {
				t.setColorIfValid(t.nodes[w].right, black)
				t.nodes[w].color = red
				t.rotateLeft(w)
				w = t.nodes[xParent].left
			}

			t.nodes[w].color = t.nodes[xParent].color
			t.nodes[xParent].color = black
			t.setColorIfValid(t.nodes[w].left, black)
			t.rotateRight(xParent)
			x = t.root
			xParent = nilIdx
		}
	}

	if x != nilIdx {
		t.nodes[x].color = black
	}
}

func (t *Tree) colorOf(i int) color {
	if i == nilIdx {
		return black
	}

	return t.nodes[i].color
}

func (t *Tree) setColorIfValid(i int, c color) {
	if i != nilIdx {
		t.nodes[i].color = c
	}
}
