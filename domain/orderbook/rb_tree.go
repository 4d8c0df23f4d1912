package orderbook

// levelTree is a red-black tree of price levels keyed by price. One
// tree per side keeps the levels ordered so the best price is the tree
// minimum (asks) or maximum (bids) in O(log n).
type levelTree struct {
	root     *treeNode
	sentinel *treeNode // shared black leaf
	size     int
}

type treeNode struct {
	price  int64
	level  *PriceLevel
	red    bool
	left   *treeNode
	right  *treeNode
	parent *treeNode
}

func newLevelTree() *levelTree {
	s := &treeNode{}
	return &levelTree{root: s, sentinel: s}
}

func (t *levelTree) Size() int { return t.size }

func (t *levelTree) Find(price int64) *PriceLevel {
	n := t.find(price)
	if n == t.sentinel {
		return nil
	}
	return n.level
}

// Upsert returns the level at price, creating it if absent.
func (t *levelTree) Upsert(price int64) *PriceLevel {
	parent := t.sentinel
	n := t.root
	for n != t.sentinel {
		parent = n
		switch {
		case price < n.price:
			n = n.left
		case price > n.price:
			n = n.right
		default:
			return n.level
		}
	}

	lvl := newPriceLevel(price)
	z := &treeNode{
		price:  price,
		level:  lvl,
		red:    true,
		left:   t.sentinel,
		right:  t.sentinel,
		parent: parent,
	}
	switch {
	case parent == t.sentinel:
		t.root = z
	case price < parent.price:
		parent.left = z
	default:
		parent.right = z
	}
	t.insertFixup(z)
	t.size++
	return lvl
}

func (t *levelTree) Delete(price int64) bool {
	z := t.find(price)
	if z == t.sentinel {
		return false
	}
	t.deleteNode(z)
	t.size--
	return true
}

func (t *levelTree) Min() *PriceLevel {
	n := t.min(t.root)
	if n == t.sentinel {
		return nil
	}
	return n.level
}

func (t *levelTree) Max() *PriceLevel {
	n := t.max(t.root)
	if n == t.sentinel {
		return nil
	}
	return n.level
}

// Ascending visits levels from lowest to highest price until fn
// returns false.
func (t *levelTree) Ascending(fn func(*PriceLevel) bool) {
	for n := t.min(t.root); n != t.sentinel; n = t.next(n) {
		if !fn(n.level) {
			return
		}
	}
}

// Descending visits levels from highest to lowest price until fn
// returns false.
func (t *levelTree) Descending(fn func(*PriceLevel) bool) {
	for n := t.max(t.root); n != t.sentinel; n = t.prev(n) {
		if !fn(n.level) {
			return
		}
	}
}

func (t *levelTree) find(price int64) *treeNode {
	n := t.root
	for n != t.sentinel {
		switch {
		case price < n.price:
			n = n.left
		case price > n.price:
			n = n.right
		default:
			return n
		}
	}
	return t.sentinel
}

func (t *levelTree) min(n *treeNode) *treeNode {
	if n == t.sentinel {
		return t.sentinel
	}
	for n.left != t.sentinel {
		n = n.left
	}
	return n
}

func (t *levelTree) max(n *treeNode) *treeNode {
	if n == t.sentinel {
		return t.sentinel
	}
	for n.right != t.sentinel {
		n = n.right
	}
	return n
}

func (t *levelTree) next(n *treeNode) *treeNode {
	if n.right != t.sentinel {
		return t.min(n.right)
	}
	p := n.parent
	for p != t.sentinel && n == p.right {
		n = p
		p = p.parent
	}
	return p
}

func (t *levelTree) prev(n *treeNode) *treeNode {
	if n.left != t.sentinel {
		return t.max(n.left)
	}
	p := n.parent
	for p != t.sentinel && n == p.left {
		n = p
		p = p.parent
	}
	return p
}

func (t *levelTree) rotateLeft(x *treeNode) {
	y := x.right
	x.right = y.left
	if y.left != t.sentinel {
		y.left.parent = x
	}
	y.parent = x.parent
	switch {
	case x.parent == t.sentinel:
		t.root = y
	case x == x.parent.left:
		x.parent.left = y
	default:
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *levelTree) rotateRight(y *treeNode) {
	x := y.left
	y.left = x.right
	if x.right != t.sentinel {
		x.right.parent = y
	}
	x.parent = y.parent
	switch {
	case y.parent == t.sentinel:
		t.root = x
	case y == y.parent.right:
		y.parent.right = x
	default:
		y.parent.left = x
	}
	x.right = y
	y.parent = x
}

func (t *levelTree) insertFixup(z *treeNode) {
	for z.parent.red {
		if z.parent == z.parent.parent.left {
			u := z.parent.parent.right
			if u.red {
				z.parent.red = false
				u.red = false
				z.parent.parent.red = true
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.rotateLeft(z)
				}
				z.parent.red = false
				z.parent.parent.red = true
				t.rotateRight(z.parent.parent)
			}
		} else {
			u := z.parent.parent.left
			if u.red {
				z.parent.red = false
				u.red = false
				z.parent.parent.red = true
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rotateRight(z)
				}
				z.parent.red = false
				z.parent.parent.red = true
				t.rotateLeft(z.parent.parent)
			}
		}
	}
	t.root.red = false
}

func (t *levelTree) transplant(u, v *treeNode) {
	switch {
	case u.parent == t.sentinel:
		t.root = v
	case u == u.parent.left:
		u.parent.left = v
	default:
		u.parent.right = v
	}
	v.parent = u.parent
}

func (t *levelTree) deleteNode(z *treeNode) {
	y := z
	yWasRed := y.red
	var x *treeNode

	switch {
	case z.left == t.sentinel:
		x = z.right
		t.transplant(z, z.right)
	case z.right == t.sentinel:
		x = z.left
		t.transplant(z, z.left)
	default:
		y = t.min(z.right)
		yWasRed = y.red
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.red = z.red
	}

	if !yWasRed {
		t.deleteFixup(x)
	}
}

func (t *levelTree) deleteFixup(x *treeNode) {
	for x != t.root && !x.red {
		if x == x.parent.left {
			w := x.parent.right
			if w.red {
				w.red = false
				x.parent.red = true
				t.rotateLeft(x.parent)
				w = x.parent.right
			}
			if !w.left.red && !w.right.red {
				w.red = true
				x = x.parent
			} else {
				if !w.right.red {
					w.left.red = false
					w.red = true
					t.rotateRight(w)
					w = x.parent.right
				}
				w.red = x.parent.red
				x.parent.red = false
				w.right.red = false
				t.rotateLeft(x.parent)
				x = t.root
			}
		} else {
			w := x.parent.left
			if w.red {
				w.red = false
				x.parent.red = true
				t.rotateRight(x.parent)
				w = x.parent.left
			}
			if !w.right.red && !w.left.red {
				w.red = true
				x = x.parent
			} else {
				if !w.left.red {
					w.right.red = false
					w.red = true
					t.rotateLeft(w)
					w = x.parent.left
				}
				w.red = x.parent.red
				x.parent.red = false
				w.left.red = false
				t.rotateRight(x.parent)
				x = t.root
			}
		}
	}
	x.red = false
}
