package cfg

// NodeFlag is a bitset flag on a LayoutNode.
type NodeFlag uint8

const (
	FlagLeftmostDummy NodeFlag = 1 << iota
	FlagRightmostDummy
	FlagImminentBackedgeDummy
)

// Pos is a laid-out node's position in layout units. Only X is meaningful
// until the Verticalizer (G) runs.
type Pos struct {
	X float64
	Y float64
}

// EdgeKind classifies an edge for the external renderer contract.
// The core never renders; it only labels edges so a renderer can pick a
// drawing strategy.
type EdgeKind int

const (
	EdgeForwardDownward EdgeKind = iota
	EdgeForwardUpwardBetweenDummies
	EdgeToBackedgeDummy
	EdgeToBackedgeFinal
	EdgeLoopHeaderReturn
)

// LayoutNode is anything placed in the layered grid: a BlockNode or a
// DummyNode. Both variants embed the fields in common below.
type LayoutNode interface {
	NodeID() string
	Position() Pos
	SetPosition(Pos)
	Dimensions() Size
	Layer() int
	SrcNodes() []LayoutNode
	DstNodes() []LayoutNode
	AddSrc(LayoutNode)
	RemoveSrc(LayoutNode)
	SetDst(index int, n LayoutNode)
	JointOffsets() []float64
	SetJointOffset(index int, offset float64)
	HasFlag(NodeFlag) bool
	SetFlag(NodeFlag)
	IsDummy() bool
}

// common holds the fields shared by BlockNode and DummyNode.
type common struct {
	id    string
	layer int
	pos   Pos
	size  Size

	srcNodes     []LayoutNode
	dstNodes     []LayoutNode
	jointOffsets []float64
	flags        NodeFlag
}

func (c *common) NodeID() string        { return c.id }
func (c *common) Position() Pos         { return c.pos }
func (c *common) SetPosition(p Pos)     { c.pos = p }
func (c *common) Dimensions() Size      { return c.size }
func (c *common) Layer() int            { return c.layer }
func (c *common) SrcNodes() []LayoutNode { return c.srcNodes }
func (c *common) DstNodes() []LayoutNode { return c.dstNodes }
func (c *common) AddSrc(n LayoutNode)   { c.srcNodes = append(c.srcNodes, n) }

func (c *common) RemoveSrc(n LayoutNode) {
	for i, s := range c.srcNodes {
		if s == n {
			c.srcNodes = append(c.srcNodes[:i], c.srcNodes[i+1:]...)
			return
		}
	}
}

func (c *common) SetDst(index int, n LayoutNode) {
	for len(c.dstNodes) <= index {
		c.dstNodes = append(c.dstNodes, nil)
		c.jointOffsets = append(c.jointOffsets, 0)
	}
	c.dstNodes[index] = n
}

func (c *common) JointOffsets() []float64 { return c.jointOffsets }

func (c *common) SetJointOffset(index int, offset float64) {
	for len(c.jointOffsets) <= index {
		c.jointOffsets = append(c.jointOffsets, 0)
	}
	c.jointOffsets[index] = offset
}

func (c *common) HasFlag(f NodeFlag) bool { return c.flags&f != 0 }
func (c *common) SetFlag(f NodeFlag)      { c.flags |= f }

// BlockNode owns a Block; its size equals the block's size.
type BlockNode struct {
	common
	Block *Block
}

func (n *BlockNode) IsDummy() bool { return false }

// NewBlockNode creates the LayoutNode for a Block, with dstNodes
// pre-sized to the block's successor count so Materializer wiring can set
// slots by port index: dstNodes.length ends up equal to succs.length.
func NewBlockNode(id string, b *Block) *BlockNode {
	n := &BlockNode{Block: b}
	n.id = id
	n.layer = b.Layer
	n.size = b.Size
	n.dstNodes = make([]LayoutNode, len(b.Successors))
	n.jointOffsets = make([]float64, len(b.Successors))
	return n
}

// DummyNode is a zero-size stand-in for a segment of an edge that crosses a
// layer boundary, or for a backedge return column.
type DummyNode struct {
	common
	DstBlock *Block
}

func (n *DummyNode) IsDummy() bool { return true }

// NewDummyNode creates a dummy with a single destination slot: every
// DummyNode has exactly one destination.
func NewDummyNode(id string, layer int, dst *Block) *DummyNode {
	n := &DummyNode{DstBlock: dst}
	n.id = id
	n.layer = layer
	n.dstNodes = make([]LayoutNode, 1)
	n.jointOffsets = make([]float64, 1)
	return n
}
