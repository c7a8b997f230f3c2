package engine

// Piece is a tetromino with a position and rotation state.
// Its type never changes; legality of moves is the Game's job.
type Piece struct {
	kind     PieceType
	X        int
	Y        int
	Rotation int
}

// NewPiece creates a piece at the given origin with rotation 0.
func NewPiece(kind PieceType, x, y int) *Piece {
	return &Piece{kind: kind, X: x, Y: y}
}

// Type returns the piece kind.
func (p *Piece) Type() PieceType {
	return p.kind
}

// Blocks returns the four absolute cells the piece covers.
func (p *Piece) Blocks() [4]Point {
	offsets := shapeOffsets(p.kind, p.Rotation)
	var blocks [4]Point
	for i, o := range offsets {
		blocks[i] = Point{X: p.X + o.X, Y: p.Y + o.Y}
	}
	return blocks
}

// Rotate advances the rotation state clockwise.
func (p *Piece) Rotate() {
	p.Rotation = (p.Rotation + 1) % 4
}

// RotateCounterClockwise steps the rotation state back.
func (p *Piece) RotateCounterClockwise() {
	p.Rotation = (p.Rotation + 3) % 4
}

// Move translates the piece unconditionally.
func (p *Piece) Move(dx, dy int) {
	p.X += dx
	p.Y += dy
}

// Clone returns an independent copy.
func (p *Piece) Clone() *Piece {
	c := *p
	return &c
}
