package stream

import "github.com/jeffnv/blockclock/internal/scene"

// Version is the viewer protocol version sent in every message.
const Version = "1.0"

// Hello is the first message on every viewer connection.
type Hello struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	ViewerID        string  `json:"viewer_id"`
	BlockSize       float64 `json:"block_size"`
	Count           int     `json:"count"`
}

// Frame carries the full state of every registered cube.
type Frame struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	Seq             uint64  `json:"seq"`
	Time            string  `json:"time"`
	Blocks          []Block `json:"blocks"`
}

type Block struct {
	ID    int        `json:"id"`
	Pos   [3]float64 `json:"pos"`
	Scale float64    `json:"scale"`
	Color uint32     `json:"color"`
}

// NewFrame builds a frame from a scene snapshot.
func NewFrame(seq uint64, time string, cubes []scene.CubeState) Frame {
	f := Frame{
		Type:            "FRAME",
		ProtocolVersion: Version,
		Seq:             seq,
		Time:            time,
		Blocks:          make([]Block, len(cubes)),
	}
	for i, c := range cubes {
		f.Blocks[i] = Block{
			ID:    c.ID,
			Pos:   [3]float64{c.X, c.Y, c.Z},
			Scale: c.Scale,
			Color: c.Color,
		}
	}
	return f
}

// Visible counts blocks at or in front of depth minZ.
func (f Frame) Visible(minZ float64) int {
	n := 0
	for _, b := range f.Blocks {
		if b.Pos[2] >= minZ {
			n++
		}
	}
	return n
}
