package emulator

import (
	"bytes"
	"fmt"
)

const (
	gbaOamBase    = 0x07000000
	gbaSpriteNum  = 128
	gbaSpriteSize = 8

	gbOamBase    = 0xFE00
	gbSpriteNum  = 40
	gbSpriteSize = 4

	gbaScreenW = 240
	gbaScreenH = 160
	gbScreenW  = 160
	gbScreenH  = 144
)

// Sprite is a read-only view of one hardware sprite slot, decoded from
// raw OAM per the platform's attribute layout. GB coordinates are
// pre-adjusted by (-8,-16) to match hardware convention.
type Sprite struct {
	platform Platform

	Index   int
	X       int
	Y       int
	Tile    int
	Palette int

	// GBA raw attribute words
	Attr0 uint16
	Attr1 uint16
	Attr2 uint16

	// GB flag byte and its decoded bits
	Flags      uint8
	Priority   int
	YFlip      int
	XFlip      int
	Bank       int
	CGBPalette int
}

// Visible reports whether the sprite lies inside the platform's
// visible coordinate bounds.
func (s Sprite) Visible() bool {
	if s.platform == PlatformGBA {
		return s.X >= 0 && s.X < gbaScreenW && s.Y >= 0 && s.Y < gbaScreenH
	}
	return s.X > -8 && s.X < gbScreenW && s.Y > -16 && s.Y < gbScreenH
}

// MarshalJSON emits the per-platform field set in register order.
func (s Sprite) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	if s.platform == PlatformGBA {
		fmt.Fprintf(&b,
			`{"index":%d,"x":%d,"y":%d,"tile":%d,"palette":%d,"attr0":%d,"attr1":%d,"attr2":%d}`,
			s.Index, s.X, s.Y, s.Tile, s.Palette, s.Attr0, s.Attr1, s.Attr2)
	} else {
		fmt.Fprintf(&b,
			`{"index":%d,"y":%d,"x":%d,"tile":%d,"flags":%d,"priority":%d,"y_flip":%d,"x_flip":%d,"palette":%d,"bank":%d,"cgb_palette":%d}`,
			s.Index, s.Y, s.X, s.Tile, s.Flags, s.Priority, s.YFlip, s.XFlip, s.Palette, s.Bank, s.CGBPalette)
	}
	return b.Bytes(), nil
}

// DumpOAM decodes one record per hardware sprite slot: 128 on GBA,
// 40 on GB.
func (e *Emulator) DumpOAM() ([]Sprite, error) {
	if e.core == nil {
		return nil, ErrNoSession
	}
	if e.platform == PlatformGBA {
		return e.dumpOamGBA(), nil
	}
	return e.dumpOamGB(), nil
}

func (e *Emulator) dumpOamGBA() []Sprite {
	sprites := make([]Sprite, 0, gbaSpriteNum)
	for i := 0; i < gbaSpriteNum; i++ {
		addr := uint32(gbaOamBase + i*gbaSpriteSize)
		attr0 := e.core.BusRead16(addr)
		attr1 := e.core.BusRead16(addr + 2)
		attr2 := e.core.BusRead16(addr + 4)

		sprites = append(sprites, Sprite{
			platform: PlatformGBA,
			Index:    i,
			X:        int(attr1 & 0x1FF),
			Y:        int(attr0 & 0xFF),
			Tile:     int(attr2 & 0x3FF),
			Palette:  int((attr2 >> 12) & 0xF),
			Attr0:    attr0,
			Attr1:    attr1,
			Attr2:    attr2,
		})
	}
	return sprites
}

func (e *Emulator) dumpOamGB() []Sprite {
	sprites := make([]Sprite, 0, gbSpriteNum)
	for i := 0; i < gbSpriteNum; i++ {
		addr := uint32(gbOamBase + i*gbSpriteSize)
		mem, _ := e.ReadMemory(addr, gbSpriteSize)
		y, x, tile, flags := mem[0], mem[1], mem[2], mem[3]

		sprites = append(sprites, Sprite{
			platform:   PlatformGB,
			Index:      i,
			Y:          int(y) - 16,
			X:          int(x) - 8,
			Tile:       int(tile),
			Flags:      flags,
			Priority:   int(flags>>7) & 1,
			YFlip:      int(flags>>6) & 1,
			XFlip:      int(flags>>5) & 1,
			Palette:    int(flags>>4) & 1,
			Bank:       int(flags>>3) & 1,
			CGBPalette: int(flags) & 0x7,
		})
	}
	return sprites
}
