// Package tpx3 decodes the raw Timepix3 (SPIDR) readout stream into hit
// records. It is the upstream producer for the clustering engine: the engine
// itself never touches the wire format.
package tpx3

import "encoding/binary"

// PacketSize is the size of one raw readout word in bytes.
const PacketSize = 8

// headerMagic is "TPX3" in little-endian, marking a chip section header.
const headerMagic = 0x33585054

// Packet is one raw 64-bit readout word.
//
// Hit packets (type nibble 0xB):
//
//	bits  0-15  SPIDR coarse time
//	bits 16-19  fine ToA (4-bit, 640 MHz counts)
//	bits 20-29  ToT (10-bit)
//	bits 30-43  ToA (14-bit)
//	bits 44-59  pixel address
//	bits 60-63  packet type
//
// TDC packets (type byte 0x6F) carry a 30-bit timestamp in bits 12-41.
type Packet uint64

// PacketFromBytes decodes a little-endian 8-byte word.
func PacketFromBytes(b []byte) Packet {
	return Packet(binary.LittleEndian.Uint64(b))
}

// IsHeader reports whether the word is a TPX3 section header.
func (p Packet) IsHeader() bool {
	return uint64(p)&0xFFFFFFFF == headerMagic
}

// IsHit reports whether the word is a pixel hit packet.
func (p Packet) IsHit() bool {
	return (uint64(p)>>60)&0xF == 0xB
}

// IsTDC reports whether the word is a TDC timestamp packet.
func (p Packet) IsTDC() bool {
	return (uint64(p)>>56)&0xFF == 0x6F
}

// ChipID returns the chip identifier carried by a header packet.
func (p Packet) ChipID() uint8 {
	return uint8(uint64(p) >> 32)
}

// ToA returns the 14-bit coarse time of arrival of a hit packet.
func (p Packet) ToA() uint16 {
	return uint16((uint64(p) >> 30) & 0x3FFF)
}

// ToT returns the 10-bit time over threshold of a hit packet.
func (p Packet) ToT() uint16 {
	return uint16((uint64(p) >> 20) & 0x3FF)
}

// FToA returns the 4-bit fine time of arrival of a hit packet.
func (p Packet) FToA() uint16 {
	return uint16((uint64(p) >> 16) & 0xF)
}

// SPIDRTime returns the 16-bit SPIDR coarse timestamp of a hit packet.
func (p Packet) SPIDRTime() uint16 {
	return uint16(uint64(p) & 0xFFFF)
}

// GlobalToA combines the SPIDR timestamp with the in-packet ToA into one
// 30-bit coarse tick counter.
func (p Packet) GlobalToA() uint32 {
	return uint32(p.SPIDRTime())<<14 | uint32(p.ToA())
}

// TDCTimestamp returns the 30-bit timestamp of a TDC packet.
func (p Packet) TDCTimestamp() uint32 {
	return uint32((uint64(p) >> 12) & 0x3FFFFFFF)
}

// PixelCoordinates expands the 16-bit pixel address of a hit packet into
// (x, y) on the 256x256 chip:
//
//	dcol = (addr >> 8) & 0xFE
//	spix = (addr >> 1) & 0xFC
//	pix  = addr & 0x7
//	x = dcol + pix/4, y = spix + pix%4
func (p Packet) PixelCoordinates() (uint16, uint16) {
	addr := uint16(uint64(p) >> 44)
	dcol := (addr & 0xFE00) >> 8
	spix := (addr & 0x01F8) >> 1
	pix := addr & 0x7
	return dcol + pix>>2, spix + pix&0x3
}
