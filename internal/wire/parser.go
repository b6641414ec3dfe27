package wire

import "encoding/binary"

// Parser is an incremental decoder over a TCP byte stream. Feed returns zero
// or more complete packets per call and retains partial frames internally.
//
// The upstream is a trusted single-producer serial device, so the resync
// policy on a corrupt header is to drop the whole buffer and wait for the
// next clean frame boundary rather than scanning for a magic byte.
type Parser struct {
	buf        []byte
	maxPayload int

	resyncs   int
	oversized int
}

// NewParser returns a stream parser enforcing the given payload bound.
// A non-positive bound falls back to MaxPayload.
func NewParser(maxPayload int) *Parser {
	if maxPayload <= 0 {
		maxPayload = MaxPayload
	}
	return &Parser{maxPayload: maxPayload}
}

// Resyncs reports how many times the buffer was cleared on a corrupt header.
func (p *Parser) Resyncs() int { return p.resyncs }

// Oversized reports how many oversized frames were discarded.
func (p *Parser) Oversized() int { return p.oversized }

// Feed appends data and extracts every complete packet currently buffered.
func (p *Parser) Feed(data []byte) []Packet {
	p.buf = append(p.buf, data...)

	var out []Packet
	for {
		if len(p.buf) < HeaderSize {
			return out
		}

		if p.buf[0] != Magic || p.buf[1] != Version {
			p.buf = p.buf[:0]
			p.resyncs++
			return out
		}

		payloadLen := int(binary.BigEndian.Uint32(p.buf[4:8]))
		if payloadLen > p.maxPayload {
			// Discard the oversized frame once it is fully buffered;
			// until then keep waiting for bytes to discard.
			if len(p.buf) < HeaderSize+payloadLen {
				return out
			}
			p.buf = p.buf[HeaderSize+payloadLen:]
			p.oversized++
			continue
		}

		if len(p.buf) < HeaderSize+payloadLen {
			return out
		}

		payload := make([]byte, payloadLen)
		copy(payload, p.buf[HeaderSize:HeaderSize+payloadLen])
		out = append(out, Packet{MsgType: p.buf[2], Flags: p.buf[3], Payload: payload})
		p.buf = p.buf[HeaderSize+payloadLen:]
	}
}
