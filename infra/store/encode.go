package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"google.golang.org/protobuf/encoding/protowire"

	"rainybook/domain/mbp"
)

// Snapshot record wire format (protobuf wire encoding):
//
//	1: seq      varint
//	2: taken_at varint (unix nanos)
//	3: bid level, repeated nested message
//	4: ask level, repeated nested message
//
// level: 1: price sint64, 2: total qty varint, 3: order count varint.
// The record ends with a little-endian CRC32 of everything before it.
const (
	fieldSeq     = 1
	fieldTakenAt = 2
	fieldBid     = 3
	fieldAsk     = 4

	levelFieldPrice = 1
	levelFieldQty   = 2
	levelFieldCount = 3
)

var (
	errRecordTooShort = errors.New("snapshot record too short")
	errBadChecksum    = errors.New("snapshot record checksum mismatch")
)

func appendLevel(buf []byte, field protowire.Number, lvl mbp.LevelSummary) []byte {
	var sub []byte
	sub = protowire.AppendTag(sub, levelFieldPrice, protowire.VarintType)
	sub = protowire.AppendVarint(sub, protowire.EncodeZigZag(lvl.Price))
	sub = protowire.AppendTag(sub, levelFieldQty, protowire.VarintType)
	sub = protowire.AppendVarint(sub, lvl.TotalQty)
	sub = protowire.AppendTag(sub, levelFieldCount, protowire.VarintType)
	sub = protowire.AppendVarint(sub, uint64(lvl.OrderCount))

	buf = protowire.AppendTag(buf, field, protowire.BytesType)
	return protowire.AppendBytes(buf, sub)
}

func encodeSnapshot(seq uint64, takenAt int64, view *mbp.MarketByPrice) []byte {
	var buf []byte
	buf = protowire.AppendTag(buf, fieldSeq, protowire.VarintType)
	buf = protowire.AppendVarint(buf, seq)
	buf = protowire.AppendTag(buf, fieldTakenAt, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(takenAt))

	for _, lvl := range view.Bids {
		buf = appendLevel(buf, fieldBid, lvl)
	}
	for _, lvl := range view.Asks {
		buf = appendLevel(buf, fieldAsk, lvl)
	}

	sum := crc32.ChecksumIEEE(buf)
	return binary.LittleEndian.AppendUint32(buf, sum)
}

func decodeLevel(b []byte) (mbp.LevelSummary, error) {
	var lvl mbp.LevelSummary
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return lvl, protowire.ParseError(n)
		}
		b = b[n:]
		if typ != protowire.VarintType {
			return lvl, fmt.Errorf("level field %d: unexpected wire type %d", num, typ)
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return lvl, protowire.ParseError(n)
		}
		b = b[n:]

		switch num {
		case levelFieldPrice:
			lvl.Price = protowire.DecodeZigZag(v)
		case levelFieldQty:
			lvl.TotalQty = v
		case levelFieldCount:
			lvl.OrderCount = int(v)
		}
	}
	return lvl, nil
}

func decodeSnapshot(b []byte) (seq uint64, takenAt int64, view *mbp.MarketByPrice, err error) {
	if len(b) < 4 {
		return 0, 0, nil, errRecordTooShort
	}
	payload, tail := b[:len(b)-4], b[len(b)-4:]
	if crc32.ChecksumIEEE(payload) != binary.LittleEndian.Uint32(tail) {
		return 0, 0, nil, errBadChecksum
	}

	view = &mbp.MarketByPrice{}
	for len(payload) > 0 {
		num, typ, n := protowire.ConsumeTag(payload)
		if n < 0 {
			return 0, 0, nil, protowire.ParseError(n)
		}
		payload = payload[n:]

		switch {
		case num == fieldSeq && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(payload)
			if n < 0 {
				return 0, 0, nil, protowire.ParseError(n)
			}
			seq = v
			payload = payload[n:]
		case num == fieldTakenAt && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(payload)
			if n < 0 {
				return 0, 0, nil, protowire.ParseError(n)
			}
			takenAt = int64(v)
			payload = payload[n:]
		case (num == fieldBid || num == fieldAsk) && typ == protowire.BytesType:
			sub, n := protowire.ConsumeBytes(payload)
			if n < 0 {
				return 0, 0, nil, protowire.ParseError(n)
			}
			payload = payload[n:]
			lvl, err := decodeLevel(sub)
			if err != nil {
				return 0, 0, nil, err
			}
			if num == fieldBid {
				view.Bids = append(view.Bids, lvl)
			} else {
				view.Asks = append(view.Asks, lvl)
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, payload)
			if n < 0 {
				return 0, 0, nil, protowire.ParseError(n)
			}
			payload = payload[n:]
		}
	}
	return seq, takenAt, view, nil
}
