package lts

import (
	"encoding/binary"

	"github.com/itdojp/cspx/internal/bufpool"
	"github.com/itdojp/cspx/internal/cspx/ir"
)

// Tag bytes for the canonical encoding. Values are stable across releases;
// changing them changes every on-disk state.log, so they are never reused
// for a different meaning.
const (
	tagStop byte = iota
	tagPrefix
	tagExternalChoice
	tagInternalChoice
	tagInterleave
	tagParallel
	tagHide
	tagRef
)

// Encode renders term as a canonical, injective byte sequence: structurally
// equal terms always encode identically, and distinct terms always encode
// differently. Every variable-length field (string, slice) is length
// prefixed so that concatenation can never make two distinct terms collide,
// which is what lets the store use Bytes directly as a hash-set/log key and
// lets State.Less use a plain byte comparison as a total order.
func Encode(term *Term) []byte {
	buf := bufpool.Get(0)[:0]
	buf = encodeTerm(buf, term)
	out := make([]byte, len(buf))
	copy(out, buf)
	bufpool.Put(buf[:cap(buf)])
	return out
}

func encodeTerm(buf []byte, t *Term) []byte {
	if t == nil {
		return appendUvarint(buf, uint64(tagStop))
	}
	switch t.Kind {
	case ir.KindStop:
		return appendUvarint(buf, uint64(tagStop))

	case ir.KindPrefix:
		buf = appendUvarint(buf, uint64(tagPrefix))
		buf = encodeEvent(buf, t.Event)
		return encodeTerm(buf, t.Next)

	case ir.KindExternalChoice:
		buf = appendUvarint(buf, uint64(tagExternalChoice))
		buf = encodeTerm(buf, t.Left)
		return encodeTerm(buf, t.Right)

	case ir.KindInternalChoice:
		buf = appendUvarint(buf, uint64(tagInternalChoice))
		buf = encodeTerm(buf, t.Left)
		return encodeTerm(buf, t.Right)

	case ir.KindInterleave:
		buf = appendUvarint(buf, uint64(tagInterleave))
		buf = encodeTerm(buf, t.Left)
		return encodeTerm(buf, t.Right)

	case ir.KindParallel:
		buf = appendUvarint(buf, uint64(tagParallel))
		buf = encodeStrings(buf, t.Sync)
		buf = encodeTerm(buf, t.Left)
		return encodeTerm(buf, t.Right)

	case ir.KindHide:
		buf = appendUvarint(buf, uint64(tagHide))
		buf = encodeStrings(buf, t.Channels)
		return encodeTerm(buf, t.Inner)

	case ir.KindRef:
		buf = appendUvarint(buf, uint64(tagRef))
		return encodeString(buf, t.Name)

	default:
		// Unreachable for a validated module; encode as Stop rather than
		// panic so a malformed term still yields a deterministic key.
		return appendUvarint(buf, uint64(tagStop))
	}
}

func encodeEvent(buf []byte, ev *ir.EventPattern) []byte {
	if ev == nil {
		buf = encodeString(buf, "")
		return appendUvarint(buf, uint64(ir.PayloadNone))
	}
	buf = encodeString(buf, ev.Channel)
	buf = appendUvarint(buf, uint64(ev.Payload))
	if ev.Payload == ir.PayloadNone {
		return buf
	}
	return appendUvarint(buf, uint64(int64(ev.Value)))
}

func encodeString(buf []byte, s string) []byte {
	buf = appendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func encodeStrings(buf []byte, ss []string) []byte {
	buf = appendUvarint(buf, uint64(len(ss)))
	for _, s := range ss {
		buf = encodeString(buf, s)
	}
	return buf
}

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

// ValidateEncoding reports whether b is exactly the byte sequence Encode
// would produce for some Term, without reconstructing that Term. The disk
// store uses this to validate a decoded state.log record on recovery: the
// store only ever sees opaque bytes, never a Term, so it cannot call
// FromProcExpr or walk ir.ProcExpr itself.
func ValidateEncoding(b []byte) bool {
	rest, ok := validateTerm(b)
	return ok && len(rest) == 0
}

func validateTerm(b []byte) ([]byte, bool) {
	tag, b, ok := takeUvarint(b)
	if !ok {
		return nil, false
	}
	switch byte(tag) {
	case tagStop:
		return b, true
	case tagPrefix:
		if b, ok = validateEvent(b); !ok {
			return nil, false
		}
		return validateTerm(b)
	case tagExternalChoice, tagInternalChoice, tagInterleave:
		if b, ok = validateTerm(b); !ok {
			return nil, false
		}
		return validateTerm(b)
	case tagParallel:
		if b, ok = validateStrings(b); !ok {
			return nil, false
		}
		if b, ok = validateTerm(b); !ok {
			return nil, false
		}
		return validateTerm(b)
	case tagHide:
		if b, ok = validateStrings(b); !ok {
			return nil, false
		}
		return validateTerm(b)
	case tagRef:
		return validateString(b)
	default:
		return nil, false
	}
}

func validateEvent(b []byte) ([]byte, bool) {
	b, ok := validateString(b)
	if !ok {
		return nil, false
	}
	payload, b, ok := takeUvarint(b)
	if !ok {
		return nil, false
	}
	if payload == uint64(ir.PayloadNone) {
		return b, true
	}
	_, b, ok = takeUvarint(b)
	return b, ok
}

func validateString(b []byte) ([]byte, bool) {
	n, b, ok := takeUvarint(b)
	if !ok || uint64(len(b)) < n {
		return nil, false
	}
	return b[n:], true
}

func validateStrings(b []byte) ([]byte, bool) {
	n, b, ok := takeUvarint(b)
	if !ok {
		return nil, false
	}
	for i := uint64(0); i < n; i++ {
		if b, ok = validateString(b); !ok {
			return nil, false
		}
	}
	return b, true
}

func takeUvarint(b []byte) (uint64, []byte, bool) {
	v, n := binary.Uvarint(b)
	if n <= 0 {
		return 0, nil, false
	}
	return v, b[n:], true
}
