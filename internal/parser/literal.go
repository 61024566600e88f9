package parser

import (
	"github.com/hringjurfn/compis/internal/source"
	"github.com/hringjurfn/compis/internal/types"
)

// fitIntLiteral selects the integer literal's type from the surrounding
// type context (§4.5: "literal type selection: integer fit-checking
// against context type with overflow diagnostics, widened by one when a
// unary minus prefix is present"). With no context, an untyped literal
// defaults to the native `int`, widening to `uint` only if its value
// doesn't fit in a signed 64-bit range. neg is true when this literal is
// the direct operand of a unary `-`, which permits one extra magnitude of
// headroom on the positive side (the most-negative value's magnitude).
func (p *Parser) fitIntLiteral(v uint64, loc source.Loc, neg bool) *types.Type {
	ctx := p.currentTypeCtx()
	if ctx == nil || !ctx.IsIntegral() {
		if v > 1<<63-1 {
			return p.store.UintT
		}
		return p.store.IntT
	}
	if !fitsInType(v, ctx, neg) {
		p.errorf(loc, "integer literal %d overflows %s", v, p.store.Describe(ctx))
	}
	return ctx
}

// fitsInType reports whether v is representable in t's bit width,
// treating t's signedness per §3's boundary cases (2^63, 2^64-1) and §4.5's
// unary-minus widening, which applies only to signed contexts.
func fitsInType(v uint64, t *types.Type, neg bool) bool {
	bits := intBits(t)
	if !t.IsSigned() {
		if bits >= 64 {
			return true
		}
		return v < uint64(1)<<bits
	}
	if bits >= 64 {
		if neg {
			return v <= 1<<63 // allows the single most-negative magnitude
		}
		return v <= 1<<63-1
	}
	limit := uint64(1) << (bits - 1)
	if neg {
		return v <= limit
	}
	return v < limit
}

func intBits(t *types.Type) int {
	switch t.Kind {
	case types.Int8, types.Uint8:
		return 8
	case types.Int16, types.Uint16:
		return 16
	case types.Int32, types.Uint32:
		return 32
	case types.Int64, types.Uint64:
		return 64
	case types.Int, types.Uint:
		return 64 // native width defaults to 64 on DefaultTarget
	default:
		return 64
	}
}
