package blend

// factors returns the Porter-Duff source and destination factors.
func factors(op Op, as, ad float64) (fa, fb float64) {
	switch op {
	case OpClear:
		return 0, 0
	case OpSrc:
		return 1, 0
	case OpDst:
		return 0, 1
	case OpDstOver:
		return 1 - ad, 1
	case OpSrcIn:
		return ad, 0
	case OpDstIn:
		return 0, as
	case OpSrcOut:
		return 1 - ad, 0
	case OpDstOut:
		return 0, 1 - as
	case OpSrcAtop:
		return ad, 1 - as
	case OpDstAtop:
		return 1 - ad, as
	case OpXor:
		return 1 - ad, 1 - as
	case OpPlus:
		return 1, 1
	default: // OpOver
		return 1, 1 - as
	}
}

func porterDuff(op Op, src, dst []float64) {
	as, ad := src[3], dst[3]
	fa, fb := factors(op, as, ad)
	wa, wb := fa*as, fb*ad
	unpremultiply(dst,
		wa*src[0]+wb*dst[0],
		wa*src[1]+wb*dst[1],
		wa*src[2]+wb*dst[2],
		wa+wb)
}
