package word

// Field is a partial-word view: a bit field of a word, counted from the
// least significant bit. Fields never alias storage; they compute masks
// over the one word they are given.
type Field struct {
	Shift uint // Bit position of the field's least significant bit.
	Width uint // Width of the field in bits.
}

var (
	W  = Field{0, 36}
	H1 = Field{18, 18}
	H2 = Field{0, 18}
	T1 = Field{24, 12}
	T2 = Field{12, 12}
	T3 = Field{0, 12}
	Q1 = Field{27, 9}
	Q2 = Field{18, 9}
	Q3 = Field{9, 9}
	Q4 = Field{0, 9}
	S1 = Field{30, 6}
	S2 = Field{24, 6}
	S3 = Field{18, 6}
	S4 = Field{12, 6}
	S5 = Field{6, 6}
	S6 = Field{0, 6}
)

// Mask returns the in-place mask of the field.
func (f Field) Mask() Word {
	return (((Word(1) << f.Width) - 1) << f.Shift) & Mask
}

// Get extracts the field, right aligned.
func (f Field) Get(w Word) Word {
	return (w >> f.Shift) & ((Word(1) << f.Width) - 1)
}

// Signed extracts the field, sign extended to a full word.
func (f Field) Signed(w Word) Word {
	return SignExtend(f.Get(w), f.Width)
}

// Set replaces the field with the low bits of v.
func (f Field) Set(w Word, v Word) Word {
	m := f.Mask()
	return (w &^ m) | ((v << f.Shift) & m)
}

// Partial word designators, as carried in the j field of an instruction.
const (
	JW   = 000 // Whole word
	JH2  = 001 // Half word 2
	JH1  = 002 // Half word 1
	JXH2 = 003 // Half word 2, sign extended
	JXH1 = 004 // Half word 1, sign extended (quarter 2 in quarter word mode)
	JT3  = 005 // Third word 3, sign extended (quarter 4 in quarter word mode)
	JT2  = 006 // Third word 2, sign extended (quarter 3 in quarter word mode)
	JT1  = 007 // Third word 1, sign extended (quarter 1 in quarter word mode)
	JS6  = 010 // Sixth word 6
	JS5  = 011 // Sixth word 5
	JS4  = 012 // Sixth word 4
	JS3  = 013 // Sixth word 3
	JS2  = 014 // Sixth word 2
	JS1  = 015 // Sixth word 1
	JU   = 016 // Immediate, unsigned
	JXU  = 017 // Immediate, sign extended
)

// partialField returns the field addressed by j, and whether the
// extracted value is sign extended.
func partialField(j uint, quarter bool) (f Field, signed bool) {
	switch j {
	case JH2:
		return H2, false
	case JH1:
		return H1, false
	case JXH2:
		return H2, true
	case JXH1:
		if quarter {
			return Q2, false
		}
		return H1, true
	case JT3:
		if quarter {
			return Q4, false
		}
		return T3, true
	case JT2:
		if quarter {
			return Q3, false
		}
		return T2, true
	case JT1:
		if quarter {
			return Q1, false
		}
		return T1, true
	case JS6:
		return S6, false
	case JS5:
		return S5, false
	case JS4:
		return S4, false
	case JS3:
		return S3, false
	case JS2:
		return S2, false
	case JS1:
		return S1, false
	}
	return W, false
}

// Extract returns the partial word designated by j.
func Extract(w Word, j uint, quarter bool) Word {
	f, signed := partialField(j, quarter)
	if signed {
		return f.Signed(w)
	}
	return f.Get(w)
}

// Inject stores v into the partial word of w designated by j.
func Inject(w Word, v Word, j uint, quarter bool) Word {
	f, _ := partialField(j, quarter)
	return f.Set(w, v)
}
