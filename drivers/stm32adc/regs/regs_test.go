package regs

import "testing"

func TestFieldMaskEncodeDecode(t *testing.T) {
	cases := []struct {
		f    Field
		mask uint32
	}{
		{CR_ADEN, 0x1},
		{CR_ADVREGEN, 0x3000_0000},
		{CFGR_EXTSEL, 0x3C0},
		{CFGR_DISCNUM, 0xE_0000},
		{CCR_CKMODE, 0x3_0000},
		{TR1_HT1, 0x0FFF_0000},
	}
	for _, c := range cases {
		if got := c.f.Mask(); got != c.mask {
			t.Fatalf("%+v mask = %#x, want %#x", c.f, got, c.mask)
		}
		if got := c.f.Decode(c.f.Encode(c.f.Max())); got != c.f.Max() {
			t.Fatalf("%+v decode(encode(max)) = %#x", c.f, got)
		}
	}
	if got := CFGR_RES.Encode(0xFF); got != CFGR_RES.Mask() {
		t.Fatalf("Encode overflow = %#x, want clipped to mask", got)
	}
}

func TestSequencerTables(t *testing.T) {
	seen := map[Field]bool{}
	for r := 1; r <= 16; r++ {
		f, ok := SQ(r)
		if !ok {
			t.Fatalf("SQ(%d) missing", r)
		}
		if f.Width != 5 || seen[f] {
			t.Fatalf("SQ(%d) = %+v", r, f)
		}
		seen[f] = true
		if f.Mask()&SQR1_L.Mask() != 0 {
			t.Fatalf("SQ(%d) overlaps L", r)
		}
	}
	if _, ok := SQ(0); ok {
		t.Fatal("SQ(0) ok")
	}
	if _, ok := SQ(17); ok {
		t.Fatal("SQ(17) ok")
	}
	for r := 1; r <= 4; r++ {
		f, ok := JSQ(r)
		if !ok || f.Reg != JSQR {
			t.Fatalf("JSQ(%d) = %+v, %v", r, f, ok)
		}
		if f.Mask()&(JSQR_JL.Mask()|JSQR_JEXTSEL.Mask()|JSQR_JEXTEN.Mask()) != 0 {
			t.Fatalf("JSQ(%d) overlaps trigger fields", r)
		}
	}
	if _, ok := JSQ(5); ok {
		t.Fatal("JSQ(5) ok")
	}
}

func TestSMP(t *testing.T) {
	if _, ok := SMP(0); ok {
		t.Fatal("SMP(0) ok")
	}
	f, _ := SMP(1)
	if f.Reg != SMPR1 || f.Pos != 3 {
		t.Fatalf("SMP(1) = %+v", f)
	}
	f, _ = SMP(18)
	if f.Reg != SMPR2 || f.Pos != 24 {
		t.Fatalf("SMP(18) = %+v", f)
	}
	if _, ok := SMP(19); ok {
		t.Fatal("SMP(19) ok")
	}
}

func TestUpdate(t *testing.T) {
	u := On(CFGR).Put(CFGR_RES, 2).Flag(CFGR_ALIGN, true).Flag(CFGR_AUTDLY, false)
	want := CFGR_RES.Mask() | CFGR_ALIGN.Mask() | CFGR_AUTDLY.Mask()
	if u.Mask != want {
		t.Fatalf("mask = %#x, want %#x", u.Mask, want)
	}
	word := uint32(0xFFFF_FFFF)
	got := u.Apply(word)
	if CFGR_RES.Decode(got) != 2 || CFGR_ALIGN.Decode(got) != 1 || CFGR_AUTDLY.Decode(got) != 0 {
		t.Fatalf("Apply = %#x", got)
	}
	if got|want != 0xFFFF_FFFF {
		t.Fatalf("Apply touched bits outside mask: %#x", got)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("Put with foreign field did not panic")
		}
	}()
	_ = On(CFGR).Put(CR_ADEN, 1)
}
