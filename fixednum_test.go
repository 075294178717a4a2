package main

import "testing"

func TestNumArithmeticWraps(t *testing.T) {
	max := Num(0x7FFFFFFF)
	if got := max.Add(NumFromInt(1)); got != Num(-0x7FFF0001) {
		t.Fatalf("Add overflow: got %d, want wraparound to -0x7FFF0001", got)
	}
}

func TestNumMulDiv(t *testing.T) {
	a := NumFromInt(3)
	b := NumFromInt(4)
	if got := a.Mul(b); got != NumFromInt(12) {
		t.Fatalf("Mul: got %v, want 12", got.Float())
	}
	if got := b.Div(a); got.Float() < 1.33 || got.Float() > 1.34 {
		t.Fatalf("Div: got %v, want ~1.333", got.Float())
	}
}

func TestNumDivByZeroSentinel(t *testing.T) {
	pos := NumFromInt(1).Div(0)
	if pos != Num(0x7FFFFFFF) {
		t.Fatalf("positive /0: got %d", pos)
	}
	neg := NumFromInt(-1).Div(0)
	if neg != Num(-0x80000000) {
		t.Fatalf("negative /0: got %d", neg)
	}
}

func TestNumMod(t *testing.T) {
	got := NumFromInt(-1).Mod(NumFromInt(4))
	if got.Int() != 3 {
		t.Fatalf("Mod: got %d, want 3 (flooring, not truncating)", got.Int())
	}
}

func TestNumFloorCeil(t *testing.T) {
	n := NumFromFloat(1.5)
	if n.Floor() != NumFromInt(1) {
		t.Fatalf("Floor(1.5): got %v", n.Floor().Float())
	}
	if n.Ceil() != NumFromInt(2) {
		t.Fatalf("Ceil(1.5): got %v", n.Ceil().Float())
	}
	negN := NumFromFloat(-1.5)
	if negN.Floor() != NumFromInt(-2) {
		t.Fatalf("Floor(-1.5): got %v", negN.Floor().Float())
	}
}

func TestNumSqrt(t *testing.T) {
	n := NumFromInt(16).Sqrt()
	if n.Int() != 4 {
		t.Fatalf("Sqrt(16): got %d", n.Int())
	}
	if NumFromInt(-4).Sqrt() != 0 {
		t.Fatal("Sqrt of negative should be 0")
	}
}

func TestNumSinCos(t *testing.T) {
	zero := NumFromInt(0).Sin()
	if zero.Float() < -0.01 || zero.Float() > 0.01 {
		t.Fatalf("Sin(0): got %v, want ~0", zero.Float())
	}
	quarter := NumFromFloat(0.25).Cos()
	if quarter.Float() < -0.01 || quarter.Float() > 0.01 {
		t.Fatalf("Cos(0.25): got %v, want ~0", quarter.Float())
	}
}

func TestNumToStrDecimal(t *testing.T) {
	n := NumFromFloat(1.5)
	if s := n.ToStr(false); s != "1.5" {
		t.Fatalf("ToStr: got %q, want \"1.5\"", s)
	}
}

func TestNumToStrHex(t *testing.T) {
	n := NumFromInt(1)
	if s := n.ToStr(true); s != "0x0001.0000" {
		t.Fatalf("ToStr hex: got %q", s)
	}
}

func TestParseNumDecimal(t *testing.T) {
	n, ok := ParseNum(" -3.25 ")
	if !ok {
		t.Fatal("expected parse success")
	}
	if n.Float() != -3.25 {
		t.Fatalf("got %v, want -3.25", n.Float())
	}
}

func TestParseNumHex(t *testing.T) {
	n, ok := ParseNum("0x10")
	if !ok || n.Int() != 16 {
		t.Fatalf("got %v ok=%v, want 16", n.Int(), ok)
	}
}

func TestParseNumBinary(t *testing.T) {
	n, ok := ParseNum("0b101")
	if !ok || n.Int() != 5 {
		t.Fatalf("got %v ok=%v, want 5", n.Int(), ok)
	}
}

func TestParseNumInvalid(t *testing.T) {
	if _, ok := ParseNum("not-a-number"); ok {
		t.Fatal("expected parse failure")
	}
}

func TestAtan2Quadrants(t *testing.T) {
	cases := []struct {
		y, x Num
		want float64
	}{
		{0, NumFromInt(1), 0.0},
		{NumFromInt(1), 0, 0.75},
		{0, NumFromInt(-1), 0.5},
		{NumFromInt(-1), 0, 0.25},
	}
	for _, c := range cases {
		got := Atan2(c.y, c.x).Float()
		diff := got - c.want
		if diff < -0.02 || diff > 0.02 {
			t.Errorf("Atan2(%v,%v): got %v, want ~%v", c.y.Float(), c.x.Float(), got, c.want)
		}
	}
}
