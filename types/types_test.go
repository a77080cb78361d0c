package types_test

import (
	"math"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/ply/types"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		ty        types.Type
		canonical types.Type
		size      int
	}{
		{"int8", types.Int8, types.Int8, 1},
		{"char", types.Char, types.Int8, 1},
		{"uint8", types.Uint8, types.Uint8, 1},
		{"uchar", types.Uchar, types.Uint8, 1},
		{"int16", types.Int16, types.Int16, 2},
		{"short", types.Short, types.Int16, 2},
		{"uint16", types.Uint16, types.Uint16, 2},
		{"ushort", types.Ushort, types.Uint16, 2},
		{"int32", types.Int32, types.Int32, 4},
		{"int", types.Int, types.Int32, 4},
		{"uint32", types.Uint32, types.Uint32, 4},
		{"uint", types.Uint, types.Uint32, 4},
		{"float32", types.Float32, types.Float32, 4},
		{"float", types.Float, types.Float32, 4},
		{"float64", types.Float64, types.Float64, 8},
		{"double", types.Double, types.Float64, 8},
	}

	for _, tC := range testCases {
		t.Run(tC.name, func(t *testing.T) {
			ty, ok := types.Parse(tC.name)
			td.CmpTrue(t, ok)
			td.Cmp(t, ty, tC.ty)
			td.Cmp(t, ty.String(), tC.name)
			td.Cmp(t, ty.Canonical(), tC.canonical)
			td.Cmp(t, ty.Size(), tC.size)
			td.CmpTrue(t, ty.Valid())
		})
	}

	for _, bad := range []string{"", "invalid", "list", "int64", "Float"} {
		_, ok := types.Parse(bad)
		td.CmpFalse(t, ok, bad)
	}
}

func TestKinds(t *testing.T) {
	td.CmpTrue(t, types.Uchar.IsInteger())
	td.CmpFalse(t, types.Uchar.IsSigned())
	td.CmpTrue(t, types.Short.IsSigned())
	td.CmpTrue(t, types.Double.IsFloat())
	td.CmpFalse(t, types.Double.IsInteger())
	td.CmpFalse(t, types.Invalid.Valid())
	td.Cmp(t, types.Invalid.Size(), 0)
}

func TestFits(t *testing.T) {
	testCases := []struct {
		ty   types.Type
		v    float64
		fits bool
	}{
		{types.Uint8, 0, true},
		{types.Uint8, 255, true},
		{types.Uint8, 256, false},
		{types.Uint8, -1, false},
		{types.Uint8, 1.5, false},
		{types.Int8, -128, true},
		{types.Int8, -129, false},
		{types.Int16, 32767, true},
		{types.Ushort, 65536, false},
		{types.Int32, math.MinInt32, true},
		{types.Int32, math.MaxInt32 + 1, false},
		{types.Uint32, math.MaxUint32, true},
		{types.Int, math.NaN(), false},
		{types.Int, math.Inf(1), false},
		{types.Float32, 1e38, true},
		{types.Float32, 1e39, false},
		{types.Float32, math.Inf(-1), true},
		{types.Float64, 1e300, true},
		{types.Invalid, 0, false},
	}

	for _, tC := range testCases {
		td.Cmp(t, tC.ty.Fits(tC.v), tC.fits, "%v fits %v", tC.ty, tC.v)
	}
}
