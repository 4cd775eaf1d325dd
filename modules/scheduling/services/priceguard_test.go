package services

import (
	"testing"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/types"
)

func TestClassifyBand(t *testing.T) {
	cases := []struct {
		in   string
		want types.Band
	}{
		{in: "PREMIUM", want: types.BandPremium},
		{in: "high", want: types.BandPremium},
		{in: " Premium ", want: types.BandPremium},
		{in: "MEDIUM", want: types.BandMid},
		{in: "mid", want: types.BandMid},
		{in: "Core", want: types.BandMid},
		{in: "TEASER", want: types.BandTeaser},
		{in: "low", want: types.BandTeaser},
		{in: "", want: types.BandNone},
		{in: "vip", want: types.BandNone},
		{in: "premium plus", want: types.BandNone},
	}
	for _, tc := range cases {
		if got := ClassifyBand(tc.in); got != tc.want {
			t.Fatalf("ClassifyBand(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestCheckPrice_BoundsInclusive(t *testing.T) {
	min, max := fptr(50), fptr(150)
	cases := []struct {
		price float64
		want  bool
	}{
		{price: 49.99, want: false},
		{price: 50, want: true},
		{price: 100, want: true},
		{price: 150, want: true},
		{price: 150.01, want: false},
	}
	for _, tc := range cases {
		if got := CheckPrice(min, max, tc.price); got != tc.want {
			t.Fatalf("CheckPrice(50,150,%v)=%v want=%v", tc.price, got, tc.want)
		}
	}
}

func TestCheckPrice_OpenBounds(t *testing.T) {
	if !CheckPrice(nil, nil, 999999) {
		t.Fatalf("fully open range rejected a price")
	}
	if !CheckPrice(fptr(10), nil, 1e9) {
		t.Fatalf("open max rejected a high price")
	}
	if CheckPrice(fptr(10), nil, 9.99) {
		t.Fatalf("min bound ignored")
	}
	if !CheckPrice(nil, fptr(10), -5) {
		t.Fatalf("open min rejected a low price")
	}
	if CheckPrice(nil, fptr(10), 10.01) {
		t.Fatalf("max bound ignored")
	}
}

func TestTierBandRange(t *testing.T) {
	band := types.TierBand{
		PremMin: fptr(50), PremMax: fptr(150),
		MidMin: fptr(20), MidMax: fptr(49),
		TeaMin: nil, TeaMax: fptr(19),
	}

	min, max := band.Range(types.BandPremium)
	if *min != 50 || *max != 150 {
		t.Fatalf("prem=[%v,%v]", *min, *max)
	}
	min, max = band.Range(types.BandMid)
	if *min != 20 || *max != 49 {
		t.Fatalf("mid=[%v,%v]", *min, *max)
	}
	min, max = band.Range(types.BandTeaser)
	if min != nil || *max != 19 {
		t.Fatalf("tea=[%v,%v]", min, *max)
	}
	min, max = band.Range(types.BandNone)
	if min != nil || max != nil {
		t.Fatalf("none should be open")
	}
}
