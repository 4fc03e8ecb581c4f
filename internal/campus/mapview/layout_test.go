package mapview

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestFitScaleFillsOneAxis(t *testing.T) {
	natives := [][2]float64{{1800, 1000}, {1000, 1800}, {500, 500}, {3.5, 12.25}}
	views := [][2]float64{{1080, 600}, {600, 1080}, {320, 320}, {1, 1000}, {2560, 1440}}

	for _, n := range natives {
		for _, v := range views {
			scale := FitScale(v[0], v[1], n[0], n[1])
			want := math.Min(v[0]/n[0], v[1]/n[1])
			if !approxEqual(scale, want, tolerance) {
				t.Fatalf("native %v view %v: scale %v, want %v", n, v, scale, want)
			}

			sw, sh := n[0]*scale, n[1]*scale
			if sw > v[0]+1e-6 || sh > v[1]+1e-6 {
				t.Errorf("native %v view %v: scaled %vx%v overflows", n, v, sw, sh)
			}
			if !approxEqual(sw, v[0], 1e-6) && !approxEqual(sh, v[1], 1e-6) {
				t.Errorf("native %v view %v: scaled %vx%v fills neither axis", n, v, sw, sh)
			}
		}
	}
}

func TestFitScaleZeroArea(t *testing.T) {
	cases := [][4]float64{
		{0, 600, 1800, 1000},
		{1080, 0, 1800, 1000},
		{1080, 600, 0, 1000},
		{1080, 600, 1800, -1},
	}
	for _, c := range cases {
		if s := FitScale(c[0], c[1], c[2], c[3]); s != 0 {
			t.Errorf("FitScale%v = %v, want 0", c, s)
		}
	}
}

func TestMeasure(t *testing.T) {
	tests := []struct {
		name         string
		width        MeasureSpec
		height       MeasureSpec
		nw, nh       float64
		wantW, wantH int
	}{
		{
			name:  "exact width derives height",
			width: MeasureSpec{Exactly, 900}, height: MeasureSpec{AtMost, 2000},
			nw: 1800, nh: 1000, wantW: 900, wantH: 500,
		},
		{
			name:  "exact width clamped by at-most height",
			width: MeasureSpec{Exactly, 1800}, height: MeasureSpec{AtMost, 500},
			nw: 1800, nh: 1000, wantW: 900, wantH: 500,
		},
		{
			name:  "exact height derives width",
			width: MeasureSpec{AtMost, 4000}, height: MeasureSpec{Exactly, 500},
			nw: 1800, nh: 1000, wantW: 900, wantH: 500,
		},
		{
			name:  "exact height clamped by at-most width",
			width: MeasureSpec{AtMost, 450}, height: MeasureSpec{Exactly, 500},
			nw: 1800, nh: 1000, wantW: 450, wantH: 250,
		},
		{
			name:  "both at-most shrink to fit",
			width: MeasureSpec{AtMost, 1080}, height: MeasureSpec{AtMost, 300},
			nw: 1800, nh: 1000, wantW: 540, wantH: 300,
		},
		{
			name:  "unspecified height keeps derived height",
			width: MeasureSpec{AtMost, 1080}, height: MeasureSpec{Unspecified, 0},
			nw: 1800, nh: 1000, wantW: 1080, wantH: 600,
		},
		{
			name:  "no plan uses minimum height",
			width: MeasureSpec{Exactly, 1080}, height: MeasureSpec{AtMost, 100},
			wantW: 1080, wantH: 400,
		},
		{
			name:  "no plan keeps exact height",
			width: MeasureSpec{Exactly, 1080}, height: MeasureSpec{Exactly, 100},
			wantW: 1080, wantH: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := measure(tt.width, tt.height, tt.nw, tt.nh)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("measure = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
