package mapview

import "math"

// ============================================================
// Scale
// ============================================================

// FitScale returns the uniform factor that fits a native-size plan entirely
// inside the viewport without cropping. Zero when either size has no area.
func FitScale(viewW, viewH, nativeW, nativeH float64) float64 {
	if viewW <= 0 || viewH <= 0 || nativeW <= 0 || nativeH <= 0 {
		return 0
	}
	return math.Min(viewW/nativeW, viewH/nativeH)
}

// ============================================================
// Measure
// ============================================================

// MeasureMode says how a parent constrains one axis.
type MeasureMode int

const (
	Unspecified MeasureMode = iota
	Exactly
	AtMost
)

// MeasureSpec is a parent constraint for one axis.
type MeasureSpec struct {
	Mode MeasureMode
	Size int
}

// minUnloadedHeight: высота-заглушка, пока план не загружен.
const minUnloadedHeight = 400

// measure подбирает предпочтительный размер с сохранением пропорций плана.
// Если одна ось задана точно, вторая выводится из пропорций и не выходит за
// доступное место.
func measure(width, height MeasureSpec, nativeW, nativeH float64) (int, int) {
	w, h := width.Size, height.Size

	if nativeW <= 0 || nativeH <= 0 {
		if height.Mode == Unspecified || height.Mode == AtMost {
			h = max(height.Size, minUnloadedHeight)
		}
		return w, h
	}

	heightFor := func(w int) int { return int(float64(w) * nativeH / nativeW) }
	widthFor := func(h int) int { return int(float64(h) * nativeW / nativeH) }

	switch {
	case width.Mode == Exactly:
		w = width.Size
		h = heightFor(width.Size)
		if height.Mode == AtMost && h > height.Size {
			h = height.Size
			w = widthFor(height.Size)
		}

	case height.Mode == Exactly:
		h = height.Size
		w = widthFor(height.Size)
		if width.Mode == AtMost && w > width.Size {
			w = width.Size
			h = heightFor(width.Size)
		}

	default:
		w = width.Size
		h = heightFor(width.Size)
		if height.Mode != Unspecified && h > height.Size {
			h = height.Size
			w = widthFor(height.Size)
		}
	}

	return w, h
}
