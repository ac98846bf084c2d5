package certificate

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// FitImage вписывает изображение imgW×imgH в рамку с сохранением пропорций и
// центрирует его. Маленькие изображения не растягиваются.
func FitImage(imgW, imgH, boxX, boxY, boxW, boxH float64) Rect {
	if imgW <= 0 || imgH <= 0 || boxW <= 0 || boxH <= 0 {
		return Rect{}
	}
	s := min(boxW/imgW, boxH/imgH, 1)
	w, h := imgW*s, imgH*s
	return Rect{
		X: boxX + (boxW-w)/2,
		Y: boxY + (boxH-h)/2,
		W: w,
		H: h,
	}
}

// pxToMM converts pixels at 96 dpi into document millimetres.
func pxToMM(px int) float64 { return float64(px) * 25.4 / 96 }
