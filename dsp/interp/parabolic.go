package interp

// Parabolic returns the vertex offset, relative to the middle sample, of the
// parabola through (-1, xm1), (0, x0), (1, x1).
//
// With a = (xm1+x1-2*x0)/2 and b = (x1-xm1)/2 the offset is -b/(2a). A flat
// curvature (a == 0) yields 0.
func Parabolic(xm1, x0, x1 float64) float64 {
	a := (xm1 + x1 - 2*x0) / 2
	b := (x1 - xm1) / 2
	if a == 0 {
		return 0
	}
	return -b / (2 * a)
}

// RefinePeak returns the interpolated position of the peak at index i of
// data. When i is the first or last index, or outside data, the integer
// position is returned unchanged.
func RefinePeak(data []float64, i int) float64 {
	if i <= 0 || i >= len(data)-1 {
		return float64(i)
	}
	return float64(i) + Parabolic(data[i-1], data[i], data[i+1])
}
