package history

// MinChartMax is the floor of the chart's vertical scale
const MinChartMax = 100

// Point is a sample position in chart coordinates, origin top-left
type Point struct {
	X, Y float64
}

// ChartScale maps population samples onto a width x height chart.
// Samples are spaced for a full buffer so the line grows left to right.
type ChartScale struct {
	Capacity int
	YMax     int
}

// Scale derives the chart scale for the given samples and buffer capacity
func Scale(values []int, capacity int) ChartScale {
	if capacity < 2 {
		capacity = 2
	}
	return ChartScale{Capacity: capacity, YMax: max(maxOf(values), MinChartMax)}
}

// Points maps samples to chart coordinates. Fewer than two samples draw nothing.
func (s ChartScale) Points(values []int, width, height float64) []Point {
	if len(values) < 2 {
		return nil
	}
	stepX := width / float64(s.Capacity-1)
	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{
			X: float64(i) * stepX,
			Y: height - float64(v)/float64(s.YMax)*height,
		}
	}
	return points
}
