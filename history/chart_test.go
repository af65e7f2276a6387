package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScale_VerticalFloor(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   int
	}{
		{"empty", nil, MinChartMax},
		{"below floor", []int{3, 40, 99}, MinChartMax},
		{"above floor", []int{10, 250, 30}, 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Scale(tt.values, DefaultCapacity).YMax)
		})
	}
}

func TestChartScale_Points(t *testing.T) {
	values := []int{0, 50, 200}
	s := Scale(values, DefaultCapacity)

	points := s.Points(values, 99, 100)
	assert.Equal(t, []Point{
		{X: 0, Y: 100},
		{X: 1, Y: 75},
		{X: 2, Y: 0},
	}, points)
}

func TestChartScale_PointsNeedTwoSamples(t *testing.T) {
	s := Scale([]int{10}, DefaultCapacity)
	assert.Nil(t, s.Points([]int{10}, 99, 100))
	assert.Nil(t, s.Points(nil, 99, 100))
}

func TestChartScale_FullBufferSpansWidth(t *testing.T) {
	values := make([]int, DefaultCapacity)
	points := Scale(values, DefaultCapacity).Points(values, 198, 10)
	assert.InDelta(t, 198, points[len(points)-1].X, 1e-9)
}
