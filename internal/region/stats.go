package region

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bounds is a pixel rectangle. (X1,Y1) is inclusive, (X2,Y2) exclusive.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// RegionStats summarizes one grown region.
type RegionStats struct {
	Area          int     `json:"area"`
	AreaPercent   float64 `json:"area_percent"`
	Bounds        Bounds  `json:"bounds"`
	CentroidX     float64 `json:"centroid_x"`
	CentroidY     float64 `json:"centroid_y"`
	MeanIntensity float64 `json:"mean_intensity"`
	StdDev        float64 `json:"std_dev"`
	MinIntensity  float64 `json:"min_intensity"`
	MaxIntensity  float64 `json:"max_intensity"`
}

// Measure computes area, extent, centroid and intensity statistics of mask
// over raster. Values are rounded to two decimals. An empty mask yields a
// zero RegionStats.
func Measure(raster *Raster, mask *Mask) RegionStats {
	if mask.width != raster.width || mask.height != raster.height {
		return RegionStats{}
	}
	n := mask.Count()
	if n == 0 {
		return RegionStats{}
	}

	values := make([]float64, 0, n)
	var sumX, sumY float64
	for row := 0; row < mask.height; row++ {
		for col := 0; col < mask.width; col++ {
			if !mask.bits[row*mask.width+col] {
				continue
			}
			values = append(values, raster.At(row, col))
			sumX += float64(col)
			sumY += float64(row)
		}
	}

	mean, std := stat.MeanStdDev(values, nil)
	if n == 1 {
		std = 0
	}
	b := mask.Bounds()

	return RegionStats{
		Area:          n,
		AreaPercent:   round2(float64(n) / float64(len(mask.bits)) * 100),
		Bounds:        Bounds{X1: b.Min.X, Y1: b.Min.Y, X2: b.Max.X, Y2: b.Max.Y},
		CentroidX:     round2(sumX / float64(n)),
		CentroidY:     round2(sumY / float64(n)),
		MeanIntensity: round2(mean),
		StdDev:        round2(std),
		MinIntensity:  floats.Min(values),
		MaxIntensity:  floats.Max(values),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
