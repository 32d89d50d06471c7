package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/aggregation"
)

// No charting dependency is pulled in for two fixed-layout bar
// charts, so the two chart artifacts are rendered directly onto an
// image.RGBA canvas and PNG-encoded with the standard library —
// image/png's encoding of a fixed pixel buffer is deterministic, which
// is all byte-determinism requires here.
const (
	chartWidth  = 640
	chartHeight = 360
	chartMargin = 40
)

var (
	chartBG   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	chartAxis = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	chartBar  = color.RGBA{R: 0x2f, G: 0x6f, B: 0xb0, A: 0xff}
)

func newCanvas() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, chartWidth, chartHeight))
	for y := 0; y < chartHeight; y++ {
		for x := 0; x < chartWidth; x++ {
			img.Set(x, y, chartBG)
		}
	}
	return img
}

func drawAxes(img *image.RGBA) {
	for x := chartMargin; x < chartWidth-chartMargin/2; x++ {
		img.Set(x, chartHeight-chartMargin, chartAxis)
	}
	for y := chartMargin / 2; y < chartHeight-chartMargin; y++ {
		img.Set(chartMargin, y, chartAxis)
	}
}

func drawBar(img *image.RGBA, x0, width, height int) {
	baseline := chartHeight - chartMargin
	for x := x0; x < x0+width && x < chartWidth; x++ {
		for y := baseline - height; y < baseline; y++ {
			if y < 0 || y >= chartHeight {
				continue
			}
			img.Set(x, y, chartBar)
		}
	}
}

func encodePNG(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("report: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ScoreDistributionHistogram renders score_distribution.png: a
// 10-bucket histogram of the 300 micro scores over [0,1].
func ScoreDistributionHistogram(micro []MicroRow) ([]byte, error) {
	const buckets = 10
	counts := make([]int, buckets)
	for _, m := range micro {
		idx := int(m.Score * buckets)
		if idx >= buckets {
			idx = buckets - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}

	maxCount := 1
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	img := newCanvas()
	drawAxes(img)

	plotWidth := chartWidth - chartMargin - chartMargin/2
	plotHeight := chartHeight - chartMargin - chartMargin/2
	barSlot := plotWidth / buckets

	for i, c := range counts {
		height := int(float64(c) / float64(maxCount) * float64(plotHeight))
		x0 := chartMargin + i*barSlot + 2
		drawBar(img, x0, barSlot-4, height)
	}

	return encodePNG(img)
}

// ClusterComparisonBars renders cluster_comparison.png: one bar
// per cluster, height proportional to its score on the [0,3] scale.
func ClusterComparisonBars(clusters []aggregation.ClusterScore) ([]byte, error) {
	img := newCanvas()
	drawAxes(img)

	plotWidth := chartWidth - chartMargin - chartMargin/2
	plotHeight := chartHeight - chartMargin - chartMargin/2
	n := len(clusters)
	if n == 0 {
		return encodePNG(img)
	}
	barSlot := plotWidth / n

	for i, c := range clusters {
		height := int(c.Score / aggregation.MaxScore * float64(plotHeight))
		x0 := chartMargin + i*barSlot + 4
		drawBar(img, x0, barSlot-8, height)
	}

	return encodePNG(img)
}
