package chart

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"

	"github.com/chronitrack/internal/healthlog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	// ContentType 是 RenderDaily 输出的 MIME 类型。
	ContentType = "image/png"

	defaultWidth  = 640
	defaultHeight = 320
	minWidth      = 200
	minHeight     = 120
	maxWidth      = 2000
	maxHeight     = 1200

	marginLeft   = 36
	marginRight  = 20
	marginTop    = 30
	marginBottom = 28

	scaleMax     = 10
	lineWidth    = 2.5
	markerSize   = 3
	labelGap     = 8
	legendSwatch = 12
)

var (
	// SeverityColor 是症状严重度折线的颜色。
	SeverityColor = color.RGBA{R: 0xdc, G: 0x26, B: 0x26, A: 0xff}
	// SleepColor 是睡眠质量折线的颜色。
	SleepColor = color.RGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}

	backgroundColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	axisColor       = color.RGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}
	gridColor       = color.RGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	textColor       = color.RGBA{R: 0x37, G: 0x41, B: 0x51, A: 0xff}
)

var (
	// ErrCanvasTooSmall 表示指定尺寸放不下坐标轴与图例。
	ErrCanvasTooSmall = errors.New("chart canvas is too small")
	// ErrCanvasTooLarge 表示指定尺寸超过允许的上限。
	ErrCanvasTooLarge = errors.New("chart canvas is too large")
)

// Options 控制图片尺寸，零值使用默认的 640x320，上限为 2000x1200。
type Options struct {
	Width  int
	Height int
}

type series struct {
	label  string
	color  color.RGBA
	points []point
}

type point struct {
	x, y float64
}

// layout 负责把数据坐标映射到像素坐标。
type layout struct {
	width, height int
	plot          image.Rectangle
	count         int
}

func newLayout(opts Options, count int) (layout, error) {
	width, height := opts.Width, opts.Height
	if width == 0 {
		width = defaultWidth
	}
	if height == 0 {
		height = defaultHeight
	}
	if width < minWidth || height < minHeight {
		return layout{}, fmt.Errorf("%w: %dx%d", ErrCanvasTooSmall, width, height)
	}
	if width > maxWidth || height > maxHeight {
		return layout{}, fmt.Errorf("%w: %dx%d (max %dx%d)", ErrCanvasTooLarge, width, height, maxWidth, maxHeight)
	}

	return layout{
		width:  width,
		height: height,
		plot:   image.Rect(marginLeft, marginTop, width-marginRight, height-marginBottom),
		count:  count,
	}, nil
}

// xAt 返回第 i 行在横轴上的位置，单行时居中。
func (l layout) xAt(i int) float64 {
	left, span := float64(l.plot.Min.X), float64(l.plot.Dx())
	if l.count <= 1 {
		return left + span/2
	}
	return left + span*float64(i)/float64(l.count-1)
}

func (l layout) yAt(value float64) float64 {
	value = math.Max(0, math.Min(scaleMax, value))
	return float64(l.plot.Max.Y) - float64(l.plot.Dy())*value/scaleMax
}

// RenderDaily 把每日汇总绘制为 PNG 折线图：纵轴固定 0–10，
// 严重度与睡眠质量各一条线，缺失的点不绘制，相邻的有效点直接相连。
func RenderDaily(w io.Writer, rows []healthlog.DailyAggregate, opts Options) error {
	l, err := newLayout(opts, len(rows))
	if err != nil {
		return err
	}

	img := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	drawGrid(img, l)
	drawXLabels(img, l, rows)

	all := buildSeries(l, rows)
	for _, s := range all {
		drawSeries(img, l, s)
	}
	drawLegend(img, l, all)

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	return nil
}

func buildSeries(l layout, rows []healthlog.DailyAggregate) []series {
	severity := series{label: "Symptom Severity", color: SeverityColor}
	sleep := series{label: "Sleep Quality", color: SleepColor}

	for i, row := range rows {
		x := l.xAt(i)
		if row.SymptomSeverity != nil {
			severity.points = append(severity.points, point{x: x, y: l.yAt(*row.SymptomSeverity)})
		}
		if row.SleepQuality != nil {
			sleep.points = append(sleep.points, point{x: x, y: l.yAt(float64(*row.SleepQuality))})
		}
	}
	return []series{severity, sleep}
}

func drawGrid(img *image.RGBA, l layout) {
	for v := 0; v <= scaleMax; v += 2 {
		y := int(math.Round(l.yAt(float64(v))))
		fill(img, image.Rect(l.plot.Min.X, y, l.plot.Max.X, y+1), gridColor)

		label := strconv.Itoa(v)
		width := font.MeasureString(basicfont.Face7x13, label).Ceil()
		drawText(img, l.plot.Min.X-labelGap-width, y+4, label)
	}

	fill(img, image.Rect(l.plot.Min.X, l.plot.Min.Y, l.plot.Min.X+1, l.plot.Max.Y+1), axisColor)
	fill(img, image.Rect(l.plot.Min.X, l.plot.Max.Y, l.plot.Max.X, l.plot.Max.Y+1), axisColor)
}

// drawXLabels 在点位过密时按步长跳过部分日期标签。
func drawXLabels(img *image.RGBA, l layout, rows []healthlog.DailyAggregate) {
	if len(rows) == 0 {
		return
	}

	step := 1
	if len(rows) > 1 {
		spacing := float64(l.plot.Dx()) / float64(len(rows)-1)
		widest := font.MeasureString(basicfont.Face7x13, "Sep 30").Ceil() + labelGap
		step = int(math.Ceil(float64(widest) / spacing))
		if step < 1 {
			step = 1
		}
	}

	for i := 0; i < len(rows); i += step {
		label := rows[i].ChartLabel()
		width := font.MeasureString(basicfont.Face7x13, label).Ceil()
		x := int(math.Round(l.xAt(i))) - width/2
		drawText(img, x, l.plot.Max.Y+labelGap+basicfont.Face7x13.Ascent, label)
	}
}

func drawSeries(img *image.RGBA, l layout, s series) {
	if len(s.points) == 0 {
		return
	}

	if len(s.points) > 1 {
		z := vector.NewRasterizer(l.width, l.height)
		for i := 1; i < len(s.points); i++ {
			addSegment(z, s.points[i-1], s.points[i], lineWidth/2)
		}
		z.Draw(img, img.Bounds(), image.NewUniform(s.color), image.Point{})
	}

	for _, p := range s.points {
		x, y := int(math.Round(p.x)), int(math.Round(p.y))
		fill(img, image.Rect(x-markerSize, y-markerSize, x+markerSize+1, y+markerSize+1), s.color)
	}
}

// addSegment 以四边形描出一段线，所有线段保持同一绕向以便覆盖率叠加。
func addSegment(z *vector.Rasterizer, a, b point, half float64) {
	dx, dy := b.x-a.x, b.y-a.y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*half, dx/length*half

	z.MoveTo(float32(a.x+nx), float32(a.y+ny))
	z.LineTo(float32(b.x+nx), float32(b.y+ny))
	z.LineTo(float32(b.x-nx), float32(b.y-ny))
	z.LineTo(float32(a.x-nx), float32(a.y-ny))
	z.ClosePath()
}

func drawLegend(img *image.RGBA, l layout, all []series) {
	x := l.plot.Min.X
	y := marginTop / 2
	for _, entry := range all {
		fill(img, image.Rect(x, y-legendSwatch/2, x+legendSwatch, y+legendSwatch/2), entry.color)
		x += legendSwatch + 4
		drawText(img, x, y+4, entry.label)
		x += font.MeasureString(basicfont.Face7x13, entry.label).Ceil() + 16
	}
}

func drawText(img *image.RGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}
