package paint

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"runtime"
	"sync"

	"github.com/pthm-cable/ringfield/layout"
)

// ChunkSpec splits the output into a grid of independently painted
// cells. 1x1 paints everything in one piece.
type ChunkSpec struct {
	Cols, Rows int
}

// Validate rejects degenerate grids.
func (c ChunkSpec) Validate() error {
	if c.Cols < 1 || c.Rows < 1 {
		return fmt.Errorf("paint: chunk grid %dx%d must be at least 1x1", c.Cols, c.Rows)
	}
	return nil
}

// Scheduler paints a plan in chunked, parallel passes. Chunks are
// disjoint pixel regions; because painting is pure, the assembled
// result is identical to a single-pass render.
type Scheduler struct {
	plan    *layout.Plan
	style   Style
	chunks  ChunkSpec
	workers int
	culler  *Culler
}

// NewScheduler builds a scheduler. workers <= 0 uses GOMAXPROCS.
func NewScheduler(plan *layout.Plan, style Style, chunks ChunkSpec, workers int) (*Scheduler, error) {
	if err := chunks.Validate(); err != nil {
		return nil, err
	}
	if style.Width < 1 {
		return nil, fmt.Errorf("paint: output width %d must be positive", style.Width)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Scheduler{
		plan:    plan,
		style:   style,
		chunks:  chunks,
		workers: workers,
		culler:  NewCuller(&plan.Seq),
	}, nil
}

type chunkJob struct {
	rect   image.Rectangle // pixel region in the output
	fvp    FracViewport
	parent FracViewport
}

type chunkResult struct {
	rect image.Rectangle
	img  image.Image
}

// Render paints sequence range [from, to) within the fractional
// viewport. With background set, the buffer starts as the plan's
// background color; otherwise it stays transparent, for compositing.
func (s *Scheduler) Render(fvp FracViewport, from, to int, background bool) (*image.RGBA, error) {
	if from < 0 || to > len(s.plan.Seq.Circles) || from > to {
		return nil, fmt.Errorf("paint: render range [%d, %d) outside sequence of %d", from, to, len(s.plan.Seq.Circles))
	}

	outW, outH := fvp.Dimensions(s.style.Width)
	out := image.NewRGBA(image.Rect(0, 0, outW, outH))

	jobs := s.splitChunks(fvp, outW, outH)
	if len(jobs) == 1 {
		res := s.paintChunk(jobs[0], from, to, background)
		draw.Draw(out, res.rect, res.img, image.Point{}, draw.Src)
		return out, nil
	}

	jobCh := make(chan chunkJob, len(jobs))
	resCh := make(chan chunkResult, len(jobs))
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				resCh <- s.paintChunk(job, from, to, background)
			}
		}()
	}
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()
	close(resCh)

	for res := range resCh {
		draw.Draw(out, res.rect, res.img, image.Point{}, draw.Src)
	}
	return out, nil
}

// splitChunks carves the output into pixel-aligned cells and maps each
// back to its fractional viewport. Rounding happens once per grid
// line, so cells tile exactly.
func (s *Scheduler) splitChunks(fvp FracViewport, outW, outH int) []chunkJob {
	xEdge := func(i int) int {
		return int(math.Round(float64(outW) * float64(i) / float64(s.chunks.Cols)))
	}
	yEdge := func(j int) int {
		return int(math.Round(float64(outH) * float64(j) / float64(s.chunks.Rows)))
	}
	widthRatio := fvp.Width() / float64(outW)
	heightRatio := fvp.Height() / float64(outH)

	jobs := make([]chunkJob, 0, s.chunks.Cols*s.chunks.Rows)
	for cx := 0; cx < s.chunks.Cols; cx++ {
		for cy := 0; cy < s.chunks.Rows; cy++ {
			left, top := xEdge(cx), yEdge(cy)
			right, bottom := xEdge(cx+1), yEdge(cy+1)
			if right <= left || bottom <= top {
				continue
			}
			jobs = append(jobs, chunkJob{
				rect: image.Rect(left, top, right, bottom),
				fvp: FracViewport{
					w: float64(right-left) * widthRatio,
					h: float64(bottom-top) * heightRatio,
					l: float64(left)*widthRatio + fvp.Left(),
					t: float64(top)*heightRatio + fvp.Top(),
				},
				parent: fvp,
			})
		}
	}
	return jobs
}

func (s *Scheduler) paintChunk(job chunkJob, from, to int, background bool) chunkResult {
	mask := s.culler.Mask(job.fvp.Virtual(), len(s.plan.Seq.Circles))
	p := newPainterPx(
		s.plan, job.fvp.Virtual(), s.style, mask,
		job.rect.Dx(), job.rect.Dy(),
		job.parent.Virtual(), job.rect.Min.X, job.rect.Min.Y,
	)
	if background {
		p.FillBackground()
	}
	p.PaintCircles(from, to)
	return chunkResult{rect: job.rect, img: p.Image()}
}
