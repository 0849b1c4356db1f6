package pcd

import (
	"github.com/golang/geo/r3"
	"github.com/seqsense/pcgol/pc"
)

// Select returns a new cloud holding the points at indice, in the given
// order. Out of range indices are ignored.
func (c *Cloud) Select(indice []int) *Cloud {
	n := c.Len()
	return c.copyRuns(func(dst, src *pc.PointCloud) int {
		j, is, js, cnt := 0, 0, 0, 0
		flush := func() {
			if cnt > 0 {
				pc.Copy(dst, js, src, is, cnt)
				cnt = 0
			}
		}
		for _, i := range indice {
			if i < 0 || i >= n {
				continue
			}
			if cnt > 0 && i != is+cnt {
				flush()
			}
			if cnt == 0 {
				is, js = i, j
			}
			cnt++
			j++
		}
		flush()
		return j
	}, len(indice))
}

// SelectInverse returns a new cloud holding every point not listed in
// indice, in the original order.
func (c *Cloud) SelectInverse(indice []int) *Cloud {
	n := c.Len()
	drop := make([]bool, n)
	for _, i := range indice {
		if i >= 0 && i < n {
			drop[i] = true
		}
	}
	return c.copyRuns(func(dst, src *pc.PointCloud) int {
		return copyMask(dst, src, func(i int) bool { return !drop[i] })
	}, n)
}

// PassThrough returns a new cloud holding the points for which fn, given
// the index and the world coordinates, returns true.
func (c *Cloud) PassThrough(fn func(int, r3.Vector) bool) (*Cloud, error) {
	if c.Len() == 0 {
		return c.copyRuns(func(_, _ *pc.PointCloud) int { return 0 }, 0), nil
	}
	it, err := c.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	return c.copyRuns(func(dst, src *pc.PointCloud) int {
		return copyMask(dst, src, func(i int) bool {
			return fn(i, c.world(it.Vec3At(i)))
		})
	}, c.Points), nil
}

func copyMask(dst, src *pc.PointCloud, keep func(int) bool) int {
	j, is, js, cnt := 0, 0, 0, 0
	for i := 0; i < src.Points; i++ {
		if !keep(i) {
			if cnt > 0 {
				pc.Copy(dst, js, src, is, cnt)
				cnt = 0
			}
			continue
		}
		if cnt == 0 {
			is, js = i, j
		}
		cnt++
		j++
	}
	if cnt > 0 {
		pc.Copy(dst, js, src, is, cnt)
	}
	return j
}

func (c *Cloud) copyRuns(core func(dst, src *pc.PointCloud) int, capacity int) *Cloud {
	if c.Len() == 0 {
		var origin r3.Vector
		if c != nil {
			origin = c.Origin
		}
		return New(origin, nil)
	}
	pp := &pc.PointCloud{
		PointCloudHeader: c.PointCloudHeader.Clone(),
		Data:             make([]byte, capacity*c.Stride()),
		Points:           capacity,
	}

	i := core(pp, c.PointCloud)

	pp.Points = i
	pp.Width = i
	pp.Height = 1
	pp.Data = pp.Data[: i*pp.Stride() : i*pp.Stride()]
	return &Cloud{PointCloud: pp, Origin: c.Origin}
}
