package sac

import (
	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
	pcsac "github.com/seqsense/pcgol/pc/sac"
	gmat "gonum.org/v1/gonum/mat"
)

const epsilon = 1e-6

type planeModel struct {
	ra         pc.Vec3RandomAccessor
	sampleSize int
	threshold  float32
}

// NewPlaneModel returns a plane model for the pcgol SAC driver.
// Three point samples are fitted exactly, larger samples by least squares.
func NewPlaneModel(ra pc.Vec3RandomAccessor, sampleSize int, threshold float32) pcsac.Model {
	return &planeModel{ra: ra, sampleSize: sampleSize, threshold: threshold}
}

func (m *planeModel) NumRange() (min, max int) {
	return m.sampleSize, m.sampleSize
}

func (m *planeModel) Fit(ids []int) (pcsac.ModelCoefficients, bool) {
	if len(ids) < 3 {
		return nil, false
	}
	var norm mat.Vec3
	var ok bool
	if len(ids) == 3 {
		norm, ok = m.fitThree(ids)
	} else {
		norm, ok = m.fitLeastSquares(ids)
	}
	if !ok {
		return nil, false
	}
	var center mat.Vec3
	for _, id := range ids {
		center = center.Add(m.ra.Vec3At(id))
	}
	center = center.Mul(1 / float32(len(ids)))

	norm = canonical(norm)
	return &planeCoefficients{
		model: m,
		norm:  norm,
		d:     norm.Dot(center),
	}, true
}

func (m *planeModel) fitThree(ids []int) (mat.Vec3, bool) {
	p0, p1, p2 := m.ra.Vec3At(ids[0]), m.ra.Vec3At(ids[1]), m.ra.Vec3At(ids[2])
	norm := p1.Sub(p0).Cross(p2.Sub(p0))
	if norm.NormSq() < epsilon*epsilon {
		return mat.Vec3{}, false
	}
	return norm.Normalized(), true
}

func (m *planeModel) fitLeastSquares(ids []int) (mat.Vec3, bool) {
	var center [3]float64
	for _, id := range ids {
		p := m.ra.Vec3At(id)
		for k := 0; k < 3; k++ {
			center[k] += float64(p[k])
		}
	}
	for k := range center {
		center[k] /= float64(len(ids))
	}

	cov := gmat.NewSymDense(3, nil)
	for _, id := range ids {
		p := m.ra.Vec3At(id)
		d := [3]float64{
			float64(p[0]) - center[0],
			float64(p[1]) - center[1],
			float64(p[2]) - center[2],
		}
		for r := 0; r < 3; r++ {
			for c := r; c < 3; c++ {
				cov.SetSym(r, c, cov.At(r, c)+d[r]*d[c])
			}
		}
	}

	var es gmat.EigenSym
	if !es.Factorize(cov, true) {
		return mat.Vec3{}, false
	}
	// Eigenvalues are ascending. Collinear samples have two zero eigenvalues.
	if vals := es.Values(nil); vals[1] < epsilon {
		return mat.Vec3{}, false
	}
	var vecs gmat.Dense
	es.VectorsTo(&vecs)
	norm := mat.Vec3{
		float32(vecs.At(0, 0)),
		float32(vecs.At(1, 0)),
		float32(vecs.At(2, 0)),
	}
	if norm.NormSq() < epsilon*epsilon {
		return mat.Vec3{}, false
	}
	return norm.Normalized(), true
}

// canonical flips n so that its first non-zero component, in z, y, x order,
// is positive.
func canonical(n mat.Vec3) mat.Vec3 {
	for _, k := range []int{2, 1, 0} {
		switch {
		case n[k] > 0:
			return n
		case n[k] < 0:
			return n.Mul(-1)
		}
	}
	return n
}

type planeCoefficients struct {
	model *planeModel
	norm  mat.Vec3
	d     float32
}

func (c *planeCoefficients) Evaluate() int {
	n := c.model.ra.Len()
	var cnt int
	for i := 0; i < n; i++ {
		if c.IsIn(c.model.ra.Vec3At(i), c.model.threshold) {
			cnt++
		}
	}
	return cnt
}

func (c *planeCoefficients) Inliers(d float32) []int {
	n := c.model.ra.Len()
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if c.IsIn(c.model.ra.Vec3At(i), d) {
			out = append(out, i)
		}
	}
	return out
}

func (c *planeCoefficients) IsIn(p mat.Vec3, d float32) bool {
	dd := c.norm.Dot(p) - c.d
	return -d < dd && dd < d
}
