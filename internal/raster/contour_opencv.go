//go:build opencv

package raster

import (
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ironsheep/label-vectorizer/internal/geometry"
	"github.com/ironsheep/label-vectorizer/internal/log"
)

// TraceBoundaries returns the outer boundary contour of every outermost
// 8-connected component of m using OpenCV (external retrieval, simple chain
// approximation).
//
// OpenCV lists external contours last-found first; the list is reversed so
// contours come back in raster order of their first pixels, matching the
// pure Go tracer.
func TraceBoundaries(m *Mask) [][]geometry.Point {
	if m == nil || m.Empty() {
		return nil
	}

	mat, err := gocv.NewMatFromBytes(m.Height, m.Width, gocv.MatTypeCV8U, m.Bytes())
	if err != nil {
		log.Error("raster: mat from mask failed", zap.Error(err))
		return nil
	}
	defer mat.Close()

	found := gocv.FindContours(mat, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer found.Close()

	contours := make([][]geometry.Point, 0, found.Size())
	for i := found.Size() - 1; i >= 0; i-- {
		pv := found.At(i)
		contour := make([]geometry.Point, 0, pv.Size())
		for j := 0; j < pv.Size(); j++ {
			pt := pv.At(j)
			contour = append(contour, geometry.FromPixel(pt.Y, pt.X))
		}
		contours = append(contours, contour)
	}
	return contours
}
