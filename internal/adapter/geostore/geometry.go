package geostore

// position is a GeoJSON coordinate pair in [lon, lat] order.
type position [2]float64

func (p position) lon() float64 { return p[0] }
func (p position) lat() float64 { return p[1] }

// ring is a closed loop of positions. GeoJSON repeats the first vertex at
// the end; the algorithms below tolerate both closed and unclosed input.
type ring []position

// polygon is one exterior ring followed by zero or more holes.
type polygon []ring

// multiPolygon is a set of disjoint polygons treated as one area.
type multiPolygon []polygon

func (m multiPolygon) contains(pt position) bool {
	for _, poly := range m {
		if poly.contains(pt) {
			return true
		}
	}
	return false
}

func (p polygon) contains(pt position) bool {
	if len(p) == 0 || !pointInRing(p[0], pt) {
		return false
	}
	for _, hole := range p[1:] {
		if pointInRing(hole, pt) {
			return false
		}
	}
	return true
}

// pointInRing is the even-odd ray casting test. Points exactly on an edge
// may land on either side; parcel centroids never sit on drainage borders
// in practice.
func pointInRing(r ring, pt position) bool {
	inside := false
	n := len(r)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := r[i].lon(), r[i].lat()
		xj, yj := r[j].lon(), r[j].lat()
		if (yi > pt.lat()) != (yj > pt.lat()) &&
			pt.lon() < (xj-xi)*(pt.lat()-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// centroid is the area-weighted centroid of the exterior ring via the
// shoelace formula. A degenerate ring (zero area) falls back to the vertex
// average.
func (p polygon) centroid() position {
	if len(p) == 0 || len(p[0]) == 0 {
		return position{}
	}
	r := p[0]

	var area, cx, cy float64
	n := len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := r[i].lon()*r[j].lat() - r[j].lon()*r[i].lat()
		area += cross
		cx += (r[i].lon() + r[j].lon()) * cross
		cy += (r[i].lat() + r[j].lat()) * cross
	}
	area /= 2

	if area == 0 {
		var sx, sy float64
		for _, v := range r {
			sx += v.lon()
			sy += v.lat()
		}
		return position{sx / float64(n), sy / float64(n)}
	}
	return position{cx / (6 * area), cy / (6 * area)}
}

// validCoordinate reports whether a position is a plausible WGS84
// longitude/latitude pair, the check used to reject projected datasets.
func validCoordinate(pt position) bool {
	return pt.lon() >= -180 && pt.lon() <= 180 && pt.lat() >= -90 && pt.lat() <= 90
}
