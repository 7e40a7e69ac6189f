package geom

// PointInPolygon reports whether point lies inside polygon using even-odd ray
// casting. The polygon is treated as a closed ring and needs at least three
// vertices; smaller inputs always return false. Results for points exactly on
// an edge or vertex are unspecified
func PointInPolygon(point Vector2, polygon []Vector2) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	pointX, pointY := point.X, point.Y

	// the segment ending at polygon[0] starts at the last vertex
	endX, endY := polygon[n-1].X, polygon[n-1].Y
	for _, v := range polygon {
		startX, startY := endX, endY
		endX, endY = v.X, v.Y

		// A horizontal edge never straddles pointY, so the division below
		// is only reached with startY != endY.
		if (endY > pointY) != (startY > pointY) &&
			pointX-endX < float32((pointY-endY)*(startX-endX))/(startY-endY) {
			inside = !inside
		}
	}
	return inside
}

// PointInGeoPolygon runs PointInPolygon on the float32 form of point and of
// every polygon vertex. The vertex-count guard is inherited from PointInPolygon
func PointInGeoPolygon(point GeoPoint, polygon []GeoPoint) bool {
	vertices := make([]Vector2, len(polygon))
	for i, p := range polygon {
		vertices[i] = p.Vector()
	}
	return PointInPolygon(point.Vector(), vertices)
}
