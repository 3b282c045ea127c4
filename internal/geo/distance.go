// Package geo provides pure coordinate math used by the aggregation
// layer. Coordinates are accepted as-is; range validation is the
// caller's responsibility.
package geo

import "math"

// earthRadiusMiles is the mean Earth radius used by the haversine
// formula.
const earthRadiusMiles = 3958.8

// DistanceMiles returns the great-circle distance in miles between two
// coordinates, rounded to one decimal place. It is deterministic and
// has no error conditions.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
    rlat1 := lat1 * math.Pi / 180
    rlat2 := lat2 * math.Pi / 180
    dlat := (lat2 - lat1) * math.Pi / 180
    dlng := (lng2 - lng1) * math.Pi / 180

    a := math.Sin(dlat/2)*math.Sin(dlat/2) +
        math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
    c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

    return math.Round(earthRadiusMiles*c*10) / 10
}
