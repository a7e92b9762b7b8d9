package analysis

import (
	"math"

	"solardash/internal/dataset"
)

const (
	// WindDirectionColumn holds the wind direction in degrees
	WindDirectionColumn = "WD"
	// WindSpeedColumn holds the wind speed
	WindSpeedColumn = "WS"
)

// WindPoint is one observation in polar and cartesian form
type WindPoint struct {
	Index   int     `json:"index"`
	Degrees float64 `json:"degrees"`
	Theta   float64 `json:"theta"`
	Speed   float64 `json:"speed"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// WindData is the polar scatter of WD against WS
type WindData struct {
	Points   []WindPoint `json:"points"`
	MaxSpeed float64     `json:"max_speed"`
}

// HasWindColumns reports whether both wind columns exist
func HasWindColumns(d *dataset.Dataset) bool {
	return d.HasColumn(WindDirectionColumn) && d.HasColumn(WindSpeedColumn)
}

// Wind converts WD to radians and pairs it with WS for each row where both
// are present and finite.
func Wind(d *dataset.Dataset) (*WindData, error) {
	wd, err := d.Float(WindDirectionColumn)
	if err != nil {
		return nil, err
	}
	ws, err := d.Float(WindSpeedColumn)
	if err != nil {
		return nil, err
	}

	index := d.Index()
	data := &WindData{Points: make([]WindPoint, 0, len(wd))}
	for i := range wd {
		if !Finite(wd[i]) || !Finite(ws[i]) {
			continue
		}
		theta := Radians(wd[i])
		data.Points = append(data.Points, WindPoint{
			Index:   index[i],
			Degrees: wd[i],
			Theta:   theta,
			Speed:   ws[i],
			X:       ws[i] * math.Cos(theta),
			Y:       ws[i] * math.Sin(theta),
		})
		data.MaxSpeed = math.Max(data.MaxSpeed, math.Abs(ws[i]))
	}
	return data, nil
}

// Radians converts degrees to radians
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
