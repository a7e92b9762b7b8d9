package testutil

import (
	"strings"
)

// SolarCSV is a small weather station extract with gaps in GHI, DNI and WS
// and a comment column that never parses as a number.
const SolarCSV = `Timestamp,GHI,DNI,DHI,ModA,Tamb,WS,WD,Cleaning,Comments
2021-08-09 00:01,-1.2,-0.2,-1.1,0,26.2,0.3,122.1,0,
2021-08-09 00:02,,-0.2,-1.1,0,26.2,0.6,0,0,
2021-08-09 00:03,-1.1,,-1.1,0,26.2,,124.6,0,sensor check
2021-08-09 00:04,-1.1,-0.1,-1,0,26.2,1.2,120.3,0,
2021-08-09 00:05,-1,-0.1,-1,0,26.2,0.9,113.2,1,rinse
2021-08-09 00:06,12.4,8.1,11.2,9.8,26.4,1.5,90,0,
`

// CleanCSV has no missing values
const CleanCSV = `Timestamp,GHI,DNI,DHI,WS,WD
2021-08-09 06:00,10,5,8,1.0,0
2021-08-09 06:01,20,15,9,2.0,90
2021-08-09 06:02,35,30,10,3.0,180
2021-08-09 06:03,50,48,12,4.0,270
`

// NoWindCSV lacks the WD and WS columns
const NoWindCSV = `GHI,DNI,DHI
1,2,3
4,5,6
7,8,9
`

// MixedTypesCSV has a numeric column polluted by text
const MixedTypesCSV = `site,GHI,reading
north,1.5,12
south,2.5,x
east,3.5,7
`

// NoGHICSV has irradiance columns but no GHI
const NoGHICSV = `DNI,DHI,WS,WD
1,2,0.5,45
3,4,1.5,90
`

// Reader wraps a fixture in an io.Reader
func Reader(fixture string) *strings.Reader {
	return strings.NewReader(fixture)
}
