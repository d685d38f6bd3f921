package entities

// Station names as they appear in the generation sources.
const (
	StationKariba = "Kariba"
	StationHwange = "Hwange"
	StationIPPs   = "IPPS"
)

// GenerationReport holds raw per-station values, e.g. "Kariba" -> "400MW"
type GenerationReport map[string]string

// GenerationFigures holds parsed per-station output in megawatts
type GenerationFigures struct {
	Kariba int
	Hwange int
	IPPs   int
}

// Total returns the combined output of all stations
func (g GenerationFigures) Total() int {
	return g.Kariba + g.Hwange + g.IPPs
}
