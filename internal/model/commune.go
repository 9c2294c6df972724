package model

// Commune describes a municipality in the consolidated OFGL directory.
type Commune struct {
	SIREN      string `json:"siren"`
	Name       string `json:"name"`
	INSEE      string `json:"insee,omitempty"`
	Population int    `json:"population"`
	Band       string `json:"population_band"` // tranche_population
	Department string `json:"department,omitempty"`
	Region     string `json:"region,omitempty"`
}
