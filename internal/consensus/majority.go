package consensus

import "sort"

const (
	minMajoritySupport = 4
	maxMinoritySupport = 1
	maxMajoritySpread  = 2
)

// MajorityPattern describe una mayoria clara (p.ej. 4 contra 1) que permite cerrar la disputa.
type MajorityPattern struct {
	MajorityValue int     `json:"majority_value"`
	MinorityValue int     `json:"minority_value"`
	Ratio         float64 `json:"ratio"`
}

// DetectMajority busca una mayoria de al menos 4 jueces frente a un valor con a lo sumo 1.
// El rango se mide sobre los valores respaldados por 2 o mas jueces: un disidente aislado
// no invalida la mayoria, pero dos bloques enfrentados (rango > 2) si.
func DetectMajority(scores []int) *MajorityPattern {
	if len(scores) == 0 {
		return nil
	}
	counts := tally(scores)

	values := make([]int, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Ints(values)

	var supported []int
	for _, v := range values {
		if counts[v] >= 2 {
			supported = append(supported, v)
		}
	}
	if len(supported) > 0 && scoreRange(supported) > maxMajoritySpread {
		return nil
	}

	majority := values[0]
	for _, v := range values[1:] {
		if counts[v] > counts[majority] {
			majority = v
		}
	}
	if counts[majority] < minMajoritySupport {
		return nil
	}

	minority, found := 0, false
	for _, v := range values {
		if v == majority || counts[v] > maxMinoritySupport {
			continue
		}
		if !found || counts[v] < counts[minority] {
			minority, found = v, true
		}
	}
	if !found {
		return nil
	}

	return &MajorityPattern{
		MajorityValue: majority,
		MinorityValue: minority,
		Ratio:         float64(counts[majority]) / float64(len(scores)),
	}
}
