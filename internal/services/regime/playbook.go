package regime

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"FinDash/internal/domain/models"
)

//go:embed playbook.yaml
var defaultPlaybook []byte

// Playbook supplies sector recommendations for a regime.
type Playbook interface {
	Recommendations(r models.Regime) []models.SectorRecommendation
}

// StaticPlaybook is a fixed regime to sector table.
type StaticPlaybook struct {
	rows map[models.Regime][]models.SectorRecommendation
}

// DefaultPlaybook parses the embedded table.
func DefaultPlaybook() (*StaticPlaybook, error) {
	return ParsePlaybook(defaultPlaybook)
}

// LoadPlaybook reads a table from path, or the embedded one when path is empty.
func LoadPlaybook(path string) (*StaticPlaybook, error) {
	if path == "" {
		return DefaultPlaybook()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playbook: %w", err)
	}
	return ParsePlaybook(data)
}

func ParsePlaybook(data []byte) (*StaticPlaybook, error) {
	var rows map[models.Regime][]models.SectorRecommendation
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse playbook: %w", err)
	}
	known := make(map[models.Regime]bool, len(models.AllRegimes))
	for _, r := range models.AllRegimes {
		known[r] = true
	}
	for r, recs := range rows {
		if !known[r] {
			return nil, fmt.Errorf("playbook: unknown regime %q", r)
		}
		for _, rec := range recs {
			switch rec.Stance {
			case models.StanceOverweight, models.StanceNeutral, models.StanceUnderweight:
			default:
				return nil, fmt.Errorf("playbook: %s/%s: invalid stance %q", r, rec.Symbol, rec.Stance)
			}
		}
	}
	return &StaticPlaybook{rows: rows}, nil
}

// Recommendations returns a copy of the rows for r, nil for regimes with no entry.
func (p *StaticPlaybook) Recommendations(r models.Regime) []models.SectorRecommendation {
	recs, ok := p.rows[r]
	if !ok {
		return nil
	}
	return append([]models.SectorRecommendation(nil), recs...)
}

var _ Playbook = (*StaticPlaybook)(nil)
