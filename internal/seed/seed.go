// Package seed содержит встроенный начальный набор данных студии.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mmeshcher/hucreative-studio/internal/model"
)

//go:embed seed.yaml
var seedYAML []byte

// Dataset содержит начальные коллекции и каталог тарифов.
type Dataset struct {
	Projects []model.Project     `yaml:"projects"`
	Messages []model.Message     `yaml:"messages"`
	Orders   []model.Order       `yaml:"orders"`
	Plans    Catalog             `yaml:"plans"`
}

// Load разбирает встроенный набор данных. Каждый вызов возвращает независимую копию.
func Load() (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(seedYAML, &ds); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	return &ds, nil
}

// Catalog содержит тарифные планы в порядке показа.
type Catalog []model.PricingPlan

// Plan ищет тариф по идентификатору.
func (c Catalog) Plan(id string) (model.PricingPlan, bool) {
	for _, p := range c {
		if p.ID == id {
			return p, true
		}
	}
	return model.PricingPlan{}, false
}
