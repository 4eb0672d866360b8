package core

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultSampleKey is the sample new sessions start from.
const DefaultSampleKey = "gdp"

// SampleDefinition is a built-in dataset. Samples seed new sessions and are
// served as the downloadable import template.
type SampleDefinition struct {
	Key         string
	Label       string
	Metric      string
	LabelHeader string
	Table       Table

	// Format renders values in the template. Nil means FormatValue.
	Format func(float64) string
}

// Template returns the sample in import format.
func (d SampleDefinition) Template() string {
	return EncodeString(d.Table, d.LabelHeader, d.Format)
}

// SampleInfo is the listing view of a sample.
type SampleInfo struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Metric    string `json:"metric"`
	Rows      int    `json:"rows"`
	StepCount int    `json:"step_count"`
}

var (
	samples   = make(map[string]SampleDefinition)
	samplesMu sync.RWMutex
)

// RegisterSample adds a sample to the registry.
// Panics on a duplicate key or a table that breaks the shape invariant.
func RegisterSample(def SampleDefinition) {
	samplesMu.Lock()
	defer samplesMu.Unlock()

	if _, exists := samples[def.Key]; exists {
		panic(fmt.Sprintf("sample already registered: %s", def.Key))
	}
	if err := def.Table.Validate(); err != nil {
		panic(fmt.Sprintf("sample %s: %v", def.Key, err))
	}
	if def.LabelHeader == "" {
		def.LabelHeader = DefaultLabelHeader
	}

	def.Table = def.Table.Clone()
	samples[def.Key] = def
}

// GetSample returns a sample by key. The returned table is a copy.
func GetSample(key string) (SampleDefinition, error) {
	samplesMu.RLock()
	defer samplesMu.RUnlock()

	def, ok := samples[key]
	if !ok {
		return SampleDefinition{}, fmt.Errorf("%w: %s", ErrSampleNotFound, key)
	}
	def.Table = def.Table.Clone()
	return def, nil
}

// Samples lists registered samples sorted by key.
func Samples() []SampleInfo {
	samplesMu.RLock()
	defer samplesMu.RUnlock()

	result := make([]SampleInfo, 0, len(samples))
	for _, def := range samples {
		result = append(result, SampleInfo{
			Key:       def.Key,
			Label:     def.Label,
			Metric:    def.Metric,
			Rows:      len(def.Table.Rows),
			StepCount: def.Table.StepCount(),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}

// SampleCount returns the number of registered samples.
func SampleCount() int {
	samplesMu.RLock()
	defer samplesMu.RUnlock()
	return len(samples)
}

// ClearSamples empties the registry.
// Primarily useful for testing.
func ClearSamples() {
	samplesMu.Lock()
	defer samplesMu.Unlock()
	samples = make(map[string]SampleDefinition)
}
