package catalog

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/kailas-cloud/sensorank/internal/domain/item"
)

// Hash field names for a stored catalog item.
const (
	fieldName       = "name"
	fieldType       = "type"
	fieldModules    = "modules"
	fieldEnvTags    = "env_tags"
	fieldVector     = "vector"
	fieldFeatures   = "features"
	fieldIPRating   = "ip_rating"
	fieldPower      = "power_consumption"
	fieldTemp       = "operating_temp"
	fieldRange      = "measure_range"
	fieldPrecision  = "precision"
)

func fieldsFromItem(it *item.Item) (map[string]string, error) {
	modules, err := json.Marshal(it.Modules())
	if err != nil {
		return nil, fmt.Errorf("marshal modules: %w", err)
	}
	envTags, err := json.Marshal(it.EnvTags())
	if err != nil {
		return nil, fmt.Errorf("marshal env tags: %w", err)
	}

	attrs := it.Attrs()
	fields := map[string]string{
		fieldName:    it.Name(),
		fieldType:    it.SensorType(),
		fieldModules: string(modules),
		fieldEnvTags: string(envTags),
		fieldVector:  string(vectorToBytes(it.Vector())),
	}
	if attrs.Features != "" {
		fields[fieldFeatures] = attrs.Features
	}
	if attrs.IPRating != "" {
		fields[fieldIPRating] = attrs.IPRating
	}
	if attrs.PowerConsumption != 0 {
		fields[fieldPower] = strconv.FormatFloat(attrs.PowerConsumption, 'g', -1, 64)
	}
	if attrs.OperatingTemp != "" {
		fields[fieldTemp] = attrs.OperatingTemp
	}
	if attrs.MeasureRange != "" {
		fields[fieldRange] = attrs.MeasureRange
	}
	if attrs.Precision != "" {
		fields[fieldPrecision] = attrs.Precision
	}
	return fields, nil
}

func itemFromFields(id string, fields map[string]string) (item.Item, error) {
	var modules, envTags []string
	if raw := fields[fieldModules]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &modules); err != nil {
			return item.Item{}, fmt.Errorf("unmarshal modules for %s: %w", id, err)
		}
	}
	if raw := fields[fieldEnvTags]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &envTags); err != nil {
			return item.Item{}, fmt.Errorf("unmarshal env tags for %s: %w", id, err)
		}
	}

	vec, err := bytesToVector([]byte(fields[fieldVector]))
	if err != nil {
		return item.Item{}, fmt.Errorf("decode vector for %s: %w", id, err)
	}

	var power float64
	if raw := fields[fieldPower]; raw != "" {
		power, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return item.Item{}, fmt.Errorf("parse power consumption for %s: %w", id, err)
		}
	}

	return item.Reconstruct(
		id, fields[fieldName], fields[fieldType],
		modules, envTags, vec,
		item.Attributes{
			Features:         fields[fieldFeatures],
			IPRating:         fields[fieldIPRating],
			PowerConsumption: power,
			OperatingTemp:    fields[fieldTemp],
			MeasureRange:     fields[fieldRange],
			Precision:        fields[fieldPrecision],
		},
	), nil
}

func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid vector data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
