package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a success payload that is not a usable report.
var ErrMalformedResponse = errors.New("malformed analysis response")

// Report is a validated carbon-footprint report. It is immutable once
// produced by Response.Report.
type Report struct {
	CarbonAnalysis  CarbonAnalysis `json:"carbon_analysis" yaml:"carbon_analysis"`
	Recommendations []string       `json:"recommendations" yaml:"recommendations"`
	BlueprintData   *BlueprintData `json:"blueprint_data,omitempty" yaml:"blueprint_data,omitempty"`
}

// CarbonAnalysis holds total and per-material emissions in kg CO₂e.
type CarbonAnalysis struct {
	TotalEmissions float64    `json:"total_emissions" yaml:"total_emissions"`
	Materials      []Material `json:"materials" yaml:"materials"`
}

// Material is one row of the materials breakdown. Name is the room or area
// the material was measured in, when the service reports it.
type Material struct {
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	Material string  `json:"material" yaml:"material"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Unit     string  `json:"unit" yaml:"unit"`
	Emission float64 `json:"emission" yaml:"emission"`
}

// BlueprintData is the service's summary of what it parsed from the file.
type BlueprintData struct {
	Rooms []Room `json:"rooms" yaml:"rooms"`
}

// Room is one parsed area of the blueprint.
type Room struct {
	Name     string  `json:"name" yaml:"name"`
	Area     float64 `json:"area" yaml:"area"`
	Material string  `json:"material" yaml:"material"`
}

// Response is the decoded JSON body of a 2xx analysis response. It is either a
// soft-failure envelope ({"error": ...}) or a report.
type Response struct {
	raw json.RawMessage
}

// NewResponse wraps a response body. The body must be valid JSON.
func NewResponse(body []byte) (Response, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return Response{}, fmt.Errorf("%w: body is not JSON", ErrMalformedResponse)
	}
	return Response{raw: append(json.RawMessage(nil), trimmed...)}, nil
}

// Raw returns the response body as received.
func (r Response) Raw() json.RawMessage {
	return r.raw
}

// SoftError reports whether the payload carries a truthy "error" field and
// returns its message. Null, false, zero and the empty string are falsy. String values are returned verbatim; other truthy
// values are returned as their JSON text.
func (r Response) SoftError() (string, bool) {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(r.raw, &envelope); err != nil {
		return "", false
	}
	raw := bytes.TrimSpace(envelope.Error)
	switch string(raw) {
	case "", "null", "false", `""`:
		return "", false
	}
	// Any spelling of zero (0.0, -0, 0e0) is falsy.
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil && num == 0 {
		return "", false
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		return msg, true
	}
	return string(raw), true
}

type wireReport struct {
	CarbonAnalysis  *wireCarbonAnalysis `json:"carbon_analysis"`
	Recommendations []string            `json:"recommendations"`
	BlueprintData   json.RawMessage     `json:"blueprint_data"`
}

type wireCarbonAnalysis struct {
	TotalEmissions *float64        `json:"total_emissions"`
	Materials      *[]wireMaterial `json:"materials"`
}

type wireMaterial struct {
	Name     string   `json:"name"`
	Material *string  `json:"material"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
	Emission *float64 `json:"emission"`
}

// Report validates the payload shape and returns the report. Any missing or
// mistyped field yields an error wrapping ErrMalformedResponse.
func (r Response) Report() (Report, error) {
	var wire wireReport
	if err := json.Unmarshal(r.raw, &wire); err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if wire.CarbonAnalysis == nil {
		return Report{}, fmt.Errorf("%w: missing carbon_analysis", ErrMalformedResponse)
	}
	if wire.CarbonAnalysis.TotalEmissions == nil {
		return Report{}, fmt.Errorf("%w: missing carbon_analysis.total_emissions", ErrMalformedResponse)
	}
	if wire.CarbonAnalysis.Materials == nil {
		return Report{}, fmt.Errorf("%w: missing carbon_analysis.materials", ErrMalformedResponse)
	}

	materials := make([]Material, 0, len(*wire.CarbonAnalysis.Materials))
	for i, m := range *wire.CarbonAnalysis.Materials {
		var missing string
		switch {
		case m.Material == nil:
			missing = "material"
		case m.Quantity == nil:
			missing = "quantity"
		case m.Unit == nil:
			missing = "unit"
		case m.Emission == nil:
			missing = "emission"
		}
		if missing != "" {
			return Report{}, fmt.Errorf("%w: materials[%d] missing %s", ErrMalformedResponse, i, missing)
		}
		materials = append(materials, Material{
			Name:     m.Name,
			Material: *m.Material,
			Quantity: *m.Quantity,
			Unit:     *m.Unit,
			Emission: *m.Emission,
		})
	}

	recommendations := wire.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}

	return Report{
		CarbonAnalysis: CarbonAnalysis{
			TotalEmissions: *wire.CarbonAnalysis.TotalEmissions,
			Materials:      materials,
		},
		Recommendations: recommendations,
		BlueprintData:   decodeBlueprintData(wire.BlueprintData),
	}, nil
}

// decodeBlueprintData is lenient: the parse summary is informational, so a
// summary in an unknown shape is dropped rather than failing the report.
func decodeBlueprintData(raw json.RawMessage) *BlueprintData {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var data BlueprintData
	if err := json.Unmarshal(raw, &data); err != nil || len(data.Rooms) == 0 {
		return nil
	}
	return &data
}
