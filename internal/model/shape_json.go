package model

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON resolves the ShapeData union by its "pattern" tag so a
// serialized analysis round-trips.
func (p *ProblemStructure) UnmarshalJSON(b []byte) error {
	type alias ProblemStructure
	aux := struct {
		*alias
		Data json.RawMessage `json:"data"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if len(aux.Data) == 0 || string(aux.Data) == "null" {
		return nil
	}
	var tag struct {
		Pattern DataPattern `json:"pattern"`
	}
	if err := json.Unmarshal(aux.Data, &tag); err != nil {
		return err
	}
	data, err := unmarshalShapeData(tag.Pattern, aux.Data)
	if err != nil {
		return err
	}
	p.Data = data
	return nil
}

func unmarshalShapeData(kind DataPattern, raw []byte) (ShapeData, error) {
	var data ShapeData
	switch kind {
	case DataSettled:
		var d SettledData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		data = d
	case DataLinear:
		var d LinearData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		data = d
	case DataKeystone:
		var d KeystoneData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		data = d
	case DataContested:
		var d ContestedData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		data = d
	case DataTradeoff:
		var d TradeoffData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		data = d
	case DataDimensional:
		var d DimensionalData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		data = d
	case DataExploratory:
		var d ExploratoryData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		data = d
	case DataContextual:
		var d ContextualData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		data = d
	default:
		return nil, fmt.Errorf("unknown shape data pattern %q", kind)
	}
	return data, nil
}
