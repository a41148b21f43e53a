// Package valuekind holds the fixed table of physical quantities exchanged with a node:
// each kind has a unit label and the factor that turns a raw reading into its wire value.
package valuekind

import (
	"strings"

	perrors "esg-node-parser/internal/errors"
)

// Kind identifies a physical quantity
type Kind uint8

const (
	Power Kind = iota
	Energy
	Stimulus
)

type definition struct {
	name  string
	unit  string
	scale float64
}

var table = [...]definition{
	Power:    {name: "POWER", unit: "kW", scale: 0.001},
	Energy:   {name: "ENERGY", unit: "kWh", scale: 1},
	Stimulus: {name: "STIMULUS", unit: "%", scale: 100},
}

// All returns every kind in declaration order
func All() []Kind {
	return []Kind{Power, Energy, Stimulus}
}

// Name returns the upper-case kind name
func (k Kind) Name() string {
	if !k.valid() {
		return "UNKNOWN"
	}
	return table[k].name
}

// Unit returns the unit label written to the wire
func (k Kind) Unit() string {
	if !k.valid() {
		return ""
	}
	return table[k].unit
}

// Scale returns the factor applied to raw values on the way out
func (k Kind) Scale() float64 {
	if !k.valid() {
		return 1
	}
	return table[k].scale
}

// String returns the kind name
func (k Kind) String() string {
	return k.Name()
}

func (k Kind) valid() bool {
	return int(k) < len(table)
}

// Parse looks a kind up by name, ignoring case
func Parse(name string) (Kind, error) {
	for _, k := range All() {
		if strings.EqualFold(name, table[k].name) {
			return k, nil
		}
	}
	return 0, perrors.Newf("classify", perrors.ErrUnknownValueKind, "%q", name)
}

// FromUnit looks a kind up by its unit label, ignoring case
func FromUnit(unit string) (Kind, error) {
	switch strings.ToLower(unit) {
	case "kw":
		return Power, nil
	case "kwh":
		return Energy, nil
	case "%":
		return Stimulus, nil
	default:
		return 0, perrors.Newf("unit", perrors.ErrUnknownUnit, "%q", unit)
	}
}
