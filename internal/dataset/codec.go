package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Wire format for persisting a table in the catalog. Each column carries a
// kind tag per cell plus its string rendering, which round-trips every cell
// type without the int/float ambiguity of plain JSON numbers.

type wireColumn struct {
	Name   string   `json:"name"`
	Kinds  []uint8  `json:"kinds"`
	Values []string `json:"values"`
}

type wireTable struct {
	Columns []wireColumn `json:"columns"`
	NRows   int          `json:"n_rows"`
}

// MarshalJSON encodes the table in the catalog wire format.
func (t *Table) MarshalJSON() ([]byte, error) {
	wt := wireTable{NRows: t.nRows, Columns: make([]wireColumn, len(t.columns))}
	for i, col := range t.columns {
		wc := wireColumn{
			Name:   col.Name,
			Kinds:  make([]uint8, len(col.Values)),
			Values: make([]string, len(col.Values)),
		}
		for j, v := range col.Values {
			wc.Kinds[j] = uint8(v.Kind)
			wc.Values[j] = v.String()
		}
		wt.Columns[i] = wc
	}
	return json.Marshal(wt)
}

// UnmarshalJSON decodes the catalog wire format back into a table.
func (t *Table) UnmarshalJSON(data []byte) error {
	var wt wireTable
	if err := json.Unmarshal(data, &wt); err != nil {
		return err
	}
	columns := make([]Column, len(wt.Columns))
	for i, wc := range wt.Columns {
		if len(wc.Kinds) != len(wc.Values) {
			return fmt.Errorf("column %q: %d kinds but %d values", wc.Name, len(wc.Kinds), len(wc.Values))
		}
		values := make([]Value, len(wc.Values))
		for j, raw := range wc.Values {
			v, err := decodeCell(ValueKind(wc.Kinds[j]), raw)
			if err != nil {
				return fmt.Errorf("column %q row %d: %w", wc.Name, j, err)
			}
			values[j] = v
		}
		columns[i] = Column{Name: wc.Name, Values: values}
	}
	decoded, err := New(columns)
	if err != nil {
		return err
	}
	*t = *decoded
	return nil
}

func decodeCell(kind ValueKind, raw string) (Value, error) {
	switch kind {
	case KindNull:
		return Null(), nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, fmt.Errorf("bad bool cell %q: %w", raw, err)
		}
		return BoolValue(b), nil
	case KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("bad integer cell %q: %w", raw, err)
		}
		return IntValue(n), nil
	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, fmt.Errorf("bad float cell %q: %w", raw, err)
		}
		return FloatValue(f), nil
	case KindString:
		return StringValue(raw), nil
	case KindTime:
		ts, err := time.Parse(TimestampLayout, raw)
		if err != nil {
			return Value{}, fmt.Errorf("bad timestamp cell %q: %w", raw, err)
		}
		return TimeValue(ts), nil
	}
	return Value{}, fmt.Errorf("unknown cell kind %d", kind)
}
