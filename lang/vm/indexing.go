package vm

import (
	"fmt"

	"github.com/aql-lang/aql/lang/value"
)

// getIndex resolves GETPROP's runtime semantics: key is
// either a dict key lookup (Mapping) or an integer element index
// (Indexable), matching both table["field"] sugar and table[i].
func getIndex(table, key value.Value) (value.Value, error) {
	switch t := table.(type) {
	case value.Mapping:
		v, found, err := t.Get(key)
		if err != nil {
			return nil, err
		}
		if !found {
			return value.Nil, nil
		}
		return v, nil
	case value.Indexable:
		i, ok := key.(value.Int)
		if !ok {
			return nil, fmt.Errorf("%s index must be an int, not %s", table.Type(), key.Type())
		}
		return t.Index(int(i))
	default:
		return nil, fmt.Errorf("object of type %s is not indexable", table.Type())
	}
}

// setIndex resolves SETPROP's runtime semantics, the write counterpart of
// getIndex.
func setIndex(table, key, val value.Value) error {
	switch t := table.(type) {
	case value.HasSetKey:
		return t.SetKey(key, val)
	case value.HasSetIndex:
		i, ok := key.(value.Int)
		if !ok {
			return fmt.Errorf("%s index must be an int, not %s", table.Type(), key.Type())
		}
		return t.SetIndex(int(i), val)
	default:
		return fmt.Errorf("object of type %s does not support item assignment", table.Type())
	}
}

// displayString renders v the way print/tostring/.. want: the raw string
// content, not String's quoted repr debug form from its display form).
func displayString(v value.Value) string {
	if s, ok := v.(value.String); ok {
		return string(s)
	}
	return v.String()
}
