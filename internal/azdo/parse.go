package azdo

import (
	"math"

	"github.com/tidwall/gjson"
)

// Path helpers over gjson results. Each returns a *MalformedResponseError naming
// the offending path so a broken payload can be traced back to a field.

func arrayAt(parent gjson.Result, path, label string) ([]gjson.Result, error) {
	res := parent.Get(path)
	if !res.Exists() {
		return nil, &MalformedResponseError{Path: label, Reason: "field is missing"}
	}
	if !res.IsArray() {
		return nil, &MalformedResponseError{Path: label, Reason: "expected an array, got " + res.Type.String()}
	}
	return res.Array(), nil
}

func intAt(parent gjson.Result, path, label string) (int, error) {
	res := parent.Get(path)
	if !res.Exists() {
		return 0, &MalformedResponseError{Path: label, Reason: "field is missing"}
	}
	if res.Type != gjson.Number || res.Num != math.Trunc(res.Num) {
		return 0, &MalformedResponseError{Path: label, Reason: "expected an integer, got " + res.Raw}
	}
	return int(res.Int()), nil
}

// stringAt accepts JSON null as the empty string; Azure DevOps emits null for
// some unset display fields.
func stringAt(parent gjson.Result, path, label string) (string, error) {
	res := parent.Get(path)
	switch {
	case !res.Exists():
		return "", &MalformedResponseError{Path: label, Reason: "field is missing"}
	case res.Type == gjson.Null:
		return "", nil
	case res.Type != gjson.String:
		return "", &MalformedResponseError{Path: label, Reason: "expected a string, got " + res.Type.String()}
	}
	return res.Str, nil
}
