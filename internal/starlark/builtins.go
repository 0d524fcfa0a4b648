package starlark

import (
	"go.starlark.net/lib/json"
	"go.starlark.net/starlark"
)

// keywords are reserved by the Starlark grammar and cannot be used as names.
var keywords = map[string]bool{
	"and": true, "break": true, "continue": true, "def": true, "elif": true,
	"else": true, "for": true, "if": true, "in": true, "lambda": true,
	"load": true, "not": true, "or": true, "pass": true, "return": true,
	"while": true,
}

// InputToStarlark converts the filled input object to a Starlark dict.
// The dict is accessible as the "input" global in templates.
func InputToStarlark(input map[string]any) (*starlark.Dict, error) {
	if input == nil {
		return starlark.NewDict(0), nil
	}
	v, err := GoToStarlark(input)
	if err != nil {
		return nil, err
	}
	return v.(*starlark.Dict), nil
}

// Predeclared returns the globals for template execution: the "input" dict,
// the "json" module, "sample" when info is set, and every input key that is a
// valid identifier as a top-level name.
func Predeclared(input *starlark.Dict, info *SampleInfo) starlark.StringDict {
	globals := starlark.StringDict{
		"json": json.Module,
	}

	for _, item := range input.Items() {
		name, ok := item[0].(starlark.String)
		if !ok || !isIdent(string(name)) {
			continue
		}
		globals[string(name)] = item[1]
	}

	if info != nil {
		globals["sample"] = info.ToStarlark()
	}
	globals["input"] = input

	return globals
}

func isIdent(s string) bool {
	if s == "" || keywords[s] {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
