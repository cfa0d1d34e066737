package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/iliyamo/magic-villa-api/internal/dto"
	"github.com/iliyamo/magic-villa-api/internal/model"
)

// PatchOperation is one step of a JSON Patch (RFC 6902) document.  Paths
// address top-level villa fields, e.g. "/nombre"; names match ignoring case.
type PatchOperation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// applyPatch applies ops in order to a copy of cur.  A failing operation is
// recorded under "op[i]" and skipped; the remaining operations still run.
// Any failure makes the whole patch a validation error.
func applyPatch(cur dto.VillaUpdate, ops []PatchOperation) (dto.VillaUpdate, *Error) {
	doc, err := json.Marshal(cur)
	if err != nil {
		return cur, internal("encode villa: " + err.Error())
	}

	failures := map[string][]string{}
	for i, op := range ops {
		key := fmt.Sprintf("op[%d]", i)
		next, err := applyOne(doc, op)
		if err != nil {
			failures[key] = append(failures[key], err.Error())
			continue
		}
		doc = next
	}
	if len(failures) > 0 {
		return cur, validationFailed(failures)
	}

	var out dto.VillaUpdate
	if err := json.Unmarshal(doc, &out); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			name := te.Field
			if f, ok := model.LookupField(te.Field); ok {
				name = f.Name
			}
			return cur, validationFailed(map[string][]string{
				name: {fmt.Sprintf("the %s field cannot hold a %s", name, te.Value)},
			})
		}
		return cur, validationFailed(map[string][]string{"": {err.Error()}})
	}
	return out, nil
}

// applyOne resolves the operation's paths through the field table and runs
// it with json-patch against doc.
func applyOne(doc []byte, op PatchOperation) ([]byte, error) {
	kind := strings.ToLower(strings.TrimSpace(op.Op))
	switch kind {
	case "add", "remove", "replace", "move", "copy", "test":
	default:
		return nil, fmt.Errorf("unsupported operation %q", op.Op)
	}

	path, err := resolvePath(op.Path, kind == "test")
	if err != nil {
		return nil, err
	}
	step := map[string]any{"op": kind, "path": path}
	switch kind {
	case "move", "copy":
		from, err := resolvePath(op.From, kind == "copy")
		if err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
		step["from"] = from
	case "add", "replace", "test":
		if len(op.Value) == 0 {
			return nil, fmt.Errorf("%s on %s requires a value", kind, path)
		}
		step["value"] = op.Value
	}

	raw, err := json.Marshal([]any{step})
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return nil, err
	}
	out, err := patch.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", kind, path, err)
	}
	return out, nil
}

// resolvePath maps "/Field" to the canonical JSON pointer of a villa field.
// The id can only be read (test, copy source), never written.
func resolvePath(p string, readOnly bool) (string, error) {
	name, ok := strings.CutPrefix(p, "/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", fmt.Errorf("invalid path %q", p)
	}
	if strings.EqualFold(name, "id") {
		if readOnly {
			return "/id", nil
		}
		return "", errors.New("the id cannot be patched")
	}
	f, ok := model.LookupField(name)
	if !ok {
		return "", fmt.Errorf("unknown field %q", name)
	}
	return "/" + f.JSON, nil
}
