package workflow

// MergeFunc combines the previous value of a state field with an
// incoming update and returns the new value.
type MergeFunc func(prev, update interface{}) interface{}

// Replace takes the update as-is, even when it is nil.
func Replace(prev, update interface{}) interface{} {
	return update
}

// KeepExisting keeps the previous value unless it is unset.
func KeepExisting(prev, update interface{}) interface{} {
	if update != nil {
		if prev == nil || isZero(prev) {
			return update
		}
		return prev
	}
	return prev
}

// Append concatenates slice updates onto the previous slice value.
// Non-slice updates are appended as a single element.
func Append(prev, update interface{}) interface{} {
	if update == nil {
		return prev
	}
	out := toSlice(prev)
	out = append(out, toSlice(update)...)
	return out
}

// ShallowMerge merges map updates key-by-key over the previous map.
// Keys present in the update win.
func ShallowMerge(prev, update interface{}) interface{} {
	um, ok := update.(map[string]interface{})
	if !ok || um == nil {
		return prev
	}
	out := map[string]interface{}{}
	if pm, ok := prev.(map[string]interface{}); ok {
		for k, v := range pm {
			out[k] = v
		}
	}
	for k, v := range um {
		out[k] = v
	}
	return out
}

func isZero(v interface{}) bool {
	switch t := v.(type) {
	case string:
		return t == ""
	case int:
		return t == 0
	case float64:
		return t == 0
	case bool:
		return !t
	case nil:
		return true
	}
	return false
}

func toSlice(v interface{}) []interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		return t
	case []Message:
		out := make([]interface{}, 0, len(t))
		for _, m := range t {
			out = append(out, m)
		}
		return out
	case []string:
		out := make([]interface{}, 0, len(t))
		for _, s := range t {
			out = append(out, s)
		}
		return out
	default:
		return []interface{}{v}
	}
}

// FieldSpec declares how one state field is initialized and merged.
type FieldSpec struct {
	Default func() interface{}
	Merge   MergeFunc
}

// Schema maps field names to their merge policy. Fields not listed in
// the schema are merged with Replace.
type Schema map[string]FieldSpec

// State is the mutable value threaded through a graph run.
type State map[string]interface{}

// Update is a partial state produced by a node. Only the listed fields
// are merged; everything else is left untouched.
type Update map[string]interface{}

// NewState returns a state seeded with every schema default.
func NewState(schema Schema) State {
	s := State{}
	for name, spec := range schema {
		if spec.Default != nil {
			s[name] = spec.Default()
		}
	}
	return s
}

// Apply merges an update into the state according to the schema and
// returns the state for chaining. The receiver is mutated.
func (s State) Apply(schema Schema, update Update) State {
	for name, value := range update {
		merge := Replace
		if spec, ok := schema[name]; ok && spec.Merge != nil {
			merge = spec.Merge
		}
		s[name] = merge(s[name], value)
	}
	return s
}

// Clone returns a shallow copy of the state.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// String returns the field as a string, or "" when unset or mistyped.
func (s State) String(key string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the field as an int, accepting float64 values that come
// back from JSON decoding.
func (s State) Int(key string) int {
	switch v := s[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Float returns the field as a float64, or 0 when unset.
func (s State) Float(key string) float64 {
	switch v := s[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Bool returns the field as a bool, or false when unset.
func (s State) Bool(key string) bool {
	if v, ok := s[key].(bool); ok {
		return v
	}
	return false
}

// Map returns the field as a string map, or an empty map when unset.
func (s State) Map(key string) map[string]interface{} {
	if v, ok := s[key].(map[string]interface{}); ok {
		return v
	}
	return map[string]interface{}{}
}

// Strings returns the field as a string slice, tolerating the
// []interface{} shape produced by Append and JSON decoding.
func (s State) Strings(key string) []string {
	switch v := s[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Messages returns the field as a message slice, tolerating the
// []interface{} shape produced by Append.
func (s State) Messages(key string) []Message {
	switch v := s[key].(type) {
	case []Message:
		return v
	case []interface{}:
		out := make([]Message, 0, len(v))
		for _, e := range v {
			if m, ok := e.(Message); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}
