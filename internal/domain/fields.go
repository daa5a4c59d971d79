package domain

// FieldVariants lists, in priority order, every key a canonical field may arrive under.
type FieldVariants struct {
	Canonical string
	Variants  []string
}

// FieldMap is the field-name mapping table of one entity kind.
type FieldMap []FieldVariants

// GetField returns the first variant present in obj. Missing keys, nil and
// empty strings count as absent and resolution moves to the next variant.
func GetField(obj map[string]interface{}, variants ...string) (interface{}, bool) {
	for _, key := range variants {
		v, ok := obj[key]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// GetString is GetField for string-valued fields.
func GetString(obj map[string]interface{}, variants ...string) string {
	v, ok := GetField(obj, variants...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Canonicalize maps request keys in any supported casing onto the canonical
// names. Keys that belong to no mapping are dropped.
func (m FieldMap) Canonicalize(input map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for _, f := range m {
		if v, ok := GetField(input, f.Variants...); ok {
			out[f.Canonical] = v
		}
	}
	return out
}

// Unmapped returns the input keys no canonical field claims, for diagnostics.
func (m FieldMap) Unmapped(input map[string]interface{}) []string {
	known := make(map[string]struct{})
	for _, f := range m {
		for _, v := range f.Variants {
			known[v] = struct{}{}
		}
	}
	var out []string
	for k := range input {
		if _, ok := known[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
