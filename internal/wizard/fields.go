package wizard

// Fields maps field names to normalized values.
type Fields map[string]any

func (f Fields) String(name string) string {
	s, _ := f[name].(string)
	return s
}

func (f Fields) Number(name string) float64 {
	n, _ := f[name].(float64)
	return n
}

func (f Fields) Bool(name string) bool {
	b, _ := f[name].(bool)
	return b
}

// Strings never returns nil.
func (f Fields) Strings(name string) []string {
	if s, ok := f[name].([]string); ok {
		return s
	}
	return []string{}
}

func (f Fields) clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if list, ok := v.([]string); ok {
			cp := make([]string, len(list))
			copy(cp, list)
			v = cp
		}
		out[k] = v
	}
	return out
}
