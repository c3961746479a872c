package schema

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a JSON/YAML mapping that keeps its keys in document order.
// Values are *Object, []any, string, float64, bool or nil.
type Object struct {
	Members []Member
}

// NewObject builds an Object from alternating keys and values.
// It panics on an odd argument count or a non-string key.
func NewObject(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("schema.NewObject: odd number of arguments")
	}
	o := &Object{Members: make([]Member, 0, len(kv)/2)}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("schema.NewObject: keys must be strings")
		}
		o.Set(key, kv[i+1])
	}
	return o
}

// Get returns the value of the first member named key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	for _, m := range o.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set appends a member. Duplicate keys are kept so Validate can report them.
func (o *Object) Set(key string, value any) {
	o.Members = append(o.Members, Member{Key: key, Value: value})
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Members)
}

// Keys returns member keys in document order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	if o == nil {
		return keys
	}
	for _, m := range o.Members {
		keys = append(keys, m.Key)
	}
	return keys
}

// Plain converts the object into map[string]any, recursively.
// Ordering is lost; use it only for order-insensitive consumers.
func (o *Object) Plain() map[string]any {
	out := make(map[string]any, o.Len())
	if o == nil {
		return out
	}
	for _, m := range o.Members {
		out[m.Key] = plainValue(m.Value)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Plain()
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = plainValue(item)
		}
		return items
	default:
		return v
	}
}
