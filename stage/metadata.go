package stage

// Metadata holds per-run statistics and an append-only history of
// transformation descriptions.
type Metadata struct {
	stats   map[string]interface{}
	history []string
}

func NewMetadata() *Metadata {
	return &Metadata{
		stats: make(map[string]interface{}),
	}
}

// Set stores a statistic, overwriting any previous value for the key.
func (m *Metadata) Set(key string, value interface{}) {
	m.stats[key] = value
}

func (m *Metadata) Get(key string) (interface{}, bool) {
	v, ok := m.stats[key]
	return v, ok
}

// Int returns the statistic as an int if it was stored as one.
func (m *Metadata) Int(key string) (int, bool) {
	v, ok := m.stats[key]
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

func (m *Metadata) Append(description string) {
	m.history = append(m.history, description)
}

// Stats returns a copy of the statistics.
func (m *Metadata) Stats() map[string]interface{} {
	out := make(map[string]interface{}, len(m.stats))
	for k, v := range m.stats {
		out[k] = v
	}
	return out
}

// History returns a copy of the history in insertion order.
func (m *Metadata) History() []string {
	return append([]string{}, m.history...)
}
