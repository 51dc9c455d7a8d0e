package searchbar

import (
	"net/url"
	"strings"
)

// Param is a single query-string key/value pair.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Params is an ordered query-parameter mapping with unique keys.
// Setting an existing key replaces its value in place.
type Params []Param

// Set assigns value to key. Last write wins.
func (p *Params) Set(key, value string) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Param{Key: key, Value: value})
}

// Get returns the value for key and whether it was present.
func (p Params) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Keys returns the parameter names in insertion order.
func (p Params) Keys() []string {
	keys := make([]string, len(p))
	for i, kv := range p {
		keys[i] = kv.Key
	}
	return keys
}

// Encode serializes the parameters in insertion order.
// url.Values.Encode sorts by key, which would lose the order params were set in.
func (p Params) Encode() string {
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.Value))
	}
	return b.String()
}

// parseParams decodes a raw query string keeping the order of first appearance.
func parseParams(raw string) (Params, error) {
	var p Params
	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, err
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, err
		}
		p.Set(key, value)
	}
	return p, nil
}
