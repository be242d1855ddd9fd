package scoring

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Profile maps a keyword to the weight it contributes per matching field.
// Keys are lowercased; weights are never negative.
type Profile map[string]float64

// NewProfile normalizes keys and rejects negative or non-finite weights.
// Keys that collide after lowercasing are summed.
func NewProfile(weights map[string]float64) (Profile, error) {
	p := make(Profile, len(weights))
	for kw, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("keyword %q: weight must be finite", kw)
		}
		if w < 0 {
			return nil, fmt.Errorf("keyword %q: weight must not be negative, got %v", kw, w)
		}
		key := strings.ToLower(strings.TrimSpace(kw))
		if key == "" {
			continue
		}
		p[key] += w
		if math.IsInf(p[key], 0) {
			return nil, fmt.Errorf("keyword %q: combined weight overflows", key)
		}
	}
	return p, nil
}

// ParseProfile parses "keyword=weight" pairs. A bare keyword has weight 1.
func ParseProfile(pairs []string) (Profile, error) {
	weights := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		kw, raw, hasWeight := strings.Cut(pair, "=")
		w := 1.0
		if hasWeight {
			var err error
			w, err = strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid weight in %q: %w", pair, err)
			}
		}
		weights[kw] += w
	}
	return NewProfile(weights)
}

// Keywords returns the keywords with a positive weight, sorted
func (p Profile) Keywords() []string {
	kws := make([]string, 0, len(p))
	for kw, w := range p {
		if w > 0 {
			kws = append(kws, kw)
		}
	}
	sort.Strings(kws)
	return kws
}

// IsEmpty reports whether no keyword carries a positive weight
func (p Profile) IsEmpty() bool {
	for _, w := range p {
		if w > 0 {
			return false
		}
	}
	return true
}

// With returns a copy of the profile with kw set to w
func (p Profile) With(kw string, w float64) Profile {
	cp := make(Profile, len(p)+1)
	for k, v := range p {
		cp[k] = v
	}
	cp[strings.ToLower(strings.TrimSpace(kw))] = w
	return cp
}
