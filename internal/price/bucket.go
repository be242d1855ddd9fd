package price

import (
	"errors"
	"fmt"
	"sort"
)

const (
	DefaultFreeLabel    = "free"
	DefaultUnknownLabel = "unknown"
)

// UnparseableFieldWarning is the recoverable signal raised when a record's
// price cannot be bucketed. The record lands in the unknown bucket.
type UnparseableFieldWarning struct {
	RecordID string `json:"record_id,omitempty"`
	Field    string `json:"field,omitempty"`
	Raw      string `json:"raw"`
	Reason   string `json:"reason"`
}

func (w *UnparseableFieldWarning) Error() string {
	if w.RecordID == "" {
		return fmt.Sprintf("unparseable price %q: %s", w.Raw, w.Reason)
	}
	return fmt.Sprintf("unparseable field %q of record %q: %s (%q)", w.Field, w.RecordID, w.Reason, w.Raw)
}

// Threshold maps values up to and including Max to Label
type Threshold struct {
	Label string  `toml:"label" json:"label"`
	Max   float64 `toml:"max" json:"max"`
}

// Scale is an ascending list of thresholds for one currency. Values above
// the last threshold get Overflow; when Overflow is empty they are unknown.
type Scale struct {
	Thresholds []Threshold `toml:"thresholds" json:"thresholds"`
	Overflow   string      `toml:"overflow" json:"overflow,omitempty"`
}

// Classify returns the label for v
func (s Scale) Classify(v float64) (string, bool) {
	for _, t := range s.Thresholds {
		if v <= t.Max {
			return t.Label, true
		}
	}
	if s.Overflow != "" {
		return s.Overflow, true
	}
	return "", false
}

// Validate checks labels are set and thresholds ascend
func (s Scale) Validate() error {
	var errs []error
	if len(s.Thresholds) == 0 && s.Overflow == "" {
		errs = append(errs, errors.New("scale needs at least one threshold or an overflow label"))
	}
	for i, t := range s.Thresholds {
		if t.Label == "" {
			errs = append(errs, fmt.Errorf("threshold %d has no label", i))
		}
		if i > 0 && t.Max <= s.Thresholds[i-1].Max {
			errs = append(errs, fmt.Errorf("threshold %d (%s) must be above %v", i, t.Label, s.Thresholds[i-1].Max))
		}
	}
	return errors.Join(errs...)
}

// Bucketer assigns price strings to discrete buckets. Thresholds are
// supplied per currency by the caller; a currency without a scale is never
// converted, it is reported and bucketed as unknown.
type Bucketer struct {
	FreeMarkers     []string
	FreeLabel       string
	UnknownLabel    string
	DefaultCurrency Currency
	Scales          map[Currency]Scale
}

// Classify maps a price string to a bucket label. The warning is non-nil
// exactly when the label is the unknown bucket because of bad input.
func (b *Bucketer) Classify(text string) (string, *UnparseableFieldWarning) {
	a := Parse(text, b.FreeMarkers)

	switch a.Status {
	case StatusFree:
		return b.freeLabel(), nil
	case StatusUnparseable:
		return b.unknownLabel(), &UnparseableFieldWarning{Raw: text, Reason: a.Reason}
	}

	currency := a.Currency
	if currency == CurrencyUnknown {
		currency = b.DefaultCurrency
	}

	scale, ok := b.Scales[currency]
	if !ok {
		return b.unknownLabel(), &UnparseableFieldWarning{
			Raw:    text,
			Reason: fmt.Sprintf("no thresholds configured for currency %q", currency),
		}
	}

	label, ok := scale.Classify(a.Value)
	if !ok {
		return b.unknownLabel(), &UnparseableFieldWarning{
			Raw:    text,
			Reason: fmt.Sprintf("%v %s is above every threshold", a.Value, currency),
		}
	}
	return label, nil
}

// Labels returns every label the bucketer can produce: free first, then
// threshold labels in scale order, then unknown.
func (b *Bucketer) Labels() []string {
	seen := map[string]bool{}
	var labels []string
	add := func(l string) {
		if l != "" && !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}

	add(b.freeLabel())

	currencies := make([]string, 0, len(b.Scales))
	for c := range b.Scales {
		currencies = append(currencies, string(c))
	}
	sort.Strings(currencies)
	if _, ok := b.Scales[b.DefaultCurrency]; ok {
		currencies = append([]string{string(b.DefaultCurrency)}, currencies...)
	}

	for _, c := range currencies {
		scale := b.Scales[Currency(c)]
		for _, t := range scale.Thresholds {
			add(t.Label)
		}
		add(scale.Overflow)
	}

	add(b.unknownLabel())
	return labels
}

// Unknown returns the label used for records that cannot be bucketed
func (b *Bucketer) Unknown() string { return b.unknownLabel() }

func (b *Bucketer) freeLabel() string {
	if b.FreeLabel == "" {
		return DefaultFreeLabel
	}
	return b.FreeLabel
}

func (b *Bucketer) unknownLabel() string {
	if b.UnknownLabel == "" {
		return DefaultUnknownLabel
	}
	return b.UnknownLabel
}
