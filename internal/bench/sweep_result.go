package bench

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SweepResult maps worker counts to the RunRecord produced for them.
//
// Keys are canonical ints. Iteration via WorkerCounts follows insertion
// (sweep) order; lookups go through Get. The zero value is not usable; call
// NewSweepResult.
type SweepResult struct {
	// Variant names the executor strategy that produced the runs.
	Variant string

	// RunID identifies one sweep execution.
	RunID string

	order   []int
	records map[int]*RunRecord
}

// NewSweepResult creates an empty result for the given executor variant.
func NewSweepResult(variant string) *SweepResult {
	return &SweepResult{
		Variant: variant,
		records: make(map[int]*RunRecord),
	}
}

// Add stores a record under its worker count. Adding a second record for the
// same worker count replaces the first but keeps its original position.
func (s *SweepResult) Add(rec *RunRecord) error {
	if rec == nil {
		return fmt.Errorf("cannot add nil run record")
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid run record: %w", err)
	}
	if s.records == nil {
		s.records = make(map[int]*RunRecord)
	}
	if _, exists := s.records[rec.WorkerCount]; !exists {
		s.order = append(s.order, rec.WorkerCount)
	}
	s.records[rec.WorkerCount] = rec
	return nil
}

// Get returns the record for a worker count.
func (s *SweepResult) Get(workerCount int) (*RunRecord, bool) {
	if s == nil || s.records == nil {
		return nil, false
	}
	rec, ok := s.records[workerCount]
	return rec, ok
}

// Len returns the number of stored records.
func (s *SweepResult) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// WorkerCounts returns the worker counts in insertion order.
func (s *SweepResult) WorkerCounts() []int {
	if s == nil {
		return nil
	}
	return append([]int(nil), s.order...)
}

// SortedWorkerCounts returns the worker counts in ascending order.
func (s *SweepResult) SortedWorkerCounts() []int {
	counts := s.WorkerCounts()
	sort.Ints(counts)
	return counts
}

// Records returns the records in insertion order.
func (s *SweepResult) Records() []*RunRecord {
	if s == nil {
		return nil
	}
	out := make([]*RunRecord, 0, len(s.order))
	for _, wc := range s.order {
		out = append(out, s.records[wc])
	}
	return out
}

// CanonicalWorkerCount converts a textual worker-count key ("4", " 4 ",
// "4.0") to its integer form. Keys outside [1, MaxInt32] are rejected.
func CanonicalWorkerCount(key string) (int, error) {
	key = strings.TrimSpace(key)
	f, err := strconv.ParseFloat(key, 64)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid worker count key %q", key)
	}
	if f < 1 || f > math.MaxInt32 {
		return 0, fmt.Errorf("worker count key %q out of range [1, %d]", key, math.MaxInt32)
	}
	return int(f), nil
}

// MarshalJSON encodes the result as {"<workerCount>": RunRecord, ...} in
// insertion order.
func (s *SweepResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, wc := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		rec, err := json.Marshal(s.records[wc])
		if err != nil {
			return nil, fmt.Errorf("worker count %d: %w", wc, err)
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(wc)))
		buf.WriteByte(':')
		buf.Write(rec)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the nested key-value form, canonicalizing keys and
// keeping document order.
func (s *SweepResult) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sweep result must be a JSON object")
	}

	s.order = nil
	s.records = make(map[int]*RunRecord)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		wc, err := CanonicalWorkerCount(key)
		if err != nil {
			return err
		}

		var rec RunRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("worker count %d: %w", wc, err)
		}
		rec.WorkerCount = wc
		if err := s.Add(&rec); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}

// MarshalYAML encodes the result as a mapping with integer keys in
// insertion order.
func (s *SweepResult) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, wc := range s.order {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(wc)}
		value := &yaml.Node{}
		if err := value.Encode(s.records[wc]); err != nil {
			return nil, fmt.Errorf("worker count %d: %w", wc, err)
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

// UnmarshalYAML decodes a mapping whose keys may be integers or strings.
func (s *SweepResult) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: sweep result must be a mapping", value.Line)
	}

	s.order = nil
	s.records = make(map[int]*RunRecord)

	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		wc, err := CanonicalWorkerCount(keyNode.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", keyNode.Line, err)
		}

		var rec RunRecord
		if err := valNode.Decode(&rec); err != nil {
			return fmt.Errorf("worker count %d: %w", wc, err)
		}
		rec.WorkerCount = wc
		if err := s.Add(&rec); err != nil {
			return err
		}
	}
	return nil
}
