package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/scaleup/internal/bench"
)

const resultSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"definitions": {
		"durations": {
			"type": "array",
			"items": {"type": "number", "minimum": 0}
		},
		"record": {
			"type": "object",
			"properties": {
				"workerCount": {"type": "number", "minimum": 1},
				"num_processes": {"type": "number", "minimum": 1},
				"num_workers": {"type": "number", "minimum": 1},
				"numItems": {"type": "integer", "minimum": 0},
				"num_images": {"type": "integer", "minimum": 0},
				"wallClockSeconds": {"type": "number", "minimum": 0},
				"total_time": {"type": "number", "minimum": 0},
				"perItemDurations": {"$ref": "#/definitions/durations"},
				"processing_times": {"$ref": "#/definitions/durations"},
				"failedItems": {"type": "array", "items": {"type": "string"}},
				"completionOrder": {"type": "array", "items": {"type": "integer", "minimum": 0}}
			}
		}
	},
	"oneOf": [
		{"type": "object", "additionalProperties": {"$ref": "#/definitions/record"}},
		{"type": "array", "items": {"$ref": "#/definitions/record"}}
	]
}`

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("result.schema.json", strings.NewReader(resultSchema)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return compiler.Compile("result.schema.json")
})

// validateDocument checks data against the results schema.
func validateDocument(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("invalid JSON")
	}

	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("schema violation: %s", firstCause(verr))
		}
		return err
	}
	return nil
}

func firstCause(err *jsonschema.ValidationError) string {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return fmt.Sprintf("%s: %s", err.InstanceLocation, err.Message)
}

// field returns the first of names present on obj.
func field(obj gjson.Result, names ...string) gjson.Result {
	for _, n := range names {
		if r := obj.Get(n); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

// decodeTolerant fills result from a document already accepted by
// validateDocument.
func decodeTolerant(data []byte, result *bench.SweepResult) error {
	root := gjson.ParseBytes(data)

	var err error
	if root.IsArray() {
		root.ForEach(func(_, value gjson.Result) bool {
			wcField := field(value, "workerCount", "num_processes", "num_workers")
			if !wcField.Exists() {
				err = errors.New("record without worker count")
				return false
			}
			wc, cerr := bench.CanonicalWorkerCount(wcField.Raw)
			if cerr != nil {
				err = cerr
				return false
			}
			err = result.Add(recordFrom(wc, value))
			return err == nil
		})
		return err
	}

	root.ForEach(func(key, value gjson.Result) bool {
		wc, cerr := bench.CanonicalWorkerCount(key.String())
		if cerr != nil {
			err = cerr
			return false
		}
		err = result.Add(recordFrom(wc, value))
		return err == nil
	})
	return err
}

func recordFrom(workerCount int, obj gjson.Result) *bench.RunRecord {
	rec := &bench.RunRecord{
		WorkerCount:      workerCount,
		WallClockSeconds: field(obj, "wallClockSeconds", "total_time").Float(),
		PerItemDurations: []float64{},
	}

	field(obj, "perItemDurations", "processing_times").ForEach(func(_, v gjson.Result) bool {
		rec.PerItemDurations = append(rec.PerItemDurations, v.Float())
		return true
	})

	if n := field(obj, "numItems", "num_images"); n.Exists() {
		rec.NumItems = int(n.Int())
	} else {
		rec.NumItems = len(rec.PerItemDurations)
	}

	obj.Get("failedItems").ForEach(func(_, v gjson.Result) bool {
		rec.FailedItems = append(rec.FailedItems, v.String())
		return true
	})
	obj.Get("completionOrder").ForEach(func(_, v gjson.Result) bool {
		rec.CompletionOrder = append(rec.CompletionOrder, int(v.Int()))
		return true
	})

	return rec
}
