// Package tasks holds the ordered task collection and mirrors it into a
// key-value slot after every mutation.
package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Date      string `json:"date"`
}

const taskSchema = `{
	"type": "object",
	"required": ["id", "text"],
	"properties": {
		"id": {"type": "integer"},
		"text": {"type": "string"},
		"completed": {"type": "boolean"},
		"date": {"type": ["string", "null"]}
	}
}`

var schema = jsonschema.MustCompileString("task.schema.json", taskSchema)

// Decode parses a persisted collection. Only data that is not a JSON array
// is an error; records failing the task schema are skipped and reported in
// rejected. Records without a date decode with an empty Date.
func Decode(data []byte) (list []Task, rejected []error, err error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, nil, fmt.Errorf("parse tasks: %w", err)
	}
	if items == nil {
		return nil, nil, fmt.Errorf("parse tasks: not an array")
	}
	for i, item := range items {
		t, err := decodeTask(item)
		if err != nil {
			rejected = append(rejected, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		list = append(list, t)
	}
	return list, rejected, nil
}

func decodeTask(item json.RawMessage) (Task, error) {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(item))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Task{}, err
	}
	if err := schema.Validate(raw); err != nil {
		return Task{}, err
	}
	var t Task
	if err := json.Unmarshal(item, &t); err != nil {
		return Task{}, err
	}
	return t, nil
}

func Encode(list []Task) ([]byte, error) {
	if list == nil {
		list = []Task{}
	}
	return json.Marshal(list)
}

func (t Task) String() string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	return fmt.Sprintf("%s %s", box, strings.TrimSpace(t.Text))
}
