package plan

import (
	"encoding/json"
	"testing"
)

func decodeSchema(t *testing.T, raw string) map[string]any {
	t.Helper()
	var schema map[string]any
	if err := json.Unmarshal([]byte(raw), &schema); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	return schema
}

func TestOutputsSchema_Empty(t *testing.T) {
	task := Task{ID: "no_outputs", Prompt: "Role: X"}

	raw, err := task.OutputsSchema()
	if err != nil {
		t.Fatalf("OutputsSchema failed: %v", err)
	}
	schema := decodeSchema(t, raw)

	if schema["type"] != "object" {
		t.Errorf("type = %v, want object", schema["type"])
	}
	props := schema["properties"].(map[string]any)
	if len(props) != 0 {
		t.Errorf("expected no properties, got %v", props)
	}
	required := schema["required"].([]any)
	if len(required) != 0 {
		t.Errorf("expected no required fields, got %v", required)
	}
}

func TestOutputsSchema_TypeMapping(t *testing.T) {
	cases := []struct {
		dataType DataType
		jsonType string
	}{
		{TypeString, "string"},
		{TypeInteger, "integer"},
		{TypeFloat, "number"},
		{TypeBoolean, "boolean"},
	}

	for _, tc := range cases {
		t.Run(string(tc.dataType), func(t *testing.T) {
			desc := "field of type " + string(tc.dataType)
			task := Task{
				ID:      "task_" + string(tc.dataType),
				Outputs: []Output{{Description: desc, Type: tc.dataType}},
			}

			raw, err := task.OutputsSchema()
			if err != nil {
				t.Fatalf("OutputsSchema failed: %v", err)
			}
			schema := decodeSchema(t, raw)

			props := schema["properties"].(map[string]any)
			if len(props) != 1 {
				t.Fatalf("expected 1 property, got %d", len(props))
			}
			prop, ok := props["item_0"].(map[string]any)
			if !ok {
				t.Fatalf("expected property item_0, got %v", props)
			}
			if prop["type"] != tc.jsonType {
				t.Errorf("item_0 type = %v, want %s", prop["type"], tc.jsonType)
			}
			if prop["description"] != desc {
				t.Errorf("item_0 description = %v, want %s", prop["description"], desc)
			}

			required := schema["required"].([]any)
			if len(required) != 1 || required[0] != "item_0" {
				t.Errorf("required = %v, want [item_0]", required)
			}
		})
	}
}

func TestOutputsSchema_MultipleOutputs(t *testing.T) {
	task := Task{
		ID: "multiple_outputs",
		Outputs: []Output{
			{Description: "Title of the article", Type: TypeString},
			{Description: "Word count of the article", Type: TypeInteger},
			{Description: "Average reading time in minutes", Type: TypeFloat},
			{Description: "Whether the article is technical", Type: TypeBoolean},
		},
	}

	raw, err := task.OutputsSchema()
	if err != nil {
		t.Fatalf("OutputsSchema failed: %v", err)
	}
	schema := decodeSchema(t, raw)

	props := schema["properties"].(map[string]any)
	if len(props) != len(task.Outputs) {
		t.Fatalf("expected %d properties, got %d", len(task.Outputs), len(props))
	}

	wantTypes := []string{"string", "integer", "number", "boolean"}
	for i, out := range task.Outputs {
		key := "item_" + string(rune('0'+i))
		prop, ok := props[key].(map[string]any)
		if !ok {
			t.Fatalf("missing property %s", key)
		}
		if prop["description"] != out.Description {
			t.Errorf("%s description = %v, want %s", key, prop["description"], out.Description)
		}
		if prop["type"] != wantTypes[i] {
			t.Errorf("%s type = %v, want %s", key, prop["type"], wantTypes[i])
		}
	}

	required := schema["required"].([]any)
	if len(required) != len(task.Outputs) {
		t.Fatalf("required has %d entries, want %d", len(required), len(task.Outputs))
	}
	for i := range task.Outputs {
		if required[i] != "item_"+string(rune('0'+i)) {
			t.Errorf("required[%d] = %v, want item_%d", i, required[i], i)
		}
	}
}

func TestOutputsSchema_UnknownType(t *testing.T) {
	task := Task{
		ID:      "bad",
		Outputs: []Output{{Description: "x", Type: DataType("decimal")}},
	}
	if _, err := task.OutputsSchema(); err == nil {
		t.Fatal("expected error for unknown data type, got nil")
	}
}
