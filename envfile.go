package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"comprehend/lang"
)

// loadEnvFile defines every top-level entry of a YAML mapping as a variable
// in env, converting scalars, sequences and nested mappings to lang values.
func loadEnvFile(path string, env *lang.Env) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	for name, raw := range doc {
		env.Define(name, fromYAML(raw))
	}
	return nil
}

func fromYAML(raw interface{}) lang.Value {
	switch v := raw.(type) {
	case nil:
		return lang.Nil
	case bool:
		return lang.BoolValue(v)
	case int:
		return lang.IntValue(int64(v))
	case int64:
		return lang.IntValue(v)
	case uint64:
		return lang.IntValue(int64(v))
	case float64:
		return lang.RealValue(v)
	case string:
		return lang.StringValue(v)
	case []interface{}:
		elems := make([]lang.Value, 0, len(v))
		for _, el := range v {
			elems = append(elems, fromYAML(el))
		}
		return lang.ListValue(elems)
	case map[string]interface{}:
		m := lang.MapValue()
		entries := m.Map().Entries
		for key, val := range v {
			entries[lang.StringValue(key)] = fromYAML(val)
		}
		return m
	default:
		return lang.StringValue(fmt.Sprintf("%v", v))
	}
}
