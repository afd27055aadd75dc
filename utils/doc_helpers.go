package utils

// Helpers to safely pull typed fields out of decoded documents. Store
// backends differ in how they round-trip values (DynamoDB unmarshals
// string lists as []interface{}, the memory store keeps []string), so
// readers go through these instead of type-asserting directly.

// GetString extracts a string field from a document.
func GetString(doc map[string]interface{}, field string) string {
	if v, ok := doc[field].(string); ok {
		return v
	}
	return ""
}

// GetFloat extracts a numeric field from a document.
func GetFloat(doc map[string]interface{}, field string) float64 {
	switch v := doc[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// GetStringSlice extracts a list-of-strings field from a document.
func GetStringSlice(doc map[string]interface{}, field string) []string {
	switch v := doc[field].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// ContainsString reports whether list has an element equal to value.
func ContainsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
