package config

// DeepMergeOverrides merges override on top of base: maps merge recursively,
// keys present only in override are added, and scalars/lists are replaced
// wholesale by override's value. base and override are not mutated; the
// result is a new map.
func DeepMergeOverrides(base, override map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(base))
	for k, v := range base {
		result[k] = v
	}
	for k, overrideVal := range override {
		baseVal, exists := result[k]
		if !exists {
			result[k] = overrideVal
			continue
		}
		baseMap, baseIsMap := baseVal.(map[string]interface{})
		overrideMap, overrideIsMap := overrideVal.(map[string]interface{})
		if baseIsMap && overrideIsMap {
			result[k] = DeepMergeOverrides(baseMap, overrideMap)
			continue
		}
		result[k] = overrideVal
	}
	return result
}
