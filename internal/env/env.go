package env

import (
	"sort"
)

// ConvertMapEnv turns a map into KEY=VALUE pairs ordered by key.
func ConvertMapEnv(mapEnv map[string]string) []string {
	keys := make([]string, 0, len(mapEnv))
	for k := range mapEnv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, k+"="+mapEnv[k])
	}
	return result
}
