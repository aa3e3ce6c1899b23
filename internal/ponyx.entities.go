package internal

import "sort"

// LookupEntity resolves a named character reference such as "mdash".
func LookupEntity(name string) (string, bool) {
	i := sort.Search(len(entityTable), func(i int) bool {
		return entityTable[i].name >= name
	})
	if i < len(entityTable) && entityTable[i].name == name {
		return entityTable[i].value, true
	}
	return "", false
}

// EntityNames returns every known entity name in sorted order.
func EntityNames() []string {
	names := make([]string, len(entityTable))
	for i := range entityTable {
		names[i] = entityTable[i].name
	}
	return names
}

// EntityCount returns the number of known entity names
func EntityCount() int {
	return len(entityTable)
}
