package align

import "github.com/yumyai/pangtable/pkg/model"

// Projection is one row of a per-query report: the input id and a value.
type Projection struct {
	Input string
	Value string
}

// UniqueIDs drops repeated ids, keeping first occurrences in order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ProjectPartitions gives every input id the partition of its family.
// Unmapped ids are reported as cloud.
func ProjectPartitions(inputs []string, m *SeqFamilyMap) []Projection {
	ids := UniqueIDs(inputs)
	rows := make([]Projection, 0, len(ids))
	for _, id := range ids {
		part := model.Cloud
		if fam, ok := m.Get(id); ok {
			part = fam.Partition
		}
		rows = append(rows, Projection{Input: id, Value: string(part)})
	}
	return rows
}

// ProjectFamilies gives every input id its family name. An unmapped id is
// its own singleton family.
func ProjectFamilies(inputs []string, m *SeqFamilyMap) []Projection {
	ids := UniqueIDs(inputs)
	rows := make([]Projection, 0, len(ids))
	for _, id := range ids {
		name := id
		if fam, ok := m.Get(id); ok {
			name = fam.Name
		}
		rows = append(rows, Projection{Input: id, Value: name})
	}
	return rows
}
