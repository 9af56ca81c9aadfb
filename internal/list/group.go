package list

import (
	"sort"

	"github.com/hearthward/grocer/internal/model"
)

// Group is a named bucket of list items.
type Group struct {
	Key   string
	Items []model.ListItem
}

// GroupByStore buckets items by store, sorted by store name. Items with no
// store land in an "Unassigned" bucket at the end.
func GroupByStore(items []model.ListItem) []Group {
	return groupBy(items, func(item model.ListItem) string { return item.Store }, "Unassigned")
}

// GroupByCategory buckets items by category, sorted by category name.
func GroupByCategory(items []model.ListItem) []Group {
	return groupBy(items, func(item model.ListItem) string { return item.Category }, model.CategoryOther)
}

func groupBy(items []model.ListItem, key func(model.ListItem) string, fallback string) []Group {
	buckets := make(map[string][]model.ListItem)
	for _, item := range items {
		k := key(item)
		if k == "" {
			k = fallback
		}
		buckets[k] = append(buckets[k], item)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		if k == fallback {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if _, ok := buckets[fallback]; ok {
		keys = append(keys, fallback)
	}

	groups := make([]Group, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, Group{Key: k, Items: buckets[k]})
	}
	return groups
}
