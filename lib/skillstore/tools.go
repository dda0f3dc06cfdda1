// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package skillstore

import (
	"fmt"
	"sort"
)

// CategoryMap is a validated assignment of tools to categories: each
// tool belongs to exactly one category, enforced at construction.
// Sibling components group bundled tools for presentation and routing;
// modeling the grouping as a checked value type keeps a duplicate
// assignment from silently shadowing an earlier one the way an ad hoc
// map mutation would.
type CategoryMap struct {
	byTool map[string]string
}

// Assignment pairs a tool name with its category.
type Assignment struct {
	Tool     string
	Category string
}

// NewCategoryMap builds a CategoryMap from assignments. Empty tool or
// category names and duplicate tool assignments are errors.
func NewCategoryMap(assignments []Assignment) (*CategoryMap, error) {
	byTool := make(map[string]string, len(assignments))
	for _, assignment := range assignments {
		if assignment.Tool == "" {
			return nil, fmt.Errorf("category map: empty tool name")
		}
		if assignment.Category == "" {
			return nil, fmt.Errorf("category map: tool %q has empty category", assignment.Tool)
		}
		if existing, ok := byTool[assignment.Tool]; ok {
			return nil, fmt.Errorf("category map: tool %q assigned to both %q and %q",
				assignment.Tool, existing, assignment.Category)
		}
		byTool[assignment.Tool] = assignment.Category
	}
	return &CategoryMap{byTool: byTool}, nil
}

// Category returns the category for a tool, or false if the tool is
// not assigned.
func (m *CategoryMap) Category(tool string) (string, bool) {
	category, ok := m.byTool[tool]
	return category, ok
}

// Tools returns the tools in a category, sorted.
func (m *CategoryMap) Tools(category string) []string {
	var tools []string
	for tool, c := range m.byTool {
		if c == category {
			tools = append(tools, tool)
		}
	}
	sort.Strings(tools)
	return tools
}

// Categories returns every category with at least one tool, sorted.
func (m *CategoryMap) Categories() []string {
	seen := make(map[string]struct{})
	for _, category := range m.byTool {
		seen[category] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// Len returns the number of assigned tools.
func (m *CategoryMap) Len() int {
	return len(m.byTool)
}
