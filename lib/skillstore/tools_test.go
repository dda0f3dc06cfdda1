// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package skillstore

import (
	"reflect"
	"testing"
)

func TestCategoryMap(t *testing.T) {
	m, err := NewCategoryMap([]Assignment{
		{Tool: "get_weather", Category: "weather"},
		{Tool: "get_forecast", Category: "weather"},
		{Tool: "send_alert", Category: "notify"},
	})
	if err != nil {
		t.Fatalf("NewCategoryMap failed: %v", err)
	}

	if m.Len() != 3 {
		t.Errorf("Len = %d, want 3", m.Len())
	}
	if category, ok := m.Category("get_weather"); !ok || category != "weather" {
		t.Errorf("Category(get_weather) = %q, %v", category, ok)
	}
	if _, ok := m.Category("unknown"); ok {
		t.Error("Category(unknown) reported an assignment")
	}
	if got := m.Tools("weather"); !reflect.DeepEqual(got, []string{"get_forecast", "get_weather"}) {
		t.Errorf("Tools(weather) = %v", got)
	}
	if got := m.Categories(); !reflect.DeepEqual(got, []string{"notify", "weather"}) {
		t.Errorf("Categories = %v", got)
	}
}

func TestCategoryMapRejectsDuplicates(t *testing.T) {
	_, err := NewCategoryMap([]Assignment{
		{Tool: "get_weather", Category: "weather"},
		{Tool: "get_weather", Category: "notify"},
	})
	if err == nil {
		t.Error("duplicate tool assignment accepted")
	}
}

func TestCategoryMapRejectsEmptyNames(t *testing.T) {
	if _, err := NewCategoryMap([]Assignment{{Tool: "", Category: "weather"}}); err == nil {
		t.Error("empty tool name accepted")
	}
	if _, err := NewCategoryMap([]Assignment{{Tool: "get_weather", Category: ""}}); err == nil {
		t.Error("empty category accepted")
	}
}
