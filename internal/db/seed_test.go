package db

import "testing"

func TestParseCriteria_Default(t *testing.T) {
	list, err := ParseCriteria(defaultCriteriaYAML)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) == 0 {
		t.Fatal("default criteria must not be empty")
	}
	seen := map[string]bool{}
	for _, c := range list {
		if seen[c.Name] {
			t.Fatalf("duplicate criteria %q", c.Name)
		}
		seen[c.Name] = true
	}
}

func TestParseCriteria_Invalid(t *testing.T) {
	cases := map[string]string{
		"no_weight":   "criteria:\n  - name: A\n    type: boolean\n",
		"bad_type":    "criteria:\n  - name: A\n    type: stars\n    weight: 1\n",
		"rating_mmax": "criteria:\n  - name: A\n    type: rating\n    weight: 1\n    min_value: 5\n    max_value: 5\n",
		"not_yaml":    "criteria: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseCriteria([]byte(raw)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
