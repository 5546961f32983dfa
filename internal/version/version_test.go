package version

import "testing"

func TestIsRelease(t *testing.T) {
	valid := []string{"1.2.3", "10.200.300", "1.20.3a1", "1.20.3b1", "1.20.3rc1"}
	for _, v := range valid {
		if !IsRelease(v) {
			t.Errorf("IsRelease(%q) = false, want true", v)
		}
	}

	invalid := []string{"w.2023.13", "main", "develop", "ticket/DM-12345", ""}
	for _, v := range invalid {
		if IsRelease(v) {
			t.Errorf("IsRelease(%q) = true, want false", v)
		}
	}
}

func TestExpandTag(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"1.0.0", "v1.0.0"},
		{"1.0.0a1", "v1.0.0.alpha.1"},
		{"1.0.0b1", "v1.0.0.beta.1"},
		{"1.0.0rc1", "v1.0.0.rc.1"},
		// Branch names pass through untouched.
		{"main", "main"},
		{"ticket/DM-12345", "ticket/DM-12345"},
	}
	for _, c := range cases {
		if got := ExpandTag(c.in); got != c.want {
			t.Errorf("ExpandTag(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCompare(t *testing.T) {
	cmp, err := Compare("1.2.3", "1.10.0")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmp != -1 {
		t.Errorf("Compare(1.2.3, 1.10.0) = %d, want -1", cmp)
	}

	cmp, err = Compare("v2.0.0", "2.0.0")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmp != 0 {
		t.Errorf("v-prefix should be tolerated, got %d", cmp)
	}

	if _, err := Compare("main", "1.0.0"); err == nil {
		t.Error("expected error for non-release input")
	}
}
