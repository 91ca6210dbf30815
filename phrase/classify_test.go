package phrase

import "testing"

func TestClassify_RuleOrder(t *testing.T) {
	c := NewClassifier(DefaultRules())

	tests := []struct {
		text string
		want Namespace
	}{
		{"An error occurred", NamespaceErrors},
		{"Invalid email address, please retry", NamespaceErrors},
		{"Failed to load data", NamespaceErrors},
		{"Home", NamespaceNavigation},
		{"About Us", NamespaceNavigation},
		{"Contact our support team today", NamespaceNavigation},
		{"Submit", NamespaceForms},
		{"Save changes", NamespaceForms},
		{"Cancel your subscription anytime", NamespaceForms},
		{"Loading...", NamespaceMessages},
		{"Operation completed with success", NamespaceMessages},
		{"Warning: low disk space", NamespaceMessages},
		{"Welcome back", NamespaceCommon},  // < 20 chars, no keyword
		{"This is a longer component description text", NamespaceComponents},
	}
	for _, tc := range tests {
		if got := c.Classify(tc.text); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

// "Submit Error" must classify as errors because the errors rule
// precedes the forms rule. Rule order is a product decision.
func TestClassify_FirstMatchWins(t *testing.T) {
	c := NewClassifier(DefaultRules())
	if got := c.Classify("Submit Error"); got != NamespaceErrors {
		t.Errorf("Classify(Submit Error) = %s, want errors", got)
	}
	if got := c.Classify("Error loading home page"); got != NamespaceErrors {
		t.Errorf("Classify(Error loading home page) = %s, want errors", got)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	c := NewClassifier(DefaultRules())
	if got := c.Classify("INVALID INPUT"); got != NamespaceErrors {
		t.Errorf("Classify(INVALID INPUT) = %s, want errors", got)
	}
}

func TestClassify_LengthBoundary(t *testing.T) {
	c := NewClassifier(DefaultRules())

	// 19 runes -> common, 20 runes -> components
	nineteen := "abcdefghij abcdefgh"
	twenty := "abcdefghij abcdefghi"
	if len([]rune(nineteen)) != 19 || len([]rune(twenty)) != 20 {
		t.Fatal("test fixture lengths are wrong")
	}
	if got := c.Classify(nineteen); got != NamespaceCommon {
		t.Errorf("19-rune phrase = %s, want common", got)
	}
	if got := c.Classify(twenty); got != NamespaceComponents {
		t.Errorf("20-rune phrase = %s, want components", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := NewClassifier(DefaultRules())
	inputs := []string{"Save", "Home", "Loading", "Some very long component level string here", ""}
	for _, s := range inputs {
		first := c.Classify(s)
		for i := 0; i < 10; i++ {
			if got := c.Classify(s); got != first {
				t.Fatalf("Classify(%q) unstable: %s then %s", s, first, got)
			}
		}
	}
}

// The rule list is injectable: a caller pinning its own ordered rules
// gets them evaluated verbatim.
func TestClassify_CustomRules(t *testing.T) {
	rules := []Rule{
		{Namespace: NamespaceForms, Keywords: []string{"submit"}},
		{Namespace: NamespaceErrors, Keywords: []string{"error"}},
	}
	c := NewClassifier(rules)

	// With forms before errors, "Submit Error" now lands in forms.
	if got := c.Classify("Submit Error"); got != NamespaceForms {
		t.Errorf("custom rule order ignored: got %s, want forms", got)
	}
	// No length rule: short phrases fall through to components.
	if got := c.Classify("Hi"); got != NamespaceComponents {
		t.Errorf("fallback = %s, want components", got)
	}
}

func TestNamespaces_OrderFixed(t *testing.T) {
	want := []Namespace{
		NamespaceCommon, NamespaceNavigation, NamespaceComponents,
		NamespaceMessages, NamespaceForms, NamespaceErrors,
	}
	got := Namespaces()
	if len(got) != len(want) {
		t.Fatalf("got %d namespaces, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Namespaces()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
