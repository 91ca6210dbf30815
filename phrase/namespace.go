// Package phrase implements the semantic grouping of extracted UI strings:
// namespace classification and resource key derivation.
package phrase

// Namespace is a semantic bucket for related translation keys.
type Namespace string

const (
	NamespaceCommon     Namespace = "common"
	NamespaceNavigation Namespace = "navigation"
	NamespaceComponents Namespace = "components"
	NamespaceMessages   Namespace = "messages"
	NamespaceForms      Namespace = "forms"
	NamespaceErrors     Namespace = "errors"
)

// Namespaces returns all namespaces in their canonical iteration order.
// The translation pipeline flattens phrase buckets in this order, so it
// must stay fixed for runs to be reproducible.
func Namespaces() []Namespace {
	return []Namespace{
		NamespaceCommon,
		NamespaceNavigation,
		NamespaceComponents,
		NamespaceMessages,
		NamespaceForms,
		NamespaceErrors,
	}
}

// Valid reports whether ns is one of the known namespaces.
func Valid(ns Namespace) bool {
	switch ns {
	case NamespaceCommon, NamespaceNavigation, NamespaceComponents,
		NamespaceMessages, NamespaceForms, NamespaceErrors:
		return true
	}
	return false
}
