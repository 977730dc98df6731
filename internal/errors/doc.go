// Package errors provides structured, actionable error messages for the
// routetable command and its configuration surfaces.
//
// Library packages (router, view, routepath) return plain sentinel and typed
// errors. This package wraps them at the edges, where a person reads them:
//   - config: routetable.json and ROUTETABLE_* environment problems
//   - routes: manifest parsing and route table validation
//   - cli: command arguments and lookups
//   - runtime: server start-up and view loading
//
// # Error Codes
//
// Each error has a unique code (e.g., "E120") that maps to a short message,
// a detailed explanation and a documentation URL.
//
// # Usage
//
//	err := errors.New("E121").
//	    WithLocation("routes.yaml", 12, 5).
//	    WithSuggestion("Register the layout with Binder.Layouts")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E121: Unknown layout
//	//
//	//   routes.yaml:12:5
//	//
//	//     11 │   - name: General
//	//   → 12 │     layout: sidebar
//	//        │     ^
//	//     13 │     children:
//	//
//	//   Hint: Register the layout with Binder.Layouts
//	//
//	//   Learn more: https://routetable.dev/docs/errors/E121
package errors
