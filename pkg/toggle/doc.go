// Package toggle binds a single visibility rule between two form elements: a
// controller whose value is compared against a match value, and a dependent
// container that is shown only while the values are equal.
//
// Element lookup and presentation are injected. A Resolver supplies the
// controller and dependent handles (an in-memory document, a live browser
// page, a terminal prompt), and a Presenter translates the declarative
// visible flag into inline styles, classes, or attributes. Missing elements
// turn every operation into a silent no-op.
package toggle
