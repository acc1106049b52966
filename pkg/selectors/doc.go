// Package selectors computes the derived views the UI renders from a
// reconciled store.State: the focus view and its progress, ordered id lists
// per date and per group, ordered tags and the banner message.
//
// A Selectors value memoizes each view on the identity of the persistent
// maps it reads. Because the reducer carries untouched maps over as the same
// pointers, a view is recomputed only after a patch that changed one of its
// inputs. Views are never compared deeply. Returned slices are shared
// between callers and must not be modified.
package selectors
