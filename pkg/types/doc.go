// Package types defines the entity types, patch events, recurrence rules,
// and standard error types for the samwise client state.
//
// Entities arrive from the listener layer as patch events (see Patch). The
// reconciled representation of a task (Task) differs from the one carried
// on the wire (TaskDoc): on the wire a task names its subtasks by id, in
// state the subtasks are materialized and ordered.
package types
