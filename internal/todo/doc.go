// Package todo holds the task list model and its pure transitions.
//
// The persisted format is a JSON array of task objects:
//
//	[
//	  {"text": "Buy milk", "completed": false, "deadline": null},
//	  {"text": "File taxes", "completed": true, "deadline": "2024-04-15"}
//	]
//
// A task has no identifier. Its position in the list is its identity, so every
// operation that targets a single task takes an index.
//
// # Transitions
//
// List methods never modify the receiver. Each returns a fresh list, which
// lets callers keep the previous value around to roll back a failed write.
//
//   - Add: append a new incomplete task (blank text is rejected)
//   - Toggle: flip the completed flag
//   - Delete: remove one task; later indices shift down by one
//   - Edit: replace the text, keep the other fields
//   - Move: splice one task to a new position
//   - Clear: drop everything
//
// # Filters
//
//   - "all": every task
//   - "completed": tasks with completed=true
//   - "incomplete": tasks with completed=false
//
// A filtered view keeps store order and carries each task's store index.
//
// # Validation
//
// Decode parses the JSON and then checks it against an embedded JSON Schema
// (draft 2020-12). Deadlines must be full dates (YYYY-MM-DD).
package todo
