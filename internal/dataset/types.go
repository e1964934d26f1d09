// Package dataset implements the Dataset Assembler: it joins gathered task
// instances with their generated issue texts on instance_id, enforces the
// canonical seven-field schema, and writes the final per-repo JSON corpus.
package dataset

import "github.com/swesmith-go/synthesis/internal/gather"

// Record is the canonical task-instance record (spec.md §3), identical in
// shape to gather.Instance — the Gatherer and the Dataset Assembler
// describe the same seven fields, the Assembler just fills in the one
// field (problem_statement) the Gatherer necessarily leaves empty.
type Record = gather.Instance

// Logf is the ambient progress/diagnostic callback, matching
// internal/issuegen's.
type Logf func(format string, args ...any)
