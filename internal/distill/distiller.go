package distill

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/swesmith-go/synthesis/internal/artifact"
	"github.com/swesmith-go/synthesis/internal/gather"
)

// Distiller drives trajectory resolution and SFT record emission for one
// repo's batch of trajectories.
type Distiller struct {
	Resolver     *Resolver
	Dialect      Dialect
	ResolvedOnly bool
	Logf         Logf
}

// LengthSummary reports the distribution of serialized message lengths
// across a distilled batch, in lieu of truncating anything here — length
// policy stays a training-time concern (spec.md §4.10).
type LengthSummary struct {
	Count int `json:"count"`
	Min   int `json:"min"`
	Max   int `json:"max"`
	Mean  int `json:"mean"`
}

func outPath(logsDir, repo string) string {
	return filepath.Join(logsDir, "distilled", repo+".jsonl")
}

// DistillAll resolves every trajectory against its instance, serializes
// resolved (or, unless ResolvedOnly, every) trajectory into a Record, and
// writes one JSON object per line to logs/distilled/<repo>.jsonl.
func (d *Distiller) DistillAll(ctx context.Context, logsDir, repo string, instances map[string]gather.Instance, trajectories []Trajectory) ([]Record, LengthSummary, error) {
	records := make([]Record, 0, len(trajectories))
	lengths := make([]int, 0, len(trajectories))

	for _, t := range trajectories {
		instance, ok := instances[t.InstanceID]
		if !ok {
			return nil, LengthSummary{}, fmt.Errorf("distill: trajectory %s references unknown instance", t.InstanceID)
		}

		resolved, counts, err := d.Resolver.Resolve(ctx, instance, t)
		if err != nil {
			if d.Logf != nil {
				d.Logf("distill: %s: resolve error, treating as unresolved: %v", t.InstanceID, err)
			}
		}

		if d.Logf != nil {
			d.Logf("distill: %s resolved=%v (f2p %d/%d, p2p %d/%d)", t.InstanceID, resolved,
				counts.F2PSuccess, counts.F2PSuccess+counts.F2PFailure,
				counts.P2PSuccess, counts.P2PSuccess+counts.P2PFailure)
		}

		if d.ResolvedOnly && !resolved {
			continue
		}

		dialectMessages := Serialize(t.Messages, d.Dialect)
		records = append(records, Record{
			InstanceID: t.InstanceID,
			Messages:   dialectMessages,
			ModelPatch: t.ModelPatch,
			Resolved:   resolved,
			Counts:     counts,
		})
		lengths = append(lengths, messageLength(dialectMessages))
	}

	path := outPath(logsDir, repo)
	if err := writeJSONL(path, records); err != nil {
		return nil, LengthSummary{}, fmt.Errorf("distill: write %s: %w", path, err)
	}

	summary := summarizeLengths(lengths)
	if d.Logf != nil {
		d.Logf("distill: wrote %d record(s) to %s, message length min=%d max=%d mean=%d", len(records), path, summary.Min, summary.Max, summary.Mean)
	}
	return records, summary, nil
}

func messageLength(messages []DialectMessage) int {
	total := 0
	for _, m := range messages {
		if content, ok := m["content"].(string); ok {
			total += len(content)
		}
	}
	return total
}

func summarizeLengths(lengths []int) LengthSummary {
	if len(lengths) == 0 {
		return LengthSummary{}
	}
	sorted := append([]int(nil), lengths...)
	sort.Ints(sorted)
	sum := 0
	for _, l := range sorted {
		sum += l
	}
	return LengthSummary{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Mean:  sum / len(sorted),
	}
}

func writeJSONL(path string, records []Record) error {
	var buf bytes.Buffer
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal record %s: %w", r.InstanceID, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return artifact.WriteAtomic(path, buf.Bytes())
}
