// Package reconciler diffs freshly normalized events against
// previously synced records and computes the minimal set of calendar
// operations, preserving user edits.
package reconciler

import (
	"sort"

	"coursecal/internal/calendar"
	"coursecal/internal/domain"
)

// Options control reconciliation policy.
type Options struct {
	// IncludeDeletes queues deletions for stale records. Stale records
	// are always reported; deleting a user's calendar entry is an
	// irreversible external side effect and stays opt-in.
	IncludeDeletes bool
}

// Reconcile matches normalized events to existing records by
// fingerprint and classifies each as create, update, skip or stale.
// Pure function over its inputs.
func Reconcile(events []domain.NormalizedEvent, records []domain.SyncedEventRecord, opts Options) domain.SyncPlan {
	byFingerprint := make(map[string]*domain.SyncedEventRecord, len(records))
	for i := range records {
		byFingerprint[records[i].Fingerprint] = &records[i]
	}

	var plan domain.SyncPlan
	matched := make(map[string]bool, len(events))

	for _, ev := range events {
		rec, exists := byFingerprint[ev.Fingerprint]
		if !exists {
			plan.Creates = append(plan.Creates, domain.PlannedOp{
				Event:  ev,
				Reason: domain.ReasonNew,
			})
			continue
		}
		matched[ev.Fingerprint] = true

		if rec.UserEdited {
			// Never overwritten automatically; informational, not an error.
			plan.Skips = append(plan.Skips, domain.PlannedOp{
				Event:  ev,
				Record: rec,
				Reason: domain.ReasonUserEdited,
			})
			continue
		}

		if calendar.PayloadFor(ev).Hash() != rec.ContentHash {
			plan.Updates = append(plan.Updates, domain.PlannedOp{
				Event:  ev,
				Record: rec,
				Reason: domain.ReasonChanged,
			})
		}
		// Matching hash: the event is already in sync, no operation.
	}

	for i := range records {
		rec := &records[i]
		if matched[rec.Fingerprint] {
			continue
		}
		plan.Stale = append(plan.Stale, *rec)
		if opts.IncludeDeletes && !rec.UserEdited {
			plan.Deletes = append(plan.Deletes, domain.PlannedOp{
				Record: rec,
				Reason: domain.ReasonUnlisted,
			})
		}
	}

	// Soonest-due items sync first so a partial failure leaves them
	// applied.
	sortByDue(plan.Creates)
	sortByDue(plan.Updates)

	return plan
}

func sortByDue(ops []domain.PlannedOp) {
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].Event.Due.Before(ops[j].Event.Due)
	})
}
