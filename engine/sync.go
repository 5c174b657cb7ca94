/*
sync.go - Manual attendance edits reconciled with leave bookkeeping

PURPOSE:
  A manual calendar-cell edit is two mutations that must stay consistent:
  the override store and the leave-request store. SyncCoordinator applies
  both as one logical unit so no reader ever observes an override without
  its implied leave record, or the reverse.

INVARIANT:
  Outside the normal submission flow, a synthetic request exists for
  (employee, date) exactly when a leave-producing override exists for
  that date. Synthetic requests always span a single day and carry the
  GeneratedFrom link to the entry that produced them.

IDEMPOTENCE:
  Applying the same entry twice yields the same end state: upserts are
  keyed by (employee, date) and a synthetic request is only created when
  no approved request already covers the day.
*/
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SyncCoordinator applies manual attendance entries to a State, keeping
// the override and request collections consistent.
type SyncCoordinator struct {
	// NewID generates request identifiers; defaults to uuid.NewString.
	NewID func() string
	// Now supplies creation timestamps; defaults to time.Now.
	Now func() time.Time
}

func NewSyncCoordinator() *SyncCoordinator {
	return &SyncCoordinator{NewID: uuid.NewString, Now: time.Now}
}

// ApplyManualEntry applies one manual edit for entry.Key(). actorName
// becomes the approver of any synthetic request created.
//
// The entry's code must be valid; unknown codes are a programming-contract
// violation and panic. Structural validation belongs to the caller.
func (sc *SyncCoordinator) ApplyManualEntry(st *State, entry ManualEntry, actorName string) {
	if !entry.Code.Valid() {
		panic("engine: unknown manual entry code " + string(entry.Code))
	}

	key := entry.Key()

	// Step 1: override store.
	if entry.Code == EntryClear {
		st.removeEntry(key)
	} else {
		st.upsertEntry(entry)
	}

	// Step 2: leave-request reconciliation.
	if entry.Code.ProducesLeave() {
		// The editor chose leave explicitly; make sure leave bookkeeping
		// agrees. An existing approved request covering the day (synthetic
		// or user-submitted) already does.
		if _, covered := st.approvedCovering(entry.EmployeeID, entry.Date, ""); covered {
			return
		}
		approver := actorName
		st.Requests = append(st.Requests, LeaveRequest{
			ID:         sc.NewID(),
			EmployeeID: entry.EmployeeID,
			Start:      entry.Date,
			End:        entry.Date,
			Kind:       entry.Code.LeaveKind(),
			Reason:     "attendance sheet edit",
			Status:     StatusApproved,
			// Full day: the editor's explicit choice overrides the
			// weekend/holiday discounting used for submitted intervals.
			DayCount:      decimal.NewFromInt(1),
			CreatedAt:     sc.Now(),
			ApproverName:  &approver,
			GeneratedFrom: &key,
		})
		return
	}

	// Work, HalfWork, Clear: the day is not leave anymore. Drop the
	// synthetic request linked to this exact cell, if one exists.
	// User-submitted multi-day requests are never touched here.
	st.removeSyntheticFor(key)
}

func (st *State) upsertEntry(entry ManualEntry) {
	for i := range st.Entries {
		if st.Entries[i].Key() == entry.Key() {
			st.Entries[i] = entry
			return
		}
	}
	st.Entries = append(st.Entries, entry)
}

func (st *State) removeEntry(key EntryKey) {
	for i := range st.Entries {
		if st.Entries[i].Key() == key {
			st.Entries = append(st.Entries[:i], st.Entries[i+1:]...)
			return
		}
	}
}

func (st *State) removeSyntheticFor(key EntryKey) {
	for i := range st.Requests {
		req := &st.Requests[i]
		if req.GeneratedFrom != nil && *req.GeneratedFrom == key {
			st.Requests = append(st.Requests[:i], st.Requests[i+1:]...)
			return
		}
	}
}
