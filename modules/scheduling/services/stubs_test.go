package services

import (
	"context"
	"errors"
	"time"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/ports"
	"github.com/erosops/scheduler-hub/modules/scheduling/domain/types"
)

func fptr(v float64) *float64 { return &v }

func ts(hour int, minute int) time.Time {
	return time.Date(2026, 8, 30, hour, minute, 0, 0, time.UTC)
}

type tierBandStoreStub struct {
	findFn func(ctx context.Context, tierID string) (types.TierBand, bool, error)
	calls  int
}

func (s *tierBandStoreStub) FindTierBand(ctx context.Context, tierID string) (types.TierBand, bool, error) {
	s.calls++
	if s.findFn == nil {
		return types.TierBand{}, false, errors.New("FindTierBand not stubbed")
	}
	return s.findFn(ctx, tierID)
}

type rosterStoreStub struct {
	rosterFn    func(email string) (bool, bool, error)
	assignFn    func(email string) (bool, bool, error)
	rosterCalls int
	assignCalls int
}

func (s *rosterStoreStub) RosterIsManager(_ context.Context, email string) (bool, bool, error) {
	s.rosterCalls++
	if s.rosterFn == nil {
		return false, false, errors.New("RosterIsManager not stubbed")
	}
	return s.rosterFn(email)
}

func (s *rosterStoreStub) AssignmentIsManager(_ context.Context, email string) (bool, bool, error) {
	s.assignCalls++
	if s.assignFn == nil {
		return false, false, errors.New("AssignmentIsManager not stubbed")
	}
	return s.assignFn(email)
}

type actionLogStub struct {
	appendErr error
	markerErr error

	batches  [][]types.ActionPayload
	metas    []ports.SubmissionMeta
	markers  [][]types.OverrideRecord
	markSrcs []string
}

func (s *actionLogStub) AppendActions(_ context.Context, payloads []types.ActionPayload, meta ports.SubmissionMeta) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.batches = append(s.batches, payloads)
	s.metas = append(s.metas, meta)
	return nil
}

func (s *actionLogStub) AppendOverrideMarkers(_ context.Context, records []types.OverrideRecord, source string) error {
	if s.markerErr != nil {
		return s.markerErr
	}
	s.markers = append(s.markers, records)
	s.markSrcs = append(s.markSrcs, source)
	return nil
}

type overrideStoreStub struct {
	appendErr error
	batches   [][]types.OverrideRecord
}

func (s *overrideStoreStub) AppendOverrides(_ context.Context, records []types.OverrideRecord) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.batches = append(s.batches, records)
	return nil
}

func premiumBandStore(min float64, max float64) *tierBandStoreStub {
	return &tierBandStoreStub{findFn: func(_ context.Context, _ string) (types.TierBand, bool, error) {
		return types.TierBand{PremMin: fptr(min), PremMax: fptr(max)}, true, nil
	}}
}

func managerRoster() *rosterStoreStub {
	return &rosterStoreStub{rosterFn: func(string) (bool, bool, error) { return true, true, nil }}
}

func nonManagerRoster() *rosterStoreStub {
	return &rosterStoreStub{
		rosterFn: func(string) (bool, bool, error) { return false, false, nil },
		assignFn: func(string) (bool, bool, error) { return false, false, nil },
	}
}
