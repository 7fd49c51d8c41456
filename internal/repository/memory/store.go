// internal/repository/memory/store.go
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"promo-service/internal/domain/campaign"
	xerrors "promo-service/internal/pkg/errors"
)

// Store is an in-memory campaign and redemption store with the same
// contract as the postgres repositories, including the conditional
// counter update. Used by service tests.
type Store struct {
	mu        sync.Mutex
	nextID    int64
	nextEvID  int64
	campaigns map[int64]*campaign.Campaign
	events    []campaign.RedemptionEvent
}

func NewStore() *Store {
	return &Store{
		nextID:    1,
		nextEvID:  1,
		campaigns: make(map[int64]*campaign.Campaign),
	}
}

func (s *Store) Create(_ context.Context, c *campaign.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c.ID = s.nextID
	s.nextID++
	c.CreatedAt = now
	c.UpdatedAt = now

	cp := *c
	s.campaigns[c.ID] = &cp
	return nil
}

func (s *Store) FindByID(_ context.Context, id int64) (*campaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok || c.Removed {
		return nil, xerrors.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) FindByCode(_ context.Context, code string) (*campaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.campaigns {
		if c.Code == code && !c.Removed {
			cp := *c
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (s *Store) ExistsByCode(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.campaigns {
		if c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) UpdateStatus(_ context.Context, id int64, status campaign.CampaignStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok || c.Removed {
		return xerrors.ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	return nil
}

func (s *Store) MarkRemoved(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok || c.Removed {
		return xerrors.ErrNotFound
	}
	c.Removed = true
	c.UpdatedAt = time.Now()
	return nil
}

func (s *Store) List(_ context.Context, filters *campaign.ListFilters) ([]campaign.Campaign, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []campaign.Campaign{}
	for _, c := range s.campaigns {
		if c.Removed {
			continue
		}
		if filters.Status != nil && c.Status != *filters.Status {
			continue
		}
		if filters.DiscountType != nil && c.DiscountType != *filters.DiscountType {
			continue
		}
		if filters.Search != "" {
			needle := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(c.Name), needle) &&
				!strings.Contains(strings.ToLower(c.Code), needle) {
				continue
			}
		}
		matched = append(matched, *c)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (filters.Page - 1) * filters.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filters.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func (s *Store) ListExpiryCandidates(_ context.Context, now time.Time) ([]campaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := []campaign.Campaign{}
	for _, c := range s.campaigns {
		if c.Removed || c.Status == campaign.CampaignStatusExpired {
			continue
		}
		if c.EvaluateExpiry(now) == campaign.CampaignStatusExpired {
			candidates = append(candidates, *c)
		}
	}
	return candidates, nil
}

// Apply mirrors the postgres conditional update: counters and the event
// commit together, and a lost race yields ErrUsageLimitReached.
func (s *Store) Apply(_ context.Context, ev *campaign.RedemptionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[ev.CampaignID]
	if !ok || c.Removed {
		return xerrors.ErrNotFound
	}
	if c.UsageLimit.Valid && c.UsageCount >= int(c.UsageLimit.Int32) {
		return xerrors.ErrUsageLimitReached
	}

	c.UsageCount++
	c.Conversions++
	c.Revenue += ev.OrderAmount
	c.Cost += ev.DiscountApplied
	c.UpdatedAt = time.Now()

	ev.ID = s.nextEvID
	s.nextEvID++
	ev.CreatedAt = time.Now()
	s.events = append(s.events, *ev)

	return nil
}

func (s *Store) ListByCampaign(_ context.Context, campaignID int64, filters *campaign.RedemptionListFilters) ([]campaign.RedemptionEvent, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []campaign.RedemptionEvent{}
	for _, ev := range s.events {
		if ev.CampaignID == campaignID {
			matched = append(matched, ev)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].RedeemedAt.After(matched[j].RedeemedAt)
	})

	total := int64(len(matched))
	start := (filters.Page - 1) * filters.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filters.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}
