// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package notification

import (
	"context"
	"fmt"
	"time"
)

// Service implements alert management for compost piles.
//
// It is also the concrete [pile.Notifier]: the pile health path raises
// alerts through [Service.PileAlert] without importing this package's
// internals.
type Service struct {
	notificationRepository NotificationRepository
	unreadCache            UnreadCountCache
}

// NewService constructs a new notification [Service]. cache may be nil, in
// which case every unread-count read hits the persistent store.
func NewService(notificationRepo NotificationRepository, cache UnreadCountCache) *Service {
	return &Service{
		notificationRepository: notificationRepo,
		unreadCache:            cache,
	}
}

// PileAlert records an alert attached to a pile.
//
// The caller has already proven ownership of the pile; the owner's cached
// unread counter cannot be invalidated here (the username is not part of
// the alert), so the counter is allowed to stay stale for at most its TTL.
func (service *Service) PileAlert(ctx context.Context, pileID int64, title, description, alertType string, priority int16) error {
	notification := &Notification{
		PileID:      pileID,
		Title:       title,
		Description: &description,
		Type:        &alertType,
		Priority:    priority,
	}

	if err := service.notificationRepository.Create(ctx, notification); err != nil {
		return fmt.Errorf("notification_service_create_failed: %w", err)
	}

	return nil
}

// ListMine returns every alert attached to the caller's piles, newest
// first. No alerts is an empty slice, never an error.
func (service *Service) ListMine(ctx context.Context, owner string) ([]*Notification, error) {
	notifications, err := service.notificationRepository.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("notification_service_list_failed: %w", err)
	}

	if notifications == nil {
		notifications = []*Notification{}
	}
	return notifications, nil
}

// MarkRead acknowledges one of the caller's alerts and returns it.
//
// # Ownership
//
// An alert on someone else's pile fails with the same NOT_FOUND as an
// alert that never existed. Acknowledging twice is idempotent.
func (service *Service) MarkRead(ctx context.Context, owner string, notificationID int64) (*Notification, error) {
	notification, err := service.notificationRepository.MarkRead(ctx, notificationID, owner, time.Now())
	if err != nil {
		return nil, err
	}

	if service.unreadCache != nil {
		service.unreadCache.Invalidate(ctx, owner)
	}

	return notification, nil
}

// UnreadCountResult is the wire payload of the unread counter.
type UnreadCountResult struct {
	UnreadCount int64 `json:"unread_count"`
}

// UnreadCount returns how many of the caller's alerts are unread, served
// from the cache when fresh.
func (service *Service) UnreadCount(ctx context.Context, owner string) (*UnreadCountResult, error) {
	if service.unreadCache != nil {
		if count, ok := service.unreadCache.Get(ctx, owner); ok {
			return &UnreadCountResult{UnreadCount: count}, nil
		}
	}

	count, err := service.notificationRepository.CountUnreadByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("notification_service_count_failed: %w", err)
	}

	if service.unreadCache != nil {
		service.unreadCache.Set(ctx, owner, count)
	}

	return &UnreadCountResult{UnreadCount: count}, nil
}
