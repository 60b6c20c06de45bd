// internal/websocket/handler/live.go
package handler

import (
	"context"
	"errors"

	"dealerdesk-service/internal/domain/stats"
	wstypes "dealerdesk-service/internal/domain/websocket"
	"dealerdesk-service/internal/events"
	statssvc "dealerdesk-service/internal/service/stats"
	ws "dealerdesk-service/internal/websocket"

	"go.uber.org/zap"
)

// LiveHandler bridges inventory and sale change events into websocket
// broadcasts, and serves on-demand stats refreshes from clients.
type LiveHandler struct {
	hub    *ws.Hub
	bus    *events.Bus
	stats  *statssvc.StatsService
	logger *zap.Logger
}

func NewLiveHandler(hub *ws.Hub, bus *events.Bus, stats *statssvc.StatsService, logger *zap.Logger) *LiveHandler {
	return &LiveHandler{
		hub:    hub,
		bus:    bus,
		stats:  stats,
		logger: logger,
	}
}

// SupportedEvents returns the client message types this handler serves
func (h *LiveHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeStatsRefresh}
}

// HandleMessage answers a stats refresh request with a fresh snapshot
func (h *LiveHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	snapshot, err := h.stats.Aggregate(ctx, client.GetVendorID())
	if err != nil {
		return err
	}
	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeStatsRefresh, snapshot))
	return nil
}

// Run pumps change events from the bus to the owning vendor's clients,
// and keeps one stats watcher per active vendor pushing fresh snapshots
// alongside the raw change events.
func (h *LiveHandler) Run(ctx context.Context) {
	sub := h.bus.Subscribe()
	defer sub.Close()

	watched := make(map[int64]struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			if _, ok := watched[ev.VendorID]; !ok {
				watched[ev.VendorID] = struct{}{}
				go h.watchVendor(ctx, ev.VendorID)
			}
			channel, eventType := translate(ev)
			if eventType == "" {
				continue
			}
			h.hub.BroadcastChange(ev.VendorID, channel, eventType, &wstypes.ChangeData{
				Table:    ev.Table,
				Action:   string(ev.Action),
				EntityID: ev.EntityID,
			})
		}
	}
}

// watchVendor re-aggregates the vendor's stats on every change event and
// broadcasts the snapshot. The event that started the watcher predates
// its subscription, so one snapshot goes out up front.
func (h *LiveHandler) watchVendor(ctx context.Context, vendorID int64) {
	snapshot, err := h.stats.Aggregate(ctx, vendorID)
	if err != nil {
		h.logger.Error("failed to aggregate stats",
			zap.Int64("vendor_id", vendorID),
			zap.Error(err),
		)
	} else {
		h.broadcastSnapshot(vendorID, snapshot)
	}

	err = h.stats.Watch(ctx, vendorID, func(snapshot *stats.VendorStats) {
		h.broadcastSnapshot(vendorID, snapshot)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		h.logger.Error("stats watcher stopped",
			zap.Int64("vendor_id", vendorID),
			zap.Error(err),
		)
	}
}

func (h *LiveHandler) broadcastSnapshot(vendorID int64, snapshot *stats.VendorStats) {
	if !h.hub.IsVendorConnected(vendorID) {
		return
	}
	h.hub.BroadcastMessage(&ws.BroadcastMessage{
		VendorIDs: []int64{vendorID},
		Channel:   wstypes.ChannelSystem,
		Message:   wstypes.NewMessage(wstypes.EventTypeStatsRefresh, snapshot),
	})
}

func translate(ev events.Event) (wstypes.ChannelType, wstypes.EventType) {
	switch ev.Table {
	case events.TableCars:
		switch ev.Action {
		case events.ActionInsert:
			return wstypes.ChannelCars, wstypes.EventTypeCarCreated
		case events.ActionUpdate:
			return wstypes.ChannelCars, wstypes.EventTypeCarUpdated
		case events.ActionDelete:
			return wstypes.ChannelCars, wstypes.EventTypeCarDeleted
		}
	case events.TableSales:
		return wstypes.ChannelSales, wstypes.EventTypeSaleRecorded
	}
	return "", ""
}
