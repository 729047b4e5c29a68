package game

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/kaliyo-backend/internal"
)

// =============================================================================
// DRAWING & BROADCAST
// =============================================================================

func (c *Controller) SendTo(connID string, msg internal.Outbound) {
	c.out.Send(connID, msg)
}

func (c *Controller) BroadcastToRoom(room *internal.Room, msg internal.Outbound) {
	c.BroadcastToRoomExcept(room, msg, "")
}

func (c *Controller) BroadcastToRoomExcept(room *internal.Room, msg internal.Outbound, exceptID string) {
	ids := make([]string, 0, len(room.Players))
	for _, p := range room.Players {
		if p.Id == exceptID {
			continue
		}
		ids = append(ids, p.Id)
	}
	c.broadcast(ids, msg)
}

func (c *Controller) broadcast(ids []string, msg internal.Outbound) {
	if b, ok := c.out.(Broadcaster); ok {
		b.Broadcast(ids, msg)
		return
	}
	for _, id := range ids {
		c.out.Send(id, msg)
	}
}

// drawerRoom returns the room when playerID is drawing in an active game.
func (c *Controller) drawerRoom(code, playerID string) (*internal.Room, error) {
	room := c.store.GetRoom(code)
	if room == nil {
		return nil, fmt.Errorf("%w: room %s", internal.ErrNotFound, code)
	}
	if !room.Game.IsActive {
		return nil, fmt.Errorf("%w: no game in progress", internal.ErrInvalidState)
	}
	if !room.IsDrawer(playerID) {
		return nil, fmt.Errorf("%w: %s is not drawing", internal.ErrForbidden, playerID)
	}
	return room, nil
}

// ForwardDrawData relays a batch of strokes from the drawer to everyone else.
// The strokes are not interpreted beyond checking they form a JSON array.
func (c *Controller) ForwardDrawData(code, playerID string, strokes json.RawMessage) error {
	room, err := c.drawerRoom(code, playerID)
	if err != nil {
		return err
	}
	if !internal.IsStrokeArray(strokes) {
		return fmt.Errorf("%w: draw data must be an array", internal.ErrBadRequest)
	}

	c.BroadcastToRoomExcept(room, internal.NewMessage(internal.EventDrawingUpdate, internal.DrawData(strokes)), playerID)
	return nil
}

func (c *Controller) ClearCanvas(code, playerID string) error {
	room, err := c.drawerRoom(code, playerID)
	if err != nil {
		return err
	}

	log.Debug().Str("room", code).Str("player", playerID).Msg("[ClearCanvas] canvas cleared")
	c.BroadcastToRoom(room, internal.NewMessage(internal.EventClearCanvasUpdate, nil))
	return nil
}
