package detail

import (
	"context"

	"campus-map/internal/campus/models"
)

// PlaceholderTitle показывается, если кабинет не найден.
const PlaceholderTitle = "Расписание"

// RoomFinder is the lookup the detail screen needs.
type RoomFinder interface {
	GetRoomByID(ctx context.Context, id string) (*models.Room, bool, error)
}

// View: содержимое экрана расписания.
type View struct {
	RoomID string                `json:"room_id"`
	Title  string                `json:"title"`
	Found  bool                  `json:"found"`
	Room   *models.Room          `json:"room,omitempty"`
	Items  []models.ScheduleItem `json:"items"`
}

// Build собирает экран расписания. Неизвестный кабинет даёт заглушку с
// пустым списком; ошибкой считается только сбой хранилища.
func Build(ctx context.Context, store RoomFinder, roomID string) (View, error) {
	v := View{RoomID: roomID, Title: PlaceholderTitle, Items: []models.ScheduleItem{}}

	room, ok, err := store.GetRoomByID(ctx, roomID)
	if err != nil {
		return View{}, err
	}
	if !ok {
		return v, nil
	}

	v.Found = true
	v.Room = room
	if room.Name != "" {
		v.Title = room.Name
	}
	if len(room.Schedule) > 0 {
		v.Items = room.Schedule
	}
	return v, nil
}
