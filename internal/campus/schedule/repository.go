package schedule

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"campus-map/internal/campus/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MemoryDSN: база в памяти, заполняется при старте и живёт до выхода.
const MemoryDSN = ":memory:"

// ============================================================
// SQLite Repository
// ============================================================

// Repository хранит кабинеты и их расписание. Порядок добавления
// сохраняется: выборки возвращают кабинеты в том порядке, в котором их
// добавили.
type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init применяет встроенные миграции.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// AddRoom добавляет кабинет или заменяет существующий с тем же id.
// Замена сохраняет исходную позицию кабинета и полностью переписывает
// расписание.
func (r *Repository) AddRoom(ctx context.Context, room models.Room) error {
	if room.ID == "" {
		return fmt.Errorf("add room: empty id")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO rooms (id, number, name, floor)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET
            number = excluded.number,
            name   = excluded.name,
            floor  = excluded.floor
    `, room.ID, room.Number, room.Name, room.Floor)
	if err != nil {
		return fmt.Errorf("upsert room %s: %w", room.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_items WHERE room_id = ?`, room.ID); err != nil {
		return fmt.Errorf("clear schedule %s: %w", room.ID, err)
	}

	for i, item := range room.Schedule {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO schedule_items (room_id, position, time_range, subject, teacher, group_name)
            VALUES (?, ?, ?, ?, ?, ?)
        `, room.ID, i, item.Time, item.Subject, item.Teacher, item.Group)
		if err != nil {
			return fmt.Errorf("insert schedule %s/%d: %w", room.ID, i, err)
		}
	}

	return tx.Commit()
}

// GetRoomByID возвращает кабинет; отсутствие кабинета не считается ошибкой.
func (r *Repository) GetRoomByID(ctx context.Context, id string) (*models.Room, bool, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, number, name, floor
        FROM rooms
        WHERE id = ?
    `, id)

	var room models.Room
	if err := row.Scan(&room.ID, &room.Number, &room.Name, &room.Floor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	items, err := r.loadSchedule(ctx, room.ID)
	if err != nil {
		return nil, false, err
	}
	room.Schedule = items
	return &room, true, nil
}

// GetAllRooms returns every room in insertion order.
func (r *Repository) GetAllRooms(ctx context.Context) ([]models.Room, error) {
	return r.queryRooms(ctx, `
        SELECT id, number, name, floor
        FROM rooms
        ORDER BY seq
    `)
}

// GetRoomsByFloor returns the rooms on one floor in insertion order.
func (r *Repository) GetRoomsByFloor(ctx context.Context, floor int) ([]models.Room, error) {
	return r.queryRooms(ctx, `
        SELECT id, number, name, floor
        FROM rooms
        WHERE floor = ?
        ORDER BY seq
    `, floor)
}

// Ping проверяет соединение с базой (readiness).
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ============================================================
// Helpers
// ============================================================

// queryRooms сначала читает все кабинеты и закрывает курсор, потом
// догружает расписания: соединение с базой одно.
func (r *Repository) queryRooms(ctx context.Context, query string, args ...any) ([]models.Room, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	rooms := []models.Room{}
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.ID, &room.Number, &room.Name, &room.Floor); err != nil {
			rows.Close()
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range rooms {
		items, err := r.loadSchedule(ctx, rooms[i].ID)
		if err != nil {
			return nil, err
		}
		rooms[i].Schedule = items
	}
	return rooms, nil
}

func (r *Repository) loadSchedule(ctx context.Context, roomID string) ([]models.ScheduleItem, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT time_range, subject, teacher, group_name
        FROM schedule_items
        WHERE room_id = ?
        ORDER BY position
    `, roomID)
	if err != nil {
		return nil, fmt.Errorf("load schedule %s: %w", roomID, err)
	}
	defer rows.Close()

	items := []models.ScheduleItem{}
	for rows.Next() {
		var it models.ScheduleItem
		if err := rows.Scan(&it.Time, &it.Subject, &it.Teacher, &it.Group); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context) error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	for _, e := range entries {
		data, err := migrations.ReadFile("migrations/" + e.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", e.Name(), err)
		}
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути; MemoryDSN или пустой
// путь дают базу в памяти.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	dsn := MemoryDSN
	if dbPath != "" && dbPath != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// база в памяти живёт, пока живо единственное соединение
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
	return db, nil
}
