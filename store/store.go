// Package store is an in-memory data layer used to run the client without a
// network. Rooms and messages live in an in-memory Badger instance and are
// never written to disk.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"messenger/contract"
	"messenger/domain"
	"messenger/errors"

	"github.com/dgraph-io/badger/v4"
)

var _ contract.DataSource = (*Store)(nil)

const (
	roomPrefix    = "room:"
	messagePrefix = "msg:"
)

type roomRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Multiuser bool   `json:"multiuser"`
	Unread    int    `json:"unread"`
}

type messageRecord struct {
	ID       string    `json:"id"`
	Room     string    `json:"room"`
	SenderID string    `json:"sender_id"`
	Content  string    `json:"content"`
	At       time.Time `json:"at"`
}

type Store struct {
	mu         sync.Mutex
	db         *badger.DB
	log        *slog.Logger
	registry   *Registry
	seq        uint64
	bufferSize int
}

// Open starts an empty in-memory store.
// bufferSize is the capacity of every subscription channel.
func Open(log *slog.Logger, bufferSize int) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("opening in-memory badger: %w", err)
	}
	return &Store{db: db, log: log, registry: NewRegistry(), bufferSize: bufferSize}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// AddRoom lists a room after the ones already known.
func (s *Store) AddRoom(room domain.ChatRoom) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	key := fmt.Sprintf("%s%019d:%s", roomPrefix, s.seq, room.ID)
	bytes, err := json.Marshal(roomRecord{
		ID:        string(room.ID),
		Name:      room.Name,
		Avatar:    room.Avatar,
		Multiuser: room.Multiuser,
		Unread:    room.UnreadCount,
	})
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// ListRooms returns the rooms in the order they were added.
// The preview of each room is its newest message.
func (s *Store) ListRooms(_ context.Context) ([]domain.ChatRoom, error) {
	var rooms []domain.ChatRoom
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(roomPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record roomRecord
			if err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &record)
			}); err != nil {
				return err
			}
			room := domain.ChatRoom{
				ID:          domain.RoomID(record.ID),
				Name:        record.Name,
				Avatar:      record.Avatar,
				Multiuser:   record.Multiuser,
				UnreadCount: record.Unread,
			}
			last, ok, err := newest(txn, room.ID)
			if err != nil {
				return err
			}
			if ok {
				room = room.WithPreview(last)
			}
			rooms = append(rooms, room)
		}
		return nil
	})
	return rooms, err
}

// AppendMessage stores message at the end of its room and publishes it to subscribers.
func (s *Store) AppendMessage(message domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasRoom(message.RoomID) {
		return fmt.Errorf("%w: %s", errors.ErrUnknownRoom, message.RoomID)
	}
	s.seq++
	key := fmt.Sprintf("%s%s:%019d", messagePrefix, message.RoomID, s.seq)
	bytes, err := json.Marshal(messageRecord{
		ID:       string(message.ID),
		Room:     string(message.RoomID),
		SenderID: string(message.SenderID),
		Content:  message.Content,
		At:       message.Timestamp,
	})
	if err != nil {
		return err
	}
	if err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	}); err != nil {
		return err
	}
	s.registry.Publish(message)
	return nil
}

// History returns the messages of the room in append order.
func (s *Store) History(_ context.Context, roomID domain.RoomID) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(fmt.Sprintf("%s%s:", messagePrefix, roomID))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			message, err := decodeMessage(it.Item())
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	return messages, err
}

func (s *Store) Subscribe(ctx context.Context, roomID domain.RoomID) (<-chan domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasRoom(roomID) {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownRoom, roomID)
	}
	s.log.Debug("New subscription", "room", roomID)
	return s.registry.Subscribe(ctx, roomID, s.bufferSize), nil
}

func (s *Store) hasRoom(roomID domain.RoomID) bool {
	found := false
	_ = s.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		suffix := ":" + string(roomID)
		prefix := []byte(roomPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			if len(key) >= len(suffix) && key[len(key)-len(suffix):] == suffix {
				found = true
				return nil
			}
		}
		return nil
	})
	return found
}

// newest reads the last message of a room with a reverse prefix scan.
func newest(txn *badger.Txn, roomID domain.RoomID) (domain.ChatMessage, bool, error) {
	options := badger.DefaultIteratorOptions
	options.Reverse = true
	it := txn.NewIterator(options)
	defer it.Close()

	prefix := []byte(fmt.Sprintf("%s%s:", messagePrefix, roomID))
	// Keys sort by padded sequence, seek past the greatest one
	it.Seek(append(append([]byte{}, prefix...), []byte("9999999999999999999")...))
	if !it.ValidForPrefix(prefix) {
		return domain.ChatMessage{}, false, nil
	}
	message, err := decodeMessage(it.Item())
	return message, err == nil, err
}

func decodeMessage(item *badger.Item) (domain.ChatMessage, error) {
	var record messageRecord
	if err := item.Value(func(v []byte) error {
		return json.Unmarshal(v, &record)
	}); err != nil {
		return domain.ChatMessage{}, err
	}
	return domain.ChatMessage{
		ID:        domain.MessageID(record.ID),
		RoomID:    domain.RoomID(record.Room),
		SenderID:  domain.UserID(record.SenderID),
		Content:   record.Content,
		Timestamp: record.At,
	}, nil
}
