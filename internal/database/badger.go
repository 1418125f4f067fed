package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"careerhub/server/internal/messaging"
	"careerhub/server/internal/models"

	"github.com/dgraph-io/badger/v4"
)

// OpenBadger opens (or creates) the embedded store at path.
func OpenBadger(path string) (*badger.DB, error) {
	return badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR))
}

// markReadAttempts bounds how often MarkRead reruns after a write conflict
// with a concurrent transaction.
const markReadAttempts = 64

// BadgerMessageStore keeps each message under "msg:{id}" and writes two
// index keys in the same transaction:
//
//	sender:{len(senderID)}:{senderID}:{id}
//	receiver:{len(receiverID)}:{receiverID}:{id}
//
// The length prefix keeps ids containing ':' from sharing a prefix with
// shorter ids. Index keys carry no value; lookups scan the prefix and load
// the records.
type BadgerMessageStore struct {
	db *badger.DB
}

func NewBadgerMessageStore(db *badger.DB) *BadgerMessageStore {
	return &BadgerMessageStore{db: db}
}

func messageKey(id string) []byte {
	return []byte("msg:" + id)
}

func indexPrefix(role, userID string) []byte {
	return []byte(fmt.Sprintf("%s:%d:%s:", role, len(userID), userID))
}

func (s *BadgerMessageStore) Append(_ context.Context, message models.Message) (models.Message, error) {
	if message.SenderID == message.ReceiverID {
		return models.Message{}, messaging.ErrSelfMessage
	}
	message.Read = false
	bytes, err := json.Marshal(message)
	if err != nil {
		return models.Message{}, err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(messageKey(message.ID)); err == nil {
			return fmt.Errorf("message %s already exists", message.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(messageKey(message.ID), bytes); err != nil {
			return err
		}
		if err := txn.Set(append(indexPrefix("sender", message.SenderID), message.ID...), []byte{}); err != nil {
			return err
		}
		return txn.Set(append(indexPrefix("receiver", message.ReceiverID), message.ID...), []byte{})
	})
	if err != nil {
		return models.Message{}, err
	}
	return message, nil
}

func (s *BadgerMessageStore) FindBySender(_ context.Context, userID string) ([]models.Message, error) {
	return s.scan(indexPrefix("sender", userID), func(m models.Message) bool { return m.SenderID == userID })
}

func (s *BadgerMessageStore) FindByReceiver(_ context.Context, userID string) ([]models.Message, error) {
	return s.scan(indexPrefix("receiver", userID), func(m models.Message) bool { return m.ReceiverID == userID })
}

func (s *BadgerMessageStore) Get(_ context.Context, messageID string) (models.Message, error) {
	var message models.Message
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		message, err = getMessage(txn, messageID)
		return err
	})
	return message, err
}

// MarkRead reruns the whole transaction on badger.ErrConflict: the read flag
// only moves to true, so a rerun converges and counts only its own transitions.
func (s *BadgerMessageStore) MarkRead(_ context.Context, messageIDs []string) (int, error) {
	var count int
	var err error
	for attempt := 0; attempt < markReadAttempts; attempt++ {
		count, err = s.markRead(messageIDs)
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *BadgerMessageStore) markRead(messageIDs []string) (int, error) {
	count := 0
	err := s.db.Update(func(txn *badger.Txn) error {
		count = 0
		for _, id := range messageIDs {
			message, err := getMessage(txn, id)
			if errors.Is(err, messaging.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if message.Read {
				continue
			}
			message.Read = true
			bytes, err := json.Marshal(message)
			if err != nil {
				return err
			}
			if err := txn.Set(messageKey(id), bytes); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// scan loads every record indexed under prefix. An index entry without its
// record, or pointing at another user's message, means the store is corrupt.
func (s *BadgerMessageStore) scan(prefix []byte, owns func(models.Message) bool) ([]models.Message, error) {
	messages := make([]models.Message, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id := string(it.Item().Key()[len(prefix):])
			message, err := getMessage(txn, id)
			if errors.Is(err, messaging.ErrNotFound) {
				return fmt.Errorf("corrupt index %s: no record for message %s", prefix, id)
			}
			if err != nil {
				return err
			}
			if !owns(message) {
				return fmt.Errorf("corrupt index %s: message %s belongs to another user", prefix, id)
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func getMessage(txn *badger.Txn, id string) (models.Message, error) {
	item, err := txn.Get(messageKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.Message{}, fmt.Errorf("%w: %s", messaging.ErrMessageNotFound, id)
	}
	if err != nil {
		return models.Message{}, err
	}
	var message models.Message
	err = item.Value(func(value []byte) error {
		return json.Unmarshal(value, &message)
	})
	return message, err
}

// BadgerDirectory stores profiles under "user:{id}". It stands in for the
// account service when the embedded driver is used.
type BadgerDirectory struct {
	db *badger.DB
}

func NewBadgerDirectory(db *badger.DB) *BadgerDirectory {
	return &BadgerDirectory{db: db}
}

func profileKey(id string) []byte {
	return []byte("user:" + id)
}

func (d *BadgerDirectory) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	var profile *models.Profile
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			profile = &models.Profile{}
			return json.Unmarshal(value, profile)
		})
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (d *BadgerDirectory) PutProfile(profile models.Profile) error {
	if profile.ID == "" {
		return fmt.Errorf("profile id is required")
	}
	bytes, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(profile.ID), bytes)
	})
}

// SeedProfiles loads a JSON array of profiles from path into the directory.
func (d *BadgerDirectory) SeedProfiles(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var profiles []models.Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return 0, fmt.Errorf("invalid profiles file %s: %w", path, err)
	}
	for _, profile := range profiles {
		if err := d.PutProfile(profile); err != nil {
			return 0, err
		}
	}
	return len(profiles), nil
}
