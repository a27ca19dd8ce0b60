// write.go implements item creation, update, and deletion.
//
// Every write runs the pipeline first. Content that fails sanitization or
// validation never reaches the store; the caller gets ErrInvalid together
// with the result listing every violation. Extension events fire only after
// the store has committed.

package library

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/store"
	"github.com/jpl-au/blockd/internal/validate"
)

var (
	// ErrInvalid is returned when content fails the pipeline.
	ErrInvalid = errors.New("content is invalid")
	// ErrUnchanged is returned when an update would store an identical version.
	ErrUnchanged = errors.New("no changes")
)

// InvalidError carries the failing result. It matches ErrInvalid with
// errors.Is.
type InvalidError struct {
	Result validate.Result
}

func (e *InvalidError) Error() string {
	n := e.Result.ErrorCount()
	if n == 1 {
		return fmt.Sprintf("%s: 1 error", ErrInvalid)
	}
	return fmt.Sprintf("%s: %d errors", ErrInvalid, n)
}

func (e *InvalidError) Unwrap() error { return ErrInvalid }

// Create validates raw in create mode and stores it as a new item.
func (s *Service) Create(ctx context.Context, raw content.Raw, author, message string) (*content.Item, validate.Result, error) {
	res := s.pipeline.ValidateCreate(raw)
	data, ok := res.Data()
	if !ok {
		return nil, res, &InvalidError{Result: res}
	}

	it, err := content.New(data)
	if err != nil {
		return nil, res, fmt.Errorf("create: %w", err)
	}

	out, err := s.store.Write(ctx, it, writeOptions(author, message))
	if err != nil {
		return nil, res, fmt.Errorf("create: %w", err)
	}

	s.fireWrite(out)
	return out, res, nil
}

// Update validates raw in update mode and stores the latest version of key
// with every supplied field replaced. Returns ErrUnchanged if the update
// would not change the item.
func (s *Service) Update(ctx context.Context, key string, raw content.Raw, author, message string) (*content.Item, validate.Result, error) {
	res := s.pipeline.ValidateUpdate(raw)
	data, ok := res.Data()
	if !ok {
		return nil, res, &InvalidError{Result: res}
	}

	cur, err := s.store.Latest(ctx, key, false)
	if err != nil {
		return nil, res, fmt.Errorf("update %q: %w", key, err)
	}

	next := cur.Apply(data)
	if reflect.DeepEqual(cur.Data(), next.Data()) {
		return cur, res, fmt.Errorf("update %q: %w", key, ErrUnchanged)
	}

	out, err := s.store.Write(ctx, next, writeOptions(author, message))
	if err != nil {
		return nil, res, fmt.Errorf("update %q: %w", key, err)
	}

	s.fireWrite(out)
	return out, res, nil
}

// Delete soft-deletes every version of an item.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	s.fireEvent(extension.ItemDeleteEvent{Key: key})
	return nil
}

// Restore undeletes an item.
func (s *Service) Restore(ctx context.Context, key string) error {
	if err := s.store.Restore(ctx, key); err != nil {
		return fmt.Errorf("restore %q: %w", key, err)
	}

	it, err := s.store.Latest(ctx, key, false)
	if err != nil {
		return fmt.Errorf("retrieving restored item %q: %w", key, err)
	}
	s.fireEvent(extension.ItemRestoreEvent{Key: key, Version: it.Version})
	return nil
}

// Vacuum permanently removes deleted items. See store.Maintainer.Vacuum.
func (s *Service) Vacuum(ctx context.Context, olderThan *time.Duration) (int64, error) {
	return s.store.Vacuum(ctx, olderThan)
}

func (s *Service) fireWrite(it *content.Item) {
	s.fireEvent(extension.ItemWriteEvent{
		Key:     it.Key,
		Version: it.Version,
		Type:    it.Type,
		Blocks:  len(it.Blocks),
		Author:  it.Author,
		Message: it.Message,
	})
}

func writeOptions(author, message string) store.WriteOptions {
	if author == "" {
		author = DefaultAuthor
	}
	return store.WriteOptions{Author: author, Message: message}
}
