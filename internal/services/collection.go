package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"busops/internal/domain"
	"busops/internal/domain/models"
	"busops/internal/store"
	"busops/internal/utils"
)

// Collection is the CRUD service for one entity collection of the document.
// Every write goes through a single store mutation, so checks made in Check
// and AfterCreate are atomic with the write itself.
type Collection[T any, PT interface {
	*T
	models.Record
}] struct {
	Name  string
	Store *store.Store
	Slice func(*models.Document) *[]T

	// Prepare runs before the mutation on a new record.
	Prepare func(rec PT) error
	// PreparePatch runs before the mutation on an update patch. Keys for
	// id and timestamps have already been removed.
	PreparePatch func(patch map[string]json.RawMessage) error
	// Check runs inside the mutation against the document being written.
	Check func(doc *models.Document, rec PT) error
	// AfterCreate runs inside the mutation after the record is appended.
	AfterCreate func(requestID string, doc *models.Document, rec T)
	// View shapes every record returned to callers.
	View func(T) T

	Now   func() time.Time
	NewID func() string
}

func (c *Collection[T, PT]) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Collection[T, PT]) newID() string {
	if c.NewID != nil {
		return c.NewID()
	}
	return uuid.NewString()
}

func (c *Collection[T, PT]) view(rec T) T {
	if c.View != nil {
		return c.View(rec)
	}
	return rec
}

func (c *Collection[T, PT]) notFound(id string) error {
	return domain.NotFoundError{Resource: c.Name, ID: id}
}

func (c *Collection[T, PT]) List(ctx context.Context) ([]T, error) {
	doc, err := c.Store.Read(ctx)
	if err != nil {
		return nil, err
	}
	items := *c.Slice(doc)
	out := make([]T, 0, len(items))
	for _, it := range items {
		out = append(out, c.view(it))
	}
	return out, nil
}

func (c *Collection[T, PT]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := c.Store.Read(ctx)
	if err != nil {
		return zero, err
	}
	i := indexOf[T, PT](*c.Slice(doc), id)
	if i < 0 {
		return zero, c.notFound(id)
	}
	return c.view((*c.Slice(doc))[i]), nil
}

func (c *Collection[T, PT]) Create(ctx context.Context, requestID string, rec T) (T, error) {
	var zero T
	p := PT(&rec)
	if c.Prepare != nil {
		if err := c.Prepare(p); err != nil {
			return zero, err
		}
	}
	p.Base().Init(c.newID(), c.now())
	p.ApplyDefaults()
	if err := models.Validate(p); err != nil {
		return zero, err
	}

	_, err := c.Store.Mutate(ctx, func(doc *models.Document) error {
		if c.Check != nil {
			if err := c.Check(doc, p); err != nil {
				return err
			}
		}
		items := c.Slice(doc)
		*items = append(*items, rec)
		if c.AfterCreate != nil {
			c.AfterCreate(requestID, doc, rec)
		}
		return nil
	})
	if err != nil {
		return zero, err
	}
	utils.LogEvent(requestID, c.Name, "create", "id="+p.Base().ID)
	return c.view(rec), nil
}

// Update merges a partial JSON object into the stored record. id and
// createdAt never change; updatedAt is refreshed.
func (c *Collection[T, PT]) Update(ctx context.Context, requestID, id string, raw []byte) (T, error) {
	var zero T
	patch, err := decodePatch(raw)
	if err != nil {
		return zero, err
	}
	if c.PreparePatch != nil {
		if err := c.PreparePatch(patch); err != nil {
			return zero, err
		}
	}
	body, err := json.Marshal(patch)
	if err != nil {
		return zero, err
	}

	var updated T
	_, err = c.Store.Mutate(ctx, func(doc *models.Document) error {
		items := c.Slice(doc)
		i := indexOf[T, PT](*items, id)
		if i < 0 {
			return c.notFound(id)
		}
		next := (*items)[i]
		p := PT(&next)
		keepID, createdAt := p.Base().ID, p.Base().CreatedAt
		if err := json.Unmarshal(body, p); err != nil {
			return domain.ValidationError{Msg: "invalid field type", Err: err}
		}
		p.Base().ID, p.Base().CreatedAt = keepID, createdAt
		p.Base().Touch(c.now())
		p.ApplyDefaults()
		if err := models.Validate(p); err != nil {
			return err
		}
		if c.Check != nil {
			if err := c.Check(doc, p); err != nil {
				return err
			}
		}
		(*items)[i] = next
		updated = next
		return nil
	})
	if err != nil {
		return zero, err
	}
	utils.LogEvent(requestID, c.Name, "update", "id="+id)
	return c.view(updated), nil
}

func (c *Collection[T, PT]) Delete(ctx context.Context, requestID, id string) (T, error) {
	var removed T
	_, err := c.Store.Mutate(ctx, func(doc *models.Document) error {
		items := c.Slice(doc)
		i := indexOf[T, PT](*items, id)
		if i < 0 {
			return c.notFound(id)
		}
		removed = (*items)[i]
		*items = append((*items)[:i:i], (*items)[i+1:]...)
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	utils.LogEvent(requestID, c.Name, "delete", "id="+id)
	return c.view(removed), nil
}

func indexOf[T any, PT interface {
	*T
	models.Record
}](items []T, id string) int {
	for i := range items {
		if PT(&items[i]).Base().ID == id {
			return i
		}
	}
	return -1
}

var immutableKeys = []string{"id", "createdAt", "updatedAt"}

func decodePatch(raw []byte) (map[string]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, domain.ValidationError{Msg: "request body is empty"}
	}
	var patch map[string]json.RawMessage
	if err := json.Unmarshal(raw, &patch); err != nil || patch == nil {
		if err == nil {
			err = errors.New("null body")
		}
		return nil, domain.ValidationError{Msg: "request body must be a JSON object", Err: err}
	}
	for _, k := range immutableKeys {
		deleteFold(patch, k)
	}
	return patch, nil
}

// deleteFold removes every key matching name case-insensitively, the way
// encoding/json matches object keys to fields. It returns the last value
// removed.
func deleteFold(patch map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	var (
		last  json.RawMessage
		found bool
	)
	for k, v := range patch {
		if strings.EqualFold(k, name) {
			last, found = v, true
			delete(patch, k)
		}
	}
	return last, found
}

// PatchID extracts a body-embedded id, if any.
func PatchID(raw []byte) string {
	var probe struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.ID == nil {
		return ""
	}
	return fmt.Sprint(probe.ID)
}
