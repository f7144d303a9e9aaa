package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"busops/internal/domain"
	"busops/internal/domain/models"
	"busops/internal/services"
)

// ListRecords returns every record of the collection.
func ListRecords[T any, PT interface {
	*T
	models.Record
}](col *services.Collection[T, PT]) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := col.List(c.Request.Context())
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func GetRecord[T any, PT interface {
	*T
	models.Record
}](col *services.Collection[T, PT]) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := col.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// CreateRecord decodes the body into a new record. Client-supplied ids and
// timestamps are replaced.
func CreateRecord[T any, PT interface {
	*T
	models.Record
}](col *services.Collection[T, PT]) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := readBody(c)
		if !ok {
			return
		}
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			RespondDomainError(c, domain.ValidationError{Msg: "request body must be a JSON object with valid field types", Err: err})
			return
		}
		created, err := col.Create(c.Request.Context(), requestID(c), rec)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// UpdateRecord applies a partial update. The id comes from the path, the
// query string or the body.
func UpdateRecord[T any, PT interface {
	*T
	models.Record
}](col *services.Collection[T, PT]) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := readBody(c)
		if !ok {
			return
		}
		id := targetID(c, raw)
		if id == "" {
			RespondDomainError(c, domain.ValidationError{Field: "id", Msg: "is required"})
			return
		}
		updated, err := col.Update(c.Request.Context(), requestID(c), id, raw)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// DeleteRecord removes one record and echoes it back under the collection
// name.
func DeleteRecord[T any, PT interface {
	*T
	models.Record
}](col *services.Collection[T, PT]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := targetID(c, nil)
		if id == "" && c.Request.ContentLength > 0 {
			if raw, err := c.GetRawData(); err == nil {
				id = services.PatchID(raw)
			}
		}
		if id == "" {
			RespondDomainError(c, domain.ValidationError{Field: "id", Msg: "is required"})
			return
		}
		removed, err := col.Delete(c.Request.Context(), requestID(c), id)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": col.Name + " deleted",
			col.Name:  removed,
		})
	}
}

// MountCRUD registers list, get, create, update and delete on g. Writes go
// through guard.
func MountCRUD[T any, PT interface {
	*T
	models.Record
}](g *gin.RouterGroup, col *services.Collection[T, PT], list gin.HandlerFunc, guard ...gin.HandlerFunc) {
	if list == nil {
		list = ListRecords(col)
	}
	g.GET("", list)
	g.GET("/:id", GetRecord(col))
	g.POST("", chain(guard, CreateRecord(col))...)
	g.PUT("", chain(guard, UpdateRecord(col))...)
	g.PUT("/:id", chain(guard, UpdateRecord(col))...)
	g.DELETE("", chain(guard, DeleteRecord(col))...)
	g.DELETE("/:id", chain(guard, DeleteRecord(col))...)
}

func chain(guard []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guard)+1)
	out = append(out, guard...)
	return append(out, h)
}
