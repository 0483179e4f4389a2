package devlog

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"devlog-backend/internal/shared/utils"
)

// CreateLogRequest - POST /v1/logs
type CreateLogRequest struct {
	ProjectID uuid.UUID `json:"project_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	Important bool      `json:"important"`
}

func (r CreateLogRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProjectID, utils.RequiredUUID("project_id is required")),
		validation.Field(&r.AuthorID, utils.RequiredUUID("author_id is required")),
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
			validation.RuneLength(1, MaxContentLength).Error("content must be at most 256 characters"),
		),
	)
}

func (r CreateLogRequest) ToEntity() *Log {
	return &Log{
		ProjectID: r.ProjectID,
		AuthorID:  r.AuthorID,
		Content:   r.Content,
		Important: r.Important,
	}
}

// UpdateLogRequest - PATCH /v1/logs/:id
// Every non-nil field counts as changed, even when the value is the same.
type UpdateLogRequest struct {
	Content   *string    `json:"content,omitempty"`
	Important *bool      `json:"important,omitempty"`
	AuthorID  *uuid.UUID `json:"author_id,omitempty"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`

	// Fields are the keys present in the body, null values included
	Fields FieldSet `json:"-"`
}

func (r UpdateLogRequest) Validate() error {
	// A null author or project still names the field
	if r.Fields.Has(FieldProject) && r.ProjectID == nil {
		return &ImmutableFieldError{Field: string(FieldProject)}
	}
	if r.Fields.Has(FieldAuthor) && r.AuthorID == nil {
		return &ImmutableFieldError{Field: string(FieldAuthor)}
	}

	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Content,
			validation.RuneLength(0, MaxContentLength).Error("content must be at most 256 characters"),
		),
		validation.Field(&r.AuthorID, utils.RequiredUUID("author_id must not be empty")),
		validation.Field(&r.ProjectID, utils.RequiredUUID("project_id must not be empty")),
	); err != nil {
		return err
	}

	nulls := validation.Errors{}
	if r.Fields.Has(FieldContent) && r.Content == nil {
		nulls["content"] = validation.NewError("validation_not_null", "content must not be null")
	}
	if r.Fields.Has(FieldImportant) && r.Important == nil {
		nulls["important"] = validation.NewError("validation_not_null", "important must not be null")
	}
	return nulls.Filter()
}

// ChangedFields lists the fields present in the request
func (r UpdateLogRequest) ChangedFields() FieldSet {
	changed := NewFieldSet()
	for f := range r.Fields {
		changed.Add(f)
	}
	if r.Content != nil {
		changed.Add(FieldContent)
	}
	if r.Important != nil {
		changed.Add(FieldImportant)
	}
	if r.AuthorID != nil {
		changed.Add(FieldAuthor)
	}
	if r.ProjectID != nil {
		changed.Add(FieldProject)
	}
	return changed
}

// ApplyTo returns a copy of l with the request's fields set
func (r UpdateLogRequest) ApplyTo(l Log) *Log {
	if r.Content != nil {
		l.Content = *r.Content
	}
	if r.Important != nil {
		l.Important = *r.Important
	}
	if r.AuthorID != nil {
		l.AuthorID = *r.AuthorID
	}
	if r.ProjectID != nil {
		l.ProjectID = *r.ProjectID
	}
	return &l
}

// LogFilter narrows List; zero value lists every log
type LogFilter struct {
	ProjectID     *uuid.UUID
	AuthorID      *uuid.UUID
	ImportantOnly bool
}

// LogResponse - public log information
type LogResponse struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	AuthorID  uuid.UUID `json:"author_id"`
	ProjectID uuid.UUID `json:"project_id"`
	Date      time.Time `json:"date"`
	Content   string    `json:"content"`
	Important bool      `json:"important"`
}

func (l *Log) ToResponse() *LogResponse {
	return &LogResponse{
		ID:        l.ID,
		Slug:      l.Slug,
		AuthorID:  l.AuthorID,
		ProjectID: l.ProjectID,
		Date:      l.Date,
		Content:   l.Content,
		Important: l.Important,
	}
}

// UpdateLogResponse carries the stored log and the notifications its update produced
type UpdateLogResponse struct {
	Log           *LogResponse         `json:"log"`
	Notifications []ChangeNotification `json:"notifications"`
}
