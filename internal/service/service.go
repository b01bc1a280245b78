package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-catalog-api/internal/constraint"
	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/ws"
	"go-catalog-api/pkg/apperror"
	"go-catalog-api/pkg/validator"

	"gorm.io/gorm"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID       uint
	Username string
	Role     model.Role
}

// Context tags ctx with the actor so audit columns record them.
func (a Actor) Context(ctx context.Context) context.Context {
	if a.ID == 0 {
		return ctx
	}
	return model.WithActor(ctx, a.ID)
}

// CanModify enforces row ownership for plain users.
func (a Actor) CanModify(owner uint) error {
	if a.Role.BypassesOwnership() || owner == a.ID {
		return nil
	}
	return apperror.Forbidden("You can only modify your own resources")
}

func (a Actor) event(entity, action string, id uint, name string) ws.Event {
	e := ws.Event{Entity: entity, Action: action, ID: id, Name: name}
	who := "system"
	if a.ID != 0 {
		who = a.Username
		e.User = &ws.EventUser{ID: a.ID, Username: a.Username}
	}
	e.Message = fmt.Sprintf("%s %s %s '%s'", who, action, entity, name)
	return e
}

// BaseInput carries the fields every create request accepts.
type BaseInput struct {
	IsActive *bool `json:"is_active"`
	Sequence *int  `json:"sequence" validate:"omitempty,gte=0"`
}

// init fills a new row: active unless the request says otherwise.
func (in BaseInput) init(base *model.BaseModel) {
	base.IsActive = true
	in.apply(base)
}

func (in BaseInput) apply(base *model.BaseModel) {
	if in.IsActive != nil {
		base.IsActive = *in.IsActive
	}
	if in.Sequence != nil {
		base.Sequence = *in.Sequence
	}
}

// indexPath turns "items[0].price" into "items.0.price".
var indexPath = strings.NewReplacer("[", ".", "]", "")

func validate(req interface{}) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	details := make([]apperror.Detail, 0, len(errs))
	for _, e := range errs {
		path := indexPath.Replace(e.FailedField)
		details = append(details, apperror.Detail{
			Loc:  append([]string{"body"}, strings.Split(path, ".")...),
			Msg:  e.Message(),
			Type: e.Type(),
		})
	}
	return apperror.Validation(details...)
}

func valueError(field, msg string) error {
	return apperror.Validation(apperror.BodyDetail(field, msg, "value_error"))
}

func notFound(entity string, id uint) error {
	return apperror.NotFound("%s with id %d not found", entity, id)
}

// lookupError turns a missing row into a 404 and passes other errors through.
func lookupError(err error, entity string, id uint) error {
	if repository.IsNotFound(err) {
		return notFound(entity, id)
	}
	return err
}

// writeError maps errors raised while writing rows to API errors.
func writeError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.As(err); ok {
		return err
	}

	var fe *constraint.FieldError
	switch {
	case errors.As(err, &fe):
		return valueError(fe.Column, fe.Message)
	case errors.Is(err, model.ErrTopLevelNeedsType), errors.Is(err, model.ErrChildHasType):
		return valueError("category_type_id", err.Error())
	case errors.Is(err, model.ErrEmptyImageFile), errors.Is(err, model.ErrImageFileFormat):
		return valueError("file", err.Error())
	case errors.Is(err, model.ErrEmptyValue):
		return valueError("value", err.Error())
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.BadRequest("%s already exists", entity)
	}
	return err
}

// formatIDs renders ids the way error messages list them: [1, 2, 3].
func formatIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
