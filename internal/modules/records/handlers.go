package records

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
)

var ErrAdminOnly = errors.New("only an administrator can browse records")

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

type ListRecordsQuery struct {
	ActorID  int64
	Table    string
	Page     int
	PageSize int
}

func (q ListRecordsQuery) Validate() error {
	if q.Table == "" {
		return fmt.Errorf("invalid Table - '%s'", q.Table)
	}
	return nil
}

type GetRecordQuery struct {
	ActorID int64
	Table   string
	ID      int64
}

func (q GetRecordQuery) Validate() error {
	if q.Table == "" {
		return fmt.Errorf("invalid Table - '%s'", q.Table)
	}

	if q.ID <= 0 {
		return fmt.Errorf("invalid ID - '%d'", q.ID)
	}

	return nil
}

type DeleteRecordCommand struct {
	ActorID int64
	Table   string
	ID      int64
}

func (c DeleteRecordCommand) Validate() error {
	if c.Table == "" {
		return fmt.Errorf("invalid Table - '%s'", c.Table)
	}

	if c.ID <= 0 {
		return fmt.Errorf("invalid ID - '%d'", c.ID)
	}

	return nil
}

type UpdateRecordCommand struct {
	ActorID int64  `json:"-"`
	Table   string `json:"-"`
	ID      int64  `json:"-"`
	Column  string `json:"column"`
	Value   string `json:"value"`
}

func (c UpdateRecordCommand) Validate() error {
	if c.Table == "" {
		return fmt.Errorf("invalid Table - '%s'", c.Table)
	}

	if c.ID <= 0 {
		return fmt.Errorf("invalid ID - '%d'", c.ID)
	}

	if c.Column == "" {
		return fmt.Errorf("invalid Column - '%s'", c.Column)
	}

	return nil
}

func HandleListRecords(w http.ResponseWriter, r *http.Request) {
	query := ListRecordsQuery{
		ActorID: core.Session(r.Context()).UserID,
		Table:   chi.URLParam(r, "table"),
	}

	var err error
	if raw := r.URL.Query().Get("page"); raw != "" {
		if query.Page, err = strconv.Atoi(raw); err != nil {
			core.WriteBadRequest(w, r, fmt.Errorf("invalid format for query param 'page'"))
			return
		}
	}

	if raw := r.URL.Query().Get("size"); raw != "" {
		if query.PageSize, err = strconv.Atoi(raw); err != nil {
			core.WriteBadRequest(w, r, fmt.Errorf("invalid format for query param 'size'"))
			return
		}
	}

	page, err := mediator.Send[ListRecordsQuery, Page](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, page)
}

func HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "id")
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	query := GetRecordQuery{
		ActorID: core.Session(r.Context()).UserID,
		Table:   chi.URLParam(r, "table"),
		ID:      id,
	}

	record, err := mediator.Send[GetRecordQuery, Record](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, record)
}

func HandleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "id")
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command := DeleteRecordCommand{
		ActorID: core.Session(r.Context()).UserID,
		Table:   chi.URLParam(r, "table"),
		ID:      id,
	}

	if _, err := mediator.Send[DeleteRecordCommand, core.Unit](r.Context(), command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteNoContent(w, r)
}

func HandleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := core.URLParamID(r, "id")
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command, err := core.RequestBody[UpdateRecordCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command.ActorID = core.Session(r.Context()).UserID
	command.Table = chi.URLParam(r, "table")
	command.ID = id

	record, err := mediator.Send[UpdateRecordCommand, Record](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, record)
}

type ListRecordsQueryHandler struct {
	browser *Browser
	admins  AdminChecker
}

func NewListRecordsQueryHandler(browser *Browser, admins AdminChecker) *ListRecordsQueryHandler {
	return &ListRecordsQueryHandler{browser: browser, admins: admins}
}

func (h *ListRecordsQueryHandler) Handle(ctx context.Context, request ListRecordsQuery) (Page, error) {
	if err := authorize(ctx, h.admins, request.ActorID); err != nil {
		return Page{}, err
	}

	page, err := h.browser.List(ctx, request.Table, request.Page, request.PageSize)
	if err != nil {
		return Page{}, recordError(err)
	}

	return page, nil
}

type GetRecordQueryHandler struct {
	browser *Browser
	admins  AdminChecker
}

func NewGetRecordQueryHandler(browser *Browser, admins AdminChecker) *GetRecordQueryHandler {
	return &GetRecordQueryHandler{browser: browser, admins: admins}
}

func (h *GetRecordQueryHandler) Handle(ctx context.Context, request GetRecordQuery) (Record, error) {
	if err := authorize(ctx, h.admins, request.ActorID); err != nil {
		return nil, err
	}

	record, err := h.browser.Get(ctx, request.Table, request.ID)
	if err != nil {
		return nil, recordError(err)
	}

	return record, nil
}

type DeleteRecordCommandHandler struct {
	browser *Browser
	admins  AdminChecker
}

func NewDeleteRecordCommandHandler(browser *Browser, admins AdminChecker) *DeleteRecordCommandHandler {
	return &DeleteRecordCommandHandler{browser: browser, admins: admins}
}

func (h *DeleteRecordCommandHandler) Handle(ctx context.Context, request DeleteRecordCommand) (core.Unit, error) {
	if err := authorize(ctx, h.admins, request.ActorID); err != nil {
		return core.Unit{}, err
	}

	if err := h.browser.Delete(ctx, request.Table, request.ID); err != nil {
		return core.Unit{}, recordError(err)
	}

	return core.Unit{}, nil
}

type UpdateRecordCommandHandler struct {
	browser *Browser
	admins  AdminChecker
}

func NewUpdateRecordCommandHandler(browser *Browser, admins AdminChecker) *UpdateRecordCommandHandler {
	return &UpdateRecordCommandHandler{browser: browser, admins: admins}
}

func (h *UpdateRecordCommandHandler) Handle(ctx context.Context, request UpdateRecordCommand) (Record, error) {
	if err := authorize(ctx, h.admins, request.ActorID); err != nil {
		return nil, err
	}

	record, err := h.browser.Update(ctx, request.Table, request.ID, request.Column, request.Value)
	if err != nil {
		return nil, recordError(err)
	}

	return record, nil
}

func authorize(ctx context.Context, admins AdminChecker, actorID int64) error {
	isAdmin, err := admins.IsAdmin(ctx, actorID)
	if err != nil {
		return err
	}

	if !isAdmin {
		return core.Forbidden(ErrAdminOnly)
	}

	return nil
}

func recordError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownTable), errors.Is(err, ErrRecordNotFound):
		return core.NotFound(err)
	case errors.Is(err, ErrUnknownColumn), errors.Is(err, ErrInvalidValue):
		return core.NewCommandError(400, err)
	case errors.Is(err, ErrRecordReferenced):
		return core.Conflict(err, core.WithReason("delete or update the referencing records first"))
	}
	return err
}
