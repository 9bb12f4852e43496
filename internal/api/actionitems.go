package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/riordanpawley/vantage/internal/domain"
)

// BoardResponse groups action items by column
type BoardResponse struct {
	Todo       []domain.Task `json:"todo"`
	InProgress []domain.Task `json:"in_progress"`
	Completed  []domain.Task `json:"completed"`
}

// Column returns the tasks for a column
func (b BoardResponse) Column(col domain.Column) []domain.Task {
	switch col {
	case domain.ColumnTodo:
		return b.Todo
	case domain.ColumnInProgress:
		return b.InProgress
	case domain.ColumnCompleted:
		return b.Completed
	default:
		return nil
	}
}

// BulkMoveRequest persists new board placements
type BulkMoveRequest struct {
	Items []domain.BoardPlacement `json:"items"`
}

// BulkMoveResult reports how many placements were stored
type BulkMoveResult struct {
	Updated int `json:"updated"`
}

// ListActionItems lists action items, optionally filtered by column
func (c *Client) ListActionItems(ctx context.Context, token string, column domain.Column) ([]domain.Task, error) {
	var q url.Values
	if column != "" {
		q = url.Values{"status": {string(column)}}
	}
	var tasks []domain.Task
	err := c.do(ctx, call{
		op:       "list action items",
		method:   http.MethodGet,
		path:     "/action-items",
		query:    q,
		token:    token,
		fallback: "Failed to load action items",
	}, &tasks)
	return tasks, err
}

// GetActionItem fetches a single action item
func (c *Client) GetActionItem(ctx context.Context, token, id string) (domain.Task, error) {
	var task domain.Task
	err := c.do(ctx, call{
		op:       "get action item",
		method:   http.MethodGet,
		path:     "/action-items/" + url.PathEscape(id),
		token:    token,
		fallback: "Failed to load action item",
	}, &task)
	return task, err
}

// CreateActionItem creates an action item
func (c *Client) CreateActionItem(ctx context.Context, token string, task domain.NewTask) (domain.Task, error) {
	var created domain.Task
	err := c.do(ctx, call{
		op:       "create action item",
		method:   http.MethodPost,
		path:     "/action-items",
		token:    token,
		body:     task,
		fallback: "Failed to create action item",
	}, &created)
	return created, err
}

// UpdateActionItem applies a partial update to an action item
func (c *Client) UpdateActionItem(ctx context.Context, token, id string, patch domain.TaskPatch) (domain.Task, error) {
	var updated domain.Task
	err := c.do(ctx, call{
		op:       "update action item",
		method:   http.MethodPatch,
		path:     "/action-items/" + url.PathEscape(id),
		token:    token,
		body:     patch,
		fallback: "Failed to update action item",
	}, &updated)
	return updated, err
}

// DeleteActionItem deletes an action item
func (c *Client) DeleteActionItem(ctx context.Context, token, id string) error {
	return c.do(ctx, call{
		op:       "delete action item",
		method:   http.MethodDelete,
		path:     "/action-items/" + url.PathEscape(id),
		token:    token,
		fallback: "Failed to delete action item",
	}, nil)
}

// GetBoard fetches all action items grouped by column, in position order
func (c *Client) GetBoard(ctx context.Context, token string) (BoardResponse, error) {
	var board BoardResponse
	err := c.do(ctx, call{
		op:       "get board",
		method:   http.MethodGet,
		path:     "/action-items/board",
		token:    token,
		fallback: "Failed to load action plan",
	}, &board)
	return board, err
}

// BulkMoveActionItems stores column and position for several items at once
func (c *Client) BulkMoveActionItems(ctx context.Context, token string, placements []domain.BoardPlacement) (BulkMoveResult, error) {
	var res BulkMoveResult
	err := c.do(ctx, call{
		op:       "bulk move action items",
		method:   http.MethodPost,
		path:     "/action-items/bulk-move",
		token:    token,
		body:     BulkMoveRequest{Items: placements},
		fallback: "Failed to save board order",
	}, &res)
	return res, err
}

// AddActionItemNote appends a note to an action item
func (c *Client) AddActionItemNote(ctx context.Context, token, id, body string) (domain.Note, error) {
	var note domain.Note
	err := c.do(ctx, call{
		op:       "add note",
		method:   http.MethodPost,
		path:     "/action-items/" + url.PathEscape(id) + "/notes",
		token:    token,
		body:     map[string]string{"body": body},
		fallback: "Failed to add note",
	}, &note)
	return note, err
}
