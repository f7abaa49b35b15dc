package backend

import (
	"context"

	"bitbucket.org/fieldfocus/punchlist_backend/utils"
)

// SelectInto runs a filtered select and decodes the JSON array into rows of T.
func SelectInto[T any](ctx context.Context, c *Client, p SelectParams) ([]T, error) {
	data, err := c.Select(ctx, p)
	if err != nil {
		return nil, err
	}
	var rows []T
	if err := utils.UnmarshalFromJSON(data, &rows); err != nil {
		return nil, &utils.BackendError{Op: "decode " + p.Table, Body: err.Error()}
	}
	return rows, nil
}

// InsertReturning inserts rows and decodes the store's representation of
// them, including generated ids and timestamps.
func InsertReturning[T any](ctx context.Context, c *Client, table string, rows any) ([]T, error) {
	data, err := c.Insert(ctx, table, rows, true)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := utils.UnmarshalFromJSON(data, &out); err != nil {
		return nil, &utils.BackendError{Op: "decode " + table, Body: err.Error()}
	}
	return out, nil
}

// UpsertReturning merges rows on the conflict column set and decodes the
// stored result.
func UpsertReturning[T any](ctx context.Context, c *Client, table string, rows any, conflictCols []string) ([]T, error) {
	data, err := c.Upsert(ctx, table, rows, conflictCols)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := utils.UnmarshalFromJSON(data, &out); err != nil {
		return nil, &utils.BackendError{Op: "decode " + table, Body: err.Error()}
	}
	return out, nil
}
