package api

import (
	"net/http"

	"github.com/memobit/labsql/dialect"
)

// lookupController serves the small id/name tables (clinics, categories).
type lookupController struct {
	table string
	noun  string
}

func (c *lookupController) endpoints(s *Server, prefix string) []APIEndpoint {
	del := func(r *http.Request) (any, error) { return c.delete(s, r) }

	return []APIEndpoint{
		{Path: prefix, Get: func(r *http.Request) (any, error) { return c.index(s, r) }},
		{Path: prefix + "/get/{id:[0-9]+}", Get: func(r *http.Request) (any, error) { return c.get(s, r) }},
		{Path: prefix + "/add", Post: func(r *http.Request) (any, error) { return c.add(s, r) }},
		{Path: prefix + "/update", Post: func(r *http.Request) (any, error) { return c.update(s, r) }},
		{Path: prefix + "/delete/{id:[0-9]+}", Get: del, Post: del},
	}
}

func (c *lookupController) index(s *Server, r *http.Request) (any, error) {
	rows, err := s.db.Builder().
		Columns("id", "name").
		Asc("name").
		Get(r.Context(), c.table)
	if err != nil {
		return nil, err
	}

	return dataResponse(rows), nil
}

func (c *lookupController) get(s *Server, r *http.Request) (any, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}

	row, err := s.db.Builder().Where(dialect.Eq("id", id)).GetRow(r.Context(), c.table)
	if err != nil {
		return nil, err
	}

	return dataResponse(row), nil
}

func (c *lookupController) add(s *Server, r *http.Request) (any, error) {
	body, err := decodeObject(r)
	if err != nil {
		return nil, err
	}

	err = require(body, "name")
	if err != nil {
		return nil, err
	}

	id, err := s.db.Builder().Insert(r.Context(), c.table, pick(body, "name"))
	if err != nil {
		return nil, err
	}

	return createdResponse(c.noun+" saved successfully", id), nil
}

func (c *lookupController) update(s *Server, r *http.Request) (any, error) {
	body, err := decodeObject(r)
	if err != nil {
		return nil, err
	}

	err = require(body, "id", "name")
	if err != nil {
		return nil, err
	}

	id, err := toInt64(body["id"])
	if err != nil {
		return nil, badRequest("Invalid id: %v", err)
	}

	_, err = s.db.Builder().Where(dialect.Eq("id", id)).Update(r.Context(), c.table, pick(body, "name"))
	if err != nil {
		return nil, err
	}

	return okMessage(c.noun + " saved successfully"), nil
}

func (c *lookupController) delete(s *Server, r *http.Request) (any, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Builder().Where(dialect.Eq("id", id)).Delete(r.Context(), c.table)
	if err != nil {
		return nil, err
	}

	return okMessage(c.noun + " deleted successfully"), nil
}
