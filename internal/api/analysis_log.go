package api

import (
	"net/http"

	"github.com/memobit/labsql"
	"github.com/memobit/labsql/dialect"
)

var analysisLogFields = []string{"analysisId", "date", "clinicId", "value", "reference", "notes"}

func (s *Server) analysisLogEndpoints() []APIEndpoint {
	return []APIEndpoint{
		{Path: "/analysisLog", Get: s.analysisLogIndex},
		{Path: "/analysisLog/get/{id:[0-9]+}", Get: s.analysisLogGet},
		{Path: "/analysisLog/getByType/{id:[0-9]+}", Get: s.analysisLogByType},
		{Path: "/analysisLog/add", Post: s.analysisLogAdd},
		{Path: "/analysisLog/addOne", Post: s.analysisLogAddOne},
		{Path: "/analysisLog/updateOne/{id:[0-9]+}", Post: s.analysisLogUpdateOne},
		{Path: "/analysisLog/delete/{id:[0-9]+}", Get: s.analysisLogDelete, Post: s.analysisLogDelete},
	}
}

// analysisLogQuery is the joined projection shared by every log read.
func (s *Server) analysisLogQuery() labsql.Builder {
	return s.db.Builder().
		Columns(
			"mal.id as analysisLogId", "analysisId", "date", "analysisName", "categoryId", "clinicId", "value",
			"unitId", "optimalRangeMin", "optimalRangeMax",
			"mc.name as categoryName", "mu.name as unitName", "mcl.name as clinicName",
			"mal.reference as userReference", "ma.reference as optimalReference", "notes",
		).
		LeftJoin("medical_analysis AS ma", "mal.analysisId", "=", "ma.id").
		LeftJoin("medical_categories AS mc", "ma.categoryId", "=", "mc.id").
		LeftJoin("medical_units AS mu", "ma.unitId", "=", "mu.id").
		LeftJoin("medical_clinics AS mcl", "mal.clinicId", "=", "mcl.id").
		Desc("date")
}

func notNull(v any) bool {
	return v != nil
}

func (s *Server) analysisLogIndex(r *http.Request) (any, error) {
	rows, err := s.analysisLogQuery().Get(r.Context(), "medical_analysis_log AS mal")
	if err != nil {
		return nil, err
	}

	return dataResponse(packRows(rows, notNull)), nil
}

func (s *Server) analysisLogGet(r *http.Request) (any, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}

	row, err := s.analysisLogQuery().Where(dialect.Eq("mal.id", id)).GetRow(r.Context(), "medical_analysis_log AS mal")
	if err != nil {
		return nil, err
	}

	if row == nil {
		return dataResponse(nil), nil
	}

	return dataResponse(packRows([]labsql.Row{*row}, notNull)[0]), nil
}

func (s *Server) analysisLogByType(r *http.Request) (any, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}

	rows, err := s.analysisLogQuery().Where(dialect.Eq("ma.id", id)).Get(r.Context(), "medical_analysis_log AS mal")
	if err != nil {
		return nil, err
	}

	return dataResponse(packRows(rows, notNull)), nil
}

// analysisLogAdd stores a batch of results. The batch is all-or-nothing: a
// failing entry rolls back the ones before it.
func (s *Server) analysisLogAdd(r *http.Request) (any, error) {
	var entries []map[string]any
	err := decodeBody(r, &entries)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, badRequest("No results to save")
	}

	ids := make([]int64, 0, len(entries))
	err = s.db.Transaction(r.Context(), func(tx *labsql.Tx) error {
		for _, entry := range entries {
			id, err := tx.Builder().Insert(r.Context(), "medical_analysis_log", pick(entry, analysisLogFields...))
			if err != nil {
				return err
			}

			ids = append(ids, id)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return createdResponse("Analysis log saved successfully", ids), nil
}

func (s *Server) analysisLogAddOne(r *http.Request) (any, error) {
	body, err := decodeObject(r)
	if err != nil {
		return nil, err
	}

	id, err := s.db.Builder().Insert(r.Context(), "medical_analysis_log", pick(body, analysisLogFields...))
	if err != nil {
		return nil, err
	}

	return createdResponse("Analysis log saved successfully", id), nil
}

func (s *Server) analysisLogUpdateOne(r *http.Request) (any, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}

	body, err := decodeObject(r)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Builder().
		Where(dialect.Eq("id", id)).
		Update(r.Context(), "medical_analysis_log", pickPresent(body, analysisLogFields...))
	if err != nil {
		return nil, err
	}

	return okMessage("Analysis log updated successfully"), nil
}

func (s *Server) analysisLogDelete(r *http.Request) (any, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Builder().Where(dialect.Eq("id", id)).Delete(r.Context(), "medical_analysis_log")
	if err != nil {
		return nil, err
	}

	return okMessage("Analysis log deleted successfully"), nil
}
